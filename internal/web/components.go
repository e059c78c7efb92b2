package web

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"csvbrowse/internal/config"
	"csvbrowse/internal/view"
)

// PageData is everything the full page shows.
type PageData struct {
	Title   string
	Query   string
	Theme   config.Theme
	Model   view.DisplayModel
	Total   int
	Skipped int
}

// htmlWriter keeps the first write error so components read top to bottom.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) { h.raw(templ.EscapeString(s)) }

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err == nil {
		h.err = c.Render(ctx, h.w)
	}
}

// Page is the full HTML document with the search box and the table.
func Page(d PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\">")
		h.raw("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"><title>csvbrowse - ")
		h.text(d.Title)
		h.raw("</title><style>")
		h.raw(pageCSS)
		h.raw("</style></head><body class=\"")
		h.text(string(d.Theme))
		h.raw("\"><form id=\"search-form\" method=\"get\" action=\"/\">")
		h.raw("<input type=\"search\" id=\"search\" name=\"q\" placeholder=\"Search...\" autocomplete=\"off\" autofocus value=\"")
		h.text(d.Query)
		h.raw("\"></form><table id=\"data-table\">")
		h.component(ctx, TableHead(d.Model.Header))
		h.raw("<tbody id=\"rows\">")
		h.component(ctx, TableBody(d.Model))
		h.raw("</tbody></table><p id=\"summary\">")
		h.text(fmt.Sprintf("%d rows loaded, %d skipped", d.Total, d.Skipped))
		h.raw("</p><script>")
		h.raw(pageJS)
		h.raw("</script></body></html>")
		return h.err
	})
}

// TableHead renders one <th> per header.
func TableHead(header []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<thead><tr>")
		for _, c := range header {
			h.raw("<th>")
			h.text(c)
			h.raw("</th>")
		}
		h.raw("</tr></thead>")
		return h.err
	})
}

// TableBody renders the body rows, or the single placeholder row spanning
// every column.
func TableBody(dm view.DisplayModel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		if ph := dm.Placeholder; ph != nil {
			h.raw("<tr class=\"placeholder ")
			h.text(ph.Kind.String())
			h.raw("\"><td colspan=\"")
			h.raw(strconv.Itoa(ph.ColSpan))
			h.raw("\">")
			h.text(ph.Message)
			h.raw("</td></tr>")
			return h.err
		}
		for _, r := range dm.Rows {
			h.raw("<tr>")
			for _, cell := range r {
				h.raw("<td>")
				h.text(cell)
				h.raw("</td>")
			}
			h.raw("</tr>")
		}
		return h.err
	})
}

const pageCSS = `body{font-family:system-ui,sans-serif;margin:1.5rem}
body.dark{background:#111;color:#ddd}
#search{width:100%;max-width:32rem;padding:.4rem;margin-bottom:1rem}
table{border-collapse:collapse}
th,td{border:1px solid #8884;padding:.25rem .6rem;text-align:left}
th{font-weight:600}
tr.placeholder td{font-style:italic;opacity:.7}
tr.error td{color:#c33;font-style:normal;opacity:1}
#summary{opacity:.6;font-size:.85rem}`

// Every input event re-requests the body. Responses for superseded queries
// are dropped so the table always matches the latest input.
const pageJS = `(function(){
var input=document.getElementById('search');
var body=document.getElementById('rows');
var seq=0;
input.addEventListener('input',function(){
var n=++seq;
fetch('/rows?q='+encodeURIComponent(input.value)).then(function(r){return r.text();}).then(function(html){if(n===seq){body.innerHTML=html;}});
});
document.getElementById('search-form').addEventListener('submit',function(e){e.preventDefault();});
})();`
