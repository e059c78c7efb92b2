package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvbrowse/internal/app"
	"csvbrowse/internal/config"
	"csvbrowse/internal/ingest"
	"csvbrowse/internal/view"
)

type stubSource struct {
	text string
	err  error
}

func (s stubSource) Load(ctx context.Context, ref string) (string, error) { return s.text, s.err }

const products = "sku,name,price\nA1,Anker Cable,9.99\nB2,<b>Belkin</b> Hub,39.00\nbroken\nC3,Anker Charger,19.99\n"

func loadedServer(t *testing.T, text string, err error) *Server {
	t.Helper()
	ctrl := app.New(stubSource{text: text, err: err}, "products.csv", nil)
	_, _ = ctrl.OnStartup(context.Background())
	return NewServer(ctrl.Snapshot(), config.ThemeDark)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func document(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

// fragment wraps a <tbody> fragment so the HTML parser keeps the rows.
func fragment(t *testing.T, body string) *goquery.Document {
	return document(t, "<table><tbody>"+body+"</tbody></table>")
}

func TestPageRendersTable(t *testing.T) {
	s := loadedServer(t, products, nil)
	rec := get(t, s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	doc := document(t, rec.Body.String())
	var heads []string
	doc.Find("#data-table thead th").Each(func(_ int, sel *goquery.Selection) {
		heads = append(heads, sel.Text())
	})
	assert.Equal(t, []string{"sku", "name", "price"}, heads)
	assert.Equal(t, 3, doc.Find("tbody#rows tr").Length())
	assert.Equal(t, "<b>Belkin</b> Hub", doc.Find("tbody#rows tr").Eq(1).Find("td").Eq(1).Text(), "cell text is escaped")
	assert.Equal(t, 0, doc.Find("tbody#rows b").Length())
	assert.Equal(t, "3 rows loaded, 1 skipped", doc.Find("#summary").Text())
	assert.Contains(t, doc.Find("title").Text(), "products.csv")
	assert.True(t, doc.Find("body").HasClass("dark"))
}

func TestPageHonoursQuery(t *testing.T) {
	s := loadedServer(t, products, nil)
	doc := document(t, get(t, s, "/?q=ANKER").Body.String())

	val, _ := doc.Find("input#search").Attr("value")
	assert.Equal(t, "ANKER", val)
	rows := doc.Find("tbody#rows tr")
	require.Equal(t, 2, rows.Length())
	assert.Equal(t, "A1", rows.Eq(0).Find("td").First().Text())
	assert.Equal(t, "C3", rows.Eq(1).Find("td").First().Text())
}

func TestRowsFragmentNoMatch(t *testing.T) {
	s := loadedServer(t, products, nil)
	rec := get(t, s, "/rows?q=nothing")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := fragment(t, rec.Body.String())
	cells := doc.Find("tr td")
	require.Equal(t, 1, cells.Length())
	assert.Equal(t, view.NoMatchMessage, cells.Text())
	span, _ := cells.Attr("colspan")
	assert.Equal(t, "3", span)
	assert.True(t, doc.Find("tr").HasClass("no-match"))
}

func TestLoadErrorRow(t *testing.T) {
	s := loadedServer(t, "", &ingest.TransportError{Ref: "products.csv", Err: errors.New("gone")})
	doc := document(t, get(t, s, "/").Body.String())

	assert.Equal(t, 0, doc.Find("thead th").Length())
	cell := doc.Find("tbody#rows tr.error td")
	require.Equal(t, 1, cell.Length())
	assert.Equal(t, view.LoadErrorMessage, cell.Text())
	span, _ := cell.Attr("colspan")
	assert.Equal(t, "1", span)

	// searching does not replace the error row
	doc = fragment(t, get(t, s, "/rows?q=a").Body.String())
	assert.Equal(t, view.LoadErrorMessage, doc.Find("td").Text())
}

func TestAPIRows(t *testing.T) {
	s := loadedServer(t, products, nil)
	rec := get(t, s, "/api/rows?q=belkin")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var dm view.DisplayModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dm))
	assert.Equal(t, []string{"sku", "name", "price"}, dm.Header)
	assert.Equal(t, []view.Row{{"B2", "<b>Belkin</b> Hub", "39.00"}}, dm.Rows)
	assert.Nil(t, dm.Placeholder)

	rec = get(t, s, "/api/rows?q=zzz")
	assert.Contains(t, rec.Body.String(), `"rows":[]`)
	assert.Contains(t, rec.Body.String(), `"colspan":3`)
}

func TestHealthz(t *testing.T) {
	s := loadedServer(t, products, nil)
	rec := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, http.StatusNotFound, get(t, s, "/nope").Code)
}

func TestConcurrentQueries(t *testing.T) {
	s := loadedServer(t, products, nil)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	want := map[string]int{"": 3, "anker": 2, "belkin": 1, "zzz": 1, "9": 3}
	queries := make([]string, 0, len(want))
	for q := range want {
		queries = append(queries, q)
	}
	errc := make(chan error, 50)
	for i := 0; i < 50; i++ {
		q := queries[i%len(queries)]
		go func() {
			resp, err := http.Get(srv.URL + "/rows?q=" + q)
			if err != nil {
				errc <- err
				return
			}
			defer resp.Body.Close()
			b, err := io.ReadAll(resp.Body)
			if err != nil {
				errc <- err
				return
			}
			doc, err := goquery.NewDocumentFromReader(strings.NewReader("<table><tbody>" + string(b) + "</tbody></table>"))
			if err != nil {
				errc <- err
				return
			}
			if n := doc.Find("tr").Length(); n != want[q] {
				errc <- fmt.Errorf("query %q: got %d rows, want %d", q, n, want[q])
				return
			}
			errc <- nil
		}()
	}
	for i := 0; i < 50; i++ {
		assert.NoError(t, <-errc)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	s := loadedServer(t, products, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}
