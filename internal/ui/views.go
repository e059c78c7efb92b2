package ui

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-runewidth"

	"csvbrowse/internal/parse"
)

func overlay(base, overlay string) string {
	// Draw overlay on top of base by replacing lines where overlay has content.
	bLines := strings.Split(base, "\n")
	oLines := strings.Split(overlay, "\n")
	// Pad to same length
	maxLen := len(bLines)
	if len(oLines) > maxLen {
		maxLen = len(oLines)
	}
	for len(bLines) < maxLen {
		bLines = append(bLines, "")
	}
	for len(oLines) < maxLen {
		oLines = append(oLines, "")
	}
	out := make([]string, maxLen)
	for i := 0; i < maxLen; i++ {
		// Treat whitespace-only overlay lines as transparent
		if strings.TrimSpace(oLines[i]) != "" {
			out[i] = oLines[i]
		} else {
			out[i] = bLines[i]
		}
	}
	return strings.Join(out, "\n")
}

// copyToClipboard uses the system clipboard and falls back to OSC52, which
// reaches the local clipboard over SSH in many terminals.
func copyToClipboard(s string) error {
	s = stripANSI(s)
	if err := clipboard.WriteAll(s); err == nil {
		return nil
	}
	// Best-effort: write to /dev/tty to avoid clobbering the app's stdout buffer
	f, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	return writeOSC52(f, s)
}

func writeOSC52(w io.Writer, s string) error {
	enc := base64.StdEncoding.EncodeToString([]byte(s))
	_, err := fmt.Fprintf(w, "\x1b]52;c;%s\x07", enc)
	return err
}

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

// rowText is the selected row as a source line.
func rowText(cells []string) string {
	return strings.Join(cells, parse.Delimiter)
}

// inspectorBody lists one "header  value" line per column with the names
// aligned.
func inspectorBody(header, cells []string, st Styles) string {
	nameW := 0
	for _, h := range header {
		if w := runewidth.StringWidth(h); w > nameW {
			nameW = w
		}
	}
	var b strings.Builder
	for i, h := range header {
		v := ""
		if i < len(cells) {
			v = cells[i]
		}
		b.WriteString(st.FieldName.Render(runewidth.FillRight(h, nameW)))
		b.WriteString("  ")
		b.WriteString(st.FieldValue.Render(v))
		if i < len(header)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
