package ingest

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	assert.Equal(t, SourceStdin, Kind("-"))
	assert.Equal(t, SourceHTTP, Kind("http://example.com/data.csv"))
	assert.Equal(t, SourceHTTP, Kind("https://example.com/data.csv"))
	assert.Equal(t, SourceFile, Kind("data.csv"))
}

func TestLoadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(p, []byte("a,b\n1,2\n"), 0o644))

	text, err := NewLoader(0).Load(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", text)
}

func TestLoadMissingFileIsTransport(t *testing.T) {
	_, err := NewLoader(0).Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("name\nx\n"))
	}))
	defer srv.Close()

	l := NewLoader(5 * time.Second)
	text, err := l.Load(context.Background(), srv.URL+"/data.csv")
	require.NoError(t, err)
	assert.Equal(t, "name\nx\n", text)

	_, err = l.Load(context.Background(), srv.URL+"/missing.csv")
	require.Error(t, err)
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusNotFound, te.Status)
	assert.Contains(t, err.Error(), "404")
}

func TestLoadHTTPUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/data.csv"
	srv.Close()

	_, err := NewLoader(0).Load(context.Background(), url)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestLoadLZ4(t *testing.T) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	_, err := zw.Write([]byte("sku,qty\nA,1\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	p := filepath.Join(t.TempDir(), "data.csv.lz4")
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o644))

	text, err := NewLoader(0).Load(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "sku,qty\nA,1\n", text)
}

func TestLoadCorruptLZ4IsTransport(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.csv.lz4")
	require.NoError(t, os.WriteFile(p, []byte("definitely not lz4"), 0o644))

	_, err := NewLoader(0).Load(context.Background(), p)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestLoadStdinReplacesInvalidUTF8(t *testing.T) {
	l := &Loader{Stdin: strings.NewReader("a\nb\xff\n")}
	text, err := l.Load(context.Background(), "-")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\uFFFD\n", text)
}

func TestFollowEmitsAppendedLines(t *testing.T) {
	p := filepath.Join(t.TempDir(), "live.csv")
	require.NoError(t, os.WriteFile(p, []byte("a,b\n1,2\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	lines, _ := Follow(ctx, p)

	f, err := os.OpenFile(p, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	defer f.Close()

	// The tail may not have reached the end of the file yet, so keep
	// appending until a line shows up.
	ticker := time.NewTicker(300 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(10 * time.Second)
	for {
		select {
		case l, ok := <-lines:
			require.True(t, ok, "follow channel closed early")
			assert.Equal(t, "3,4", l.Text)
			assert.Equal(t, p, l.Source)
			return
		case <-ticker.C:
			_, err := f.WriteString("3,4\n")
			require.NoError(t, err)
		case <-deadline:
			t.Fatal("no line received from follow")
		}
	}
}
