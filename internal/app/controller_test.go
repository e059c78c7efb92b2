package app

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvbrowse/internal/filter"
	"csvbrowse/internal/ingest"
	"csvbrowse/internal/view"
)

type fakeSource struct {
	text  string
	err   error
	calls int
}

func (f *fakeSource) Load(ctx context.Context, ref string) (string, error) {
	f.calls++
	return f.text, f.err
}

const products = "sku,name,price\nA1,Anker Cable,9.99\nB2,Belkin Hub,39.00\nbad line\nC3,Anker Charger,19.99\n"

func TestStartupRendersAllRows(t *testing.T) {
	src := &fakeSource{text: products}
	c := New(src, "data.csv", nil)

	dm, err := c.OnStartup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, []string{"sku", "name", "price"}, dm.Header)
	require.Len(t, dm.Rows, 3)
	assert.Nil(t, dm.Placeholder)

	st := c.Snapshot()
	assert.True(t, st.Loaded)
	require.Len(t, st.Skipped, 1)
	assert.Equal(t, 4, st.Skipped[0].Line)
}

func TestQueryChangeFilters(t *testing.T) {
	c := New(&fakeSource{text: products}, "data.csv", nil)
	_, err := c.OnStartup(context.Background())
	require.NoError(t, err)

	dm, ok := c.OnQueryChange("  ANKER ")
	require.True(t, ok)
	require.Len(t, dm.Rows, 2)
	assert.Equal(t, view.Row{"A1", "Anker Cable", "9.99"}, dm.Rows[0])
	assert.Equal(t, view.Row{"C3", "Anker Charger", "19.99"}, dm.Rows[1])
	assert.Len(t, c.Filtered(), 2)

	dm, ok = c.OnQueryChange("nothing here")
	require.True(t, ok)
	require.NotNil(t, dm.Placeholder)
	assert.Equal(t, view.NoMatchMessage, dm.Placeholder.Message)
	assert.Equal(t, 3, dm.Placeholder.ColSpan)

	dm, ok = c.OnQueryChange("")
	require.True(t, ok)
	assert.Len(t, dm.Rows, 3)
}

func TestQueryBeforeLoadIsNoop(t *testing.T) {
	c := New(&fakeSource{text: products}, "data.csv", nil)
	dm, ok := c.OnQueryChange("anker")
	assert.False(t, ok)
	assert.Equal(t, view.DisplayModel{}, dm)
	assert.Nil(t, c.Filtered())
	assert.Equal(t, "", c.Snapshot().Query)
}

func TestTransportFailureRendersErrorRow(t *testing.T) {
	terr := &ingest.TransportError{Ref: "http://x/data.csv", Status: http.StatusNotFound, Err: errors.New("404 Not Found")}
	c := New(&fakeSource{err: terr}, "http://x/data.csv", nil)

	dm, err := c.OnStartup(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ingest.ErrTransport)
	require.NotNil(t, dm.Placeholder)
	assert.Equal(t, view.PlaceholderError, dm.Placeholder.Kind)
	assert.Equal(t, 1, dm.Placeholder.ColSpan)
	assert.Empty(t, dm.Rows)

	st := c.Snapshot()
	assert.False(t, st.Loaded)
	assert.Nil(t, st.Rows)
	assert.Nil(t, st.Headers)

	// searching after a failed load stays a no-op and keeps the error row
	_, ok := c.OnQueryChange("a")
	assert.False(t, ok)
	assert.Equal(t, view.PlaceholderError, c.Current().Placeholder.Kind)
}

func TestWhereNarrowsBeforeQuery(t *testing.T) {
	w, err := filter.NewWhere("price < 20")
	require.NoError(t, err)
	c := New(&fakeSource{text: products}, "data.csv", w)

	dm, err := c.OnStartup(context.Background())
	require.NoError(t, err)
	assert.Len(t, dm.Rows, 2)

	dm, ok := c.OnQueryChange("belkin")
	require.True(t, ok)
	assert.True(t, dm.Empty())
	// the dataset itself is not narrowed
	assert.Len(t, c.Snapshot().Rows, 3)
}

func TestAppendReplacesDataset(t *testing.T) {
	c := New(&fakeSource{text: products}, "data.csv", nil)
	_, err := c.OnStartup(context.Background())
	require.NoError(t, err)
	before := c.Snapshot().Rows

	_, ok := c.OnQueryChange("anker")
	require.True(t, ok)

	dm, ok := c.Append("D4,Anker Dock,99.00")
	require.True(t, ok)
	assert.Len(t, dm.Rows, 3, "appended row is filtered with the current query")
	assert.Len(t, before, 3, "previous dataset untouched")
	assert.Len(t, c.Snapshot().Rows, 4)

	_, ok = c.Append("   ")
	assert.False(t, ok)

	_, ok = c.Append("only,two")
	assert.False(t, ok)
	st := c.Snapshot()
	require.Len(t, st.Skipped, 2)
	assert.Equal(t, "only,two", st.Skipped[1].Text)
}

func TestFetchThenComplete(t *testing.T) {
	src := &fakeSource{text: products}
	c := New(src, "data.csv", nil)

	text, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.False(t, c.Snapshot().Loaded, "fetch alone does not publish state")

	dm, err := c.Complete(text, nil)
	require.NoError(t, err)
	assert.Len(t, dm.Rows, 3)
	assert.True(t, c.Snapshot().Loaded)
}

func TestAppendToEmptySourceTakesHeader(t *testing.T) {
	c := New(&fakeSource{text: "\n"}, "data.csv", nil)
	dm, err := c.OnStartup(context.Background())
	require.NoError(t, err)
	require.NotNil(t, dm.Placeholder)
	assert.Equal(t, 1, dm.Placeholder.ColSpan)

	dm, ok := c.Append("a,b")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, dm.Header)
	assert.Equal(t, 2, dm.Placeholder.ColSpan)

	dm, ok = c.Append("1,2")
	require.True(t, ok)
	assert.Equal(t, []view.Row{{"1", "2"}}, dm.Rows)
}
