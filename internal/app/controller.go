// Package app owns the browsing state and the two events that change what
// is displayed: the initial load and a query change. Every surface drives
// a Controller from a single goroutine.
package app

import (
	"context"
	"strings"

	"csvbrowse/internal/filter"
	"csvbrowse/internal/model"
	"csvbrowse/internal/parse"
	"csvbrowse/internal/util/logx"
	"csvbrowse/internal/view"
)

// Source fetches raw text for a reference. *ingest.Loader implements it.
type Source interface {
	Load(ctx context.Context, ref string) (string, error)
}

// State is an immutable snapshot of the controller. Slices are shared with
// the controller but never written after they are published.
type State struct {
	Ref     string
	Headers model.HeaderList
	Rows    model.Dataset
	Skipped []parse.SkippedRow
	Loaded  bool
	Err     error
	Query   string
	Where   *filter.Where
}

// Filtered applies the where expression and then the free-text query.
func (s State) Filtered(rawQuery string) model.Dataset {
	return filter.Filter(s.Where.Apply(s.Rows), rawQuery)
}

// View renders s for rawQuery: the error row after a failed load, an empty
// table before any load, or the filtered rows.
func (s State) View(rawQuery string) view.DisplayModel {
	switch {
	case s.Err != nil && !s.Loaded:
		return view.RenderError(s.Headers)
	case !s.Loaded:
		return view.Render(nil, s.Headers)
	}
	return view.Render(s.Filtered(rawQuery), s.Headers)
}

type Controller struct {
	src   Source
	state State
	// next source line number for rows appended by follow
	nextLine int
}

func New(src Source, ref string, where *filter.Where) *Controller {
	return &Controller{src: src, state: State{Ref: ref, Where: where}}
}

// OnStartup loads and parses the source and returns the initial display.
// A failed load leaves headers and rows untouched and returns the error
// display together with the error.
func (c *Controller) OnStartup(ctx context.Context) (view.DisplayModel, error) {
	return c.Complete(c.Fetch(ctx))
}

// Fetch performs only the source read of OnStartup. It touches no mutable
// state, so an event loop may run it on another goroutine and hand the
// result to Complete.
func (c *Controller) Fetch(ctx context.Context) (string, error) {
	logx.Infof("app: starting load of %s", c.state.Ref)
	return c.src.Load(ctx, c.state.Ref)
}

// Complete applies the result of Fetch.
func (c *Controller) Complete(text string, err error) (view.DisplayModel, error) {
	if err != nil {
		logx.Errorf("app: load failed: %v", err)
		c.state.Err = err
		return view.RenderError(c.state.Headers), err
	}
	res := parse.Parse(text)
	c.state.Headers = res.Headers
	c.state.Rows = res.Rows
	c.state.Skipped = res.Skipped
	c.state.Loaded = true
	c.state.Err = nil
	c.nextLine = res.Lines + 1
	logx.Infof("app: loaded %d rows, %d columns", len(res.Rows), len(res.Headers))
	return c.state.View(c.state.Query), nil
}

// OnQueryChange re-filters for a new raw query. Before data is loaded it is
// a no-op and ok is false.
func (c *Controller) OnQueryChange(raw string) (dm view.DisplayModel, ok bool) {
	if !c.state.Loaded {
		logx.Warnf("app: data not loaded yet for searching")
		return view.DisplayModel{}, false
	}
	c.state.Query = raw
	dm = c.state.View(raw)
	logx.Debugf("app: query %q -> %d rows", filter.Normalize(raw), len(dm.Rows))
	return dm, true
}

// Append feeds one line that was appended to the source after the load.
// An accepted row produces a new Dataset; the previous one is left as is.
// If the source had no header yet, the first non-blank line becomes it.
// ok reports whether the display changed.
func (c *Controller) Append(line string) (dm view.DisplayModel, ok bool) {
	if !c.state.Loaded {
		return view.DisplayModel{}, false
	}
	lineNo := c.nextLine
	c.nextLine++
	if len(c.state.Headers) == 0 {
		if strings.TrimSpace(line) == "" {
			return view.DisplayModel{}, false
		}
		c.state.Headers = parse.ParseHeader(line)
		logx.Infof("app: header from appended line %d: %v", lineNo, []string(c.state.Headers))
		return c.state.View(c.state.Query), true
	}
	rec, skipped, accepted := parse.ParseRow(c.state.Headers, line, lineNo)
	if !accepted {
		if skipped != nil {
			c.state.Skipped = append(c.state.Skipped[:len(c.state.Skipped):len(c.state.Skipped)], *skipped)
		}
		return view.DisplayModel{}, false
	}
	c.state.Rows = c.state.Rows.With(rec)
	return c.state.View(c.state.Query), true
}

// Current renders the state for the last query.
func (c *Controller) Current() view.DisplayModel {
	return c.state.View(c.state.Query)
}

// Filtered is the FilteredView for the last query; nil before loading.
func (c *Controller) Filtered() model.Dataset {
	if !c.state.Loaded {
		return nil
	}
	return c.state.Filtered(c.state.Query)
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State { return c.state }
