package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/nxadm/tail"
	"github.com/pierrec/lz4/v4"

	"csvbrowse/internal/util/logx"
)

type SourceKind string

const (
	SourceStdin SourceKind = "stdin"
	SourceFile  SourceKind = "file"
	SourceHTTP  SourceKind = "http"
)

// DefaultRef is used when no source is configured.
const DefaultRef = "data.csv"

// ErrTransport matches every *TransportError via errors.Is.
var ErrTransport = errors.New("transport error")

// TransportError reports a failed load: a non-success HTTP status, an
// unreachable or unreadable source, or a body that could not be decoded.
type TransportError struct {
	Ref    string
	Status int // HTTP status, 0 when not applicable
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("load %s: HTTP status %d", e.Ref, e.Status)
	}
	return fmt.Sprintf("load %s: %v", e.Ref, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// Kind classifies a source reference.
func Kind(ref string) SourceKind {
	switch {
	case ref == "-":
		return SourceStdin
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return SourceHTTP
	default:
		return SourceFile
	}
}

// Loader fetches raw text for a source reference in a single attempt.
type Loader struct {
	Client *http.Client
	Stdin  io.Reader
	// Timeout bounds one load; zero means no limit.
	Timeout time.Duration
}

func NewLoader(timeout time.Duration) *Loader {
	return &Loader{Client: &http.Client{}, Stdin: os.Stdin, Timeout: timeout}
}

// Load returns the full text of ref. References ending in ".lz4" are
// decompressed. A leading BOM is left for the parser; invalid UTF-8 is
// replaced rather than rejected. Every failure is a *TransportError.
func (l *Loader) Load(ctx context.Context, ref string) (string, error) {
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}
	kind := Kind(ref)
	logx.Infof("ingest: loading %s (%s)", ref, kind)
	var (
		text string
		err  error
	)
	switch kind {
	case SourceHTTP:
		text, err = l.loadHTTP(ctx, ref)
	case SourceStdin:
		stdin := l.Stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		text, err = readAll(ref, stdin)
	default:
		text, err = l.loadFile(ref)
	}
	if err != nil {
		logx.Errorf("ingest: %v", err)
		return "", err
	}
	logx.Infof("ingest: loaded %d bytes from %s", len(text), ref)
	return text, nil
}

func (l *Loader) loadHTTP(ctx context.Context, ref string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return "", &TransportError{Ref: ref, Err: err}
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", &TransportError{Ref: ref, Err: err}
	}
	defer resp.Body.Close()
	logx.Debugf("ingest: %s responded %s", ref, resp.Status)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{Ref: ref, Status: resp.StatusCode, Err: errors.New(resp.Status)}
	}
	return readAll(ref, resp.Body)
}

func (l *Loader) loadFile(ref string) (string, error) {
	f, err := os.Open(ref)
	if err != nil {
		return "", &TransportError{Ref: ref, Err: err}
	}
	defer f.Close()
	return readAll(ref, f)
}

func readAll(ref string, r io.Reader) (string, error) {
	if strings.HasSuffix(strings.ToLower(stripQuery(ref)), ".lz4") {
		r = lz4.NewReader(r)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", &TransportError{Ref: ref, Err: fmt.Errorf("read body: %w", err)}
	}
	return strings.ToValidUTF8(string(b), "\uFFFD"), nil
}

func stripQuery(ref string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		return ref[:i]
	}
	return ref
}

type Line struct {
	Text   string
	Source string
	When   time.Time
}

// Follow streams lines appended to path after the call, like tail -f.
// Both channels close when ctx is done or the tail stops.
func Follow(ctx context.Context, path string) (<-chan Line, <-chan error) {
	out := make(chan Line, 1024)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		t, err := tail.TailFile(path, tail.Config{
			Follow:    true,
			ReOpen:    true,
			MustExist: true,
			Logger:    tail.DiscardingLogger,
			Poll:      true,
			Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		})
		if err != nil {
			errs <- &TransportError{Ref: path, Err: err}
			return
		}
		defer t.Cleanup()
		logx.Infof("ingest: following %s", path)
		for {
			select {
			case <-ctx.Done():
				_ = t.Stop()
				return
			case l, ok := <-t.Lines:
				if !ok {
					return
				}
				if l.Err != nil {
					select {
					case errs <- l.Err:
					default:
						logx.Warnf("ingest: follow %s: %v", path, l.Err)
					}
					continue
				}
				select {
				case out <- Line{Text: l.Text, Source: path, When: time.Now()}:
				case <-ctx.Done():
					_ = t.Stop()
					return
				}
			}
		}
	}()

	return out, errs
}
