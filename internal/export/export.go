package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"csvbrowse/internal/model"
)

var ErrNoRows = errors.New("no rows")

// Write exports rows to path in the given format ("csv" or "json").
func Write(format, path string, headers model.HeaderList, rows model.Dataset) error {
	switch format {
	case "csv":
		return ToCSV(path, headers, rows)
	case "json":
		return ToNDJSON(path, headers, rows)
	default:
		return fmt.Errorf("export: unknown format %q", format)
	}
}

func ToCSV(path string, headers model.HeaderList, rows model.Dataset) error {
	if len(rows) == 0 {
		return ErrNoRows
	}
	return create(path, func(w io.Writer) error { return WriteCSV(w, headers, rows) })
}

// WriteCSV writes a header line followed by one line per record in header
// order. Values containing the delimiter are quoted.
func WriteCSV(w io.Writer, headers model.HeaderList, rows model.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.Values(headers)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ToNDJSON(path string, headers model.HeaderList, rows model.Dataset) error {
	if len(rows) == 0 {
		return ErrNoRows
	}
	return create(path, func(w io.Writer) error { return WriteNDJSON(w, headers, rows) })
}

// WriteNDJSON writes one JSON object per record. Keys follow header order;
// a duplicated header name is written once.
func WriteNDJSON(w io.Writer, headers model.HeaderList, rows model.Dataset) error {
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		b, err := marshalOrdered(headers, r)
		if err != nil {
			return err
		}
		if _, err := bw.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func marshalOrdered(headers model.HeaderList, r model.Record) ([]byte, error) {
	seen := make(map[string]bool, len(headers))
	buf := []byte{'{'}
	for _, h := range headers {
		if seen[h] {
			continue
		}
		seen[h] = true
		k, err := json.Marshal(h)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r[h])
		if err != nil {
			return nil, err
		}
		if len(buf) > 1 {
			buf = append(buf, ',')
		}
		buf = append(buf, k...)
		buf = append(buf, ':')
		buf = append(buf, v...)
	}
	return append(buf, '}'), nil
}

func create(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
