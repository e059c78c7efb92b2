package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pierrec/lz4/v4"
)

func main() {
	var (
		rows      int
		outPath   string
		seed      int64
		malformed float64
		blank     float64
		rate      float64
		appendOut bool
	)

	flag.IntVar(&rows, "rows", 100, "Number of data rows to write")
	flag.StringVar(&outPath, "out", "", "Output file path; a .lz4 suffix compresses it. Empty writes to stdout")
	flag.Int64Var(&seed, "seed", 0, "Random seed (0 = time based)")
	flag.Float64Var(&malformed, "malformed", 0.0, "Fraction of rows written with a wrong field count")
	flag.Float64Var(&blank, "blank", 0.0, "Fraction of blank lines between rows")
	flag.Float64Var(&rate, "rate", 0, "Rows per second appended after the initial rows (0 = exit after writing). Use with csvbrowse --follow")
	flag.BoolVar(&appendOut, "append", false, "Append rows to an existing --out file without a header")
	flag.Parse()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if rate > 0 && strings.HasSuffix(outPath, ".lz4") {
		fmt.Fprintln(os.Stderr, "--rate cannot be combined with a .lz4 output")
		os.Exit(2)
	}

	w, closeFn, err := openOutput(outPath, appendOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open output: %v\n", err)
		os.Exit(1)
	}
	g := newGenerator(rand.New(rand.NewSource(seed)), malformed, blank)
	bw := bufio.NewWriter(w)
	if !appendOut {
		fmt.Fprintln(bw, g.header())
	}
	for i := 0; i < rows; i++ {
		for _, l := range g.next() {
			fmt.Fprintln(bw, l)
		}
	}
	if err := bw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	if rate <= 0 {
		if err := closeFn(); err != nil {
			fmt.Fprintf(os.Stderr, "close: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Setup interrupt handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	fmt.Fprintf(os.Stderr, "appending rows to %s at %.2f rows/s\n", displayName(outPath), rate)
	ticker := time.NewTicker(time.Duration(float64(time.Second) / rate))
	defer ticker.Stop()
	for {
		select {
		case <-sigCh:
			_ = closeFn()
			return
		case <-ticker.C:
			for _, l := range g.next() {
				fmt.Fprintln(bw, l)
			}
			if err := bw.Flush(); err != nil {
				fmt.Fprintf(os.Stderr, "write: %v\n", err)
				os.Exit(1)
			}
		}
	}
}

func displayName(p string) string {
	if p == "" {
		return "stdout"
	}
	return p
}

// openOutput returns the destination writer and a func that flushes and
// closes it.
func openOutput(path string, appendOut bool) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendOut {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, nil, err
	}
	if !strings.HasSuffix(path, ".lz4") {
		return f, f.Close, nil
	}
	zw := lz4.NewWriter(f)
	return zw, func() error {
		if err := zw.Close(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}, nil
}

var (
	columns    = []string{"sku", "name", "category", "price", "stock", "updated"}
	brands     = []string{"Anker", "Belkin", "Logitech", "Samsung", "Sony", "Ugreen", "Razer"}
	products   = []string{"Cable", "Hub", "Charger", "Mouse", "Keyboard", "Headset", "Dock", "Webcam"}
	categories = []string{"cables", "accessories", "power", "input", "audio", "video"}
)

type generator struct {
	r         *rand.Rand
	malformed float64
	blank     float64
	n         int
}

func newGenerator(r *rand.Rand, malformed, blank float64) *generator {
	return &generator{r: r, malformed: malformed, blank: blank}
}

func (g *generator) header() string { return strings.Join(columns, ",") }

// next returns the lines for one generated row: optionally a blank line,
// then the row itself, possibly malformed.
func (g *generator) next() []string {
	g.n++
	var out []string
	if g.blank > 0 && g.r.Float64() < g.blank {
		out = append(out, "")
	}
	fields := []string{
		fmt.Sprintf("%s-%05d", strings.ToUpper(products[g.r.Intn(len(products))][:3]), g.n),
		brands[g.r.Intn(len(brands))] + " " + products[g.r.Intn(len(products))],
		categories[g.r.Intn(len(categories))],
		fmt.Sprintf("%.2f", 2+g.r.Float64()*200),
		fmt.Sprintf("%d", g.r.Intn(500)),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(g.r.Intn(365*24)) * time.Hour).Format("2006-01-02"),
	}
	if g.malformed > 0 && g.r.Float64() < g.malformed {
		// drop or duplicate a trailing field
		if g.r.Intn(2) == 0 {
			fields = fields[:len(fields)-1]
		} else {
			fields = append(fields, "extra")
		}
	}
	return append(out, strings.Join(fields, ","))
}
