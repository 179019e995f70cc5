package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	pricechart "github.com/example/trendlines/internal/chart"
)

type sampleCmd struct {
	*root
	fs     *flag.FlagSet
	count  int
	seed   int64
	start  string
	output string
}

func parseSampleCmd(args []string, r *root) (*sampleCmd, error) {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	c := &sampleCmd{root: r.subcommand("sample"), fs: fs}
	fs.IntVar(&c.count, "n", sampleCount, "number of daily candles")
	fs.Int64Var(&c.seed, "seed", sampleSeed, "random walk seed")
	fs.StringVar(&c.start, "start", sampleStart.Format(pricechart.DateFormat), "date of the first candle")
	fs.StringVar(&c.output, "o", "-", "output CSV file, - for stdout")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	if c.count <= 0 {
		return nil, fmt.Errorf("candle count must be positive, got %d", c.count)
	}
	return c, nil
}

func (c *sampleCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *sampleCmd) Run() error {
	start, err := time.Parse(pricechart.DateFormat, c.start)
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", c.start, err)
	}
	series := pricechart.GenerateSeries(c.count, c.seed, start)
	if c.output == "-" {
		return pricechart.WriteCSV(c.stdout, series)
	}

	f, err := os.Create(c.output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", c.output, err)
	}
	if err := pricechart.WriteCSV(f, series); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", c.output, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.output, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %d candles to %s\n", c.count, c.output)
	return nil
}
