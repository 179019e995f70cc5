package main

import (
	"flag"
	"fmt"

	pricechart "github.com/example/trendlines/internal/chart"
	"github.com/example/trendlines/internal/export"
)

type exportCmd struct {
	*root
	fs     *flag.FlagSet
	series string
	output string
	title  string
	width  int
	height int
	start  float64
	end    float64
	full   bool
}

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	defaults := export.DefaultOptions()
	c := &exportCmd{root: r.subcommand("export"), fs: fs}
	fs.StringVar(&c.series, "series", "", "candle CSV to plot (default: configured series or generated sample)")
	fs.StringVar(&c.output, "o", "trendlines.png", "output PNG file, - for stdout")
	fs.StringVar(&c.title, "title", "", "chart title")
	fs.IntVar(&c.width, "width", defaults.Width, "image width in pixels")
	fs.IntVar(&c.height, "height", defaults.Height, "image height in pixels")
	fs.Float64Var(&c.start, "start", r.config.View.Start, "window start, percent of the series")
	fs.Float64Var(&c.end, "end", r.config.View.End, "window end, percent of the series")
	fs.BoolVar(&c.full, "full", false, "export the whole series instead of the window")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	if c.width <= 0 || c.height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", c.width, c.height)
	}
	return c, nil
}

func (c *exportCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *exportCmd) Run() error {
	series, err := c.loadSeries(c.series)
	if err != nil {
		return err
	}
	st, err := c.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var (
		view export.View
		ok   bool
	)
	if c.full {
		view, ok = export.FullView(series)
	} else {
		ch := pricechart.New(series, pricechart.WithSize(c.width, c.height), pricechart.WithWindow(c.start, c.end))
		view, ok = export.ViewOf(ch)
	}
	if !ok {
		return pricechart.ErrEmptySeries
	}

	lines := st.List()
	opts := export.Options{Width: c.width, Height: c.height, Title: c.title, Theme: c.activeTheme}
	if c.output == "-" {
		return export.Render(c.stdout, series, lines, view, opts)
	}
	if err := export.WriteFile(c.output, series, lines, view, opts); err != nil {
		return fmt.Errorf("failed to export chart: %w", err)
	}
	c.notifier.Export(c.output)
	fmt.Fprintf(c.stdout, "exported %d trendlines to %s\n", len(lines), c.output)
	return nil
}
