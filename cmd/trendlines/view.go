package main

import (
	"flag"
	"fmt"

	log "github.com/sirupsen/logrus"

	pricechart "github.com/example/trendlines/internal/chart"
	"github.com/example/trendlines/internal/viewer"
)

// runViewer opens the desktop window. Tests replace it.
var runViewer = viewer.Run

type viewCmd struct {
	*root
	fs     *flag.FlagSet
	series string
	output string
	width  int
	height int
	start  float64
	end    float64
}

func parseViewCmd(args []string, r *root) (*viewCmd, error) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	c := &viewCmd{root: r.subcommand("view"), fs: fs}
	fs.StringVar(&c.series, "series", "", "candle CSV to plot (default: configured series or generated sample)")
	fs.StringVar(&c.output, "export", "trendlines.png", "PNG file written by Ctrl+S")
	fs.IntVar(&c.width, "width", 1000, "window width in pixels")
	fs.IntVar(&c.height, "height", 600, "window height in pixels")
	fs.Float64Var(&c.start, "start", r.config.View.Start, "initial window start, percent of the series")
	fs.Float64Var(&c.end, "end", r.config.View.End, "initial window end, percent of the series")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	if c.width <= 0 || c.height <= 0 {
		return nil, fmt.Errorf("invalid window size %dx%d", c.width, c.height)
	}
	return c, nil
}

func (c *viewCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *viewCmd) Run() error {
	series, err := c.loadSeries(c.series)
	if err != nil {
		return err
	}
	st, err := c.openStore()
	if err != nil {
		return err
	}
	ch := pricechart.New(series,
		pricechart.WithSize(c.width, c.height),
		pricechart.WithWindow(c.start, c.end),
	)
	logger.WithFields(log.Fields{"candles": series.Len(), "trendlines": st.Len()}).Debug("starting viewer")

	opts := viewer.WindowOptions{Title: "trendlines", Width: c.width, Height: c.height}
	err = runViewer(opts, func(onChange func()) *viewer.Controller {
		return viewer.New(ch, st.Store,
			viewer.WithTheme(c.activeTheme),
			viewer.WithInteraction(c.config.Interaction),
			viewer.WithNotifier(c.notifier),
			viewer.WithExportPath(c.output),
			viewer.WithOnChange(onChange),
		)
	})
	if closeErr := st.Close(); err == nil {
		err = closeErr
	}
	return err
}
