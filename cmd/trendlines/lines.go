package main

import (
	"errors"
	"flag"
	"fmt"
	"strconv"

	"github.com/example/trendlines/internal/annotate"
	"github.com/example/trendlines/internal/clipboard"
	"github.com/example/trendlines/internal/store"
)

// copyText writes to the system clipboard. Tests replace it.
var copyText = clipboard.WriteText

type linesCmd struct {
	*root
	fs     *flag.FlagSet
	series string
	asJSON bool
	copy   bool
}

func parseLinesCmd(args []string, r *root) (*linesCmd, error) {
	fs := flag.NewFlagSet("lines", flag.ExitOnError)
	c := &linesCmd{root: r.subcommand("lines"), fs: fs}
	fs.StringVar(&c.series, "series", "", "candle CSV used to label endpoints")
	fs.BoolVar(&c.asJSON, "json", false, "print the stored JSON instead of a table")
	fs.BoolVar(&c.copy, "copy", false, "copy the stored JSON to the clipboard")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *linesCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *linesCmd) Run() error {
	args := c.fs.Args()
	st, err := c.openStore()
	if err != nil {
		return err
	}

	switch args[0] {
	case "list", "ls":
		err = c.runList(st.Store)
	case "rm":
		err = c.runRemove(st.Store, args[1:])
	case "clear":
		n := st.Len()
		st.Clear()
		fmt.Fprintf(c.stdout, "removed %d trendlines\n", n)
	default:
		err = fmt.Errorf("unknown lines command: %s", args[0])
	}
	if closeErr := st.Close(); err == nil {
		err = closeErr
	}
	return err
}

func (c *linesCmd) runList(st *store.Store) error {
	lines := st.List()
	if c.asJSON || c.copy {
		data, err := store.Encode(lines)
		if err != nil {
			return fmt.Errorf("failed to encode trendlines: %w", err)
		}
		if c.copy {
			if err := copyText(string(data)); err != nil {
				return fmt.Errorf("failed to copy trendlines: %w", err)
			}
			c.notifier.Copy(fmt.Sprintf("%d trendlines", len(lines)))
		}
		if c.asJSON {
			fmt.Fprintln(c.stdout, string(data))
		} else {
			fmt.Fprintf(c.stdout, "copied %d trendlines to the clipboard\n", len(lines))
		}
		return nil
	}

	if len(lines) == 0 {
		fmt.Fprintln(c.stdout, "no trendlines stored")
		return nil
	}
	series, err := c.loadSeries(c.series)
	if err != nil {
		return err
	}
	for _, l := range lines {
		fmt.Fprintf(c.stdout, "%d  %s -> %s\n", l.ID,
			annotate.EndpointLabel(l.Start, series),
			annotate.EndpointLabel(l.End, series))
	}
	return nil
}

func (c *linesCmd) runRemove(st *store.Store, args []string) error {
	if len(args) == 0 {
		return &UsageError{of: c}
	}
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid trendline id %q: %w", arg, err)
		}
		if err := st.Remove(id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("trendline %d: %w", id, err)
			}
			return err
		}
		fmt.Fprintf(c.stdout, "removed %d\n", id)
	}
	return nil
}
