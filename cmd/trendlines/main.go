package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	pricechart "github.com/example/trendlines/internal/chart"
	"github.com/example/trendlines/internal/config"
	"github.com/example/trendlines/internal/kv"
	"github.com/example/trendlines/internal/notify"
	"github.com/example/trendlines/internal/store"
	"github.com/example/trendlines/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

var logger = log.WithField("component", "cli")

// Demo series used when no CSV is configured.
const (
	sampleCount = 100
	sampleSeed  = 1
)

var sampleStart = time.Date(2013, 1, 24, 0, 0, 0, 0, time.UTC)

type runnable interface{ Run() error }

type root struct {
	fs       *flag.FlagSet
	program  string
	config   *config.Config
	notifier *notify.Notifier
	stdout   io.Writer
	getenv   func(string) string

	debug        bool
	configPath   string
	themeName    string
	storeBackend string
	storePath    string
	exportAlerts optionalBool
	copyAlerts   optionalBool
	activeTheme  *theme.Theme

	notifyOptions []notify.Option
}

func (r *root) Program() string {
	return r.program
}

func (r *root) subcommand(name string) *root {
	program := strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	return &root{
		program:       program,
		config:        r.config,
		notifier:      r.notifier,
		stdout:        r.stdout,
		getenv:        r.getenv,
		configPath:    r.configPath,
		themeName:     r.themeName,
		activeTheme:   r.activeTheme,
		notifyOptions: r.notifyOptions,
	}
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	r := &root{
		fs:      flag.NewFlagSet("trendlines", flag.ExitOnError),
		program: "trendlines",
		stdout:  os.Stdout,
		getenv:  os.Getenv,
	}
	r.fs.BoolVar(&r.debug, "debug", false, "enable debug logging")
	r.fs.StringVar(&r.configPath, "config", "", "configuration file to load")
	// Empty means fall back to TRENDLINES_THEME, then the config file.
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (default, dark, high_contrast)")
	r.fs.StringVar(&r.storeBackend, "store", "", "trendline store backend (file, memory, redis)")
	r.fs.StringVar(&r.storePath, "store-path", "", "file used by the file store")
	r.fs.Var(&r.exportAlerts, "notify-export", "show a desktop notification after exporting a chart")
	r.fs.Var(&r.copyAlerts, "notify-copy", "show a desktop notification after copying to the clipboard")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.debug {
		log.SetLevel(log.DebugLevel)
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if err := r.loadConfig(); err != nil {
		return err
	}
	r.resolveTheme()
	r.notifier = notify.FromConfig(r.config.Notify, notify.LoadPreferences(r.getenv), r.notifyOptions...)

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "view":
		cmd, err = parseViewCmd(subArgs, r)
	case "export":
		cmd, err = parseExportCmd(subArgs, r)
	case "lines":
		cmd, err = parseLinesCmd(subArgs, r)
	case "sample":
		cmd, err = parseSampleCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// loadConfig layers the config file, TRENDLINES_* variables and the global
// flags, in that order.
func (r *root) loadConfig() error {
	override := r.configPath
	if override == "" {
		override = configPathOverride
	}
	cfg, err := config.NewLoader(version, override).Load()
	if err != nil {
		logger.WithError(err).Warn("failed to load config, using defaults")
		cfg = config.New()
	}
	if err := cfg.ApplyEnv(r.getenv); err != nil {
		return err
	}
	if r.storeBackend != "" {
		cfg.Store.Backend = r.storeBackend
	}
	if r.storePath != "" {
		cfg.Store.Path = r.storePath
	}
	if r.exportAlerts.set {
		cfg.Notify.Export = r.exportAlerts.value
	}
	if r.copyAlerts.set {
		cfg.Notify.Copy = r.copyAlerts.value
	}
	r.config = cfg
	return nil
}

func (r *root) resolveTheme() {
	name := r.themeName
	if name == "" {
		name = r.config.Theme
	}
	t, err := theme.NewLoader().Resolve(name, r.config.Themes)
	if err != nil && name != "" && name != "default" {
		logger.WithError(err).WithField("theme", name).Warn("failed to load theme, using default")
	}
	r.activeTheme = t
}

// loadSeries reads the candle CSV at path, falling back to the configured
// series and then to the generated demo data.
func (r *root) loadSeries(path string) (*pricechart.Series, error) {
	if path == "" {
		path = r.config.Series
	}
	if path == "" {
		return pricechart.GenerateSeries(sampleCount, sampleSeed, sampleStart), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open series: %w", err)
	}
	defer f.Close()
	s, err := pricechart.LoadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load series %s: %w", path, err)
	}
	logger.WithField("path", path).WithField("candles", s.Len()).Debug("loaded series")
	return s, nil
}

// storeHandle is an open trendline store that remembers the first failed
// write so commands can report it on Close.
type storeHandle struct {
	*store.Store
	backend kv.KV
	err     error
}

func (r *root) openStore() (*storeHandle, error) {
	backend, err := kv.Open(r.config.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	h := &storeHandle{backend: backend}
	opts := []store.Option{store.WithPersistErrorHandler(func(err error) {
		if h.err == nil {
			h.err = err
		}
	})}
	if r.config.Store.Key != "" {
		opts = append(opts, store.WithKey(r.config.Store.Key))
	}
	h.Store = store.New(backend, opts...)
	return h, nil
}

func (h *storeHandle) Close() error {
	closeErr := kv.Close(h.backend)
	if h.err != nil {
		return fmt.Errorf("failed to save trendlines: %w", h.err)
	}
	return closeErr
}

// optionalBool is a boolean flag that records whether it was given, so an
// unset flag leaves the configured value alone.
type optionalBool struct {
	set   bool
	value bool
}

func (b *optionalBool) String() string {
	if b == nil || !b.set {
		return ""
	}
	return strconv.FormatBool(b.value)
}

func (b *optionalBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	b.set, b.value = true, v
	return nil
}

func (b *optionalBool) IsBoolFlag() bool { return true }

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
