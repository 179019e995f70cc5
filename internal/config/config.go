package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/example/trendlines/internal/theme"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// DefaultKey is the key trendlines are persisted under.
const DefaultKey = "trendlines"

// Store selects and configures the persistence backend.
type Store struct {
	Backend        string
	Path           string // file backend
	Key            string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisNamespace string
	Timeout        time.Duration
}

// Interaction holds the pointer tolerances, in pixels.
type Interaction struct {
	EndpointRadius   float64
	SegmentTolerance float64
	MinLength        float64
	DeleteRadius     float64
}

// View holds the initial data-zoom window, in percent.
type View struct {
	Start float64
	End   float64
}

// Notify holds notification settings.
type Notify struct {
	Export bool
	Copy   bool
}

// Config holds the application configuration.
type Config struct {
	Theme       string
	Series      string
	Store       Store
	Interaction Interaction
	View        View
	Notify      Notify
	Themes      map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // Default to empty to allow fallback to Env/Default
		Store: Store{
			Backend:   BackendFile,
			Key:       DefaultKey,
			RedisAddr: "127.0.0.1:6379",
			Timeout:   2 * time.Second,
		},
		Interaction: Interaction{
			EndpointRadius:   8,
			SegmentTolerance: 6,
			MinLength:        3,
			DeleteRadius:     10,
		},
		View: View{
			Start: 40,
			End:   100,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// ApplyEnv overrides fields from TRENDLINES_* environment variables. It
// sits between the config file and command line flags.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("TRENDLINES_THEME"); v != "" {
		c.Theme = v
	}
	if v := getenv("TRENDLINES_SERIES"); v != "" {
		c.Series = v
	}
	for _, key := range []string{"backend", "path", "key", "redis_addr", "redis_password", "redis_db", "redis_namespace", "timeout"} {
		v := getenv("TRENDLINES_STORE_" + strings.ToUpper(key))
		if v == "" {
			continue
		}
		if err := setStoreField(&c.Store, key, v); err != nil {
			return fmt.Errorf("environment: %w", err)
		}
	}
	return nil
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.Series != "" {
		fmt.Fprintf(&sb, "series = %s\n", c.Series)
	}
	sb.WriteString("\n")

	sb.WriteString("[store]\n")
	fmt.Fprintf(&sb, "backend = %s\n", c.Store.Backend)
	if c.Store.Path != "" {
		fmt.Fprintf(&sb, "path = %s\n", c.Store.Path)
	}
	fmt.Fprintf(&sb, "key = %s\n", c.Store.Key)
	fmt.Fprintf(&sb, "redis_addr = %s\n", c.Store.RedisAddr)
	if c.Store.RedisPassword != "" {
		fmt.Fprintf(&sb, "redis_password = %s\n", c.Store.RedisPassword)
	}
	fmt.Fprintf(&sb, "redis_db = %d\n", c.Store.RedisDB)
	if c.Store.RedisNamespace != "" {
		fmt.Fprintf(&sb, "redis_namespace = %s\n", c.Store.RedisNamespace)
	}
	fmt.Fprintf(&sb, "timeout = %s\n", c.Store.Timeout)
	sb.WriteString("\n")

	sb.WriteString("[interaction]\n")
	fmt.Fprintf(&sb, "endpoint_radius = %s\n", formatFloat(c.Interaction.EndpointRadius))
	fmt.Fprintf(&sb, "segment_tolerance = %s\n", formatFloat(c.Interaction.SegmentTolerance))
	fmt.Fprintf(&sb, "min_length = %s\n", formatFloat(c.Interaction.MinLength))
	fmt.Fprintf(&sb, "delete_radius = %s\n", formatFloat(c.Interaction.DeleteRadius))
	sb.WriteString("\n")

	sb.WriteString("[view]\n")
	fmt.Fprintf(&sb, "start = %s\n", formatFloat(c.View.Start))
	fmt.Fprintf(&sb, "end = %s\n", formatFloat(c.View.End))
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		fields, cols := t.Fields()
		for _, f := range fields {
			fmt.Fprintf(&sb, "%s: %s\n", f, theme.Hex(cols[f]))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
