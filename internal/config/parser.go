package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/example/trendlines/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	// Context for parsing
	var currentSection string
	var currentTheme *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		// Handle Sections
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentTheme = nil

			if strings.HasPrefix(currentSection, "theme.") {
				themeName := strings.TrimPrefix(currentSection, "theme.")
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		// Parse Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		// Remove quotes if present
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case currentTheme != nil:
			err = currentTheme.Set(key, value)
		case currentSection == "store":
			err = setStoreField(&cfg.Store, key, value)
		case currentSection == "interaction":
			err = setInteractionField(&cfg.Interaction, key, value)
		case currentSection == "view":
			err = setViewField(&cfg.View, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case currentSection == "":
			setRootField(cfg, key, value)
		}
		if err != nil {
			if currentSection == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "series":
		cfg.Series = value
	}
}

func setStoreField(s *Store, key, value string) error {
	switch strings.ToLower(key) {
	case "backend":
		switch v := strings.ToLower(value); v {
		case BackendFile, BackendMemory, BackendRedis:
			s.Backend = v
		default:
			return fmt.Errorf("unknown store backend %q", value)
		}
	case "path":
		s.Path = value
	case "key":
		s.Key = value
	case "redis_addr":
		s.RedisAddr = value
	case "redis_password":
		s.RedisPassword = value
	case "redis_db":
		db, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for key %s: %w", key, err)
		}
		s.RedisDB = db
	case "redis_namespace":
		s.RedisNamespace = value
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for key %s: %w", key, err)
		}
		s.Timeout = d
	}
	return nil
}

func parseNonNegative(key, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("key %s must not be negative", key)
	}
	return v, nil
}

func setInteractionField(in *Interaction, key, value string) error {
	var dst *float64
	switch strings.ToLower(key) {
	case "endpoint_radius":
		dst = &in.EndpointRadius
	case "segment_tolerance":
		dst = &in.SegmentTolerance
	case "min_length":
		dst = &in.MinLength
	case "delete_radius":
		dst = &in.DeleteRadius
	default:
		return nil
	}
	v, err := parseNonNegative(key, value)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setViewField(v *View, key, value string) error {
	var dst *float64
	switch strings.ToLower(key) {
	case "start":
		dst = &v.Start
	case "end":
		dst = &v.End
	default:
		return nil
	}
	f, err := parseNonNegative(key, value)
	if err != nil {
		return err
	}
	if f > 100 {
		return fmt.Errorf("key %s must be a percentage", key)
	}
	*dst = f
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "export":
		n.Export = b
	case "copy":
		n.Copy = b
	}
	return nil
}
