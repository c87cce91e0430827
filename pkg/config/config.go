package config

import (
	"fmt"
	"strings"
)

type Feature int

const (
	FeatStrings Feature = iota
	FeatComments
	FeatCount
)

type Warning int

const (
	WarnOverflow Warning = iota
	WarnCount
)

type Info struct {
	Name        string
	Enabled     bool
	Description string
}

type Config struct {
	Features   map[Feature]Info
	Warnings   map[Warning]Info
	FeatureMap map[string]Feature
	WarningMap map[string]Warning
}

func NewConfig() *Config {
	cfg := &Config{
		Features:   make(map[Feature]Info),
		Warnings:   make(map[Warning]Info),
		FeatureMap: make(map[string]Feature),
		WarningMap: make(map[string]Warning),
	}

	features := map[Feature]Info{
		FeatStrings:  {"strings", false, "Recognize double-quoted string literals, kept verbatim with their quotes."},
		FeatComments: {"comments", false, "Skip '//' line comments and '/* */' block comments."},
	}

	warnings := map[Warning]Info{
		WarnOverflow: {"overflow", true, "Warn when an integer literal does not fit in 64 bits."},
	}

	cfg.Features, cfg.Warnings = features, warnings
	for ft, info := range features {
		cfg.FeatureMap[info.Name] = ft
	}
	for wt, info := range warnings {
		cfg.WarningMap[info.Name] = wt
	}

	return cfg
}

func (c *Config) SetFeature(ft Feature, enabled bool) {
	if info, ok := c.Features[ft]; ok {
		info.Enabled = enabled
		c.Features[ft] = info
	}
}

func (c *Config) IsFeatureEnabled(ft Feature) bool { return c.Features[ft].Enabled }

func (c *Config) SetWarning(wt Warning, enabled bool) {
	if info, ok := c.Warnings[wt]; ok {
		info.Enabled = enabled
		c.Warnings[wt] = info
	}
}

func (c *Config) IsWarningEnabled(wt Warning) bool { return c.Warnings[wt].Enabled }

// ApplyFlag handles a single -F<feature>, -Fno-<feature>, -W<warning>,
// -Wno-<warning> or -Wall switch.
func (c *Config) ApplyFlag(flag string) error {
	trimmed := strings.TrimPrefix(flag, "-")
	if len(trimmed) < 2 {
		return fmt.Errorf("malformed flag '%s'", flag)
	}

	kind, name := trimmed[0], trimmed[1:]
	enable := true
	if strings.HasPrefix(name, "no-") {
		enable = false
		name = strings.TrimPrefix(name, "no-")
	}

	switch kind {
	case 'W':
		if name == "all" {
			for i := Warning(0); i < WarnCount; i++ {
				c.SetWarning(i, enable)
			}
			return nil
		}
		w, ok := c.WarningMap[name]
		if !ok {
			return fmt.Errorf("unknown warning '%s'", name)
		}
		c.SetWarning(w, enable)
	case 'F':
		f, ok := c.FeatureMap[name]
		if !ok {
			return fmt.Errorf("unknown feature '%s'", name)
		}
		c.SetFeature(f, enable)
	default:
		return fmt.Errorf("malformed flag '%s'", flag)
	}
	return nil
}

// ProcessFlags applies a whitespace separated list of switches in order, so
// later switches override earlier ones.
func (c *Config) ProcessFlags(flagStr string) error {
	for _, flag := range strings.Fields(flagStr) {
		if err := c.ApplyFlag(flag); err != nil {
			return err
		}
	}
	return nil
}
