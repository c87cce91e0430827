package config

import "testing"

func TestDefaults(t *testing.T) {
	cfg := NewConfig()
	if cfg.IsFeatureEnabled(FeatStrings) || cfg.IsFeatureEnabled(FeatComments) {
		t.Error("strings and comments must be off by default")
	}
	if !cfg.IsWarningEnabled(WarnOverflow) {
		t.Error("overflow warning must be on by default")
	}
	if len(cfg.FeatureMap) != int(FeatCount) || len(cfg.WarningMap) != int(WarnCount) {
		t.Errorf("lookup maps not populated: %v %v", cfg.FeatureMap, cfg.WarningMap)
	}
}

func TestProcessFlags(t *testing.T) {
	tests := []struct {
		flags    string
		strings  bool
		comments bool
		overflow bool
	}{
		{"", false, false, true},
		{"-Fstrings", true, false, true},
		{"-Fcomments -Fstrings -Fno-strings", false, true, true},
		{"-Wno-overflow", false, false, false},
		{"-Wno-all", false, false, false},
		{"-Wno-all -Woverflow", false, false, true},
		{"Fcomments", false, true, true},
	}
	for _, tt := range tests {
		cfg := NewConfig()
		if err := cfg.ProcessFlags(tt.flags); err != nil {
			t.Fatalf("ProcessFlags(%q): %v", tt.flags, err)
		}
		if got := cfg.IsFeatureEnabled(FeatStrings); got != tt.strings {
			t.Errorf("%q: strings = %v, want %v", tt.flags, got, tt.strings)
		}
		if got := cfg.IsFeatureEnabled(FeatComments); got != tt.comments {
			t.Errorf("%q: comments = %v, want %v", tt.flags, got, tt.comments)
		}
		if got := cfg.IsWarningEnabled(WarnOverflow); got != tt.overflow {
			t.Errorf("%q: overflow = %v, want %v", tt.flags, got, tt.overflow)
		}
	}
}

func TestApplyFlagErrors(t *testing.T) {
	for _, flag := range []string{"-Fbogus", "-Wbogus", "-X", "-Qfoo", "-"} {
		if err := NewConfig().ApplyFlag(flag); err == nil {
			t.Errorf("ApplyFlag(%q) succeeded, want error", flag)
		}
	}
}
