package core

import "testing"

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestLoadConfigMatchesDefaults(t *testing.T) {
	if got, want := LoadConfig(), DefaultConfig(); got != want {
		t.Errorf("LoadConfig() = %+v, want %+v", got, want)
	}
}

func TestLoadConfigOverride(t *testing.T) {
	Conf.Set("directWeight", 0.8)
	Conf.Set("indirectWeight", 0.2)
	defer func() {
		Conf.Set("directWeight", 0.7)
		Conf.Set("indirectWeight", 0.3)
	}()

	cfg := LoadConfig()
	if cfg.DirectWeight != 0.8 || cfg.IndirectWeight != 0.2 {
		t.Errorf("LoadConfig() weights = %v/%v, want 0.8/0.2", cfg.DirectWeight, cfg.IndirectWeight)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("overridden config failed validation: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"pass fraction above 1", func(c *Config) { c.PassFractions[1] = 1.2 }},
		{"negative pass fraction", func(c *Config) { c.PassFractions[0] = -0.1 }},
		{"weights do not sum to 1", func(c *Config) { c.IndirectWeight = 0.4 }},
		{"direct weight above 1", func(c *Config) { c.DirectWeight = 1.1; c.IndirectWeight = -0.1 }},
		{"negative exceeds boundary", func(c *Config) { c.Bands.ExceedsAt = -1 }},
		{"positive critical boundary", func(c *Config) { c.Bands.CriticalBelow = 1 }},
		{"compliance threshold above 1", func(c *Config) { c.ComplianceThreshold = 1.5 }},
		{"partial above full threshold", func(c *Config) { c.PartialComplianceThreshold = 1.0; c.ComplianceThreshold = 0.9 }},
		{"negative trend tolerance", func(c *Config) { c.TrendTolerance = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !IsValidationError(err) {
				t.Errorf("Validate() = %v, want a ValidationError", err)
			}
		})
	}
}
