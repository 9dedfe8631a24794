package core

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var Conf *viper.Viper

func init() {
	Conf = viper.New()

	// defaults; institution policy may override any of these per deployment
	Conf.SetTypeByDefaultValue(true)
	Conf.SetDefault("appName", "Attainment")
	Conf.SetDefault("l1PassFraction", 0.6)
	Conf.SetDefault("l2PassFraction", 0.6)
	Conf.SetDefault("l3PassFraction", 0.6)
	Conf.SetDefault("directWeight", 0.7)
	Conf.SetDefault("indirectWeight", 0.3)
	Conf.SetDefault("gapExceedsAt", 2.0)
	Conf.SetDefault("gapCriticalBelow", -5.0)
	Conf.SetDefault("complianceThreshold", 1.0)
	Conf.SetDefault("partialComplianceThreshold", 0.75)
	Conf.SetDefault("trendTolerance", 1.5)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	Conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	Conf.AutomaticEnv()
}

// GapBands holds the fixed-point boundaries used to classify an attainment gap.
// A gap at or above ExceedsAt "exceeds"; [0, ExceedsAt) "meets";
// [CriticalBelow, 0) is "below"; anything under CriticalBelow is "critical".
type GapBands struct {
	ExceedsAt     float64 `json:"exceeds_at"`
	CriticalBelow float64 `json:"critical_below"`
}

// Config carries every policy knob the engine needs. It is injected into
// each computation; nothing in the engine reads configuration globally.
type Config struct {
	// fraction of attempted students that must clear a level's threshold
	// for the class to achieve that level, indexed L1..L3
	PassFractions [3]float64 `json:"pass_fractions"`
	// direct/indirect evidence split for PO totals; must sum to 1
	DirectWeight   float64 `json:"direct_weight"`
	IndirectWeight float64 `json:"indirect_weight"`

	Bands GapBands `json:"gap_bands"`

	// fraction of COs and POs that must meet target for full compliance,
	// and the lower bound under which compliance is not even partial
	ComplianceThreshold        float64 `json:"compliance_threshold"`
	PartialComplianceThreshold float64 `json:"partial_compliance_threshold"`

	// attainment change (in percentage points) under which a series is "stable"
	TrendTolerance float64 `json:"trend_tolerance"`
}

// DefaultConfig returns the documented defaults without consulting the environment.
func DefaultConfig() Config {
	return Config{
		PassFractions:              [3]float64{0.6, 0.6, 0.6},
		DirectWeight:               0.7,
		IndirectWeight:             0.3,
		Bands:                      GapBands{ExceedsAt: 2.0, CriticalBelow: -5.0},
		ComplianceThreshold:        1.0,
		PartialComplianceThreshold: 0.75,
		TrendTolerance:             1.5,
	}
}

// LoadConfig materializes the typed Config from Conf (defaults + env overlay).
func LoadConfig() Config {
	return Config{
		PassFractions: [3]float64{
			Conf.GetFloat64("l1PassFraction"),
			Conf.GetFloat64("l2PassFraction"),
			Conf.GetFloat64("l3PassFraction"),
		},
		DirectWeight:   Conf.GetFloat64("directWeight"),
		IndirectWeight: Conf.GetFloat64("indirectWeight"),
		Bands: GapBands{
			ExceedsAt:     Conf.GetFloat64("gapExceedsAt"),
			CriticalBelow: Conf.GetFloat64("gapCriticalBelow"),
		},
		ComplianceThreshold:        Conf.GetFloat64("complianceThreshold"),
		PartialComplianceThreshold: Conf.GetFloat64("partialComplianceThreshold"),
		TrendTolerance:             Conf.GetFloat64("trendTolerance"),
	}
}

var errInvalidConfig = errors.New("invalid engine configuration")

// Validate rejects configurations that would make the computations meaningless.
func (c Config) Validate() error {
	var flds []FieldError
	for i, f := range c.PassFractions {
		if f < 0 || f > 1 {
			flds = append(flds, FieldError{
				Field: fmt.Sprintf("pass_fractions[%d]", i),
				Error: "pass fraction must be within [0, 1]",
			})
		}
	}
	if c.DirectWeight < 0 || c.DirectWeight > 1 {
		flds = append(flds, FieldError{Field: "direct_weight", Error: "direct weight must be within [0, 1]"})
	}
	if c.IndirectWeight < 0 || c.IndirectWeight > 1 {
		flds = append(flds, FieldError{Field: "indirect_weight", Error: "indirect weight must be within [0, 1]"})
	}
	if math.Abs(c.DirectWeight+c.IndirectWeight-1) > 1e-9 {
		flds = append(flds, FieldError{Field: "indirect_weight", Error: "direct and indirect weights must sum to 1"})
	}
	if c.Bands.ExceedsAt < 0 {
		flds = append(flds, FieldError{Field: "gap_bands.exceeds_at", Error: "exceeds boundary cannot be negative"})
	}
	if c.Bands.CriticalBelow > 0 {
		flds = append(flds, FieldError{Field: "gap_bands.critical_below", Error: "critical boundary cannot be positive"})
	}
	if c.ComplianceThreshold < 0 || c.ComplianceThreshold > 1 {
		flds = append(flds, FieldError{Field: "compliance_threshold", Error: "compliance threshold must be within [0, 1]"})
	}
	if c.PartialComplianceThreshold < 0 || c.PartialComplianceThreshold > c.ComplianceThreshold {
		flds = append(flds, FieldError{
			Field: "partial_compliance_threshold",
			Error: "partial threshold must be within [0, compliance_threshold]",
		})
	}
	if c.TrendTolerance < 0 {
		flds = append(flds, FieldError{Field: "trend_tolerance", Error: "trend tolerance cannot be negative"})
	}
	if len(flds) > 0 {
		return NewValidationError(errInvalidConfig, flds...)
	}
	return nil
}
