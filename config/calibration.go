package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/keswick-hub/registrar-engine/internal/domain/awards"
	"github.com/keswick-hub/registrar-engine/internal/domain/layout"
)

// Calibration bundles the registrar-tunable rule tables: award
// thresholds and transcript layout density. The registrar reviews these
// once a year; everything else in the engine is fixed policy.
//
// Example file:
//
//	awards:
//	  scholar_tiers:
//	    - name: AP Scholar with Distinction
//	      min_exams: 5
//	      min_avg: 3.5
//	  rank_honors:
//	    valedictorian_gpa_floor: 4.0
//	  nmsqt:
//	    min_score: 1400
//	layout:
//	  overflow_guard: 10.5
type Calibration struct {
	Awards awards.Config `yaml:"awards"`
	Layout layout.Config `yaml:"layout"`
}

// DefaultCalibration returns the built-in rule tables.
func DefaultCalibration() *Calibration {
	return &Calibration{
		Awards: awards.DefaultConfig(),
		Layout: layout.DefaultConfig(),
	}
}

// LoadCalibration reads a YAML calibration file. An empty path returns
// the defaults. A section missing from the file keeps its default
// values, so a file can override a single threshold.
func LoadCalibration(path string) (*Calibration, error) {
	cal := DefaultCalibration()
	if path == "" {
		return cal, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calibration file: %w", err)
	}

	if err := yaml.Unmarshal(data, cal); err != nil {
		return nil, fmt.Errorf("parse calibration file %s: %w", path, err)
	}

	if err := cal.validate(); err != nil {
		return nil, fmt.Errorf("calibration file %s: %w", path, err)
	}
	return cal, nil
}

func (c *Calibration) validate() error {
	for i, tier := range c.Awards.ScholarTiers {
		if tier.Name == "" {
			return fmt.Errorf("awards.scholar_tiers[%d]: name is required", i)
		}
		if tier.MinExams < 0 {
			return fmt.Errorf("awards.scholar_tiers[%d]: min_exams must be >= 0", i)
		}
	}
	if p := c.Awards.RankHonors.DistinguishedPercentile; p < 0 || p > 100 {
		return fmt.Errorf("awards.rank_honors.distinguished_percentile must be 0-100, got %v", p)
	}
	if c.Awards.NMSQT.CommendedCutoff > c.Awards.NMSQT.SemifinalistCutoff {
		return fmt.Errorf("awards.nmsqt: commended_cutoff must not exceed semifinalist_cutoff")
	}
	if c.Layout.AwardDivisor <= 0 {
		return fmt.Errorf("layout.award_divisor must be positive")
	}
	if c.Layout.OverflowGuard <= 0 {
		return fmt.Errorf("layout.overflow_guard must be positive")
	}
	return nil
}
