package cbam

import "fmt"

// Policy holds the classification thresholds, readiness weights and the
// coverage sentinel. Defaults reproduce the published calibration; all
// values can be overridden from the advisory config file.
type Policy struct {
	GreenMaxHitPct  float64 `json:"green_max_hit_pct" yaml:"green_max_hit_pct"`   // Inclusive upper bound for GREEN
	YellowMaxHitPct float64 `json:"yellow_max_hit_pct" yaml:"yellow_max_hit_pct"` // Inclusive upper bound for YELLOW

	CostPressureWeight  float64 `json:"cost_pressure_weight" yaml:"cost_pressure_weight"`   // Per % of price hit
	MarginErosionWeight float64 `json:"margin_erosion_weight" yaml:"margin_erosion_weight"` // Per % of margin lost

	CoverageSentinel float64 `json:"coverage_sentinel" yaml:"coverage_sentinel"` // DSCR when debt service is zero
}

// DefaultPolicy returns the standard calibration.
func DefaultPolicy() Policy {
	return Policy{
		GreenMaxHitPct:      5,
		YellowMaxHitPct:     15,
		CostPressureWeight:  2,
		MarginErosionWeight: 5,
		CoverageSentinel:    999,
	}
}

// Validate checks that the policy is internally consistent.
func (p Policy) Validate() error {
	if p.GreenMaxHitPct < 0 {
		return fmt.Errorf("green threshold must be non-negative, got %.2f", p.GreenMaxHitPct)
	}
	if p.YellowMaxHitPct <= p.GreenMaxHitPct {
		return fmt.Errorf("yellow threshold %.2f must exceed green threshold %.2f", p.YellowMaxHitPct, p.GreenMaxHitPct)
	}
	if p.CostPressureWeight < 0 || p.MarginErosionWeight < 0 {
		return fmt.Errorf("readiness weights must be non-negative")
	}
	if p.CoverageSentinel <= 0 {
		return fmt.Errorf("coverage sentinel must be positive, got %.2f", p.CoverageSentinel)
	}
	return nil
}
