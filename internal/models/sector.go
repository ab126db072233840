package models

// Sector identifiers the reference table is calibrated for
const (
	SectorSteel     = "steel"
	SectorAluminium = "aluminium"
)

// SectorReference is one calibration row from the sector reference table.
// Baseline intensity is the India sector average; the EU benchmark is the
// free-allocation benchmark the CBAM charge is measured against.
type SectorReference struct {
	Sector            string  `json:"sector"`
	BaselineIntensity float64 `json:"baseline_intensity_tco2_per_tonne"` // India sector average
	EUBenchmark       float64 `json:"eu_benchmark_intensity_tco2_per_tonne"`
	ETSPriceEUR       float64 `json:"ets_price_eur_per_tco2"`
	ExportPriceEUR    float64 `json:"typical_export_price_eur_per_tonne"`
	PreCBAMMarginPct  float64 `json:"typical_pre_cbam_margin_pct"`
}

// INR display units
const (
	Lakh  = 100_000
	Crore = 10_000_000
)

// InCrore converts an absolute INR amount to crore for display.
func InCrore(inr float64) float64 {
	return inr / Crore
}
