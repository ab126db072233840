package models

// Default scenario values and input ranges. Sector-specific capex and
// incentive defaults live in the sector policy table, not here.
const (
	DefaultExportVolumeTonnes = 39000.0
	DefaultReductionPct       = 15.0
	DefaultTenorYears         = 7
	DefaultFxINRPerEUR        = 88.5

	MaxReductionPct = 50.0
	MaxIncentiveBps = 300.0
	MinTenorYears   = 1
	MaxTenorYears   = 20
)

// AnalysisInputs contains all user parameters for one scenario run
type AnalysisInputs struct {
	Sector string `json:"sector"`

	// Exposure
	PlantIntensity     float64 `json:"plant_intensity_tco2_per_tonne"` // Plant emission intensity
	ExportVolumeTonnes float64 `json:"export_volume_tonnes"`           // Annual EU export volume
	SellingPriceEUR    float64 `json:"selling_price_eur_per_tonne"`    // Average selling price

	// Decarbonisation plan
	ReductionPct          float64 `json:"reduction_pct"`             // Target intensity reduction, 0-50
	CapexPerPctMillionEUR float64 `json:"capex_per_pct_million_eur"` // Capex per 1% reduction
	IncentiveBps          float64 `json:"incentive_bps"`             // SLL/SLB rate incentive, 0-300
	TenorYears            int     `json:"tenor_years"`               // Loan tenor, 1-20

	// Financial assumptions
	FxINRPerEUR float64 `json:"fx_inr_per_eur"` // EUR to INR exchange rate
}

// DefaultAnalysisInputs returns the baseline scenario for a sector,
// prefilled from its reference row and policy calibration.
func DefaultAnalysisInputs(row SectorReference, pol SectorPolicy) *AnalysisInputs {
	return &AnalysisInputs{
		Sector:                row.Sector,
		PlantIntensity:        row.BaselineIntensity,
		ExportVolumeTonnes:    DefaultExportVolumeTonnes,
		SellingPriceEUR:       row.ExportPriceEUR,
		ReductionPct:          DefaultReductionPct,
		CapexPerPctMillionEUR: pol.CapexPerPctMillionEUR,
		IncentiveBps:          pol.IncentiveBps,
		TenorYears:            DefaultTenorYears,
		FxINRPerEUR:           DefaultFxINRPerEUR,
	}
}

// Clamp forces every field into its allowed range. The calculation layer
// assumes non-negative inputs; this is the boundary that guarantees it.
func (in *AnalysisInputs) Clamp() {
	in.PlantIntensity = max(in.PlantIntensity, 0)
	in.ExportVolumeTonnes = max(in.ExportVolumeTonnes, 0)
	in.SellingPriceEUR = max(in.SellingPriceEUR, 0)
	in.ReductionPct = min(max(in.ReductionPct, 0), MaxReductionPct)
	in.CapexPerPctMillionEUR = max(in.CapexPerPctMillionEUR, 0)
	in.IncentiveBps = min(max(in.IncentiveBps, 0), MaxIncentiveBps)
	if in.TenorYears < MinTenorYears {
		in.TenorYears = MinTenorYears
	}
	if in.TenorYears > MaxTenorYears {
		in.TenorYears = MaxTenorYears
	}
	if in.FxINRPerEUR <= 0 {
		in.FxINRPerEUR = DefaultFxINRPerEUR
	}
}
