package models

// AnalysisRequest is the wire form of a scenario request. Every field
// except the sector is optional; omitted fields fall back to the sector
// defaults so a bare {"sector":"steel"} runs the baseline scenario.
type AnalysisRequest struct {
	Sector string `json:"sector"`

	PlantIntensity        *float64 `json:"plant_intensity_tco2_per_tonne,omitempty"`
	ExportVolumeTonnes    *float64 `json:"export_volume_tonnes,omitempty"`
	SellingPriceEUR       *float64 `json:"selling_price_eur_per_tonne,omitempty"`
	ReductionPct          *float64 `json:"reduction_pct,omitempty"`
	CapexPerPctMillionEUR *float64 `json:"capex_per_pct_million_eur,omitempty"`
	IncentiveBps          *float64 `json:"incentive_bps,omitempty"`
	TenorYears            *int     `json:"tenor_years,omitempty"`
	FxINRPerEUR           *float64 `json:"fx_inr_per_eur,omitempty"`
}

// Resolve merges the request over the sector defaults and clamps the
// result into the supported ranges.
func (req *AnalysisRequest) Resolve(row SectorReference, pol SectorPolicy) *AnalysisInputs {
	in := DefaultAnalysisInputs(row, pol)

	if req.PlantIntensity != nil {
		in.PlantIntensity = *req.PlantIntensity
	}
	if req.ExportVolumeTonnes != nil {
		in.ExportVolumeTonnes = *req.ExportVolumeTonnes
	}
	if req.SellingPriceEUR != nil {
		in.SellingPriceEUR = *req.SellingPriceEUR
	}
	if req.ReductionPct != nil {
		in.ReductionPct = *req.ReductionPct
	}
	if req.CapexPerPctMillionEUR != nil {
		in.CapexPerPctMillionEUR = *req.CapexPerPctMillionEUR
	}
	if req.IncentiveBps != nil {
		in.IncentiveBps = *req.IncentiveBps
	}
	if req.TenorYears != nil {
		in.TenorYears = *req.TenorYears
	}
	if req.FxINRPerEUR != nil {
		in.FxINRPerEUR = *req.FxINRPerEUR
	}

	in.Clamp()
	return in
}
