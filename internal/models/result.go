package models

// Competitiveness bands, least to most exposed
const (
	BandGreen  = "GREEN"
	BandYellow = "YELLOW"
	BandRed    = "RED"
)

// Competitiveness classifies the CBAM price hit into one of three bands
type Competitiveness struct {
	Band  string `json:"band"`  // "GREEN", "YELLOW" or "RED"
	Label string `json:"label"` // Display tag, e.g. "YELLOW – Cost Pressure"
	Color string `json:"color"` // CSS color class
}

// CalculationResult holds every derived figure for one scenario. All EUR
// amounts carry an INR twin converted at the scenario exchange rate.
type CalculationResult struct {
	// Exposure
	ExcessIntensity float64 `json:"excess_intensity_tco2_per_tonne"` // Above EU benchmark, floored at 0
	CostPerTonneEUR float64 `json:"cbam_cost_per_tonne_eur"`
	TotalBillEUR    float64 `json:"total_cbam_bill_eur"`
	TotalBillINR    float64 `json:"total_cbam_bill_inr"`

	// Margin impact
	HitPct          float64         `json:"cbam_hit_pct"` // CBAM cost as % of selling price
	PreMarginPct    float64         `json:"pre_cbam_margin_pct"`
	PostMarginPct   float64         `json:"post_cbam_margin_pct"`
	MarginDeltaPct  float64         `json:"margin_delta_pct"` // Post minus pre, never positive
	Competitiveness Competitiveness `json:"competitiveness"`

	// Decarbonisation scenario
	ReducedIntensity     float64 `json:"reduced_intensity_tco2_per_tonne"`
	ExcessAfter          float64 `json:"excess_intensity_after_tco2_per_tonne"`
	CostPerTonneAfterEUR float64 `json:"cbam_cost_per_tonne_after_eur"`
	TotalBillAfterEUR    float64 `json:"total_cbam_bill_after_eur"`
	SavingsEUR           float64 `json:"cbam_savings_eur"` // Annual, floored at 0
	SavingsINR           float64 `json:"cbam_savings_inr"`

	// Transition financing
	CapexMillionEUR float64 `json:"capex_million_eur"`
	CapexEUR        float64 `json:"capex_eur"`
	CapexINR        float64 `json:"capex_inr"`
	AnnualReliefEUR float64 `json:"annual_incentive_relief_eur"` // From the SLL/SLB rate incentive
	AnnualReliefINR float64 `json:"annual_incentive_relief_inr"`

	// Readiness
	ReadinessScore float64 `json:"readiness_score"` // 0-100
	HighRisk       bool    `json:"high_risk"`       // Score exhausted: CBAM cost exceeds margin

	// Debt & coverage
	AnnualDebtServiceEUR  float64 `json:"annual_debt_service_eur"`
	AnnualDebtServiceINR  float64 `json:"annual_debt_service_inr"`
	AnnualCashFlowGainEUR float64 `json:"annual_cash_flow_gain_eur"` // Savings plus incentive relief
	AnnualCashFlowGainINR float64 `json:"annual_cash_flow_gain_inr"`
	DSCR                  float64 `json:"dscr"`          // Sentinel 999 when debt service is zero
	PaybackYears          float64 `json:"payback_years"` // 0 when the plan generates no gain
}
