package cbam

import (
	"covalence/internal/models"
)

// Display tags for the three competitiveness bands
const (
	labelGreen  = "GREEN – Broadly Aligned"
	labelYellow = "YELLOW – Cost Pressure"
	labelRed    = "RED – High Substitution Risk"
)

// Calculator derives every scenario figure from a sector reference row
// and user inputs. It is pure: no I/O, no clock, no randomness, so
// identical inputs always produce identical results.
type Calculator struct {
	Policy Policy
}

// NewCalculator creates a calculator with the given policy.
func NewCalculator(pol Policy) *Calculator {
	return &Calculator{Policy: pol}
}

// Classify maps a CBAM price hit to its competitiveness band. Ties at a
// threshold go to the lower band.
func (c *Calculator) Classify(hitPct float64) models.Competitiveness {
	switch {
	case hitPct <= c.Policy.GreenMaxHitPct:
		return models.Competitiveness{Band: models.BandGreen, Label: labelGreen, Color: "green"}
	case hitPct <= c.Policy.YellowMaxHitPct:
		return models.Competitiveness{Band: models.BandYellow, Label: labelYellow, Color: "yellow"}
	default:
		return models.Competitiveness{Band: models.BandRed, Label: labelRed, Color: "red"}
	}
}

// Calculate runs the complete scenario for one sector row and one set of
// inputs. Inputs are expected non-negative with the exchange rate
// positive; the handler boundary guarantees that, and the divisions here
// are guarded regardless.
func (c *Calculator) Calculate(row models.SectorReference, in *models.AnalysisInputs) *models.CalculationResult {
	// CBAM cost driver
	excess := max(in.PlantIntensity-row.EUBenchmark, 0)
	costPerTonne := excess * row.ETSPriceEUR
	totalBill := costPerTonne * in.ExportVolumeTonnes

	// Margin hit
	hitPct := 0.0
	if in.SellingPriceEUR > 0 {
		hitPct = costPerTonne / in.SellingPriceEUR * 100
	}
	postMargin := max(row.PreCBAMMarginPct-hitPct, 0)

	// After decarbonisation
	reduced := in.PlantIntensity * (1 - in.ReductionPct/100)
	excessAfter := max(reduced-row.EUBenchmark, 0)
	costPerTonneAfter := excessAfter * row.ETSPriceEUR
	totalAfter := costPerTonneAfter * in.ExportVolumeTonnes
	savings := max(totalBill-totalAfter, 0)

	// Finance sizing
	capexMillion := in.CapexPerPctMillionEUR * in.ReductionPct
	capex := capexMillion * 1_000_000
	relief := in.IncentiveBps / 10_000 * capex

	// Readiness score. A large hit against a thin margin legitimately
	// exhausts the score; 0 is the intended financial warning.
	raw := hitPct*c.Policy.CostPressureWeight + (row.PreCBAMMarginPct-postMargin)*c.Policy.MarginErosionWeight
	readiness := max(min(100-raw, 100), 0)

	// Debt service and coverage
	debtService := 0.0
	if in.TenorYears > 0 {
		debtService = capex / float64(in.TenorYears)
	}
	gain := savings + relief
	dscr := c.Policy.CoverageSentinel
	if debtService > 0 {
		dscr = gain / debtService
	}
	payback := 0.0
	if gain > 0 {
		payback = capex / gain
	}

	fx := in.FxINRPerEUR
	return &models.CalculationResult{
		ExcessIntensity: excess,
		CostPerTonneEUR: costPerTonne,
		TotalBillEUR:    totalBill,
		TotalBillINR:    totalBill * fx,

		HitPct:          hitPct,
		PreMarginPct:    row.PreCBAMMarginPct,
		PostMarginPct:   postMargin,
		MarginDeltaPct:  postMargin - row.PreCBAMMarginPct,
		Competitiveness: c.Classify(hitPct),

		ReducedIntensity:     reduced,
		ExcessAfter:          excessAfter,
		CostPerTonneAfterEUR: costPerTonneAfter,
		TotalBillAfterEUR:    totalAfter,
		SavingsEUR:           savings,
		SavingsINR:           savings * fx,

		CapexMillionEUR: capexMillion,
		CapexEUR:        capex,
		CapexINR:        capex * fx,
		AnnualReliefEUR: relief,
		AnnualReliefINR: relief * fx,

		ReadinessScore: readiness,
		HighRisk:       readiness == 0,

		AnnualDebtServiceEUR:  debtService,
		AnnualDebtServiceINR:  debtService * fx,
		AnnualCashFlowGainEUR: gain,
		AnnualCashFlowGainINR: gain * fx,
		DSCR:                  dscr,
		PaybackYears:          payback,
	}
}
