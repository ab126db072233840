package cbam

import (
	"math"
	"reflect"
	"testing"

	"covalence/internal/models"
)

// steelRow returns a reference row with round numbers that make the
// expected figures easy to verify by hand.
func steelRow() models.SectorReference {
	return models.SectorReference{
		Sector:            models.SectorSteel,
		BaselineIntensity: 2.6,
		EUBenchmark:       1.0,
		ETSPriceEUR:       80,
		ExportPriceEUR:    1000,
		PreCBAMMarginPct:  12,
	}
}

func baseInputs() *models.AnalysisInputs {
	return &models.AnalysisInputs{
		Sector:                models.SectorSteel,
		PlantIntensity:        2.0,
		ExportVolumeTonnes:    10000,
		SellingPriceEUR:       1000,
		ReductionPct:          15,
		CapexPerPctMillionEUR: 8.0,
		IncentiveBps:          75,
		TenorYears:            7,
		FxINRPerEUR:           88.5,
	}
}

// TestCalculateExposure verifies the CBAM cost driver chain
func TestCalculateExposure(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())
	result := calc.Calculate(steelRow(), baseInputs())

	if result.ExcessIntensity != 1.0 {
		t.Errorf("ExcessIntensity = %v, want 1.0", result.ExcessIntensity)
	}
	if result.CostPerTonneEUR != 80 {
		t.Errorf("CostPerTonneEUR = %v, want 80", result.CostPerTonneEUR)
	}
	if result.TotalBillEUR != 800000 {
		t.Errorf("TotalBillEUR = %v, want 800000", result.TotalBillEUR)
	}
	if math.Abs(result.TotalBillINR-800000*88.5) > 1e-6 {
		t.Errorf("TotalBillINR = %v, want %v", result.TotalBillINR, 800000*88.5)
	}

	t.Run("intensity below benchmark floors at zero", func(t *testing.T) {
		in := baseInputs()
		in.PlantIntensity = 0.5
		result := calc.Calculate(steelRow(), in)

		if result.ExcessIntensity != 0 {
			t.Errorf("ExcessIntensity = %v, want 0", result.ExcessIntensity)
		}
		if result.TotalBillEUR != 0 {
			t.Errorf("TotalBillEUR = %v, want 0", result.TotalBillEUR)
		}
	})

	t.Run("zero export volume means zero bill", func(t *testing.T) {
		in := baseInputs()
		in.ExportVolumeTonnes = 0
		result := calc.Calculate(steelRow(), in)

		if result.TotalBillEUR != 0 {
			t.Errorf("TotalBillEUR = %v, want 0", result.TotalBillEUR)
		}
	})
}

// TestCalculateMarginHit verifies the price hit and margin erosion
func TestCalculateMarginHit(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())
	result := calc.Calculate(steelRow(), baseInputs())

	// 80 EUR per tonne against a 1000 EUR price
	if math.Abs(result.HitPct-8.0) > 1e-9 {
		t.Errorf("HitPct = %v, want 8.0", result.HitPct)
	}
	if math.Abs(result.PostMarginPct-4.0) > 1e-9 {
		t.Errorf("PostMarginPct = %v, want 4.0", result.PostMarginPct)
	}
	if math.Abs(result.MarginDeltaPct+8.0) > 1e-9 {
		t.Errorf("MarginDeltaPct = %v, want -8.0", result.MarginDeltaPct)
	}
	if result.Competitiveness.Band != models.BandYellow {
		t.Errorf("Band = %s, want YELLOW", result.Competitiveness.Band)
	}

	t.Run("zero selling price yields zero hit", func(t *testing.T) {
		in := baseInputs()
		in.SellingPriceEUR = 0
		result := calc.Calculate(steelRow(), in)

		if result.HitPct != 0 {
			t.Errorf("HitPct = %v, want 0", result.HitPct)
		}
		if result.PostMarginPct != steelRow().PreCBAMMarginPct {
			t.Errorf("PostMarginPct = %v, want unchanged margin", result.PostMarginPct)
		}
	})

	t.Run("hit larger than margin floors post margin at zero", func(t *testing.T) {
		in := baseInputs()
		in.SellingPriceEUR = 200 // 80/200 = 40% hit vs 12% margin
		result := calc.Calculate(steelRow(), in)

		if result.PostMarginPct != 0 {
			t.Errorf("PostMarginPct = %v, want 0", result.PostMarginPct)
		}
		if result.MarginDeltaPct != -steelRow().PreCBAMMarginPct {
			t.Errorf("MarginDeltaPct = %v, want %v", result.MarginDeltaPct, -steelRow().PreCBAMMarginPct)
		}
	})
}

// TestClassify verifies band boundaries, with ties going to the lower band
func TestClassify(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())

	tests := []struct {
		name   string
		hitPct float64
		want   string
	}{
		{"zero hit", 0, models.BandGreen},
		{"inside green", 3.2, models.BandGreen},
		{"green boundary", 5.0, models.BandGreen},
		{"just above green", 5.0001, models.BandYellow},
		{"inside yellow", 8.0, models.BandYellow},
		{"yellow boundary", 15.0, models.BandYellow},
		{"just above yellow", 15.0001, models.BandRed},
		{"deep red", 40.0, models.BandRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.Classify(tt.hitPct)
			if got.Band != tt.want {
				t.Errorf("Classify(%v).Band = %s, want %s", tt.hitPct, got.Band, tt.want)
			}
		})
	}

	t.Run("labels carry the display tags", func(t *testing.T) {
		if got := calc.Classify(0).Label; got != "GREEN – Broadly Aligned" {
			t.Errorf("green label = %q", got)
		}
		if got := calc.Classify(10).Label; got != "YELLOW – Cost Pressure" {
			t.Errorf("yellow label = %q", got)
		}
		if got := calc.Classify(20).Label; got != "RED – High Substitution Risk" {
			t.Errorf("red label = %q", got)
		}
	})
}

// TestDecarbonisationScenario verifies the post-reduction recomputation
func TestDecarbonisationScenario(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())

	t.Run("15 percent reduction", func(t *testing.T) {
		result := calc.Calculate(steelRow(), baseInputs())

		if math.Abs(result.ReducedIntensity-1.7) > 1e-9 {
			t.Errorf("ReducedIntensity = %v, want 1.7", result.ReducedIntensity)
		}
		if math.Abs(result.TotalBillAfterEUR-560000) > 1e-6 {
			t.Errorf("TotalBillAfterEUR = %v, want 560000", result.TotalBillAfterEUR)
		}
		if math.Abs(result.SavingsEUR-240000) > 1e-6 {
			t.Errorf("SavingsEUR = %v, want 240000", result.SavingsEUR)
		}
	})

	t.Run("zero reduction means zero savings", func(t *testing.T) {
		in := baseInputs()
		in.ReductionPct = 0
		result := calc.Calculate(steelRow(), in)

		if result.SavingsEUR != 0 {
			t.Errorf("SavingsEUR = %v, want 0", result.SavingsEUR)
		}
		if result.TotalBillAfterEUR != result.TotalBillEUR {
			t.Errorf("TotalBillAfterEUR = %v, want %v", result.TotalBillAfterEUR, result.TotalBillEUR)
		}
	})

	t.Run("reduction past the benchmark caps savings at the full bill", func(t *testing.T) {
		in := baseInputs()
		in.ReductionPct = 50 // 2.0 -> 1.0, exactly at benchmark
		result := calc.Calculate(steelRow(), in)

		if result.ExcessAfter != 0 {
			t.Errorf("ExcessAfter = %v, want 0", result.ExcessAfter)
		}
		if result.SavingsEUR != result.TotalBillEUR {
			t.Errorf("SavingsEUR = %v, want full bill %v", result.SavingsEUR, result.TotalBillEUR)
		}
	})

	t.Run("savings never negative when there is no bill", func(t *testing.T) {
		in := baseInputs()
		in.PlantIntensity = 0.5 // Below benchmark, no bill at all
		result := calc.Calculate(steelRow(), in)

		if result.SavingsEUR != 0 {
			t.Errorf("SavingsEUR = %v, want 0", result.SavingsEUR)
		}
	})
}

// TestFinanceSizing verifies capex scaling and incentive relief
func TestFinanceSizing(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())
	result := calc.Calculate(steelRow(), baseInputs())

	// 8.0m per percent over 15 points
	if result.CapexMillionEUR != 120.0 {
		t.Errorf("CapexMillionEUR = %v, want 120.0", result.CapexMillionEUR)
	}
	if result.CapexEUR != 120_000_000 {
		t.Errorf("CapexEUR = %v, want 120000000", result.CapexEUR)
	}
	// 75 bps on 120m
	if math.Abs(result.AnnualReliefEUR-900000) > 1e-3 {
		t.Errorf("AnnualReliefEUR = %v, want 900000", result.AnnualReliefEUR)
	}
	if math.Abs(result.CapexINR-120_000_000*88.5) > 1e-3 {
		t.Errorf("CapexINR = %v, want %v", result.CapexINR, 120_000_000*88.5)
	}
}

// TestReadinessScore verifies clamping and the exhausted-score flag
func TestReadinessScore(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())

	t.Run("mid-range score", func(t *testing.T) {
		// Hit 8%, erosion 8%: raw = 16 + 40 = 56
		result := calc.Calculate(steelRow(), baseInputs())

		if math.Abs(result.ReadinessScore-44) > 1e-9 {
			t.Errorf("ReadinessScore = %v, want 44", result.ReadinessScore)
		}
		if result.HighRisk {
			t.Error("HighRisk = true, want false")
		}
	})

	t.Run("no exposure scores 100", func(t *testing.T) {
		in := baseInputs()
		in.PlantIntensity = 0.5
		result := calc.Calculate(steelRow(), in)

		if result.ReadinessScore != 100 {
			t.Errorf("ReadinessScore = %v, want 100", result.ReadinessScore)
		}
	})

	t.Run("heavy hit clamps to zero and flags high risk", func(t *testing.T) {
		in := baseInputs()
		in.SellingPriceEUR = 200 // 40% hit vs 12% margin
		result := calc.Calculate(steelRow(), in)

		if result.ReadinessScore != 0 {
			t.Errorf("ReadinessScore = %v, want 0", result.ReadinessScore)
		}
		if !result.HighRisk {
			t.Error("HighRisk = false, want true")
		}
	})

	t.Run("score stays within bounds across a parameter grid", func(t *testing.T) {
		row := steelRow()
		for _, price := range []float64{0, 50, 200, 700, 2400} {
			for _, intensity := range []float64{0, 1.0, 2.0, 5.0, 17.0} {
				in := baseInputs()
				in.SellingPriceEUR = price
				in.PlantIntensity = intensity
				result := calc.Calculate(row, in)

				if result.ReadinessScore < 0 || result.ReadinessScore > 100 {
					t.Errorf("ReadinessScore = %v out of [0, 100] at price %v intensity %v",
						result.ReadinessScore, price, intensity)
				}
			}
		}
	})
}

// TestDebtCoverage verifies debt service, DSCR and payback
func TestDebtCoverage(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())

	t.Run("debt service splits capex over the tenor", func(t *testing.T) {
		result := calc.Calculate(steelRow(), baseInputs())

		// 120m over 7 years
		if math.Abs(result.AnnualDebtServiceEUR-17142857.14) > 0.01 {
			t.Errorf("AnnualDebtServiceEUR = %v, want 17142857.14", result.AnnualDebtServiceEUR)
		}
	})

	t.Run("cash flow gain combines savings and relief", func(t *testing.T) {
		result := calc.Calculate(steelRow(), baseInputs())

		want := result.SavingsEUR + result.AnnualReliefEUR
		if result.AnnualCashFlowGainEUR != want {
			t.Errorf("AnnualCashFlowGainEUR = %v, want %v", result.AnnualCashFlowGainEUR, want)
		}
		if math.Abs(result.DSCR-want/result.AnnualDebtServiceEUR) > 1e-9 {
			t.Errorf("DSCR = %v, want %v", result.DSCR, want/result.AnnualDebtServiceEUR)
		}
	})

	t.Run("zero debt service reports the sentinel", func(t *testing.T) {
		in := baseInputs()
		in.ReductionPct = 0 // No capex, so no debt service
		result := calc.Calculate(steelRow(), in)

		if result.AnnualDebtServiceEUR != 0 {
			t.Errorf("AnnualDebtServiceEUR = %v, want 0", result.AnnualDebtServiceEUR)
		}
		if result.DSCR != 999 {
			t.Errorf("DSCR = %v, want sentinel 999", result.DSCR)
		}
	})

	t.Run("no gain means zero payback", func(t *testing.T) {
		in := baseInputs()
		in.PlantIntensity = 0.5 // No bill, no savings
		in.IncentiveBps = 0     // And no relief
		result := calc.Calculate(steelRow(), in)

		if result.AnnualCashFlowGainEUR != 0 {
			t.Errorf("AnnualCashFlowGainEUR = %v, want 0", result.AnnualCashFlowGainEUR)
		}
		if result.PaybackYears != 0 {
			t.Errorf("PaybackYears = %v, want 0", result.PaybackYears)
		}
	})

	t.Run("payback is capex over gain", func(t *testing.T) {
		result := calc.Calculate(steelRow(), baseInputs())

		want := result.CapexEUR / result.AnnualCashFlowGainEUR
		if math.Abs(result.PaybackYears-want) > 1e-9 {
			t.Errorf("PaybackYears = %v, want %v", result.PaybackYears, want)
		}
	})
}

// TestCalculateIdempotent verifies identical inputs give identical results
func TestCalculateIdempotent(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())

	first := calc.Calculate(steelRow(), baseInputs())
	second := calc.Calculate(steelRow(), baseInputs())

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calculation differs:\nfirst  %+v\nsecond %+v", first, second)
	}
}

// TestReductionMonotonicity verifies savings never shrink and the
// post-reduction bill never grows as the reduction target rises
func TestReductionMonotonicity(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())
	row := steelRow()

	prevSavings := -1.0
	prevAfter := math.Inf(1)
	for r := 0.0; r <= 50.0; r += 1.0 {
		in := baseInputs()
		in.ReductionPct = r
		result := calc.Calculate(row, in)

		if result.SavingsEUR < prevSavings {
			t.Errorf("savings shrank at reduction %v: %v < %v", r, result.SavingsEUR, prevSavings)
		}
		if result.TotalBillAfterEUR > prevAfter {
			t.Errorf("post-reduction bill grew at reduction %v: %v > %v", r, result.TotalBillAfterEUR, prevAfter)
		}
		prevSavings = result.SavingsEUR
		prevAfter = result.TotalBillAfterEUR
	}
}

// TestDefaultPolicy verifies the standard calibration values
func TestDefaultPolicy(t *testing.T) {
	pol := DefaultPolicy()

	tests := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"GreenMaxHitPct", pol.GreenMaxHitPct, 5},
		{"YellowMaxHitPct", pol.YellowMaxHitPct, 15},
		{"CostPressureWeight", pol.CostPressureWeight, 2},
		{"MarginErosionWeight", pol.MarginErosionWeight, 5},
		{"CoverageSentinel", pol.CoverageSentinel, 999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	if err := pol.Validate(); err != nil {
		t.Errorf("default policy should validate, got %v", err)
	}
}

// TestPolicyValidate verifies rejection of inconsistent policies
func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Policy)
		wantErr bool
	}{
		{"default is valid", func(p *Policy) {}, false},
		{"negative green threshold", func(p *Policy) { p.GreenMaxHitPct = -1 }, true},
		{"yellow below green", func(p *Policy) { p.YellowMaxHitPct = 3 }, true},
		{"yellow equals green", func(p *Policy) { p.YellowMaxHitPct = p.GreenMaxHitPct }, true},
		{"negative weight", func(p *Policy) { p.CostPressureWeight = -2 }, true},
		{"zero sentinel", func(p *Policy) { p.CoverageSentinel = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pol := DefaultPolicy()
			tt.mutate(&pol)
			err := pol.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestCustomPolicyThresholds verifies the thresholds actually drive the bands
func TestCustomPolicyThresholds(t *testing.T) {
	pol := DefaultPolicy()
	pol.GreenMaxHitPct = 10
	pol.YellowMaxHitPct = 20
	calc := NewCalculator(pol)

	if got := calc.Classify(8).Band; got != models.BandGreen {
		t.Errorf("Classify(8).Band = %s, want GREEN under widened threshold", got)
	}
	if got := calc.Classify(18).Band; got != models.BandYellow {
		t.Errorf("Classify(18).Band = %s, want YELLOW under widened threshold", got)
	}
}
