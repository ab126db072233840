package report

import (
	"strings"
	"testing"

	"covalence/internal/models"
	"covalence/internal/services/advisory"
	"covalence/internal/services/cbam"
)

func steelScenario(t *testing.T) (*models.AnalysisInputs, *models.CalculationResult, models.SectorReference, *advisory.Catalog) {
	t.Helper()

	row := models.SectorReference{
		Sector:            models.SectorSteel,
		BaselineIntensity: 2.5,
		EUBenchmark:       1.0,
		ETSPriceEUR:       80,
		ExportPriceEUR:    1000,
		PreCBAMMarginPct:  12,
	}
	cat := advisory.Default()
	steel, err := cat.Lookup(models.SectorSteel)
	if err != nil {
		t.Fatalf("Lookup(steel): %v", err)
	}

	in := models.DefaultAnalysisInputs(row, steel.Policy)
	in.PlantIntensity = 2.0
	in.ExportVolumeTonnes = 10000

	calc := cbam.NewCalculator(cat.Policy)
	res := calc.Calculate(row, in)
	return in, res, row, cat
}

func buildReport(t *testing.T, persona models.Persona) *Report {
	t.Helper()

	in, res, row, cat := steelScenario(t)
	steel, _ := cat.Lookup(models.SectorSteel)
	return New(persona, row, in, res, steel, cat.PolicyGaps)
}

func TestNewReportMetadata(t *testing.T) {
	rep := buildReport(t, models.PersonaExporter)

	if rep.ID == "" {
		t.Error("report should carry a generated reference id")
	}
	if rep.GeneratedAt.IsZero() {
		t.Error("report should carry a timestamp")
	}
	if rep.Persona != models.PersonaExporter {
		t.Errorf("persona = %q, want exporter", rep.Persona)
	}
}

func TestExporterMarkdown(t *testing.T) {
	rep := buildReport(t, models.PersonaExporter)
	md := rep.RenderMarkdown()

	for _, want := range []string{
		"# CBAM Exposure & Finance Advisory – Steel",
		"Exporter / Manufacturer",
		"## Key Indicators",
		"## Exposure Analysis",
		"YELLOW – Cost Pressure", // 80/1000 = 8% hit
		"CBAM adds 8.0% to your per-tonne cost",
		"Quantifying the 15% Decarbonisation Plan",
		"## Key Decarbonisation Levers",
		"Shift to EAF",
		"## Policy & MRV Gaps",
		"MRV Standardization",
		"€800,000", // annual bill
	} {
		if !strings.Contains(md, want) {
			t.Errorf("exporter markdown missing %q", want)
		}
	}

	if strings.Contains(md, "Deal Structuring") {
		t.Error("exporter report should not contain banker sections")
	}
	if strings.Contains(md, HighRiskWarning) {
		t.Error("no high-risk warning expected for a positive readiness score")
	}
}

func TestBankerMarkdown(t *testing.T) {
	rep := buildReport(t, models.PersonaBanker)
	md := rep.RenderMarkdown()

	for _, want := range []string{
		"Banker / Financial Institution",
		"## Deal Structuring",
		"Coverage Ratio (DSCR)",
		"## Market Precedents & Instrument Types",
		"Tata Steel",
		"## Client Risk Profile & Exposure",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("banker markdown missing %q", want)
		}
	}

	if strings.Contains(md, "Key Decarbonisation Levers") {
		t.Error("banker report should not contain the exporter lever section")
	}
}

func TestBankableConclusion(t *testing.T) {
	in, res, row, cat := steelScenario(t)
	steel, _ := cat.Lookup(models.SectorSteel)

	rep := New(models.PersonaBanker, row, in, res, steel, cat.PolicyGaps)
	md := rep.RenderMarkdown()

	if res.DSCR >= 1 {
		if !strings.Contains(md, "is **bankable**") {
			t.Error("expected bankable conclusion for DSCR >= 1")
		}
	} else {
		if !strings.Contains(md, "not self-liquidate") {
			t.Error("expected non-bankable conclusion for DSCR < 1")
		}
	}
}

func TestHighRiskWarningSurfaces(t *testing.T) {
	in, _, row, cat := steelScenario(t)
	steel, _ := cat.Lookup(models.SectorSteel)

	// Force the readiness score to zero: a huge hit against a thin margin
	in.SellingPriceEUR = 100 // 80% hit
	calc := cbam.NewCalculator(cat.Policy)
	res := calc.Calculate(row, in)
	if !res.HighRisk {
		t.Fatalf("scenario should exhaust readiness, got score %.1f", res.ReadinessScore)
	}

	rep := New(models.PersonaExporter, row, in, res, steel, cat.PolicyGaps)
	if !strings.Contains(rep.RenderMarkdown(), HighRiskWarning) {
		t.Error("high-risk warning missing from report")
	}
}

func TestRenderHTML(t *testing.T) {
	rep := buildReport(t, models.PersonaExporter)

	html, err := rep.RenderHTML()
	if err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}

	for _, want := range []string{"<h1", "<table>", "<strong>"} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML output missing %q", want)
		}
	}
}

func TestComma(t *testing.T) {
	tests := []struct {
		v        float64
		decimals int
		want     string
	}{
		{0, 0, "0"},
		{999, 0, "999"},
		{1000, 0, "1,000"},
		{800000, 0, "800,000"},
		{1234567.891, 2, "1,234,567.89"},
		{-45000, 0, "-45,000"},
	}

	for _, tt := range tests {
		if got := comma(tt.v, tt.decimals); got != tt.want {
			t.Errorf("comma(%v, %d) = %q, want %q", tt.v, tt.decimals, got, tt.want)
		}
	}
}
