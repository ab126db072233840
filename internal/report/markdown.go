package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"covalence/internal/models"
)

// RenderMarkdown produces the advisory document as GFM markdown
func (r *Report) RenderMarkdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# CBAM Exposure & Finance Advisory – %s\n\n", titleCase(r.Reference.Sector))
	fmt.Fprintf(&b, "- **Reference:** %s\n", r.ID)
	fmt.Fprintf(&b, "- **Generated:** %s\n", r.GeneratedAt.Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "- **Prepared for:** %s\n\n", r.Persona.Title())

	if r.Persona == models.PersonaBanker {
		r.bankerSections(&b)
	} else {
		r.exporterSections(&b)
	}

	r.policyGapSection(&b)

	return b.String()
}

// RenderHTML converts the markdown report to HTML
func (r *Report) RenderHTML() (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var out bytes.Buffer
	if err := md.Convert([]byte(r.RenderMarkdown()), &out); err != nil {
		return "", fmt.Errorf("render report %s: %w", r.ID, err)
	}
	return out.String(), nil
}

func (r *Report) exporterSections(b *strings.Builder) {
	res := r.Result

	b.WriteString("## Key Indicators\n\n")
	if res.HighRisk {
		fmt.Fprintf(b, "> **%s**\n\n", HighRiskWarning)
	}
	b.WriteString("| Indicator | Value | Note |\n|---|---|---|\n")
	fmt.Fprintf(b, "| Readiness Score | %.1f / 100 | Resilience to EU buyer pressure |\n", res.ReadinessScore)
	fmt.Fprintf(b, "| Annual CBAM Bill (Est.) | %s | Approx. %s |\n", euro(res.TotalBillEUR), crore(res.TotalBillINR))
	fmt.Fprintf(b, "| Post-CBAM Margin | %.1f%% | %+.1f%% from %.1f%% |\n", res.PostMarginPct, res.MarginDeltaPct, res.PreMarginPct)
	fmt.Fprintf(b, "| Annual CBAM Savings | %s | Approx. %s at %.0f%% reduction |\n\n",
		euro(res.SavingsEUR), crore(res.SavingsINR), r.Inputs.ReductionPct)

	b.WriteString("## Exposure Analysis\n\n")
	fmt.Fprintf(b, "**Competitiveness Rating: %s.** CBAM adds %.1f%% to your per-tonne cost.\n\n",
		res.Competitiveness.Label, res.HitPct)
	fmt.Fprintf(b, "Current plant intensity is %.2f tCO2/t against an India baseline of %.2f and an EU benchmark of %.2f. ",
		r.Inputs.PlantIntensity, r.Reference.BaselineIntensity, r.Reference.EUBenchmark)
	fmt.Fprintf(b, "The %.2f tCO2/t excess prices out at %s per tonne across %s tonnes of EU exports.\n\n",
		res.ExcessIntensity, euro(res.CostPerTonneEUR), comma(r.Inputs.ExportVolumeTonnes, 0))

	fmt.Fprintf(b, "## Quantifying the %.0f%% Decarbonisation Plan\n\n", r.Inputs.ReductionPct)
	b.WriteString("| Metric | Value | Note |\n|---|---|---|\n")
	fmt.Fprintf(b, "| Total Transition Capex | €%.1fm | Approx. %s |\n", res.CapexMillionEUR, crore(res.CapexINR))
	fmt.Fprintf(b, "| Annual Positive Cash Flow | %s | Approx. %s / yr |\n", euro(res.AnnualCashFlowGainEUR), crore(res.AnnualCashFlowGainINR))
	fmt.Fprintf(b, "| Simple Payback Period | %.1f yrs | Compares capex to annual cash flow gains |\n\n", res.PaybackYears)
	fmt.Fprintf(b, "Cutting intensity from %.2f to %.2f tCO2/t lowers the annual bill from %s to %s.\n\n",
		r.Inputs.PlantIntensity, res.ReducedIntensity, euro(res.TotalBillEUR), euro(res.TotalBillAfterEUR))

	itemSection(b, "Key Decarbonisation Levers", r.Advisory.DecarbLevers)
	itemSection(b, "Finance Instruments", r.Advisory.FinanceInstruments)
}

func (r *Report) bankerSections(b *strings.Builder) {
	res := r.Result

	b.WriteString("## Key Indicators\n\n")
	if res.HighRisk {
		fmt.Fprintf(b, "> **%s**\n\n", HighRiskWarning)
	}
	b.WriteString("| Indicator | Value | Note |\n|---|---|---|\n")
	fmt.Fprintf(b, "| Client Readiness | %.1f / 100 | Client's resilience to CBAM shock |\n", res.ReadinessScore)
	fmt.Fprintf(b, "| Coverage Ratio (DSCR) | %.2fx | A ratio above 1.0x means the project's gains self-liquidate the new debt |\n", res.DSCR)
	fmt.Fprintf(b, "| Annual Debt Service | %s | Approx. %s over %d years |\n", euro(res.AnnualDebtServiceEUR), crore(res.AnnualDebtServiceINR), r.Inputs.TenorYears)
	fmt.Fprintf(b, "| Annual Cash Flow Gain | %s | CBAM savings plus %.0f bps incentive relief |\n\n", euro(res.AnnualCashFlowGainEUR), r.Inputs.IncentiveBps)

	b.WriteString("## Deal Structuring\n\n")
	fmt.Fprintf(b, "The %.0f%% reduction plan needs %s (€%.1fm) of transition capital over a %d-year tenor.\n\n",
		r.Inputs.ReductionPct, crore(res.CapexINR), res.CapexMillionEUR, r.Inputs.TenorYears)
	if res.DSCR >= 1 {
		fmt.Fprintf(b, "**Conclusion:** The decarbonisation project is **bankable**. The annual positive cash flow of %s (%s) generated by the investment is sufficient to cover the new annual debt service of %s (%s) by a factor of %.2fx. The SLL structure de-risks the client's export business, making them a stronger credit.\n\n",
			euro(res.AnnualCashFlowGainEUR), crore(res.AnnualCashFlowGainINR),
			euro(res.AnnualDebtServiceEUR), crore(res.AnnualDebtServiceINR), res.DSCR)
	} else {
		fmt.Fprintf(b, "**Conclusion:** The project does **not self-liquidate** at this structure: annual cash flow of %s (%s) covers only %.2fx of the %s annual debt service. Consider a longer tenor, a deeper incentive, or blended-finance credit enhancement.\n\n",
			euro(res.AnnualCashFlowGainEUR), crore(res.AnnualCashFlowGainINR), res.DSCR, euro(res.AnnualDebtServiceEUR))
	}

	itemSection(b, "Market Precedents & Instrument Types", r.Advisory.FinanceInstruments)

	b.WriteString("## Client Risk Profile & Exposure\n\n")
	fmt.Fprintf(b, "**Client Competitiveness Rating: %s.** CBAM adds %.1f%% to the client's per-tonne cost, eroding margin from %.1f%% to %.1f%%. The annual pre-mitigation exposure is %s (%s).\n\n",
		res.Competitiveness.Label, res.HitPct, res.PreMarginPct, res.PostMarginPct,
		euro(res.TotalBillEUR), crore(res.TotalBillINR))
}

func (r *Report) policyGapSection(b *strings.Builder) {
	itemSection(b, "Policy & MRV Gaps", r.PolicyGaps)
}

// itemSection renders an advisory list with bolded titles
func itemSection(b *strings.Builder, heading string, items []models.AdvisoryItem) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- **%s:** %s", item.Title, item.Detail)
		if item.Precedent != "" {
			fmt.Fprintf(b, " *Precedent: %s*", item.Precedent)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// titleCase capitalizes the first letter of a sector name
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// euro formats a EUR amount with thousands separators
func euro(v float64) string {
	return "€" + comma(v, 0)
}

// crore formats an INR amount in crore for display
func crore(inr float64) string {
	return fmt.Sprintf("₹ %s Cr", comma(models.InCrore(inr), 2))
}

// comma formats a number with thousands separators
func comma(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	var out strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(d)
	}

	result := out.String()
	if hasFrac {
		result += "." + fracPart
	}
	if neg {
		result = "-" + result
	}
	return result
}
