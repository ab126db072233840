package analysis

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	httputil "covalence/internal/http"
	"covalence/internal/models"
	"covalence/internal/services/advisory"
	"covalence/internal/services/cbam"
	"covalence/internal/services/refdata"
)

var (
	table   *refdata.Table
	catalog *advisory.Catalog
	calc    *cbam.Calculator
)

// Initialize sets up the analysis package with required dependencies
func Initialize(t *refdata.Table, cat *advisory.Catalog, c *cbam.Calculator) {
	table = t
	catalog = cat
	calc = c
}

// RegisterRoutes registers all analysis routes
func RegisterRoutes(r chi.Router) {
	r.Post("/api/v1/analysis", handleAnalysis)
	r.Get("/api/v1/analysis/chart/reduction", handleReductionChart)
}

// Response carries the full scenario: the reference row it was priced
// against, the normalized inputs actually used, and every derived figure.
type Response struct {
	Reference models.SectorReference    `json:"reference"`
	Inputs    *models.AnalysisInputs    `json:"inputs"`
	Result    *models.CalculationResult `json:"result"`
}

// Resolve turns a wire request into a priced scenario. Shared with the
// reports handlers so both surfaces normalize inputs identically.
func Resolve(req *models.AnalysisRequest) (*Response, error) {
	row, err := table.Lookup(req.Sector)
	if err != nil {
		return nil, err
	}

	pol := models.SectorPolicy{}
	if adv, err := catalog.Lookup(req.Sector); err == nil {
		pol = adv.Policy
	}

	in := req.Resolve(row, pol)
	return &Response{
		Reference: row,
		Inputs:    in,
		Result:    calc.Calculate(row, in),
	}, nil
}

func handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var req models.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.ErrorResponse(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Sector == "" {
		httputil.ErrorResponse(w, "sector is required", http.StatusBadRequest)
		return
	}

	resp, err := Resolve(&req)
	if err != nil {
		httputil.ErrorResponse(w, err.Error(), http.StatusNotFound)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// chartSeries is the reduction sweep for charting: the core evaluated at
// every whole reduction percentage, other inputs held fixed
type chartSeries struct {
	Sector        string    `json:"sector"`
	ReductionPct  []float64 `json:"reduction_pct"`
	BillAfterEUR  []float64 `json:"total_cbam_bill_after_eur"`
	SavingsEUR    []float64 `json:"cbam_savings_eur"`
	CapexMillions []float64 `json:"capex_million_eur"`
	PaybackYears  []float64 `json:"payback_years"`
}

func handleReductionChart(w http.ResponseWriter, r *http.Request) {
	sector := r.URL.Query().Get("sector")
	if sector == "" {
		httputil.ErrorResponse(w, "sector is required", http.StatusBadRequest)
		return
	}

	row, err := table.Lookup(sector)
	if err != nil {
		httputil.ErrorResponse(w, err.Error(), http.StatusNotFound)
		return
	}

	pol := models.SectorPolicy{}
	if adv, err := catalog.Lookup(sector); err == nil {
		pol = adv.Policy
	}

	base := models.DefaultAnalysisInputs(row, pol)
	base.PlantIntensity = httputil.ParseFloat(r, "plant_intensity", base.PlantIntensity)
	base.ExportVolumeTonnes = httputil.ParseFloat(r, "export_volume", base.ExportVolumeTonnes)
	base.SellingPriceEUR = httputil.ParseFloat(r, "selling_price", base.SellingPriceEUR)
	base.CapexPerPctMillionEUR = httputil.ParseFloat(r, "capex_per_pct", base.CapexPerPctMillionEUR)
	base.IncentiveBps = httputil.ParseFloat(r, "incentive_bps", base.IncentiveBps)
	base.TenorYears = httputil.ParseInt(r, "tenor_years", base.TenorYears)
	base.FxINRPerEUR = httputil.ParseFloat(r, "fx_rate", base.FxINRPerEUR)
	base.Clamp()

	series := chartSeries{Sector: row.Sector}
	for pct := 0.0; pct <= models.MaxReductionPct; pct++ {
		in := *base
		in.ReductionPct = pct
		res := calc.Calculate(row, &in)

		series.ReductionPct = append(series.ReductionPct, pct)
		series.BillAfterEUR = append(series.BillAfterEUR, res.TotalBillAfterEUR)
		series.SavingsEUR = append(series.SavingsEUR, res.SavingsEUR)
		series.CapexMillions = append(series.CapexMillions, res.CapexMillionEUR)
		series.PaybackYears = append(series.PaybackYears, res.PaybackYears)
	}

	httputil.RespondJSON(w, http.StatusOK, series)
}
