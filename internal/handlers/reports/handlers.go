package reports

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"covalence/internal/handlers/analysis"
	httputil "covalence/internal/http"
	"covalence/internal/models"
	"covalence/internal/report"
	"covalence/internal/services/advisory"
)

var catalog *advisory.Catalog

// Initialize sets up the reports package with required dependencies
func Initialize(c *advisory.Catalog) {
	catalog = c
}

// RegisterRoutes registers all report routes
func RegisterRoutes(r chi.Router) {
	r.Post("/api/v1/reports/{persona}", handleReport)
}

func handleReport(w http.ResponseWriter, r *http.Request) {
	persona := models.Persona(chi.URLParam(r, "persona"))
	if !persona.Valid() {
		httputil.ErrorResponse(w, "unknown persona: use exporter or banker", http.StatusBadRequest)
		return
	}

	var req models.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.ErrorResponse(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Sector == "" {
		httputil.ErrorResponse(w, "sector is required", http.StatusBadRequest)
		return
	}

	scenario, err := analysis.Resolve(&req)
	if err != nil {
		httputil.ErrorResponse(w, err.Error(), http.StatusNotFound)
		return
	}

	adv, err := catalog.Lookup(req.Sector)
	if err != nil {
		adv = models.SectorAdvisory{Sector: scenario.Reference.Sector}
	}

	rep := report.New(persona, scenario.Reference, scenario.Inputs, scenario.Result, adv, catalog.PolicyGaps)

	switch r.URL.Query().Get("format") {
	case "html":
		html, err := rep.RenderHTML()
		if err != nil {
			httputil.ErrorResponse(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Report-ID", rep.ID)
		w.Write([]byte(html))
	case "json":
		httputil.RespondJSON(w, http.StatusOK, rep)
	default:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("X-Report-ID", rep.ID)
		w.Write([]byte(rep.RenderMarkdown()))
	}
}
