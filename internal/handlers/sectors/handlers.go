package sectors

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	httputil "covalence/internal/http"
	"covalence/internal/models"
	"covalence/internal/services/advisory"
	"covalence/internal/services/refdata"
)

var (
	table   *refdata.Table
	catalog *advisory.Catalog
)

// Initialize sets up the sectors package with required dependencies
func Initialize(t *refdata.Table, c *advisory.Catalog) {
	table = t
	catalog = c
}

// RegisterRoutes registers all sector routes
func RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/sectors", handleList)
	r.Get("/api/v1/sectors/{sector}", handleDetail)
}

// listResponse is the sector index
type listResponse struct {
	Sectors []models.SectorReference `json:"sectors"`
	Source  string                   `json:"source"`
}

// detailResponse bundles everything a client needs to prefill a scenario
type detailResponse struct {
	Reference models.SectorReference `json:"reference"`
	Defaults  *models.AnalysisInputs `json:"defaults"`
	Advisory  models.SectorAdvisory  `json:"advisory"`
}

func handleList(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, listResponse{
		Sectors: table.Sectors(),
		Source:  table.Source,
	})
}

func handleDetail(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "sector")

	row, err := table.Lookup(name)
	if err != nil {
		httputil.ErrorResponse(w, err.Error(), http.StatusNotFound)
		return
	}

	adv, err := catalog.Lookup(name)
	if err != nil {
		// Reference row without advisory calibration: still usable,
		// defaults fall back to zero-valued policy
		adv = models.SectorAdvisory{Sector: row.Sector}
	}

	httputil.RespondJSON(w, http.StatusOK, detailResponse{
		Reference: row,
		Defaults:  models.DefaultAnalysisInputs(row, adv.Policy),
		Advisory:  adv,
	})
}
