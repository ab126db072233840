// Package report assembles the persona-specific advisory report for one
// calculated scenario. The persona only selects which derived figures
// get emphasised; every number comes straight from the calculation
// result.
package report

import (
	"time"

	"github.com/google/uuid"

	"covalence/internal/models"
)

// HighRiskWarning is surfaced whenever the readiness score is exhausted
const HighRiskWarning = "High Risk: CBAM cost exceeds margin"

// Report carries everything one advisory document needs
type Report struct {
	ID          string                    `json:"id"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Persona     models.Persona            `json:"persona"`
	Reference   models.SectorReference    `json:"reference"`
	Inputs      *models.AnalysisInputs    `json:"inputs"`
	Result      *models.CalculationResult `json:"result"`
	Advisory    models.SectorAdvisory     `json:"advisory"`
	PolicyGaps  []models.AdvisoryItem     `json:"policy_gaps"`
}

// New builds a report for the given persona and calculated scenario
func New(persona models.Persona, row models.SectorReference, in *models.AnalysisInputs,
	res *models.CalculationResult, adv models.SectorAdvisory, gaps []models.AdvisoryItem) *Report {
	return &Report{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Persona:     persona,
		Reference:   row,
		Inputs:      in,
		Result:      res,
		Advisory:    adv,
		PolicyGaps:  gaps,
	}
}
