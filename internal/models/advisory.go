package models

// Persona selects which derived outputs a report emphasises. It never
// changes how anything is computed.
type Persona string

const (
	PersonaExporter Persona = "exporter"
	PersonaBanker   Persona = "banker"
)

// Valid reports whether p is a known persona.
func (p Persona) Valid() bool {
	return p == PersonaExporter || p == PersonaBanker
}

// Title returns the display name used in reports.
func (p Persona) Title() string {
	switch p {
	case PersonaBanker:
		return "Banker / Financial Institution"
	default:
		return "Exporter / Manufacturer"
	}
}

// SectorPolicy carries the per-sector financing calibration. Steel
// retrofits run more capital intensive than aluminium's power switch,
// so the defaults differ by sector.
type SectorPolicy struct {
	CapexPerPctMillionEUR float64 `json:"capex_per_pct_million_eur" yaml:"capex_per_pct_million_eur"`
	IncentiveBps          float64 `json:"incentive_bps" yaml:"incentive_bps"`
}

// AdvisoryItem is a single lever, instrument or policy note.
type AdvisoryItem struct {
	Title     string `json:"title" yaml:"title"`
	Detail    string `json:"detail" yaml:"detail"`
	Precedent string `json:"precedent,omitempty" yaml:"precedent,omitempty"`
}

// SectorAdvisory bundles the calibration and qualitative guidance for
// one sector.
type SectorAdvisory struct {
	Sector             string         `json:"sector" yaml:"sector"`
	Policy             SectorPolicy   `json:"policy" yaml:"policy"`
	DecarbLevers       []AdvisoryItem `json:"decarb_levers" yaml:"decarb_levers"`
	FinanceInstruments []AdvisoryItem `json:"finance_instruments" yaml:"finance_instruments"`
}
