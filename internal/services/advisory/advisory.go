// Package advisory holds the per-sector financing calibration and the
// qualitative guidance (decarbonisation levers, finance instruments,
// policy gaps) that accompanies every calculation. The built-in catalog
// can be overridden from a YAML file so new sectors or revised
// calibration never require a code change.
package advisory

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"covalence/internal/models"
	"covalence/internal/services/cbam"
)

// Catalog is the full advisory configuration: calculation policy,
// per-sector calibration and guidance, and the cross-sector policy gap
// notes.
type Catalog struct {
	Policy     cbam.Policy                      `yaml:"policy"`
	Sectors    map[string]models.SectorAdvisory `yaml:"sectors"`
	PolicyGaps []models.AdvisoryItem            `yaml:"policy_gaps"`
}

// Default returns the built-in catalog: the published calculation policy
// and the steel/aluminium calibration and guidance.
func Default() *Catalog {
	return &Catalog{
		Policy: cbam.DefaultPolicy(),
		Sectors: map[string]models.SectorAdvisory{
			models.SectorSteel: {
				Sector: models.SectorSteel,
				Policy: models.SectorPolicy{CapexPerPctMillionEUR: 8.0, IncentiveBps: 75},
				DecarbLevers: []models.AdvisoryItem{
					{Title: "Shift to EAF", Detail: "Move from Basic Oxygen Furnace (BOF) to scrap-based Electric Arc Furnace (EAF) or hydrogen-based Direct Reduced Iron (H2-DRI)."},
					{Title: "Pilot CCUS", Detail: "Implement Carbon Capture, Utilisation and Storage (CCUS) on high-temperature process streams."},
					{Title: "Electrification", Detail: "Use energy recovery and electrification in reheating and rolling processes."},
				},
				FinanceInstruments: []models.AdvisoryItem{
					{Title: "Sustainability-Linked Loans (SLLs)", Detail: "KPI-linked loans tied to tCO2/tonne reduction, with the interest rate stepping down as decarbonisation milestones are met.", Precedent: "Tata Steel and JSW Steel have both issued SLBs linking financing cost to decarbonisation milestones."},
					{Title: "Blended Finance", Detail: "First-loss guarantees to de-risk high-capex technology such as H2-DRI or CCUS.", Precedent: "World Bank MSME programs often use pooled guarantees for energy efficiency."},
					{Title: "Policy Support", Detail: "State-backed transition facilities or Contracts for Difference (CfD) for green steel."},
				},
			},
			models.SectorAluminium: {
				Sector: models.SectorAluminium,
				Policy: models.SectorPolicy{CapexPerPctMillionEUR: 5.0, IncentiveBps: 60},
				DecarbLevers: []models.AdvisoryItem{
					{Title: "Renewable Power", Detail: "Shift captive power from coal to renewables via long-term Power Purchase Agreements (PPAs) or captive solar/wind farms. The single biggest lever."},
					{Title: "Cell Efficiency", Detail: "Improve electrolytic cell efficiency and anode management to reduce process emissions."},
					{Title: "Heat Recovery", Detail: "Implement heat recovery systems and electrify downstream rolling and extrusion."},
				},
				FinanceInstruments: []models.AdvisoryItem{
					{Title: "Green Bonds", Detail: "Use-of-proceeds bonds earmarked for renewable PPAs or captive solar for smelters.", Precedent: "Hindalco issued Green Bonds specifically to finance renewable energy for its smelters."},
					{Title: "Concessional Lines", Detail: "Multilateral (World Bank, IFC) credit lines targeting electricity decarbonisation."},
					{Title: "Pooled Guarantees", Detail: "Cluster-scale pooled guarantees so downstream MSMEs can access affordable credit."},
				},
			},
		},
		PolicyGaps: []models.AdvisoryItem{
			{Title: "Carbon Credit Recognition", Detail: "India's CCTS carbon credit scheme is not yet recognised by the EU, creating a risk of paying a carbon price in India and again via CBAM."},
			{Title: "MRV Standardization", Detail: "Without a standardized, EU-equivalent Monitoring, Reporting and Verification system, compliance may fall back on default (higher) emissions values."},
			{Title: "Domestic Revenue Recycling", Detail: "Redirect domestic carbon receipts towards exporter decarbonisation, for example through concessional finance."},
		},
	}
}

// Load reads the catalog override file over the built-in defaults. A
// missing file is not an error: the defaults stand.
func Load(path string) (*Catalog, error) {
	cat := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cat, nil
		}
		return nil, fmt.Errorf("read advisory config: %w", err)
	}

	if err := yaml.Unmarshal(data, cat); err != nil {
		return nil, fmt.Errorf("parse advisory config %s: %w", path, err)
	}
	cat.applyDefaults()

	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("invalid advisory config %s: %w", path, err)
	}

	log.Printf("Loaded advisory catalog from %s (%d sectors)", path, len(cat.Sectors))
	return cat, nil
}

// applyDefaults backfills fields an override file left out. A sector
// entry in the file replaces guidance lists wholesale, but calibration
// numbers fall back to the built-in values when zero.
func (c *Catalog) applyDefaults() {
	def := Default()
	if c.Policy.GreenMaxHitPct == 0 && c.Policy.YellowMaxHitPct == 0 {
		c.Policy.GreenMaxHitPct = def.Policy.GreenMaxHitPct
		c.Policy.YellowMaxHitPct = def.Policy.YellowMaxHitPct
	}
	if c.Policy.CostPressureWeight == 0 && c.Policy.MarginErosionWeight == 0 {
		c.Policy.CostPressureWeight = def.Policy.CostPressureWeight
		c.Policy.MarginErosionWeight = def.Policy.MarginErosionWeight
	}
	if c.Policy.CoverageSentinel == 0 {
		c.Policy.CoverageSentinel = def.Policy.CoverageSentinel
	}
	if len(c.Sectors) == 0 {
		c.Sectors = def.Sectors
	}
	if len(c.PolicyGaps) == 0 {
		c.PolicyGaps = def.PolicyGaps
	}

	for name, sec := range c.Sectors {
		if sec.Sector == "" {
			sec.Sector = name
		}
		if base, ok := def.Sectors[name]; ok {
			if sec.Policy.CapexPerPctMillionEUR == 0 {
				sec.Policy.CapexPerPctMillionEUR = base.Policy.CapexPerPctMillionEUR
			}
			if sec.Policy.IncentiveBps == 0 {
				sec.Policy.IncentiveBps = base.Policy.IncentiveBps
			}
			if len(sec.DecarbLevers) == 0 {
				sec.DecarbLevers = base.DecarbLevers
			}
			if len(sec.FinanceInstruments) == 0 {
				sec.FinanceInstruments = base.FinanceInstruments
			}
		}
		c.Sectors[name] = sec
	}
}

// Validate checks the catalog is usable
func (c *Catalog) Validate() error {
	if err := c.Policy.Validate(); err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	if len(c.Sectors) == 0 {
		return fmt.Errorf("no sectors configured")
	}
	for name, sec := range c.Sectors {
		if sec.Policy.CapexPerPctMillionEUR < 0 {
			return fmt.Errorf("sector %s: capex per pct must be non-negative", name)
		}
		if sec.Policy.IncentiveBps < 0 || sec.Policy.IncentiveBps > models.MaxIncentiveBps {
			return fmt.Errorf("sector %s: incentive bps must be in [0, %.0f]", name, models.MaxIncentiveBps)
		}
	}
	return nil
}

// Lookup returns the advisory entry for a sector
func (c *Catalog) Lookup(sector string) (models.SectorAdvisory, error) {
	sec, ok := c.Sectors[strings.ToLower(strings.TrimSpace(sector))]
	if !ok {
		return models.SectorAdvisory{}, fmt.Errorf("no advisory entry for sector %q", sector)
	}
	return sec, nil
}
