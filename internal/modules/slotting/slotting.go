// Package slotting implements the supervisory slotting calculator,
// the seventh pipeline stage for specialised-lending
// exposures assigned ctypes.ApproachSlotting. Unlike sacalc and irb, it
// performs no risk-weight derivation of its own: it looks up the
// supervisory weight from internal/reftables by (framework, HVCRE flag,
// category, residual maturity) and multiplies it onto the final EAD.
package slotting

import (
	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/config"
	"github.com/aristath/rwa-engine/internal/ctypes"
	"github.com/aristath/rwa-engine/internal/reftables"
)

// Calculate assigns the supervisory slotting risk weight and RWA to every
// slotting-approach exposure. SLCategory, IsHVCRE, and
// MaturityYears are set upstream by classifier.Classify from the
// SpecialisedLending enrichment table.
func Calculate(exposures []bundle.Exposure, cfg config.CalculationConfig) ([]bundle.Exposure, ctypes.Errors) {
	var errs ctypes.Errors

	out := make([]bundle.Exposure, len(exposures))
	for i, e := range exposures {
		e.RiskWeight = reftables.SlottingRiskWeight(cfg.Framework, e.IsHVCRE, e.SLCategory, e.MaturityYears)
		e.RWAPreFactor = e.EADFinal * e.RiskWeight
		e.SupportingFactor = 1.0 // slotting has no supporting factors
		e.RWA = e.RWAPreFactor
		out[i] = e
	}
	return out, errs
}
