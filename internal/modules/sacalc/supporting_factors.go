package sacalc

import (
	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/config"
	"github.com/aristath/rwa-engine/internal/ctypes"
)

// ApplySupportingFactors applies the CRR-only SME and infrastructure
// supporting factors (CRR Art. 501/501a), computed per exposure,
// but the SME tier threshold is tested against a counterparty-aggregated
// total of drawn_amount + interest, not EAD. Buy-to-let exposures are
// excluded from the SME discount (factor 1.0) while still contributing
// to the counterparty's aggregated drawn total. When both factors apply,
// the minimum (most beneficial) wins. It reads RWAPreFactor and writes RWA,
// so callers (both the SA and IRB calculators) set RWAPreFactor before
// invoking it —
// the same reuse the original implementation's IRB calculator makes of the
// SA module's supporting-factor calculator.
func ApplySupportingFactors(exposures []bundle.Exposure, cfg config.CalculationConfig) ([]bundle.Exposure, []bundle.SupportingFactorImpactRow) {
	if !cfg.SupportingFactors.Enabled {
		out := make([]bundle.Exposure, len(exposures))
		for i, e := range exposures {
			e.SupportingFactor = 1.0
			e.RWA = e.RWAPreFactor
			out[i] = e
		}
		return out, nil
	}

	totalDrawn := map[string]float64{}
	for _, e := range exposures {
		totalDrawn[e.CounterpartyRef] += e.DrawnAmount + e.Interest
	}
	smeFactor := map[string]float64{}
	for cpty, total := range totalDrawn {
		smeFactor[cpty] = tieredSMEFactor(total, cfg)
	}

	out := make([]bundle.Exposure, len(exposures))
	impacts := make([]bundle.SupportingFactorImpactRow, 0, len(exposures))
	for i, e := range exposures {
		factor := 1.0
		isSME := e.ExposureClass == ctypes.ExposureCorporateSME && !e.IsBuyToLet
		if isSME {
			if f := smeFactor[e.CounterpartyRef]; f < factor {
				factor = f
			}
		}
		if e.IsInfrastructure {
			if f := cfg.SupportingFactors.InfrastructureFactor; f < factor {
				factor = f
			}
		}
		e.SupportingFactor = factor
		e.RWA = e.RWAPreFactor * factor
		out[i] = e

		if factor < 1.0 {
			impacts = append(impacts, bundle.SupportingFactorImpactRow{
				ExposureReference: e.ExposureReference,
				CounterpartyRef:   e.CounterpartyRef,
				RWAPreFactor:      e.RWAPreFactor,
				SupportingFactor:  factor,
				RWAPostFactor:     e.RWA,
			})
		}
	}
	return out, impacts
}

// tieredSMEFactor implements the CRR2 Art. 501 formula: factor =
// [min(E, threshold) × 0.7619 + max(E - threshold, 0) × 0.85] / E.
func tieredSMEFactor(totalDrawn float64, cfg config.CalculationConfig) float64 {
	if totalDrawn <= 0 {
		return 1.0
	}
	sf := cfg.SupportingFactors
	threshold := sf.SMEThresholdEUR
	if cfg.Framework == ctypes.FrameworkCRR {
		threshold = sf.SMEThresholdEUR * cfg.EURGBPRate
	}
	tier1 := totalDrawn
	if tier1 > threshold {
		tier1 = threshold
	}
	tier2 := totalDrawn - threshold
	if tier2 < 0 {
		tier2 = 0
	}
	return (tier1*sf.SMEFactorUnderThreshold + tier2*sf.SMEFactorAboveThreshold) / totalDrawn
}
