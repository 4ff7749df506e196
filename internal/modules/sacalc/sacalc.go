// Package sacalc implements the Standardised Approach calculator, the
// fifth pipeline stage for exposures classified to
// ctypes.ApproachSA. It looks up risk weights (CQS tables, retail flat
// rate, real-estate LTV bands), computes rwa_pre_factor = ead_final × RW,
// and applies the CRR-only counterparty-aggregated supporting factors.
package sacalc

import (
	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/config"
	"github.com/aristath/rwa-engine/internal/ctypes"
	"github.com/aristath/rwa-engine/internal/reftables"
)

// defaultedSecuredThreshold is the CRR Art. 127 boundary: a defaulted
// exposure is "secured" for SA risk-weight purposes when specific credit
// risk adjustments reach at least 20% of the gross exposure amount.
const defaultedSecuredThreshold = 0.20

// Calculate assigns a risk weight and computes RWA for every SA-approach
// exposure. propertyCollateral is keyed by exposure
// reference, the same map classifier.Classify consumes for mortgage
// detection, reused here for LTV/income-cover lookups.
func Calculate(
	exposures []bundle.Exposure,
	propertyCollateral map[string]bundle.Collateral,
	cfg config.CalculationConfig,
) ([]bundle.Exposure, []bundle.SupportingFactorImpactRow, ctypes.Errors) {
	var errs ctypes.Errors

	out := make([]bundle.Exposure, len(exposures))
	for i, e := range exposures {
		coll := propertyCollateral[e.ExposureReference]
		e.RiskWeight = RiskWeightFor(e, coll, cfg)
		if e.IsDefaulted {
			e.ExposureClass = ctypes.ExposureDefaulted
		}
		e.RWAPreFactor = e.EADFinal * e.RiskWeight
		e = applyGuaranteeSubstitution(e, cfg)
		out[i] = e
	}

	out, impacts := ApplySupportingFactors(out, cfg)
	return out, impacts, errs
}

// applyGuaranteeSubstitution blends the guarantor's SA risk weight over the
// guaranteed portion when it is beneficial. A non-beneficial guarantee
// leaves RWA unchanged and is
// flagged, mirroring the IRB calculator's rule.
func applyGuaranteeSubstitution(e bundle.Exposure, cfg config.CalculationConfig) bundle.Exposure {
	if e.GuarantorRef == "" || e.GuaranteedPortion <= 0 || e.EADAfterCollateral <= 0 {
		return e
	}
	guarantorRW, ok := reftables.SARiskWeight(e.GuarantorExposureClass, e.GuarantorCQS, cfg.UKInstitutionCQS2Deviation)
	if !ok {
		guarantorRW = reftables.UnratedCorporateRiskWeight()
	}
	if guarantorRW >= e.RiskWeight {
		e.GuaranteeNote = "GUARANTEE_NOT_APPLIED_NON_BENEFICIAL"
		e.GuaranteedRWAShare = e.GuaranteedPortion / e.EADAfterCollateral
		return e
	}
	// ead_final may sit below ead_after_collateral after provision
	// deduction; the portions are scaled to ead_final to keep
	// RWA = ead_final-weighted blend.
	scale := e.EADFinal / e.EADAfterCollateral
	e.RWAPreFactor = e.UnguaranteedPortion*scale*e.RiskWeight + e.GuaranteedPortion*scale*guarantorRW
	if e.RWAPreFactor > 0 {
		e.GuaranteedRWAShare = e.GuaranteedPortion * scale * guarantorRW / e.RWAPreFactor
	}
	if e.EADFinal > 0 {
		e.RiskWeight = e.RWAPreFactor / e.EADFinal
	}
	return e
}

// RiskWeightFor implements the ordered SA risk-weight rule: a
// defaulted exposure uses the defaulted rate regardless of class; retail
// (non-mortgage) is flat 75%; residential mortgage uses the LTV split;
// corporate exposures secured by commercial real estate use the
// commercial-RE rate;
// everything else joins the (class, CQS) table with the UK CQS-2
// institution deviation where configured, falling back to the unrated
// corporate rate when no table entry exists. Exported because the
// aggregator reuses it to price the output floor's SA-equivalent RWA.
func RiskWeightFor(e bundle.Exposure, coll bundle.Collateral, cfg config.CalculationConfig) float64 {
	if e.IsDefaulted {
		secured := e.EADGross > 0 && e.ProvisionAllocated >= defaultedSecuredThreshold*e.EADGross
		return reftables.DefaultedRiskWeight(secured)
	}

	switch e.ExposureClass {
	case ctypes.ExposureRetailOther, ctypes.ExposureRetailQRRE:
		return reftables.RetailFlatRiskWeight()
	case ctypes.ExposureRetailMortgage:
		return reftables.ResidentialMortgageRiskWeight(cfg.Framework, coll.PropertyLTV)
	case ctypes.ExposureCorporate, ctypes.ExposureCorporateSME:
		if coll.PropertyType == ctypes.PropertyCommercial {
			return reftables.CommercialRealEstateRiskWeight(cfg.Framework, coll.PropertyLTV, coll.IsIncomeProducing)
		}
		if rw, ok := reftables.SARiskWeight(e.ExposureClass, e.InheritedCQS, cfg.UKInstitutionCQS2Deviation); ok {
			if e.InheritedCQS == ctypes.CQSUnrated {
				return reftables.UnratedCorporateRiskWeight()
			}
			return rw
		}
		return reftables.UnratedCorporateRiskWeight()
	default:
		if rw, ok := reftables.SARiskWeight(e.ExposureClass, e.InheritedCQS, cfg.UKInstitutionCQS2Deviation); ok {
			return rw
		}
		return reftables.UnratedCorporateRiskWeight()
	}
}
