package irb

import (
	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/config"
	"github.com/aristath/rwa-engine/internal/ctypes"
	"github.com/aristath/rwa-engine/internal/modules/sacalc"
	"github.com/aristath/rwa-engine/internal/reftables"
)

// Calculate applies the IRB capital formula to every F-IRB/A-IRB
// exposure: PD/LGD floors, the defaulted bypass, the Vasicek K formula
// with maturity adjustment, guarantee substitution, expected loss,
// and — under CRR — the same supporting factors the SA calculator uses.
// counterparties supplies annual turnover for the CRR SME correlation
// discount.
func Calculate(
	exposures []bundle.Exposure,
	counterparties []bundle.Counterparty,
	cfg config.CalculationConfig,
) ([]bundle.Exposure, []bundle.SupportingFactorImpactRow, ctypes.Errors) {
	var errs ctypes.Errors

	revenueByCounterparty := make(map[string]float64, len(counterparties))
	for _, c := range counterparties {
		revenueByCounterparty[c.CounterpartyReference] = c.AnnualRevenue
	}

	out := make([]bundle.Exposure, len(exposures))
	for i, e := range exposures {
		if e.EADFinal <= 0 {
			out[i] = e
			continue
		}
		if e.InternalPD == nil && !e.IsDefaulted {
			errs = errs.Add(ctypes.New(
				"IRB001", "missing internal PD for IRB exposure",
				ctypes.SeverityWarning, ctypes.CategoryDataQuality,
			).WithExposure(e.ExposureReference))
		}

		if e.IsDefaulted {
			out[i] = defaultedBypass(e, cfg)
			continue
		}

		out[i] = calculateOne(e, revenueByCounterparty[e.CounterpartyRef], cfg)
	}

	for i, e := range out {
		e = applyGuaranteeSubstitution(e, cfg)
		e.RWAPreFactor = e.RWA
		out[i] = e
	}

	out, impacts := sacalc.ApplySupportingFactors(out, cfg)
	return out, impacts, errs
}

// defaultedBypass handles defaulted obligors, which skip the Vasicek
// formula entirely: F-IRB zeroes
// K and RWA; A-IRB derives K from the gap between the current LGD estimate
// and the counterparty's best-estimate expected loss, scaled by the
// non-retail factor for non-retail classes.
func defaultedBypass(e bundle.Exposure, cfg config.CalculationConfig) bundle.Exposure {
	if e.Approach == ctypes.ApproachFIRB {
		e.CapitalRequirement = 0
		e.RWA = 0
		e.RiskWeight = 0
		e.ExpectedLoss = e.LGDPostCRM * e.EADFinal
		return e
	}

	beel := 0.0
	if e.BEEL != nil {
		beel = *e.BEEL
	}
	k := e.LGDPostCRM - beel
	if k < 0 {
		k = 0
	}
	e.CapitalRequirement = k

	scaling := 1.0
	if !isRetailClass(e.ExposureClass) {
		scaling = cfg.NonRetailScalingFactor
	}
	e.RWA = k * 12.5 * e.EADFinal * scaling
	if e.EADFinal > 0 {
		e.RiskWeight = e.RWA / e.EADFinal
	}
	e.ExpectedLoss = beel * e.EADFinal
	return e
}

// calculateOne applies the full non-defaulted Vasicek formula to one
// exposure.
func calculateOne(e bundle.Exposure, annualRevenue float64, cfg config.CalculationConfig) bundle.Exposure {
	pd := 0.0
	if e.InternalPD != nil {
		pd = *e.InternalPD
	}
	pdFloored := maxFloat(pd, cfg.PDFloors.Floor(e.ExposureClass, false))
	e.PD = pdFloored

	// A-IRB LGD floors are all-zero under CRR, so applying them
	// unconditionally keeps framework dispatch in the config data.
	lgd := e.LGDPostCRM
	if e.Approach == ctypes.ApproachAIRB {
		lgd = maxFloat(lgd, cfg.LGDFloors.Floor(e.DominantCollateralType))
	}
	e.LGD = lgd

	turnoverM := 0.0
	if e.ExposureClass == ctypes.ExposureCorporateSME && cfg.EURGBPRate > 0 {
		turnoverM = annualRevenue / cfg.EURGBPRate / 1_000_000
	}
	correlation := Correlation(e.ExposureClass, pdFloored, cfg.Framework, turnoverM)
	e.Correlation = correlation

	isRetail := isRetailClass(e.ExposureClass)
	e.MaturityYears = EffectiveMaturity(e.MaturityYears)
	ma := MaturityAdjustment(pdFloored, e.MaturityYears, isRetail)
	e.MaturityAdjustment = ma

	k := CapitalRequirement(pdFloored, lgd, correlation, ma)
	if !isRetail {
		k *= cfg.NonRetailScalingFactor
	}
	e.CapitalRequirement = k

	e.RWA = k * 12.5 * e.EADFinal
	if e.EADFinal > 0 {
		e.RiskWeight = e.RWA / e.EADFinal
	}
	e.ExpectedLoss = pdFloored * lgd * e.EADFinal
	return e
}

// applyGuaranteeSubstitution blends the guarantor risk weight over the
// guaranteed portion (CRR Art. 235), only applied when the guarantor's
// SA risk weight is
// strictly below the borrower's own IRB risk weight. A non-beneficial
// guarantee is flagged and leaves RWA unchanged.
func applyGuaranteeSubstitution(e bundle.Exposure, cfg config.CalculationConfig) bundle.Exposure {
	if e.GuarantorRef == "" || e.GuaranteedPortion <= 0 {
		return e
	}

	guarantorRW, ok := reftables.SARiskWeight(e.GuarantorExposureClass, e.GuarantorCQS, cfg.UKInstitutionCQS2Deviation)
	if !ok {
		guarantorRW = reftables.UnratedCorporateRiskWeight()
	}
	if guarantorRW >= e.RiskWeight {
		e.GuaranteeNote = "GUARANTEE_NOT_APPLIED_NON_BENEFICIAL"
		if e.EADAfterCollateral > 0 {
			e.GuaranteedRWAShare = e.GuaranteedPortion / e.EADAfterCollateral
		}
		return e
	}

	blendedRWA := e.UnguaranteedPortion*e.RiskWeight + e.GuaranteedPortion*guarantorRW
	e.RWA = blendedRWA
	if blendedRWA > 0 {
		e.GuaranteedRWAShare = e.GuaranteedPortion * guarantorRW / blendedRWA
	}
	if e.EADFinal > 0 {
		e.RiskWeight = blendedRWA / e.EADFinal
	}
	// The guaranteed portion's EL is zeroed under a beneficial SA
	// substitution (SA carries no EL concept); overall EL prorates to the
	// unguaranteed portion.
	e.ExpectedLoss = e.PD * e.LGD * e.UnguaranteedPortion
	return e
}

func isRetailClass(class ctypes.ExposureClass) bool {
	switch class {
	case ctypes.ExposureRetailMortgage, ctypes.ExposureRetailQRRE, ctypes.ExposureRetailOther:
		return true
	default:
		return false
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
