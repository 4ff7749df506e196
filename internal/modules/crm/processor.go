// Package crm implements the Credit Risk Mitigation processor, the
// fourth pipeline stage and the largest single step: CCF
// selection, collateral application, guarantee substitution, and
// provision deduction, run jointly over every exposure before the
// approach calculators see them.
package crm

import (
	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/config"
	"github.com/aristath/rwa-engine/internal/ctypes"
)

// Process runs the five-step CRM waterfall over every exposure: CCF
// (Step 1), collateral (Step 2, split SA simple-substitution vs F-IRB
// blended LGD), guarantee aggregation and cross-approach CCF
// substitution (Step 3), SCRA provision deduction (Step 4), and
// finalisation of ead_after_guarantee/ead_final (Step 5). Collateral,
// guarantees, and provisions are each aggregated once across the whole
// book before being applied exposure-by-exposure, since their
// beneficiary rules pool across facilities and counterparties.
func Process(
	exposures []bundle.Exposure,
	counterparties []bundle.Counterparty,
	collateral []bundle.Collateral,
	guarantees []bundle.Guarantee,
	provisions []bundle.Provision,
	ratings []bundle.Rating,
	cfg config.CalculationConfig,
) ([]bundle.Exposure, ctypes.Errors) {
	var errs ctypes.Errors

	withCCF := make([]bundle.Exposure, len(exposures))
	for i, e := range exposures {
		withCCF[i] = applyCCF(e)
	}

	collateralByExposure := allocateCollateral(withCCF, collateral)
	withCollateral := make([]bundle.Exposure, len(withCCF))
	for i, e := range withCCF {
		items := collateralByExposure[e.ExposureReference]
		switch e.Approach {
		case ctypes.ApproachFIRB:
			withCollateral[i] = applyCollateralFIRB(e, items, maturityYearsRemaining(e, cfg))
		case ctypes.ApproachAIRB:
			e.EADAfterCollateral = e.EADGross // own-estimate LGD already reflects collateral
			e.DominantCollateralType = dominantCollateralType(items, maturityYearsRemaining(e, cfg))
			withCollateral[i] = e
		default: // SA, Slotting
			withCollateral[i] = applyCollateralSA(e, items, maturityYearsRemaining(e, cfg))
		}
	}

	eadAfterCollateral := make(map[string]float64, len(withCollateral))
	for _, e := range withCollateral {
		eadAfterCollateral[e.ExposureReference] = e.EADAfterCollateral
	}

	guarantorProfiles := resolveGuarantorProfiles(counterparties, ratings, cfg)
	guaranteeAllocations := aggregateGuarantees(guarantees, eadAfterCollateral)
	withGuarantee := make([]bundle.Exposure, len(withCollateral))
	for i, e := range withCollateral {
		alloc, ok := guaranteeAllocations[e.ExposureReference]
		if !ok {
			withGuarantee[i] = e
			continue
		}
		withGuarantee[i] = applyGuarantee(e, alloc, guarantorProfiles, saCCFFor(e))
	}

	provisionAllocations := aggregateProvisions(withGuarantee, provisions)
	out := make([]bundle.Exposure, len(withGuarantee))
	for i, e := range withGuarantee {
		e = applyProvision(e, provisionAllocations[e.ExposureReference])
		if e.MaturityYears == 0 {
			e.MaturityYears = maturityYearsRemaining(e, cfg)
		}
		out[i] = finalise(e)
	}

	return out, errs
}

// maturityYearsRemaining is a thin wrapper kept separate from the
// collateral functions so the reporting date lives in one place; it
// converts an exposure's maturity date to years remaining from the
// configured reporting date.
func maturityYearsRemaining(e bundle.Exposure, cfg config.CalculationConfig) float64 {
	if e.MaturityDate.IsZero() {
		return 0
	}
	days := e.MaturityDate.Sub(cfg.ReportingDate).Hours() / 24
	years := days / 365.25
	if years < 0 {
		return 0
	}
	return years
}
