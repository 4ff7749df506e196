package crm

import (
	"sort"

	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/config"
	"github.com/aristath/rwa-engine/internal/ctypes"
	"github.com/aristath/rwa-engine/internal/reftables"
)

// guarantorProfile is the subset of the guarantor's attributes the CRM
// processor and downstream calculators need: its SA-mapped exposure
// class, its best direct CQS, and whether the firm treats it as IRB-rated.
type guarantorProfile struct {
	exposureClass ctypes.ExposureClass
	cqs           ctypes.CQS
	isIRB         bool
}

// resolveGuarantorProfiles maps every counterparty acting as a guarantor
// to its profile. The guarantor's approach is IRB only if the firm holds
// IRB permission for the guarantor's class AND the guarantor carries a
// direct internal rating; this deliberately uses
// only DIRECT ratings, not hierarchy-inherited ones, since a guarantor is
// evaluated standalone, not through the borrower's parent chain.
func resolveGuarantorProfiles(counterparties []bundle.Counterparty, ratings []bundle.Rating, cfg config.CalculationConfig) map[string]guarantorProfile {
	bestCQS := map[string]ctypes.CQS{}
	hasInternal := map[string]bool{}
	for _, r := range ratings {
		if r.RatingType == ctypes.RatingInternal {
			hasInternal[r.CounterpartyRef] = true
		}
		if existing, ok := bestCQS[r.CounterpartyRef]; !ok || r.CQS < existing {
			if r.CQS != ctypes.CQSUnrated {
				bestCQS[r.CounterpartyRef] = r.CQS
			}
		}
	}

	out := make(map[string]guarantorProfile, len(counterparties))
	for _, c := range counterparties {
		class := guarantorSAExposureClass(c)
		hasIRBPermission := cfg.IRBPermissions.IsPermitted(class, ctypes.ApproachFIRB) || cfg.IRBPermissions.IsPermitted(class, ctypes.ApproachAIRB)
		isIRB := hasInternal[c.CounterpartyReference] && hasIRBPermission
		out[c.CounterpartyReference] = guarantorProfile{
			exposureClass: class,
			cqs:           bestCQS[c.CounterpartyReference],
			isIRB:         isIRB,
		}
	}
	return out
}

// guarantorSAExposureClass derives the guarantor's SA exposure class from
// its entity type and regulatory flags, mirroring the priority order of
// classifier.classifyEntity without the retail/SME refinements that only
// apply to direct borrowers.
func guarantorSAExposureClass(c bundle.Counterparty) ctypes.ExposureClass {
	switch {
	case c.EntityType == "sovereign":
		return ctypes.ExposureSovereign
	case c.EntityType == "central_bank":
		return ctypes.ExposureCentralBank
	case c.IsRGLA:
		return ctypes.ExposureRGLA
	case c.IsPSE:
		return ctypes.ExposurePSE
	case c.IsMDB:
		return ctypes.ExposureMDB
	case c.IsCentralCounterparty:
		return ctypes.ExposureCentralCounterparty
	case c.IsFinancialInstitution:
		return ctypes.ExposureInstitution
	default:
		return ctypes.ExposureCorporate
	}
}

// guaranteeAllocation is the per-exposure aggregation of every guarantee
// naming it as beneficiary.
type guaranteeAllocation struct {
	guarantor string
	amount    float64
}

func aggregateGuarantees(guarantees []bundle.Guarantee, eadAfterCollateral map[string]float64) map[string]guaranteeAllocation {
	// Deterministic ordering by guarantee reference: when an exposure
	// carries multiple guarantees, the primary guarantor is the first in
	// sort order.
	sorted := append([]bundle.Guarantee(nil), guarantees...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].GuaranteeReference < sorted[j].GuaranteeReference })

	out := make(map[string]guaranteeAllocation, len(sorted))
	for _, g := range sorted {
		if g.BeneficiaryType != ctypes.BeneficiaryExposure {
			continue // facility/counterparty-level guarantee pooling is out of scope for this waterfall
		}
		ead, ok := eadAfterCollateral[g.BeneficiaryReference]
		if !ok {
			continue
		}
		amount := g.AmountCovered
		if amount == 0 && g.PercentageCovered > 0 {
			amount = g.PercentageCovered * ead
		}
		existing, seen := out[g.BeneficiaryReference]
		guarantor := g.Guarantor
		if seen {
			guarantor = existing.guarantor // primary guarantor wins
		}
		out[g.BeneficiaryReference] = guaranteeAllocation{guarantor: guarantor, amount: existing.amount + amount}
	}
	return out
}

// applyGuarantee computes guaranteed/unguaranteed portions and joins the
// guarantor's profile. Cross-approach CCF
// substitution (Art. 111) rebuilds the EAD split when an IRB exposure has
// an SA guarantor and a non-zero off-balance-sheet nominal.
func applyGuarantee(e bundle.Exposure, alloc guaranteeAllocation, profiles map[string]guarantorProfile, saCCF float64) bundle.Exposure {
	if alloc.amount <= 0 {
		return e
	}
	e.GuarantorRef = alloc.guarantor
	profile := profiles[alloc.guarantor]
	e.GuarantorExposureClass = profile.exposureClass
	e.GuarantorCQS = profile.cqs
	e.GuarantorIsIRB = profile.isIRB

	e.GuaranteedPortion = minFloat(alloc.amount, e.EADAfterCollateral)
	e.UnguaranteedPortion = e.EADAfterCollateral - e.GuaranteedPortion

	isIRBExposure := e.Approach == ctypes.ApproachFIRB || e.Approach == ctypes.ApproachAIRB
	if isIRBExposure && !profile.isIRB && e.NominalAmount > 0 {
		e = crossApproachCCFSubstitution(e, saCCF)
	}
	return e
}

// crossApproachCCFSubstitution rebuilds the EAD components when an IRB
// exposure carries an SA guarantor (CRR Art. 111): the guaranteed
// portion's CCF is
// recomputed with the SA table; the unguaranteed portion keeps the IRB
// CCF.
func crossApproachCCFSubstitution(e bundle.Exposure, saCCF float64) bundle.Exposure {
	if e.EADAfterCollateral <= 0 {
		return e
	}
	guaranteeRatio := e.GuaranteedPortion / e.EADAfterCollateral
	onBalance := e.DrawnAmount
	guaranteedEAD := onBalance*guaranteeRatio + e.NominalAmount*guaranteeRatio*saCCF
	unguaranteedEAD := onBalance*(1-guaranteeRatio) + e.NominalAmount*(1-guaranteeRatio)*e.CCFApplied

	e.EADFromCCF = guaranteedEAD + unguaranteedEAD - onBalance
	e.EADGross = onBalance + e.EADFromCCF
	// Only IRB exposures reach this substitution, and IRB collateral
	// affects LGD, never EAD, so the rebuilt gross carries straight through.
	e.EADAfterCollateral = e.EADGross
	e.GuaranteedPortion = guaranteedEAD
	e.UnguaranteedPortion = unguaranteedEAD
	return e
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// saCCFFor is used by crossApproachCCFSubstitution's caller to resolve
// the SA-table CCF for the guaranteed portion's risk type.
func saCCFFor(e bundle.Exposure) float64 {
	return reftables.SACCF(e.RiskType)
}
