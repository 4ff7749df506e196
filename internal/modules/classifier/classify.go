// Package classifier assigns an exposure class and calculation approach
// to every resolved exposure, the third pipeline stage.
// Classification runs as an ordered predicate chain: once an earlier rule
// matches, later rules are skipped for that exposure.
package classifier

import (
	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/config"
	"github.com/aristath/rwa-engine/internal/ctypes"
)

const (
	entityTypeSovereign         = "sovereign"
	entityTypeCentralBank       = "central_bank"
	entityTypeIndividual        = "individual"
	entityTypeCorporate         = "corporate"
	entityTypeSpecialisedLendingSPV = "specialised_lending_spv"
)

// Classify assigns ExposureClass, Approach, IsDefaulted, and (for
// slotting-bound exposures) SLType/SLCategory/IsHVCRE to every exposure.
func Classify(
	exposures []bundle.Exposure,
	counterparties []bundle.Counterparty,
	specialisedLending []bundle.SpecialisedLending,
	propertyCollateral map[string]bundle.Collateral, // keyed by exposure reference, for mortgage/property detection
	cfg config.CalculationConfig,
) ([]bundle.Exposure, ctypes.Errors) {
	var errs ctypes.Errors

	cptyByRef := make(map[string]bundle.Counterparty, len(counterparties))
	for _, c := range counterparties {
		cptyByRef[c.CounterpartyReference] = c
	}
	slByExposure := make(map[string]bundle.SpecialisedLending, len(specialisedLending))
	for _, sl := range specialisedLending {
		slByExposure[sl.ExposureReference] = sl
	}

	out := make([]bundle.Exposure, len(exposures))
	for i, e := range exposures {
		cpty, ok := cptyByRef[e.CounterpartyRef]
		if !ok {
			errs = errs.Add(ctypes.New(
				"UNKNOWN_COUNTERPARTY",
				"exposure references an unknown counterparty; defaulting to OTHER",
				ctypes.SeverityWarning,
				ctypes.CategoryDataQuality,
			).WithExposure(e.ExposureReference).WithCounterparty(e.CounterpartyRef))
			e.ExposureClass = ctypes.ExposureOther
			e.Approach = ctypes.ApproachSA
			out[i] = e
			continue
		}

		e.IsDefaulted = cpty.DefaultStatus
		e.ExposureClass = classifyEntity(cpty, slByExposure, e.ExposureReference)

		if e.ExposureClass == ctypes.ExposureCorporate && cpty.AnnualRevenue < cfg.SMETurnoverThreshold() {
			e.ExposureClass = ctypes.ExposureCorporateSME
		}

		e = refineRetail(e, cpty, propertyCollateral, cfg)
		e = maybeReclassifyHybrid(e, cpty, propertyCollateral, cfg)

		if e.ExposureClass == ctypes.ExposureSpecialisedLending {
			if sl, ok := slByExposure[e.ExposureReference]; ok {
				e.SLType = sl.SLType
				e.SLCategory = sl.SlottingCategory
				e.IsHVCRE = sl.IsHVCRE
				if sl.RemainingMaturityYears > 0 {
					e.MaturityYears = sl.RemainingMaturityYears
				}
			}
		}

		e.Approach = assignApproach(e, cfg)
		out[i] = e
	}

	return out, errs
}

// classifyEntity applies the entity-type and regulatory-flag priority
// rules (CRR Art. 112).
// Step 4 (individual → retail) is a placeholder class refined fully by
// refineRetail.
func classifyEntity(cpty bundle.Counterparty, slByExposure map[string]bundle.SpecialisedLending, exposureRef string) ctypes.ExposureClass {
	_, hasSLRecord := slByExposure[exposureRef]

	switch {
	case cpty.EntityType == entityTypeSovereign:
		return ctypes.ExposureSovereign
	case cpty.EntityType == entityTypeCentralBank:
		return ctypes.ExposureCentralBank
	case cpty.IsRGLA:
		return ctypes.ExposureRGLA
	case cpty.IsPSE:
		return ctypes.ExposurePSE
	case cpty.IsMDB:
		return ctypes.ExposureMDB
	case cpty.IsCentralCounterparty:
		return ctypes.ExposureCentralCounterparty
	case cpty.IsFinancialInstitution:
		return ctypes.ExposureInstitution
	case cpty.EntityType == entityTypeIndividual:
		return ctypes.ExposureRetailOther // refined further by refineRetail
	case cpty.EntityType == entityTypeSpecialisedLendingSPV || hasSLRecord:
		return ctypes.ExposureSpecialisedLending
	default:
		return ctypes.ExposureCorporate
	}
}
