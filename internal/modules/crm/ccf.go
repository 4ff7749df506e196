package crm

import (
	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/ctypes"
	"github.com/aristath/rwa-engine/internal/reftables"
)

// applyCCF is the first waterfall step: select a CCF from the SA or F-IRB
// table based on approach and risk type, then derive ead_from_ccf and
// ead_gross. A-IRB uses ccf_modelled when present, else falls back to the
// SA table.
func applyCCF(e bundle.Exposure) bundle.Exposure {
	e.PreCRMCounterpartyRef = e.CounterpartyRef
	e.PreCRMExposureClass = e.ExposureClass

	switch e.Approach {
	case ctypes.ApproachFIRB:
		e.CCFApplied = reftables.FIRBCCF(e.RiskType, e.IsShortTermTradeLC)
		e.LGDPreCRM = reftables.FIRBUnsecuredLGD(e.Seniority)
	case ctypes.ApproachAIRB:
		if e.CCFModelled != nil {
			e.CCFApplied = *e.CCFModelled
		} else {
			e.CCFApplied = reftables.SACCF(e.RiskType)
		}
		if e.ModelledLGD != nil {
			e.LGDPreCRM = *e.ModelledLGD
			e.LGDPostCRM = *e.ModelledLGD // kept unchanged through CRM; Basel 3.1 floors apply later in the IRB calculator
		}
	default: // SA, Slotting
		e.CCFApplied = reftables.SACCF(e.RiskType)
	}

	e.EADFromCCF = e.NominalAmount * e.CCFApplied
	e.EADGross = e.DrawnAmount + e.EADFromCCF
	e.EADAfterCollateral = e.EADGross // overwritten by applyCollateral where applicable
	return e
}
