package classifier

import (
	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/config"
	"github.com/aristath/rwa-engine/internal/ctypes"
)

// assignApproach picks a single calculation methodology per exposure:
// specialised lending prefers
// A-IRB, then Slotting; retail prefers A-IRB; corporate/institution/
// sovereign prefer A-IRB, then F-IRB; everything else falls back to SA.
func assignApproach(e bundle.Exposure, cfg config.CalculationConfig) ctypes.Approach {
	perms := cfg.IRBPermissions

	if e.ExposureClass == ctypes.ExposureSpecialisedLending {
		if perms.IsPermitted(e.ExposureClass, ctypes.ApproachAIRB) {
			return ctypes.ApproachAIRB
		}
		if perms.IsPermitted(e.ExposureClass, ctypes.ApproachSlotting) {
			return ctypes.ApproachSlotting
		}
		if perms.IsPermitted(e.ExposureClass, ctypes.ApproachFIRB) {
			return ctypes.ApproachFIRB
		}
		return ctypes.ApproachSA
	}

	if isRetailClass(e.ExposureClass) {
		if perms.IsPermitted(e.ExposureClass, ctypes.ApproachAIRB) {
			return ctypes.ApproachAIRB
		}
		return ctypes.ApproachSA
	}

	switch e.ExposureClass {
	case ctypes.ExposureCorporate, ctypes.ExposureCorporateSME, ctypes.ExposureInstitution, ctypes.ExposureSovereign:
		if perms.IsPermitted(e.ExposureClass, ctypes.ApproachAIRB) {
			return ctypes.ApproachAIRB
		}
		if perms.IsPermitted(e.ExposureClass, ctypes.ApproachFIRB) {
			return ctypes.ApproachFIRB
		}
		return ctypes.ApproachSA
	default:
		return ctypes.ApproachSA
	}
}

func isRetailClass(class ctypes.ExposureClass) bool {
	switch class {
	case ctypes.ExposureRetailOther, ctypes.ExposureRetailMortgage, ctypes.ExposureRetailQRRE:
		return true
	default:
		return false
	}
}
