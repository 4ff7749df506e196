package aggregator

import (
	"strings"

	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/config"
	"github.com/aristath/rwa-engine/internal/ctypes"
)

// buildAuditTrail assembles the per-row audit string from the regulatory
// references cited along the exposure's calculation path. The citation
// strings are part of the output contract and must not be reworded.
func buildAuditTrail(e bundle.Exposure, cfg config.CalculationConfig) string {
	var cites []string

	if e.NominalAmount > 0 {
		switch e.Approach {
		case ctypes.ApproachFIRB:
			if e.IsShortTermTradeLC {
				cites = append(cites, "CCF CRR Art. 166(9)")
			} else {
				cites = append(cites, "CCF CRR Art. 166(8)")
			}
		default:
			cites = append(cites, "CCF CRR Art. 111")
		}
	}

	if e.CollateralAllocated > 0 {
		cites = append(cites, "FCCM CRR Art. 223-224", "Maturity mismatch CRR Art. 238")
	}
	if e.GuaranteedPortion > 0 {
		cites = append(cites, "Guarantee CRR Art. 235")
	}
	if e.ProvisionDeducted > 0 {
		cites = append(cites, "SCRA CRR Art. 110")
	}

	switch e.Approach {
	case ctypes.ApproachSA:
		cites = append(cites, saRiskWeightCite(e))
	case ctypes.ApproachFIRB, ctypes.ApproachAIRB:
		if isRetail(e.ExposureClass) {
			cites = append(cites, "IRB CRR Art. 154, CRE31")
		} else {
			cites = append(cites, "IRB CRR Art. 153, CRE31")
		}
		if e.IsDefaulted {
			cites = append(cites, "Defaulted CRR Art. 153(1)(ii)")
		}
	case ctypes.ApproachSlotting:
		cites = append(cites, "Slotting CRR Art. 153(5), CRE33")
	}

	if e.SupportingFactor > 0 && e.SupportingFactor < 1 {
		cites = append(cites, "Supporting factor CRR Art. 501/501a")
	}
	if e.OutputFloorApplied {
		cites = append(cites, "Output floor CRE99, PS9/24 Ch.12")
	}
	if e.GuaranteeNote != "" {
		cites = append(cites, e.GuaranteeNote)
	}

	return strings.Join(cites, "; ")
}

func saRiskWeightCite(e bundle.Exposure) string {
	switch e.ExposureClass {
	case ctypes.ExposureRetailOther, ctypes.ExposureRetailQRRE:
		return "RW CRR Art. 123"
	case ctypes.ExposureRetailMortgage:
		return "RW CRR Art. 125, CRE20.78"
	case ctypes.ExposureDefaulted:
		return "RW CRR Art. 127"
	case ctypes.ExposureSovereign, ctypes.ExposureCentralBank:
		return "RW CRR Art. 114"
	case ctypes.ExposureInstitution:
		return "RW CRR Art. 120-121"
	default:
		return "RW CRR Art. 122, CRE20"
	}
}

func isRetail(class ctypes.ExposureClass) bool {
	switch class {
	case ctypes.ExposureRetailMortgage, ctypes.ExposureRetailQRRE, ctypes.ExposureRetailOther:
		return true
	default:
		return false
	}
}
