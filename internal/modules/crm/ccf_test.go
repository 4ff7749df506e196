package crm

import (
	"testing"

	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/ctypes"
	"github.com/stretchr/testify/assert"
)

func TestApplyCCF_FIRBUsesTableWithShortTermTradeException(t *testing.T) {
	e := bundle.Exposure{
		Approach: ctypes.ApproachFIRB, RiskType: ctypes.RiskTypeFullRisk,
		DrawnAmount: 100, NominalAmount: 200,
	}
	out := applyCCF(e)
	assert.Equal(t, 1.00, out.CCFApplied)
	assert.Equal(t, 200.0, out.EADFromCCF)
	assert.Equal(t, 300.0, out.EADGross)

	e.IsShortTermTradeLC = true
	out = applyCCF(e)
	assert.Equal(t, 0.20, out.CCFApplied)
}

func TestApplyCCF_AIRBPrefersModelledCCF(t *testing.T) {
	modelled := 0.35
	e := bundle.Exposure{
		Approach: ctypes.ApproachAIRB, RiskType: ctypes.RiskTypeMediumRisk,
		NominalAmount: 100, CCFModelled: &modelled,
	}
	out := applyCCF(e)
	assert.Equal(t, 0.35, out.CCFApplied)

	e.CCFModelled = nil
	out = applyCCF(e)
	assert.Equal(t, 0.50, out.CCFApplied) // falls back to SA table
}

func TestApplyCCF_SeedsLGDPreCRM(t *testing.T) {
	firb := applyCCF(bundle.Exposure{Approach: ctypes.ApproachFIRB, Seniority: ctypes.SenioritySubordinated})
	assert.Equal(t, 0.75, firb.LGDPreCRM)

	modelled := 0.28
	airb := applyCCF(bundle.Exposure{Approach: ctypes.ApproachAIRB, ModelledLGD: &modelled})
	assert.Equal(t, 0.28, airb.LGDPreCRM)
	assert.Equal(t, 0.28, airb.LGDPostCRM)
}

func TestApplyCCF_SAPreservesPreCRMIdentity(t *testing.T) {
	e := bundle.Exposure{
		Approach: ctypes.ApproachSA, RiskType: ctypes.RiskTypeLowRisk,
		CounterpartyRef: "C1", ExposureClass: ctypes.ExposureCorporate,
		DrawnAmount: 50,
	}
	out := applyCCF(e)
	assert.Equal(t, "C1", out.PreCRMCounterpartyRef)
	assert.Equal(t, ctypes.ExposureCorporate, out.PreCRMExposureClass)
	assert.Equal(t, 0.0, out.CCFApplied)
	assert.Equal(t, 50.0, out.EADGross)
}
