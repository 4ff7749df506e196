package config

import (
	"testing"
	"time"

	"github.com/aristath/rwa-engine/internal/ctypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reportingDate = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

func TestNewCRR_Defaults(t *testing.T) {
	cfg, err := NewCRR(reportingDate, PermissionsSAOnly(), 0.85, ctypes.CollectModeInMemory)
	require.NoError(t, err)

	assert.Equal(t, ctypes.FrameworkCRR, cfg.Framework)
	assert.Equal(t, "GBP", cfg.ReportingCurrency)
	assert.Equal(t, 1.06, cfg.NonRetailScalingFactor)
	assert.Equal(t, 10, cfg.MaxHierarchyDepth)
	assert.True(t, cfg.UKInstitutionCQS2Deviation)
	assert.True(t, cfg.SupportingFactors.Enabled)
	assert.False(t, cfg.OutputFloor.Enabled)
	assert.Equal(t, 0.0, cfg.OutputFloorPercentage())

	// Single 0.03% PD floor for every class.
	assert.Equal(t, 0.0003, cfg.PDFloors.Floor(ctypes.ExposureCorporate, false))
	assert.Equal(t, 0.0003, cfg.PDFloors.Floor(ctypes.ExposureRetailQRRE, false))

	// No LGD floors.
	assert.Equal(t, 0.0, cfg.LGDFloors.Floor(ctypes.CollateralRealEstate))
}

func TestNewCRR_RejectsNonPositiveRate(t *testing.T) {
	_, err := NewCRR(reportingDate, PermissionsSAOnly(), 0, ctypes.CollectModeInMemory)
	require.Error(t, err)
	_, err = NewCRR(reportingDate, PermissionsSAOnly(), -1, ctypes.CollectModeInMemory)
	require.Error(t, err)
}

func TestNewBasel31_Defaults(t *testing.T) {
	cfg, err := NewBasel31(reportingDate, PermissionsSAOnly(), ctypes.CollectModeStreaming)
	require.NoError(t, err)

	assert.Equal(t, ctypes.FrameworkBasel31, cfg.Framework)
	assert.Equal(t, 1.0, cfg.NonRetailScalingFactor)
	assert.False(t, cfg.SupportingFactors.Enabled)
	assert.True(t, cfg.OutputFloor.Enabled)
	assert.Equal(t, ctypes.CollectModeStreaming, cfg.CollectMode)

	// Differentiated PD floors.
	assert.Equal(t, 0.0005, cfg.PDFloors.Floor(ctypes.ExposureCorporate, false))
	assert.Equal(t, 0.0003, cfg.PDFloors.Floor(ctypes.ExposureRetailQRRE, true))
	assert.Equal(t, 0.0010, cfg.PDFloors.Floor(ctypes.ExposureRetailQRRE, false))

	// A-IRB LGD floors by collateral type.
	assert.Equal(t, 0.25, cfg.LGDFloors.Floor(""))
	assert.Equal(t, 0.05, cfg.LGDFloors.Floor(ctypes.CollateralRealEstate))
	assert.Equal(t, 0.10, cfg.LGDFloors.Floor(ctypes.CollateralReceivables))
	assert.Equal(t, 0.0, cfg.LGDFloors.Floor(ctypes.CollateralCash))
}

func TestOutputFloor_TransitionalSchedule(t *testing.T) {
	cases := []struct {
		date time.Time
		want float64
	}{
		{time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), 0.725}, // before the schedule: steady-state fallback
		{time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC), 0.50},
		{time.Date(2028, 6, 30, 0, 0, 0, 0, time.UTC), 0.55},
		{time.Date(2029, 6, 30, 0, 0, 0, 0, time.UTC), 0.60},
		{time.Date(2030, 6, 30, 0, 0, 0, 0, time.UTC), 0.65},
		{time.Date(2031, 6, 30, 0, 0, 0, 0, time.UTC), 0.70},
		{time.Date(2032, 6, 30, 0, 0, 0, 0, time.UTC), 0.725},
		{time.Date(2040, 1, 1, 0, 0, 0, 0, time.UTC), 0.725},
	}
	for _, tc := range cases {
		cfg, err := NewBasel31(tc.date, PermissionsSAOnly(), ctypes.CollectModeInMemory)
		require.NoError(t, err)
		assert.Equal(t, tc.want, cfg.OutputFloorPercentage(), tc.date.Format("2006-01-02"))
	}
}

func TestOutputFloor_DisabledReturnsZero(t *testing.T) {
	o := OutputFloorConfig{Enabled: false, FloorPercentage: 0.725}
	assert.Equal(t, 0.0, o.PercentageAt(reportingDate))
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg, err := NewCRR(reportingDate, PermissionsSAOnly(), 0.85, ctypes.CollectModeInMemory)
	require.NoError(t, err)

	bad := cfg
	bad.Framework = "CRD_IV"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.MaxHierarchyDepth = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.OutputFloor = OutputFloorConfig{Enabled: true, FloorPercentage: 1.5}
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.OutputFloor = OutputFloorConfig{
		Enabled: true, FloorPercentage: 0.725,
		TransitionalSchedule: []ScheduleStep{{EffectiveFrom: reportingDate, Percentage: -0.1}},
	}
	assert.Error(t, bad.Validate())
}

func TestIRBPermissions_Presets(t *testing.T) {
	sa := PermissionsSAOnly()
	assert.True(t, sa.IsPermitted(ctypes.ExposureCorporate, ctypes.ApproachSA))
	assert.False(t, sa.IsPermitted(ctypes.ExposureCorporate, ctypes.ApproachFIRB))

	firb := PermissionsFIRBOnly()
	assert.True(t, firb.IsPermitted(ctypes.ExposureCorporate, ctypes.ApproachFIRB))
	assert.False(t, firb.IsPermitted(ctypes.ExposureCorporate, ctypes.ApproachAIRB))
	assert.False(t, firb.IsPermitted(ctypes.ExposureRetailOther, ctypes.ApproachFIRB), "F-IRB is never permitted for retail")

	airb := PermissionsAIRBOnly()
	assert.True(t, airb.IsPermitted(ctypes.ExposureRetailMortgage, ctypes.ApproachAIRB))
	assert.False(t, airb.IsPermitted(ctypes.ExposureSpecialisedLending, ctypes.ApproachAIRB))
	assert.True(t, airb.IsPermitted(ctypes.ExposureSpecialisedLending, ctypes.ApproachSlotting))

	full := PermissionsFullIRB()
	assert.True(t, full.IsPermitted(ctypes.ExposureCorporate, ctypes.ApproachFIRB))
	assert.True(t, full.IsPermitted(ctypes.ExposureCorporate, ctypes.ApproachAIRB))
	assert.False(t, full.AllowCorporateToRetailReclassification)

	hybrid := PermissionsHybridRetailAIRBCorporateFIRB()
	assert.True(t, hybrid.IsPermitted(ctypes.ExposureRetailOther, ctypes.ApproachAIRB))
	assert.True(t, hybrid.IsPermitted(ctypes.ExposureCorporate, ctypes.ApproachFIRB))
	assert.False(t, hybrid.IsPermitted(ctypes.ExposureCorporate, ctypes.ApproachAIRB))
	assert.True(t, hybrid.AllowCorporateToRetailReclassification)
}

func TestIRBPermissions_UnknownClassDefaultsToSAOnly(t *testing.T) {
	p := PermissionsFullIRB()
	assert.True(t, p.IsPermitted(ctypes.ExposureOther, ctypes.ApproachSA))
	assert.False(t, p.IsPermitted(ctypes.ExposureOther, ctypes.ApproachFIRB))
}

func TestSMETurnoverThreshold_CurrencyDenomination(t *testing.T) {
	crr, err := NewCRR(reportingDate, PermissionsSAOnly(), 0.85, ctypes.CollectModeInMemory)
	require.NoError(t, err)
	assert.InDelta(t, 50_000_000*0.85, crr.SMETurnoverThreshold(), 1e-6)

	b31, err := NewBasel31(reportingDate, PermissionsSAOnly(), ctypes.CollectModeInMemory)
	require.NoError(t, err)
	assert.InDelta(t, 50_000_000, b31.SMETurnoverThreshold(), 1e-6)
}

func TestRetailThresholds_Denomination(t *testing.T) {
	crr, err := NewCRR(reportingDate, PermissionsSAOnly(), 0.85, ctypes.CollectModeInMemory)
	require.NoError(t, err)
	assert.InDelta(t, 850_000, crr.RetailThresholds.MaxExposureThreshold, 1e-6)

	b31, err := NewBasel31(reportingDate, PermissionsSAOnly(), ctypes.CollectModeInMemory)
	require.NoError(t, err)
	assert.InDelta(t, 880_000, b31.RetailThresholds.MaxExposureThreshold, 1e-6)
}
