package crm

import (
	"testing"

	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/config"
	"github.com/aristath/rwa-engine/internal/ctypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestProcess_WaterfallMonotonicity runs a mixed book through the full
// waterfall and checks the stage-boundary invariant
// ead_gross >= ead_after_collateral >= ead_after_guarantee >= ead_final >= 0
// for every exposure.
func TestProcess_WaterfallMonotonicity(t *testing.T) {
	cfg := testConfig(t, config.PermissionsFIRBOnly())
	maturity := cfg.ReportingDate.AddDate(3, 0, 0)

	exposures := []bundle.Exposure{
		{ExposureReference: "SA1", CounterpartyRef: "C1", Approach: ctypes.ApproachSA, ExposureClass: ctypes.ExposureCorporate, DrawnAmount: 1000, NominalAmount: 500, RiskType: ctypes.RiskTypeMediumRisk, MaturityDate: maturity},
		{ExposureReference: "FIRB1", CounterpartyRef: "C2", Approach: ctypes.ApproachFIRB, ExposureClass: ctypes.ExposureCorporate, DrawnAmount: 2000, NominalAmount: 1000, RiskType: ctypes.RiskTypeFullRisk, Seniority: ctypes.SenioritySenior, MaturityDate: maturity},
		{ExposureReference: "SA2", CounterpartyRef: "C3", Approach: ctypes.ApproachSA, ExposureClass: ctypes.ExposureRetailOther, DrawnAmount: 300, MaturityDate: maturity},
	}
	collateral := []bundle.Collateral{
		{CollateralReference: "COLL1", CollateralType: ctypes.CollateralCash, MarketValue: 400, IsEligibleFinancial: true, IsEligibleIRB: true, ResidualMaturityYears: 4, BeneficiaryType: ctypes.BeneficiaryExposure, BeneficiaryReference: "SA1"},
	}
	guarantees := []bundle.Guarantee{
		{GuaranteeReference: "G1", Guarantor: "C9", AmountCovered: 500, BeneficiaryType: ctypes.BeneficiaryExposure, BeneficiaryReference: "FIRB1"},
	}
	provisions := []bundle.Provision{
		{ProvisionType: ctypes.ProvisionSCRA, Amount: 150, BeneficiaryType: ctypes.BeneficiaryExposure, BeneficiaryReference: "SA1"},
	}
	counterparties := []bundle.Counterparty{
		{CounterpartyReference: "C1", EntityType: "corporate"},
		{CounterpartyReference: "C2", EntityType: "corporate"},
		{CounterpartyReference: "C3", EntityType: "individual"},
		{CounterpartyReference: "C9", EntityType: "sovereign"},
	}

	out, errs := Process(exposures, counterparties, collateral, guarantees, provisions, nil, cfg)
	require.Empty(t, errs)
	require.Len(t, out, 3)

	for _, e := range out {
		assert.GreaterOrEqual(t, e.EADGross, e.EADAfterCollateral, e.ExposureReference)
		assert.GreaterOrEqual(t, e.EADAfterCollateral, e.EADAfterGuarantee, e.ExposureReference)
		assert.GreaterOrEqual(t, e.EADAfterGuarantee, e.EADFinal, e.ExposureReference)
		assert.GreaterOrEqual(t, e.EADFinal, 0.0, e.ExposureReference)
		assert.InDelta(t, maxFloat(0, e.EADAfterCollateral-e.ProvisionDeducted), e.EADFinal, 1e-9, e.ExposureReference)
	}
}

func TestProcess_MissingOptionalTablesSkipSilently(t *testing.T) {
	cfg := testConfig(t, config.PermissionsSAOnly())
	out, errs := Process([]bundle.Exposure{
		{ExposureReference: "E1", CounterpartyRef: "C1", Approach: ctypes.ApproachSA, DrawnAmount: 100},
	}, nil, nil, nil, nil, nil, cfg)
	require.Empty(t, errs)
	assert.Equal(t, 100.0, out[0].EADFinal)
}

func TestProcess_FIRBCollateralBlendsLGDNotEAD(t *testing.T) {
	cfg := testConfig(t, config.PermissionsFIRBOnly())
	maturity := cfg.ReportingDate.AddDate(4, 0, 0)
	out, _ := Process(
		[]bundle.Exposure{{
			ExposureReference: "E1", CounterpartyRef: "C1", Approach: ctypes.ApproachFIRB,
			ExposureClass: ctypes.ExposureCorporate, Seniority: ctypes.SenioritySenior,
			DrawnAmount: 1000, MaturityDate: maturity,
		}},
		[]bundle.Counterparty{{CounterpartyReference: "C1", EntityType: "corporate"}},
		[]bundle.Collateral{{
			CollateralReference: "COLL1", CollateralType: ctypes.CollateralCash,
			MarketValue: 500, IsEligibleIRB: true, ResidualMaturityYears: 5,
			BeneficiaryType: ctypes.BeneficiaryExposure, BeneficiaryReference: "E1",
		}},
		nil, nil, nil, cfg)

	e := out[0]
	assert.Equal(t, e.EADGross, e.EADAfterCollateral) // EAD untouched
	assert.Less(t, e.LGDPostCRM, 0.45)                // blended below senior unsecured
	assert.Greater(t, e.LGDPostCRM, 0.0)
}

func TestProcess_FacilityCollateralAllocatedProRata(t *testing.T) {
	cfg := testConfig(t, config.PermissionsSAOnly())
	maturity := cfg.ReportingDate.AddDate(2, 0, 0)
	out, _ := Process(
		[]bundle.Exposure{
			{ExposureReference: "E1", CounterpartyRef: "C1", ParentFacilityRef: "F1", Approach: ctypes.ApproachSA, DrawnAmount: 750, MaturityDate: maturity},
			{ExposureReference: "E2", CounterpartyRef: "C1", ParentFacilityRef: "F1", Approach: ctypes.ApproachSA, DrawnAmount: 250, MaturityDate: maturity},
		},
		[]bundle.Counterparty{{CounterpartyReference: "C1", EntityType: "corporate"}},
		[]bundle.Collateral{{
			CollateralReference: "COLL1", CollateralType: ctypes.CollateralCash,
			MarketValue: 100, IsEligibleFinancial: true, ResidualMaturityYears: 5,
			BeneficiaryType: ctypes.BeneficiaryFacility, BeneficiaryReference: "F1",
		}},
		nil, nil, nil, cfg)

	// Cash carries a zero haircut; the full 100 allocates 75/25.
	assert.InDelta(t, 75.0, out[0].CollateralAllocated, 1e-9)
	assert.InDelta(t, 25.0, out[1].CollateralAllocated, 1e-9)
}

func TestMaturityYearsRemaining(t *testing.T) {
	cfg := testConfig(t, config.PermissionsSAOnly())
	e := bundle.Exposure{MaturityDate: cfg.ReportingDate.AddDate(2, 6, 0)}
	assert.InDelta(t, 2.5, maturityYearsRemaining(e, cfg), 0.01)

	past := bundle.Exposure{MaturityDate: cfg.ReportingDate.AddDate(-1, 0, 0)}
	assert.Equal(t, 0.0, maturityYearsRemaining(past, cfg))

	assert.Equal(t, 0.0, maturityYearsRemaining(bundle.Exposure{}, cfg))
}
