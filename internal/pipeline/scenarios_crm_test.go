package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/config"
	"github.com/aristath/rwa-engine/internal/ctypes"
)

// GBP 1m loan to an unrated corporate with GBP 600k guaranteed by a
// CQS-1 sovereign. The unguaranteed 400k stays at 100%, the guaranteed
// 600k substitutes to 0%: total RWA 400k.
func TestEndToEnd_SovereignGuarantee(t *testing.T) {
	p := crrPipeline(t, config.PermissionsSAOnly())
	raw := bundle.RawDataBundle{
		Counterparties: []bundle.Counterparty{
			{CounterpartyReference: "CORP", EntityType: "corporate", AnnualRevenue: 500_000_000},
			{CounterpartyReference: "HMT", EntityType: "sovereign"},
		},
		Ratings: []bundle.Rating{
			{RatingReference: "R1", CounterpartyRef: "HMT", RatingType: ctypes.RatingExternal, Agency: "SP", CQS: 1},
		},
		Loans: []bundle.Loan{{
			LoanReference: "L1", CounterpartyRef: "CORP", Currency: "GBP",
			DrawnAmount: 1_000_000, MaturityDate: reportingDate.AddDate(3, 0, 0),
		}},
		Guarantees: []bundle.Guarantee{{
			GuaranteeReference: "G1", Guarantor: "HMT", Currency: "GBP",
			AmountCovered: 600_000, MaturityDate: reportingDate.AddDate(3, 0, 0),
			BeneficiaryType: ctypes.BeneficiaryExposure, BeneficiaryReference: "L1",
		}},
		FXRates: gbpIdentityRates(),
	}
	out := run(t, p, raw)

	e := resultByRef(t, out, "L1")
	assert.Equal(t, 600_000.0, e.GuaranteedPortion)
	assert.Equal(t, 400_000.0, e.UnguaranteedPortion)
	assert.Equal(t, ctypes.ExposureSovereign, e.GuarantorExposureClass)
	assert.Equal(t, ctypes.CQS(1), e.GuarantorCQS)
	assert.InDelta(t, 400_000.0, e.RWA, 1e-6)

	// Split-row views: unguaranteed under corporate, guaranteed under the
	// sovereign's class, sums exact.
	require.Len(t, out.PostCRMDetailed, 2)
	var totalEAD, totalRWA float64
	for _, row := range out.PostCRMDetailed {
		totalEAD += row.EAD
		totalRWA += row.RWA
		if row.PortionType == bundle.CRMPortionGuaranteed {
			assert.Equal(t, ctypes.ExposureSovereign, row.ExposureClass)
			assert.Equal(t, 0.0, row.RWA)
		}
	}
	assert.Equal(t, e.EADAfterCollateral, totalEAD)
	assert.InDelta(t, e.RWA, totalRWA, 1e-9)
}

// A non-beneficial guarantee leaves RWA untouched and is flagged.
func TestEndToEnd_NonBeneficialGuarantee(t *testing.T) {
	p := crrPipeline(t, config.PermissionsSAOnly())
	raw := bundle.RawDataBundle{
		Counterparties: []bundle.Counterparty{
			{CounterpartyReference: "HMT", EntityType: "sovereign"},
			{CounterpartyReference: "CORP", EntityType: "corporate", AnnualRevenue: 500_000_000},
		},
		Ratings: []bundle.Rating{
			{RatingReference: "R1", CounterpartyRef: "HMT", RatingType: ctypes.RatingExternal, Agency: "SP", CQS: 1},
		},
		Loans: []bundle.Loan{{
			LoanReference: "L1", CounterpartyRef: "HMT", Currency: "GBP",
			DrawnAmount: 1_000_000, MaturityDate: reportingDate.AddDate(3, 0, 0),
		}},
		Guarantees: []bundle.Guarantee{{
			GuaranteeReference: "G1", Guarantor: "CORP", Currency: "GBP",
			AmountCovered: 500_000,
			BeneficiaryType: ctypes.BeneficiaryExposure, BeneficiaryReference: "L1",
		}},
		FXRates: gbpIdentityRates(),
	}
	out := run(t, p, raw)

	e := resultByRef(t, out, "L1")
	assert.Equal(t, 0.0, e.RWA) // sovereign CQS1 already 0%
	assert.Equal(t, "GUARANTEE_NOT_APPLIED_NON_BENEFICIAL", e.GuaranteeNote)
}

// SCRA provisions deduct from SA EAD at finalisation.
func TestEndToEnd_ProvisionDeduction(t *testing.T) {
	p := crrPipeline(t, config.PermissionsSAOnly())
	raw := bundle.RawDataBundle{
		Counterparties: []bundle.Counterparty{{CounterpartyReference: "CORP", EntityType: "corporate", AnnualRevenue: 500_000_000}},
		Loans: []bundle.Loan{{
			LoanReference: "L1", CounterpartyRef: "CORP", Currency: "GBP",
			DrawnAmount: 1_000_000, MaturityDate: reportingDate.AddDate(3, 0, 0),
		}},
		Provisions: []bundle.Provision{{
			ProvisionReference: "P1", ProvisionType: ctypes.ProvisionSCRA, IFRS9Stage: 3,
			Currency: "GBP", Amount: 200_000,
			BeneficiaryType: ctypes.BeneficiaryExposure, BeneficiaryReference: "L1",
		}},
		FXRates: gbpIdentityRates(),
	}
	out := run(t, p, raw)

	e := resultByRef(t, out, "L1")
	assert.Equal(t, 200_000.0, e.ProvisionDeducted)
	assert.Equal(t, 800_000.0, e.EADFinal)
	assert.InDelta(t, 800_000.0, e.RWA, 1e-6) // unrated corporate 100%
}

// Cash collateral reduces SA EAD by simple substitution with haircuts.
func TestEndToEnd_CashCollateralSubstitution(t *testing.T) {
	p := crrPipeline(t, config.PermissionsSAOnly())
	raw := bundle.RawDataBundle{
		Counterparties: []bundle.Counterparty{{CounterpartyReference: "CORP", EntityType: "corporate", AnnualRevenue: 500_000_000}},
		Loans: []bundle.Loan{{
			LoanReference: "L1", CounterpartyRef: "CORP", Currency: "GBP",
			DrawnAmount: 1_000_000, MaturityDate: reportingDate.AddDate(3, 0, 0),
		}},
		Collateral: []bundle.Collateral{{
			CollateralReference: "CASH1", CollateralType: ctypes.CollateralCash,
			MarketValue: 400_000, Currency: "GBP", IsEligibleFinancial: true,
			ResidualMaturityYears: 5,
			BeneficiaryType:       ctypes.BeneficiaryExposure, BeneficiaryReference: "L1",
		}},
		FXRates: gbpIdentityRates(),
	}
	out := run(t, p, raw)

	e := resultByRef(t, out, "L1")
	assert.InDelta(t, 600_000.0, e.EADAfterCollateral, 1e-6)
	assert.InDelta(t, 600_000.0, e.RWA, 1e-6)
}
