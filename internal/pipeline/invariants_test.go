package pipeline

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/config"
	"github.com/aristath/rwa-engine/internal/ctypes"
	"github.com/aristath/rwa-engine/internal/modules/fxconv"
)

// generatePortfolio builds a small random-but-deterministic book: a mix of
// entity types, products, ratings, collateral, guarantees, and provisions.
// The generator takes its source explicitly so each case is reproducible
// from its seed alone.
func generatePortfolio(rng *rand.Rand, size int) bundle.RawDataBundle {
	raw := bundle.RawDataBundle{FXRates: gbpIdentityRates()}
	entityTypes := []string{"sovereign", "corporate", "individual", "central_bank", "specialised_lending_spv"}

	for i := 0; i < size; i++ {
		cptyRef := fmt.Sprintf("C%03d", i)
		entity := entityTypes[rng.Intn(len(entityTypes))]
		raw.Counterparties = append(raw.Counterparties, bundle.Counterparty{
			CounterpartyReference: cptyRef,
			EntityType:            entity,
			AnnualRevenue:         float64(rng.Intn(200)) * 1_000_000,
			DefaultStatus:         rng.Float64() < 0.05,
			IsFinancialInstitution: entity == "corporate" && rng.Float64() < 0.2,
			IsManagedAsRetail:      entity == "corporate" && rng.Float64() < 0.3,
		})

		pd := 0.0001 + rng.Float64()*0.05
		raw.Ratings = append(raw.Ratings, bundle.Rating{
			RatingReference: fmt.Sprintf("R%03d", i), CounterpartyRef: cptyRef,
			RatingType: ctypes.RatingInternal, CQS: ctypes.CQS(rng.Intn(7)), PD: &pd,
		})

		loanRef := fmt.Sprintf("L%03d", i)
		lgd := 0.1 + rng.Float64()*0.6
		raw.Loans = append(raw.Loans, bundle.Loan{
			LoanReference: loanRef, CounterpartyRef: cptyRef, Currency: "GBP",
			DrawnAmount: float64(1+rng.Intn(5000)) * 1_000,
			LGD:         &lgd,
			MaturityDate: reportingDate.AddDate(rng.Intn(10), rng.Intn(12), 0),
			Seniority:   []ctypes.Seniority{ctypes.SenioritySenior, ctypes.SenioritySubordinated}[rng.Intn(2)],
		})
		if entity == "specialised_lending_spv" {
			raw.SpecialisedLending = append(raw.SpecialisedLending, bundle.SpecialisedLending{
				ExposureReference: loanRef,
				SLType:            ctypes.SLTypeProjectFinance,
				SlottingCategory: []ctypes.SlottingCategory{
					ctypes.SlottingStrong, ctypes.SlottingGood, ctypes.SlottingSatisfactory, ctypes.SlottingWeak,
				}[rng.Intn(4)],
				RemainingMaturityYears: 1 + rng.Float64()*6,
			})
		}

		if rng.Float64() < 0.4 {
			raw.Facilities = append(raw.Facilities, bundle.Facility{
				FacilityReference: fmt.Sprintf("F%03d", i), CounterpartyRef: cptyRef, Currency: "GBP",
				Limit:    float64(1+rng.Intn(2000)) * 1_000,
				RiskType: []ctypes.RiskType{ctypes.RiskTypeFullRisk, ctypes.RiskTypeMediumRisk, ctypes.RiskTypeMediumLowRisk, ctypes.RiskTypeLowRisk}[rng.Intn(4)],
				MaturityDate: reportingDate.AddDate(1+rng.Intn(5), 0, 0),
			})
		}
		if rng.Float64() < 0.3 {
			raw.Collateral = append(raw.Collateral, bundle.Collateral{
				CollateralReference: fmt.Sprintf("COLL%03d", i),
				CollateralType:      []ctypes.CollateralType{ctypes.CollateralCash, ctypes.CollateralFinancialBond, ctypes.CollateralRealEstate, ctypes.CollateralReceivables}[rng.Intn(4)],
				MarketValue:         float64(rng.Intn(2000)) * 1_000,
				Currency:            "GBP",
				IsEligibleFinancial: true, IsEligibleIRB: true,
				IssuerCQS:             ctypes.CQS(1 + rng.Intn(6)),
				ResidualMaturityYears: rng.Float64() * 8,
				PropertyType:          ctypes.PropertyResidential,
				PropertyLTV:           0.3 + rng.Float64(),
				BeneficiaryType:       ctypes.BeneficiaryExposure, BeneficiaryReference: loanRef,
			})
		}
		if rng.Float64() < 0.25 {
			guarantorRef := fmt.Sprintf("C%03d", rng.Intn(size))
			raw.Guarantees = append(raw.Guarantees, bundle.Guarantee{
				GuaranteeReference: fmt.Sprintf("G%03d", i), Guarantor: guarantorRef, Currency: "GBP",
				AmountCovered:   float64(rng.Intn(3000)) * 1_000,
				BeneficiaryType: ctypes.BeneficiaryExposure, BeneficiaryReference: loanRef,
			})
		}
		if rng.Float64() < 0.2 {
			raw.Provisions = append(raw.Provisions, bundle.Provision{
				ProvisionReference: fmt.Sprintf("P%03d", i), ProvisionType: ctypes.ProvisionSCRA,
				IFRS9Stage: int8(1 + rng.Intn(3)), Currency: "GBP",
				Amount:          float64(rng.Intn(500)) * 1_000,
				BeneficiaryType: ctypes.BeneficiaryExposure, BeneficiaryReference: loanRef,
			})
		}
	}
	return raw
}

func invariantConfigs(t *testing.T) map[string]config.CalculationConfig {
	t.Helper()
	crr, err := config.NewCRR(reportingDate, config.PermissionsFullIRB(), testEURGBPRate, ctypes.CollectModeInMemory)
	require.NoError(t, err)
	b31, err := config.NewBasel31(reportingDate.AddDate(7, 0, 0), config.PermissionsFullIRB(), ctypes.CollectModeInMemory)
	require.NoError(t, err)
	saOnly, err := config.NewCRR(reportingDate, config.PermissionsSAOnly(), testEURGBPRate, ctypes.CollectModeInMemory)
	require.NoError(t, err)
	hybrid, err := config.NewCRR(reportingDate, config.PermissionsHybridRetailAIRBCorporateFIRB(), testEURGBPRate, ctypes.CollectModeInMemory)
	require.NoError(t, err)
	return map[string]config.CalculationConfig{"crr_full_irb": crr, "basel31_full_irb": b31, "crr_sa_only": saOnly, "crr_hybrid": hybrid}
}

// TestInvariants_GeneratedPortfolios checks the universal invariants of
// the calculation over several generated portfolios under four
// configurations: CRR full IRB, Basel 3.1 full IRB, CRR SA-only, and the
// CRR hybrid preset.
func TestInvariants_GeneratedPortfolios(t *testing.T) {
	for name, cfg := range invariantConfigs(t) {
		for seed := int64(1); seed <= 4; seed++ {
			t.Run(fmt.Sprintf("%s/seed%d", name, seed), func(t *testing.T) {
				rng := rand.New(rand.NewSource(seed))
				raw := generatePortfolio(rng, 40)

				p, err := New(cfg, zerolog.Nop())
				require.NoError(t, err)
				out := run(t, p, raw)

				for _, e := range out.Results {
					// 1. Non-negativity.
					assert.GreaterOrEqual(t, e.EADFinal, 0.0, e.ExposureReference)
					assert.GreaterOrEqual(t, e.RWA, 0.0, e.ExposureReference)
					assert.GreaterOrEqual(t, e.RiskWeight, 0.0, e.ExposureReference)

					// 2. CRM monotonicity.
					assert.GreaterOrEqual(t, e.EADGross+1e-9, e.EADAfterCollateral, e.ExposureReference)
					assert.GreaterOrEqual(t, e.EADAfterCollateral+1e-9, e.EADAfterGuarantee, e.ExposureReference)
					assert.GreaterOrEqual(t, e.EADAfterGuarantee+1e-9, e.EADFinal, e.ExposureReference)

					// 3. Split-row sum.
					if e.GuaranteedPortion > 0 {
						assert.InDelta(t, e.EADAfterCollateral, e.GuaranteedPortion+e.UnguaranteedPortion, 1e-6, e.ExposureReference)
					}

					// 4. Defaulted F-IRB carries zero RWA.
					if e.IsDefaulted && e.Approach == ctypes.ApproachFIRB {
						assert.Equal(t, 0.0, e.RWA, e.ExposureReference)
					}

					// 5/6. PD floors.
					if (e.Approach == ctypes.ApproachFIRB || e.Approach == ctypes.ApproachAIRB) && !e.IsDefaulted && e.EADFinal > 0 {
						assert.GreaterOrEqual(t, e.PD, cfg.PDFloors.Floor(e.ExposureClass, false), e.ExposureReference)
						assert.LessOrEqual(t, e.PD, 1.0, e.ExposureReference)
					}

					// 8. SA non-mortgage retail is exactly 75%.
					if e.Approach == ctypes.ApproachSA && (e.ExposureClass == ctypes.ExposureRetailOther || e.ExposureClass == ctypes.ExposureRetailQRRE) && e.GuarantorRef == "" {
						assert.Equal(t, 0.75, e.RiskWeight, e.ExposureReference)
					}

					// 10. Hybrid reclassification never produces QRRE from a corporate.
					if name == "crr_hybrid" {
						for _, c := range raw.Counterparties {
							if c.CounterpartyReference == e.CounterpartyRef && c.EntityType == "corporate" {
								assert.NotEqual(t, ctypes.ExposureRetailQRRE, e.ExposureClass, e.ExposureReference)
							}
						}
					}
				}

				// Split-row detail sums match the single-row RWA per exposure.
				rwaByRef := map[string]float64{}
				for _, row := range out.PostCRMDetailed {
					rwaByRef[row.ExposureReference] += row.RWA
				}
				for _, e := range out.Results {
					assert.InDelta(t, e.RWA, rwaByRef[e.ExposureReference], 1e-6, e.ExposureReference)
				}
			})
		}
	}
}

// TestInvariant_FXRoundTrip: converting X -> Y -> X through the rate table
// returns the original amount within 1e-9 relative tolerance.
func TestInvariant_FXRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		amount := 1 + rng.Float64()*1e9
		rate := 0.1 + rng.Float64()*5

		usdLoan := bundle.RawDataBundle{
			Loans:   []bundle.Loan{{LoanReference: "L1", Currency: "USD", DrawnAmount: amount}},
			FXRates: []bundle.FXRate{{CurrencyFrom: "USD", CurrencyTo: "GBP", Rate: rate}},
		}
		toGBP, errs := fxconv.Convert(usdLoan, "GBP")
		require.Empty(t, errs)

		back := bundle.RawDataBundle{
			Loans:   toGBP.Loans,
			FXRates: []bundle.FXRate{{CurrencyFrom: "GBP", CurrencyTo: "USD", Rate: 1 / rate}},
		}
		toUSD, errs := fxconv.Convert(back, "USD")
		require.Empty(t, errs)

		assert.InEpsilon(t, amount, toUSD.Loans[0].DrawnAmount, 1e-9)
	}
}
