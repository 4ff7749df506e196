package reftables

import "github.com/aristath/rwa-engine/internal/ctypes"

// F-IRB supervisory LGD values (CRR Art. 161).
const (
	firbLGDFinancial     = 0.00
	firbLGDReceivables   = 0.35
	firbLGDRealEstate    = 0.35
	firbLGDOtherPhysical = 0.40
	firbLGDSeniorUnsecured     = 0.45
	firbLGDSubordinatedUnsecured = 0.75
)

// FIRBUnsecuredLGD returns the F-IRB supervisory LGD for the unsecured
// portion of an exposure, by seniority.
func FIRBUnsecuredLGD(seniority ctypes.Seniority) float64 {
	if seniority == ctypes.SenioritySubordinated {
		return firbLGDSubordinatedUnsecured
	}
	return firbLGDSeniorUnsecured
}

// FIRBCollateralLGD returns the F-IRB supervisory LGD attributed to the
// effectively-secured portion of an exposure backed by the given
// collateral type. Financial collateral earns 0%,
// consistent with the full collateral substitution the overcollateralisation
// ratio already performs.
func FIRBCollateralLGD(collType ctypes.CollateralType) float64 {
	if collType.IsFinancial() {
		return firbLGDFinancial
	}
	switch collType {
	case ctypes.CollateralReceivables:
		return firbLGDReceivables
	case ctypes.CollateralRealEstate:
		return firbLGDRealEstate
	case ctypes.CollateralOtherPhysical:
		return firbLGDOtherPhysical
	default:
		return firbLGDFinancial
	}
}

// overcollateralisationRatioTable maps collateral type to the minimum
// collateralisation ratio required for full recognition (CRR
// Art. 230(2)).
var overcollateralisationRatioTable = map[ctypes.CollateralType]float64{
	ctypes.CollateralCash:          1.00,
	ctypes.CollateralGold:          1.00,
	ctypes.CollateralFinancialBond: 1.00,
	ctypes.CollateralEquity:        1.00,
	ctypes.CollateralReceivables:   1.25,
	ctypes.CollateralRealEstate:    1.40,
	ctypes.CollateralOtherPhysical: 1.40,
}

// OvercollateralisationRatio returns the ratio used to convert a
// haircut-and-maturity-adjusted collateral value into an "effectively
// secured" EAD amount.
func OvercollateralisationRatio(collType ctypes.CollateralType) float64 {
	if r, ok := overcollateralisationRatioTable[collType]; ok {
		return r
	}
	return 1.40 // conservative default for unlisted physical collateral
}

// nonFinancialMinimumThresholdRatio is the Art. 230(2) minimum-threshold
// rule: non-financial protection below this fraction of EAD is
// disregarded entirely.
const nonFinancialMinimumThresholdRatio = 0.30

// NonFinancialMinimumThresholdRatio returns the minimum-threshold ratio.
func NonFinancialMinimumThresholdRatio() float64 { return nonFinancialMinimumThresholdRatio }
