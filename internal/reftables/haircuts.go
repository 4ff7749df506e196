package reftables

import "github.com/aristath/rwa-engine/internal/ctypes"

// fxHaircut is the fixed supervisory volatility adjustment applied when
// collateral currency differs from the exposure currency (CRR
// Art. 224(4)).
const fxHaircut = 0.08

// cashHaircut / goldHaircut are flat, maturity- and CQS-independent.
const (
	cashHaircut = 0.00
	goldHaircut = 0.15
)

// equityHaircut is the flat haircut for main-index-listed equity
// collateral; non-main-index equity is not IRB/SA eligible in this model
// and is treated as ineligible upstream.
const equityHaircut = 0.15

// otherPhysicalHaircut / receivablesHaircut are flat supervisory haircuts
// for non-financial collateral under the SA collateral-substitution rule
// (these types are SA-ineligible for substitution but participate in the
// F-IRB effective-LGD blend with their own overcollateralisation ratio,
// not a haircut).
const (
	otherPhysicalHaircut = 0.00
	receivablesHaircut   = 0.00
)

// bondHaircutTable is the CRR Art. 224 supervisory haircut for debt
// securities, keyed by issuer CQS band and residual-maturity band. CQS 1-3
// issuers get the lower table; CQS 4-6 (and unrated-but-eligible) issuers
// get the higher table.
var bondHaircutTable = map[bool]map[ctypes.MaturityBand]float64{
	true: { // issuer CQS 1-3
		ctypes.MaturityBand0To1: 0.005,
		ctypes.MaturityBand1To5: 0.02,
		ctypes.MaturityBand5Plus: 0.04,
	},
	false: { // issuer CQS 4-6
		ctypes.MaturityBand0To1: 0.01,
		ctypes.MaturityBand1To5: 0.03,
		ctypes.MaturityBand5Plus: 0.06,
	},
}

// MaturityBandFor buckets a residual maturity in years into the three
// CRR Art. 224 bands.
func MaturityBandFor(residualMaturityYears float64) ctypes.MaturityBand {
	switch {
	case residualMaturityYears <= 1:
		return ctypes.MaturityBand0To1
	case residualMaturityYears <= 5:
		return ctypes.MaturityBand1To5
	default:
		return ctypes.MaturityBand5Plus
	}
}

// CollateralHaircut returns the supervisory volatility adjustment for a
// collateral item, before the FX and maturity-mismatch adjustments.
func CollateralHaircut(collType ctypes.CollateralType, issuerCQS ctypes.CQS, maturityBand ctypes.MaturityBand) float64 {
	switch collType {
	case ctypes.CollateralCash:
		return cashHaircut
	case ctypes.CollateralGold:
		return goldHaircut
	case ctypes.CollateralEquity:
		return equityHaircut
	case ctypes.CollateralFinancialBond:
		goodIssuer := issuerCQS != ctypes.CQSUnrated && issuerCQS <= 3
		return bondHaircutTable[goodIssuer][maturityBand]
	case ctypes.CollateralReceivables:
		return receivablesHaircut
	case ctypes.CollateralOtherPhysical:
		return otherPhysicalHaircut
	default:
		return 0
	}
}

// FXHaircut returns the fixed currency-mismatch haircut.
func FXHaircut() float64 { return fxHaircut }
