package reftables

import "github.com/aristath/rwa-engine/internal/ctypes"

// saCCFTable maps risk type to the SA credit-conversion factor (CRR
// Art. 111).
var saCCFTable = map[ctypes.RiskType]float64{
	ctypes.RiskTypeFullRisk:      1.00,
	ctypes.RiskTypeMediumRisk:    0.50,
	ctypes.RiskTypeMediumLowRisk: 0.20,
	ctypes.RiskTypeLowRisk:       0.00,
}

// firbCCFTable maps risk type to the Foundation-IRB credit-conversion
// factor (CRR Art. 166(8)).
var firbCCFTable = map[ctypes.RiskType]float64{
	ctypes.RiskTypeFullRisk:      1.00,
	ctypes.RiskTypeMediumRisk:    0.75,
	ctypes.RiskTypeMediumLowRisk: 0.75,
	ctypes.RiskTypeLowRisk:       0.00,
}

// shortTermTradeLCCCF is the Art. 166(9) exception: short-term trade
// letters of credit retain 20% under F-IRB regardless of risk type.
const shortTermTradeLCCCF = 0.20

// SACCF returns the standardised-approach CCF for a risk type.
func SACCF(riskType ctypes.RiskType) float64 {
	return saCCFTable[riskType]
}

// FIRBCCF returns the Foundation-IRB CCF for a risk type, honouring the
// Art. 166(9) short-term trade letter-of-credit exception.
func FIRBCCF(riskType ctypes.RiskType, isShortTermTradeLC bool) float64 {
	if isShortTermTradeLC {
		return shortTermTradeLCCCF
	}
	return firbCCFTable[riskType]
}
