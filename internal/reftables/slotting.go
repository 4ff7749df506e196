package reftables

import "github.com/aristath/rwa-engine/internal/ctypes"

// crrSlottingWeights is the CRR slotting table, identical for HVCRE and
// non-HVCRE exposures.
var crrSlottingWeights = map[ctypes.SlottingCategory]float64{
	ctypes.SlottingStrong:       0.70,
	ctypes.SlottingGood:         0.70,
	ctypes.SlottingSatisfactory: 1.15,
	ctypes.SlottingWeak:         2.50,
	ctypes.SlottingDefault:      0.00,
}

// crrSlottingShortMaturityWeights overrides strong/good for residual
// maturity below 2.5 years.
var crrSlottingShortMaturityWeights = map[ctypes.SlottingCategory]float64{
	ctypes.SlottingStrong: 0.50,
	ctypes.SlottingGood:   0.70,
}

// basel31SlottingWeights is the Basel 3.1 non-HVCRE slotting table.
var basel31SlottingWeights = map[ctypes.SlottingCategory]float64{
	ctypes.SlottingStrong:       0.50,
	ctypes.SlottingGood:         0.70,
	ctypes.SlottingSatisfactory: 1.00,
	ctypes.SlottingWeak:         1.50,
	ctypes.SlottingDefault:      3.50,
}

// basel31HVCRESlottingWeights is the Basel 3.1 HVCRE slotting table.
var basel31HVCRESlottingWeights = map[ctypes.SlottingCategory]float64{
	ctypes.SlottingStrong:       0.70,
	ctypes.SlottingGood:         0.95,
	ctypes.SlottingSatisfactory: 1.20,
	ctypes.SlottingWeak:         1.75,
	ctypes.SlottingDefault:      3.50,
}

// crrSlottingMaturityThresholdYears is the CRR short-maturity boundary
// below which strong/good exposures earn the reduced weight.
const crrSlottingMaturityThresholdYears = 2.5

// SlottingRiskWeight looks up the supervisory slotting risk weight.
func SlottingRiskWeight(framework ctypes.Framework, hvcre bool, category ctypes.SlottingCategory, residualMaturityYears float64) float64 {
	if framework == ctypes.FrameworkBasel31 {
		if hvcre {
			return basel31HVCRESlottingWeights[category]
		}
		return basel31SlottingWeights[category]
	}
	if residualMaturityYears < crrSlottingMaturityThresholdYears {
		if rw, ok := crrSlottingShortMaturityWeights[category]; ok {
			return rw
		}
	}
	return crrSlottingWeights[category]
}
