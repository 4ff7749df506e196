// Package irb implements the Internal Ratings-Based calculator, the
// sixth pipeline stage for exposures classified to
// ctypes.ApproachFIRB or ctypes.ApproachAIRB. formulas.go holds the pure
// Vasicek-model functions; irb.go orchestrates floors, the defaulted
// bypass, guarantee substitution, and expected loss over a slice of
// exposures.
package irb

import (
	"math"

	"github.com/aristath/rwa-engine/internal/ctypes"
	"github.com/aristath/rwa-engine/internal/statsmath"
)

// Correlation derives the asset correlation R (CRE31.5): corporate,
// institution, and sovereign exposures share a single PD-weighted blend of
// the 12%/24% bounds, with a CRR-only SME discount; retail mortgage and
// QRRE use fixed correlations; other retail uses the same blend shape with
// a steeper PD-weighting factor.
func Correlation(class ctypes.ExposureClass, pd float64, framework ctypes.Framework, turnoverM float64) float64 {
	switch class {
	case ctypes.ExposureRetailMortgage:
		return 0.15
	case ctypes.ExposureRetailQRRE:
		return 0.04
	case ctypes.ExposureRetailOther:
		x := pdWeight(pd, 35)
		return 0.03*x + 0.16*(1-x)
	default:
		x := pdWeight(pd, 50)
		r := 0.12*x + 0.24*(1-x)
		if framework == ctypes.FrameworkCRR && class == ctypes.ExposureCorporateSME {
			r += smeCorrelationDiscount(turnoverM)
		}
		return r
	}
}

// pdWeight is the `x = (1 − e^(−k·PD)) / (1 − e^(−k))` shape shared by the
// non-retail and other-retail correlation formulas, k = 50 and 35
// respectively.
func pdWeight(pd, k float64) float64 {
	return (1 - math.Exp(-k*pd)) / (1 - math.Exp(-k))
}

// smeCorrelationDiscount implements the CRR SME correlation discount
// `−0.04 · (1 − (turnover_m − 5)/45)`, clamping turnover_m to [5, 50].
func smeCorrelationDiscount(turnoverM float64) float64 {
	t := turnoverM
	if t < 5 {
		t = 5
	}
	if t > 50 {
		t = 50
	}
	return -0.04 * (1 - (t-5)/45)
}

// EffectiveMaturity floors effective maturity at 1 year and caps it at 5
// (CRR Art. 162).
func EffectiveMaturity(years float64) float64 {
	if years < 1 {
		return 1
	}
	if years > 5 {
		return 5
	}
	return years
}

// MaturityAdjustment computes MA for non-retail exposures; retail has no
// maturity adjustment, MA = 1.
func MaturityAdjustment(pd, maturityYears float64, isRetail bool) float64 {
	if isRetail {
		return 1
	}
	m := EffectiveMaturity(maturityYears)
	b := math.Pow(0.11852-0.05478*math.Log(pd), 2)
	return (1 + (m-2.5)*b) / (1 - 1.5*b)
}

// CapitalRequirement computes the Vasicek capital requirement K:
//
//	K = LGD · (Φ((1 − R)^(−½)·Φ⁻¹(PD) + (R/(1 − R))^½·Φ⁻¹(0.999)) − PD) · MA
//.
// Negative K (possible for very low PD/high R combinations)
// is floored at zero.
func CapitalRequirement(pd, lgd, correlation, maturityAdjustment float64) float64 {
	inner := math.Sqrt(1/(1-correlation))*statsmath.NormalQuantile(pd) +
		math.Sqrt(correlation/(1-correlation))*statsmath.NormalQuantile(0.999)
	k := lgd * (statsmath.NormalCDF(inner) - pd) * maturityAdjustment
	if k < 0 {
		return 0
	}
	return k
}
