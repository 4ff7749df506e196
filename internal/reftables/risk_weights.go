// Package reftables holds the static, compile-time regulatory lookup
// tables consumed by the SA, IRB, and slotting calculators:
// SA risk weights by exposure class and CQS, real-estate LTV parameters,
// CCF tables, the supervisory haircut table, F-IRB supervisory LGD, and
// slotting weights. Tables are plain Go maps built once at package init
// and read concurrently by every pipeline run; none of them are mutated
// after init.
package reftables

import "github.com/aristath/rwa-engine/internal/ctypes"

// saRiskWeightTable maps (exposure class, CQS) to a standardised risk
// weight under CRR Art. 114-122. CQSUnrated (0) covers the unrated row.
var saRiskWeightTable = map[ctypes.ExposureClass]map[ctypes.CQS]float64{
	ctypes.ExposureSovereign: {
		1: 0.00, 2: 0.20, 3: 0.50, 4: 1.00, 5: 1.00, 6: 1.50, ctypes.CQSUnrated: 1.00,
	},
	ctypes.ExposureCentralBank: {
		1: 0.00, 2: 0.20, 3: 0.50, 4: 1.00, 5: 1.00, 6: 1.50, ctypes.CQSUnrated: 1.00,
	},
	ctypes.ExposureInstitution: {
		1: 0.20, 2: 0.50, 3: 0.50, 4: 1.00, 5: 1.00, 6: 1.50, ctypes.CQSUnrated: 0.50,
	},
	ctypes.ExposureCorporate: {
		1: 0.20, 2: 0.50, 3: 1.00, 4: 1.00, 5: 1.50, 6: 1.50, ctypes.CQSUnrated: 1.00,
	},
	ctypes.ExposureCorporateSME: {
		1: 0.20, 2: 0.50, 3: 1.00, 4: 1.00, 5: 1.50, 6: 1.50, ctypes.CQSUnrated: 1.00,
	},
	ctypes.ExposurePSE: {
		1: 0.20, 2: 0.50, 3: 1.00, 4: 1.00, 5: 1.50, 6: 1.50, ctypes.CQSUnrated: 1.00,
	},
	ctypes.ExposureMDB: {
		1: 0.20, 2: 0.50, 3: 0.50, 4: 1.00, 5: 1.00, 6: 1.50, ctypes.CQSUnrated: 0.50,
	},
	ctypes.ExposureRGLA: {
		1: 0.20, 2: 0.50, 3: 1.00, 4: 1.00, 5: 1.50, 6: 1.50, ctypes.CQSUnrated: 1.00,
	},
	ctypes.ExposureCentralCounterparty: {
		1: 0.02, 2: 0.02, 3: 0.02, 4: 0.02, 5: 0.02, 6: 0.02, ctypes.CQSUnrated: 0.02,
	},
}

// ukInstitutionCQS2RiskWeight is the UK-specific deviation for CQS-2
// institutions under GBP reporting: 30% instead of the standard 50%.
const ukInstitutionCQS2RiskWeight = 0.30

// retailFlatRiskWeight is the SA flat risk weight for non-mortgage retail.
const retailFlatRiskWeight = 0.75

// residentialMortgageLTVThreshold is the CRR LTV split point.
const residentialMortgageLTVThreshold = 0.80

// residentialMortgageRWBelowThreshold / AboveThreshold are the flat CRR
// weights either side of the LTV threshold.
const (
	residentialMortgageRWBelowThreshold = 0.35
	residentialMortgageRWAboveThreshold = 0.75
)

// unratedCorporateRiskWeight / defaultedUnsecured / defaultedSecured are
// the SA fallback weights: unrated corporate 100%; defaulted 150%
// unsecured or 100% secured (CRR Art. 122, 127).
const (
	unratedCorporateRiskWeight  = 1.00
	defaultedUnsecuredRiskWeight = 1.50
	defaultedSecuredRiskWeight  = 1.00
)

// basel31ResidentialLTVBands is the granular Basel 3.1 residential-mortgage
// LTV table (CRE20.78-79), keyed by the LTV upper bound of each band. Bands
// are checked in ascending order; the first band whose bound is not
// exceeded applies.
type ltvBand struct {
	upperBound float64
	riskWeight float64
}

var basel31ResidentialLTVBands = []ltvBand{
	{upperBound: 0.50, riskWeight: 0.20},
	{upperBound: 0.60, riskWeight: 0.25},
	{upperBound: 0.80, riskWeight: 0.30},
	{upperBound: 0.90, riskWeight: 0.40},
	{upperBound: 1.00, riskWeight: 0.50},
	{upperBound: 1.0e9, riskWeight: 0.70}, // LTV > 100%
}

// basel31CommercialLTVBands is the granular Basel 3.1 commercial real
// estate table (CRE20.82-84), whole-loan approach.
var basel31CommercialLTVBands = []ltvBand{
	{upperBound: 0.60, riskWeight: 0.60},
	{upperBound: 0.80, riskWeight: 0.80},
	{upperBound: 1.0e9, riskWeight: 1.00},
}

// commercialRealEstateIncomeProducingRiskWeight is applied in place of the
// standard commercial-RE band when the collateral is income-producing and
// LTV exceeds 60% (CRE20.85, IPRE treatment), the income-cover split.
const commercialRealEstateIncomeProducingRiskWeight = 1.10

// SARiskWeight looks up the standardised risk weight for an exposure class
// and CQS, applying the UK institution CQS-2 deviation when enabled.
func SARiskWeight(class ctypes.ExposureClass, cqs ctypes.CQS, ukInstitutionDeviation bool) (float64, bool) {
	if class == ctypes.ExposureInstitution && cqs == 2 && ukInstitutionDeviation {
		return ukInstitutionCQS2RiskWeight, true
	}
	table, ok := table(class)
	if !ok {
		return 0, false
	}
	rw, ok := table[cqs]
	return rw, ok
}

func table(class ctypes.ExposureClass) (map[ctypes.CQS]float64, bool) {
	t, ok := saRiskWeightTable[class]
	return t, ok
}

// UnratedCorporateRiskWeight returns the SA fallback weight for an
// unrated corporate exposure.
func UnratedCorporateRiskWeight() float64 { return unratedCorporateRiskWeight }

// DefaultedRiskWeight returns the SA risk weight for a defaulted exposure,
// 100% when secured and 150% otherwise. sacalc.RiskWeightFor counts an
// exposure as secured when its allocated provisions reach 20% of the gross
// exposure amount.
func DefaultedRiskWeight(secured bool) float64 {
	if secured {
		return defaultedSecuredRiskWeight
	}
	return defaultedUnsecuredRiskWeight
}

// RetailFlatRiskWeight returns the SA flat risk weight for non-mortgage
// retail exposures.
func RetailFlatRiskWeight() float64 { return retailFlatRiskWeight }

// ResidentialMortgageRiskWeight returns the SA risk weight for a
// residential mortgage given its LTV, under CRR's two-tier weighted-average
// rule or the Basel 3.1 granular band table.
func ResidentialMortgageRiskWeight(framework ctypes.Framework, ltv float64) float64 {
	if framework == ctypes.FrameworkBasel31 {
		return lookupLTVBand(basel31ResidentialLTVBands, ltv)
	}
	if ltv <= residentialMortgageLTVThreshold {
		return residentialMortgageRWBelowThreshold
	}
	return residentialMortgageRWBelowThreshold*(residentialMortgageLTVThreshold/ltv) +
		residentialMortgageRWAboveThreshold*((ltv-residentialMortgageLTVThreshold)/ltv)
}

// CommercialRealEstateRiskWeight returns the SA risk weight for commercial
// real estate collateral. Under Basel 3.1, income-producing
// real estate above 60% LTV uses the IPRE-equivalent flat rate instead of
// the whole-loan band.
func CommercialRealEstateRiskWeight(framework ctypes.Framework, ltv float64, incomeProducing bool) float64 {
	if framework == ctypes.FrameworkBasel31 {
		if incomeProducing && ltv > 0.60 {
			return commercialRealEstateIncomeProducingRiskWeight
		}
		return lookupLTVBand(basel31CommercialLTVBands, ltv)
	}
	// CRR: flat 100% for commercial real estate absent a qualifying scheme.
	return 1.00
}

func lookupLTVBand(bands []ltvBand, ltv float64) float64 {
	for _, b := range bands {
		if ltv <= b.upperBound {
			return b.riskWeight
		}
	}
	return bands[len(bands)-1].riskWeight
}
