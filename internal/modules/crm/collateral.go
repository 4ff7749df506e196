package crm

import (
	"math"

	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/ctypes"
	"github.com/aristath/rwa-engine/internal/reftables"
)

// maturityMismatchFactor implements CRR Art. 238:
// factor = max(0, (t - 0.25) / (T - 0.25)) where T is the exposure
// residual capped at 5 years and t is the protection residual capped at
// T; protection under 3 months earns no recognition, and protection that
// outlives the exposure earns full recognition.
func maturityMismatchFactor(exposureResidualYears, collateralResidualYears float64) float64 {
	if collateralResidualYears < 0.25 {
		return 0
	}
	bigT := math.Min(exposureResidualYears, 5)
	if bigT <= 0.25 {
		return 1
	}
	t := math.Min(collateralResidualYears, bigT)
	return math.Max(0, (t-0.25)/(bigT-0.25))
}

// adjustedCollateralValue applies the supervisory haircut, FX haircut
// (collateral originally in a currency different from the unified
// reporting currency — a proxy for currency mismatch against the
// exposure, since by this pipeline stage both have already been
// normalised to one reporting currency), and the Art. 238
// maturity-mismatch adjustment.
func adjustedCollateralValue(c bundle.Collateral, exposureResidualYears float64) float64 {
	band := reftables.MaturityBandFor(c.ResidualMaturityYears)
	haircut := reftables.CollateralHaircut(c.CollateralType, c.IssuerCQS, band)
	if c.OriginalCurrency != "" && c.OriginalCurrency != c.Currency {
		haircut += reftables.FXHaircut()
	}
	if haircut > 1 {
		haircut = 1
	}
	maturityFactor := maturityMismatchFactor(exposureResidualYears, c.ResidualMaturityYears)
	return c.MarketValue * (1 - haircut) * maturityFactor
}

// collateralItem pairs a collateral row with the fraction of its adjusted
// value allocated to one exposure, by the three-level beneficiary rule
// for collateral: direct exposure link, facility-level pro-rata
// by ead_gross across child exposures, counterparty-level pro-rata across
// all exposures of that counterparty.
type collateralItem struct {
	collateral bundle.Collateral
	fraction   float64
}

// facilityIndex maps every facility reference to the exposures at or
// beneath it, walking the facility chain so protection pinned to a
// grandparent facility still reaches the drawn children.
type facilityIndex struct {
	children map[string][]string
	ead      map[string]float64
}

// maxFacilityChainDepth bounds the facility-ancestor walk the same way
// the hierarchy resolver bounds the counterparty walk.
const maxFacilityChainDepth = 10

func buildFacilityIndex(exposures []bundle.Exposure) facilityIndex {
	parentOfFacility := map[string]string{}
	for _, e := range exposures {
		if e.ProductType == ctypes.ProductFacility && e.ParentFacilityRef != "" {
			parentOfFacility[e.ExposureReference] = e.ParentFacilityRef
		}
	}

	idx := facilityIndex{children: map[string][]string{}, ead: map[string]float64{}}
	for _, e := range exposures {
		seen := map[string]bool{}
		parent := e.ParentFacilityRef
		for depth := 0; parent != "" && depth < maxFacilityChainDepth && !seen[parent]; depth++ {
			seen[parent] = true
			idx.children[parent] = append(idx.children[parent], e.ExposureReference)
			idx.ead[parent] += e.EADGross
			parent = parentOfFacility[parent]
		}
	}
	return idx
}

func allocateCollateral(exposures []bundle.Exposure, collateral []bundle.Collateral) map[string][]collateralItem {
	byExposureRef := map[string]bundle.Exposure{}
	eadByCounterparty := map[string]float64{}
	exposuresByCounterparty := map[string][]string{}

	for _, e := range exposures {
		byExposureRef[e.ExposureReference] = e
		eadByCounterparty[e.CounterpartyRef] += e.EADGross
		exposuresByCounterparty[e.CounterpartyRef] = append(exposuresByCounterparty[e.CounterpartyRef], e.ExposureReference)
	}
	facilities := buildFacilityIndex(exposures)

	out := make(map[string][]collateralItem, len(exposures))
	for _, c := range collateral {
		switch c.BeneficiaryType {
		case ctypes.BeneficiaryExposure:
			if _, ok := byExposureRef[c.BeneficiaryReference]; ok {
				out[c.BeneficiaryReference] = append(out[c.BeneficiaryReference], collateralItem{collateral: c, fraction: 1})
			}
		case ctypes.BeneficiaryFacility:
			total := facilities.ead[c.BeneficiaryReference]
			if total <= 0 {
				continue
			}
			for _, ref := range facilities.children[c.BeneficiaryReference] {
				frac := byExposureRef[ref].EADGross / total
				out[ref] = append(out[ref], collateralItem{collateral: c, fraction: frac})
			}
		case ctypes.BeneficiaryCounterparty:
			children := exposuresByCounterparty[c.BeneficiaryReference]
			total := eadByCounterparty[c.BeneficiaryReference]
			if total <= 0 {
				continue
			}
			for _, ref := range children {
				frac := byExposureRef[ref].EADGross / total
				out[ref] = append(out[ref], collateralItem{collateral: c, fraction: frac})
			}
		}
	}
	return out
}

// applyCollateralSA implements the SA simple-substitution rule: eligible
// financial collateral reduces EAD directly.
func applyCollateralSA(e bundle.Exposure, items []collateralItem, exposureResidualYears float64) bundle.Exposure {
	var eligibleValue float64
	for _, item := range items {
		if !item.collateral.IsEligibleFinancial {
			continue
		}
		eligibleValue += adjustedCollateralValue(item.collateral, exposureResidualYears) * item.fraction
	}
	e.CollateralAllocated = eligibleValue
	e.EADAfterCollateral = math.Max(0, e.EADGross-eligibleValue)
	return e
}

// dominantCollateralType returns the type of the single largest eligible
// IRB collateral item backing an exposure, by adjusted value, or the zero
// value when none applies. Used to select the Basel 3.1 A-IRB LGD floor,
// which keys off collateral type rather than the
// blended LGD F-IRB produces.
func dominantCollateralType(items []collateralItem, exposureResidualYears float64) ctypes.CollateralType {
	var best ctypes.CollateralType
	var bestValue float64
	for _, item := range items {
		if !item.collateral.IsEligibleIRB {
			continue
		}
		v := adjustedCollateralValue(item.collateral, exposureResidualYears) * item.fraction
		if v > bestValue {
			bestValue = v
			best = item.collateral.CollateralType
		}
	}
	return best
}

// applyCollateralFIRB implements the F-IRB blended-effective-LGD rule:
// collateral does not reduce EAD, instead producing a weighted-average
// collateral LGD over the effectively-secured amount, with the unsecured
// remainder at the supervisory unsecured LGD.
func applyCollateralFIRB(e bundle.Exposure, items []collateralItem, exposureResidualYears float64) bundle.Exposure {
	e.EADAfterCollateral = e.EADGross // F-IRB: collateral never reduces EAD

	var financialValue, nonFinancialValue float64
	var weightedLGD float64

	type secured struct {
		amount float64
		lgd    float64
	}
	var securedPortions []secured

	for _, item := range items {
		if !item.collateral.IsEligibleIRB {
			continue
		}
		raw := adjustedCollateralValue(item.collateral, exposureResidualYears) * item.fraction
		ratio := reftables.OvercollateralisationRatio(item.collateral.CollateralType)
		secureAmount := raw / ratio
		if item.collateral.CollateralType.IsFinancial() {
			financialValue += raw
		} else {
			nonFinancialValue += raw
		}
		securedPortions = append(securedPortions, secured{amount: secureAmount, lgd: reftables.FIRBCollateralLGD(item.collateral.CollateralType)})
	}

	minimumThreshold := reftables.NonFinancialMinimumThresholdRatio() * e.EADGross
	if nonFinancialValue < minimumThreshold {
		// Zero non-financial protection entirely; keep only financial portions.
		filtered := securedPortions[:0]
		for _, item := range items {
			if !item.collateral.IsEligibleIRB || !item.collateral.CollateralType.IsFinancial() {
				continue
			}
			raw := adjustedCollateralValue(item.collateral, exposureResidualYears) * item.fraction
			ratio := reftables.OvercollateralisationRatio(item.collateral.CollateralType)
			filtered = append(filtered, secured{amount: raw / ratio, lgd: reftables.FIRBCollateralLGD(item.collateral.CollateralType)})
		}
		securedPortions = filtered
	}

	var totalSecured float64
	for _, s := range securedPortions {
		cappedAmount := math.Min(s.amount, e.EADGross-totalSecured)
		if cappedAmount < 0 {
			cappedAmount = 0
		}
		weightedLGD += cappedAmount * s.lgd
		totalSecured += cappedAmount
	}

	unsecuredAmount := math.Max(0, e.EADGross-totalSecured)
	unsecuredLGD := reftables.FIRBUnsecuredLGD(e.Seniority)

	totalLGDWeighted := weightedLGD + unsecuredAmount*unsecuredLGD
	if e.EADGross > 0 {
		e.LGDPostCRM = totalLGDWeighted / e.EADGross
	} else {
		e.LGDPostCRM = unsecuredLGD
	}
	e.CollateralAllocated = totalSecured
	e.DominantCollateralType = dominantCollateralType(items, exposureResidualYears)
	return e
}
