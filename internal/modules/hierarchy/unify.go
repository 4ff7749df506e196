package hierarchy

import "github.com/aristath/rwa-engine/internal/bundle"

// unifyExposures concatenates loans, facilities, and contingents into a
// single exposures slice with the discriminating ProductType column and
// uniform DrawnAmount/NominalAmount/Interest fields. Facilities are
// treated as off-balance-sheet
// commitments in their own right (their Limit becomes NominalAmount); a
// facility's drawn child loans appear separately via FacilityMapping and
// are resolved to ParentFacilityRef below.
func unifyExposures(raw bundle.RawDataBundle) []bundle.Exposure {
	out := make([]bundle.Exposure, 0, len(raw.Loans)+len(raw.Facilities)+len(raw.Contingents))

	for _, l := range raw.Loans {
		out = append(out, bundle.Exposure{
			ExposureReference: l.LoanReference,
			ProductType:       bundle.ProductLoan,
			CounterpartyRef:   l.CounterpartyRef,
			Currency:          l.Currency,
			DrawnAmount:       l.DrawnAmount,
			NominalAmount:     0,
			Interest:          l.AccruedInterest,
			MaturityDate:      l.MaturityDate,
			Seniority:         l.Seniority,
			RiskType:          "", // loans are fully drawn; no CCF applies
			ModelledLGD:       l.LGD,
			BEEL:              l.BEEL,
			IsBuyToLet:        l.IsBuyToLet,
			IsInfrastructure:  l.IsInfrastructure,
		})
	}

	for _, f := range raw.Facilities {
		out = append(out, bundle.Exposure{
			ExposureReference:  f.FacilityReference,
			ProductType:        bundle.ProductFacility,
			CounterpartyRef:    f.CounterpartyRef,
			Currency:           f.Currency,
			DrawnAmount:        0,
			NominalAmount:      f.Limit,
			MaturityDate:       f.MaturityDate,
			Seniority:          f.Seniority,
			RiskType:           f.RiskType,
			CCFModelled:        f.CCFModelled,
			IsShortTermTradeLC: f.IsShortTermTradeLC,
			IsRevolving:        f.IsRevolving,
			IsInfrastructure:   f.IsInfrastructure,
		})
	}

	for _, c := range raw.Contingents {
		out = append(out, bundle.Exposure{
			ExposureReference:  c.ContingentReference,
			ProductType:        bundle.ProductContingent,
			CounterpartyRef:    c.CounterpartyRef,
			Currency:           c.Currency,
			DrawnAmount:        0,
			NominalAmount:      c.NominalAmount,
			MaturityDate:       c.MaturityDate,
			Seniority:          c.Seniority,
			RiskType:           c.RiskType,
			CCFModelled:        c.CCFModelled,
			IsShortTermTradeLC: c.IsShortTermTradeLC,
			IsInfrastructure:   c.IsInfrastructure,
		})
	}

	return out
}

// resolveParentFacilities sets ParentFacilityRef on every exposure that
// appears as a child in the facility-mapping table.
func resolveParentFacilities(exposures []bundle.Exposure, mappings []bundle.FacilityMapping) []bundle.Exposure {
	parentOf := make(map[string]string, len(mappings))
	for _, m := range mappings {
		parentOf[m.ChildRef] = m.ParentFacilityRef
	}
	out := make([]bundle.Exposure, len(exposures))
	for i, e := range exposures {
		if parent, ok := parentOf[e.ExposureReference]; ok {
			e.ParentFacilityRef = parent
		}
		out[i] = e
	}
	return out
}
