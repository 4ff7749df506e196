package aggregator

import (
	"sort"

	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/ctypes"
)

// summariseByClass groups total final EAD and RWA by exposure class.
func summariseByClass(results []bundle.Exposure) []bundle.ClassSummaryRow {
	acc := map[ctypes.ExposureClass]*bundle.ClassSummaryRow{}
	for _, e := range results {
		row, ok := acc[e.ExposureClass]
		if !ok {
			row = &bundle.ClassSummaryRow{ExposureClass: e.ExposureClass}
			acc[e.ExposureClass] = row
		}
		row.TotalEAD += e.EADFinal
		row.TotalRWA += e.RWA
		row.Count++
	}
	return sortedClassRows(acc)
}

// summariseByApproach groups total final EAD and RWA by approach.
func summariseByApproach(results []bundle.Exposure) []bundle.ApproachSummaryRow {
	acc := map[ctypes.Approach]*bundle.ApproachSummaryRow{}
	for _, e := range results {
		row, ok := acc[e.Approach]
		if !ok {
			row = &bundle.ApproachSummaryRow{Approach: e.Approach}
			acc[e.Approach] = row
		}
		row.TotalEAD += e.EADFinal
		row.TotalRWA += e.RWA
		row.Count++
	}
	out := make([]bundle.ApproachSummaryRow, 0, len(acc))
	for _, row := range acc {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Approach < out[j].Approach })
	return out
}

// summarisePreCRM groups by the exposure class held before any CRM effect,
// with gross EAD.
func summarisePreCRM(results []bundle.Exposure) []bundle.ClassSummaryRow {
	acc := map[ctypes.ExposureClass]*bundle.ClassSummaryRow{}
	for _, e := range results {
		class := e.PreCRMExposureClass
		row, ok := acc[class]
		if !ok {
			row = &bundle.ClassSummaryRow{ExposureClass: class}
			acc[class] = row
		}
		row.TotalEAD += e.EADGross
		row.TotalRWA += e.RWA
		row.Count++
	}
	return sortedClassRows(acc)
}

// summarisePostCRM groups by reporting class, splitting each guaranteed
// exposure into its unguaranteed component (under the original class) and
// its guaranteed component (under the guarantor's class).
func summarisePostCRM(results []bundle.Exposure) []bundle.ClassSummaryRow {
	acc := map[ctypes.ExposureClass]*bundle.ClassSummaryRow{}
	add := func(class ctypes.ExposureClass, ead, rwa float64) {
		row, ok := acc[class]
		if !ok {
			row = &bundle.ClassSummaryRow{ExposureClass: class}
			acc[class] = row
		}
		row.TotalEAD += ead
		row.TotalRWA += rwa
		row.Count++
	}

	for _, e := range results {
		if e.GuaranteedPortion <= 0 {
			add(e.ReportingExposureClass, e.EADFinal, e.RWA)
			continue
		}
		guaranteedRWA := e.RWA * e.GuaranteedRWAShare
		add(e.ReportingExposureClass, e.UnguaranteedPortion, e.RWA-guaranteedRWA)
		add(e.GuarantorExposureClass, e.GuaranteedPortion, guaranteedRWA)
	}
	return sortedClassRows(acc)
}

// detailPostCRM emits one or two rows per exposure marked by
// crm_portion_type. For guaranteed
// exposures, the two rows' EADs sum exactly to ead_after_collateral and
// their RWAs sum exactly to the single-row RWA.
func detailPostCRM(results []bundle.Exposure) []bundle.PostCRMDetailRow {
	out := make([]bundle.PostCRMDetailRow, 0, len(results))
	for _, e := range results {
		if e.GuaranteedPortion <= 0 {
			out = append(out, bundle.PostCRMDetailRow{
				ExposureReference: e.ExposureReference,
				PortionType:       bundle.CRMPortionOriginal,
				ExposureClass:     e.ReportingExposureClass,
				EAD:               e.EADFinal,
				RWA:               e.RWA,
			})
			continue
		}
		guaranteedRWA := e.RWA * e.GuaranteedRWAShare
		out = append(out,
			bundle.PostCRMDetailRow{
				ExposureReference: e.ExposureReference,
				PortionType:       bundle.CRMPortionUnguaranteed,
				ExposureClass:     e.ReportingExposureClass,
				EAD:               e.UnguaranteedPortion,
				RWA:               e.RWA - guaranteedRWA,
			},
			bundle.PostCRMDetailRow{
				ExposureReference: e.ExposureReference,
				PortionType:       bundle.CRMPortionGuaranteed,
				ExposureClass:     e.GuarantorExposureClass,
				EAD:               e.GuaranteedPortion,
				RWA:               guaranteedRWA,
			},
		)
	}
	return out
}

func sortedClassRows(acc map[ctypes.ExposureClass]*bundle.ClassSummaryRow) []bundle.ClassSummaryRow {
	out := make([]bundle.ClassSummaryRow, 0, len(acc))
	for _, row := range acc {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExposureClass < out[j].ExposureClass })
	return out
}
