// Package aggregator implements the final pipeline stage:
// it concatenates the SA, IRB, and slotting result tables, applies the
// Basel 3.1 transitional output floor against an SA-equivalent RWA, builds
// the pre-CRM and post-CRM regulatory summaries with the split-row detail
// view, and assembles the AggregatedResultBundle handed back to the caller.
package aggregator

import (
	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/config"
	"github.com/aristath/rwa-engine/internal/ctypes"
	"github.com/aristath/rwa-engine/internal/modules/sacalc"
)

// Aggregate builds the AggregatedResultBundle from the three calculator
// outputs. propertyCollateral is the same
// exposure-reference-keyed map the classifier and SA calculator consume;
// the aggregator needs it to price the output floor's SA-equivalent risk
// weight for real-estate-secured IRB exposures. RunID and the merged error
// list are stamped by the orchestrator, not here.
func Aggregate(
	saResults, irbResults, slottingResults []bundle.Exposure,
	supportingFactorImpacts []bundle.SupportingFactorImpactRow,
	propertyCollateral map[string]bundle.Collateral,
	cfg config.CalculationConfig,
) (bundle.AggregatedResultBundle, ctypes.Errors) {
	var errs ctypes.Errors

	floorPct := cfg.OutputFloorPercentage()
	flooredIRB := make([]bundle.Exposure, len(irbResults))
	var floorImpact []bundle.FloorImpactRow
	for i, e := range irbResults {
		e, row := applyOutputFloor(e, floorPct, propertyCollateral, cfg)
		flooredIRB[i] = e
		if row != nil {
			floorImpact = append(floorImpact, *row)
		}
	}

	results := make([]bundle.Exposure, 0, len(saResults)+len(flooredIRB)+len(slottingResults))
	results = append(results, saResults...)
	results = append(results, flooredIRB...)
	results = append(results, slottingResults...)
	for i, e := range results {
		e.ReportingExposureClass = e.ExposureClass
		e.AuditTrail = buildAuditTrail(e, cfg)
		results[i] = e
	}

	// IRB is the only approach with an EL concept; the expected_loss view
	// is the IRB result set under its post-floor numbers.
	expectedLoss := append([]bundle.Exposure(nil), flooredIRB...)

	return bundle.AggregatedResultBundle{
		Results:                results,
		SAResults:              saResults,
		IRBResults:             flooredIRB,
		SlottingResults:        slottingResults,
		ExpectedLoss:           expectedLoss,
		FloorImpact:            floorImpact,
		SupportingFactorImpact: supportingFactorImpacts,
		SummaryByClass:         summariseByClass(results),
		SummaryByApproach:      summariseByApproach(results),
		PreCRMSummary:          summarisePreCRM(results),
		PostCRMSummary:         summarisePostCRM(results),
		PostCRMDetailed:        detailPostCRM(results),
	}, errs
}

// applyOutputFloor replaces an IRB exposure's RWA with
// max(rwa_irb, floor_pct × rwa_sa_equivalent). Under CRR the floor
// percentage is zero and RWA passes through
// unchanged; no impact row is emitted then.
func applyOutputFloor(e bundle.Exposure, floorPct float64, propertyCollateral map[string]bundle.Collateral, cfg config.CalculationConfig) (bundle.Exposure, *bundle.FloorImpactRow) {
	if floorPct <= 0 {
		return e, nil
	}

	saRW := sacalc.RiskWeightFor(e, propertyCollateral[e.ExposureReference], cfg)
	e.RWASAEquivalent = e.EADFinal * saRW

	floored := floorPct * e.RWASAEquivalent
	row := bundle.FloorImpactRow{
		ExposureReference: e.ExposureReference,
		RWAIRB:            e.RWA,
		RWASAEquivalent:   e.RWASAEquivalent,
		FloorPercentage:   floorPct,
		RWAFloored:        e.RWA,
	}
	if floored > e.RWA {
		e.RWA = floored
		e.OutputFloorApplied = true
		if e.EADFinal > 0 {
			e.RiskWeight = e.RWA / e.EADFinal
		}
		row.RWAFloored = floored
		row.FloorApplied = true
	}
	return e, &row
}
