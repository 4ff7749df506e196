// Package pipeline composes the RWA calculation stages in their fixed
// order: FX conversion, hierarchy resolution, classification, the CRM
// waterfall, the three approach calculators, and aggregation. The
// orchestration is single-threaded; each stage is a pure function of its
// input plus the CalculationConfig, and the orchestrator's only jobs are
// sequencing, error-list merging, structured logging, and the
// streaming/in-memory collection strategy.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/config"
	"github.com/aristath/rwa-engine/internal/ctypes"
	"github.com/aristath/rwa-engine/internal/modules/aggregator"
	"github.com/aristath/rwa-engine/internal/modules/classifier"
	"github.com/aristath/rwa-engine/internal/modules/crm"
	"github.com/aristath/rwa-engine/internal/modules/fxconv"
	"github.com/aristath/rwa-engine/internal/modules/hierarchy"
	"github.com/aristath/rwa-engine/internal/modules/irb"
	"github.com/aristath/rwa-engine/internal/modules/sacalc"
	"github.com/aristath/rwa-engine/internal/modules/slotting"
)

// stage function types, one per capability boundary. Tests replace any
// of them with a stub; production code uses the package defaults wired
// by New.
type (
	convertFunc  func(bundle.RawDataBundle, string) (bundle.RawDataBundle, ctypes.Errors)
	resolveFunc  func(bundle.RawDataBundle, int) ([]bundle.Exposure, ctypes.Errors)
	classifyFunc func([]bundle.Exposure, []bundle.Counterparty, []bundle.SpecialisedLending, map[string]bundle.Collateral, config.CalculationConfig) ([]bundle.Exposure, ctypes.Errors)
	crmFunc      func([]bundle.Exposure, []bundle.Counterparty, []bundle.Collateral, []bundle.Guarantee, []bundle.Provision, []bundle.Rating, config.CalculationConfig) ([]bundle.Exposure, ctypes.Errors)
	saFunc       func([]bundle.Exposure, map[string]bundle.Collateral, config.CalculationConfig) ([]bundle.Exposure, []bundle.SupportingFactorImpactRow, ctypes.Errors)
	irbFunc      func([]bundle.Exposure, []bundle.Counterparty, config.CalculationConfig) ([]bundle.Exposure, []bundle.SupportingFactorImpactRow, ctypes.Errors)
	slottingFunc func([]bundle.Exposure, config.CalculationConfig) ([]bundle.Exposure, ctypes.Errors)
	aggregateFunc func([]bundle.Exposure, []bundle.Exposure, []bundle.Exposure, []bundle.SupportingFactorImpactRow, map[string]bundle.Collateral, config.CalculationConfig) (bundle.AggregatedResultBundle, ctypes.Errors)
)

// Pipeline runs one batch RWA calculation over a point-in-time snapshot.
type Pipeline struct {
	cfg config.CalculationConfig
	log zerolog.Logger

	convert   convertFunc
	resolve   resolveFunc
	classify  classifyFunc
	crm       crmFunc
	sa        saFunc
	irb       irbFunc
	slotting  slottingFunc
	aggregate aggregateFunc
}

// New builds a Pipeline with the default stage implementations. A config
// that leaves CollectMode unset gets a strategy picked from the machine's
// available memory.
func New(cfg config.CalculationConfig, log zerolog.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: invalid configuration: %w", err)
	}
	if cfg.CollectMode == "" {
		cfg.CollectMode = AutoCollectMode()
	}
	return &Pipeline{
		cfg:       cfg,
		log:       log.With().Str("framework", string(cfg.Framework)).Logger(),
		convert:   fxconv.Convert,
		resolve:   hierarchy.Resolve,
		classify:  classifier.Classify,
		crm:       crm.Process,
		sa:        sacalc.Calculate,
		irb:       irb.Calculate,
		slotting:  slotting.Calculate,
		aggregate: aggregator.Aggregate,
	}, nil
}

// Run loads a snapshot from the DataSource and executes the full
// calculation, returning the aggregated result bundle. Recoverable
// conditions accumulate on the bundle's error list and never abort the
// run; a critical accumulated error terminates the pipeline early and
// returns the partial bundle with the error list populated. Structural
// failures (loader error, cancelled context) return a Go error.
func (p *Pipeline) Run(ctx context.Context, ds bundle.DataSource) (bundle.AggregatedResultBundle, error) {
	runID := uuid.New().String()
	log := p.log.With().Str("run_id", runID).Logger()

	raw, err := ds.Load(ctx)
	if err != nil {
		return bundle.AggregatedResultBundle{RunID: runID}, fmt.Errorf("pipeline: loading raw data: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return bundle.AggregatedResultBundle{RunID: runID}, err
	}

	var all ctypes.Errors

	converted, errs := timed(log, "fx_convert", func() (bundle.RawDataBundle, ctypes.Errors) {
		return p.convert(raw, p.cfg.ReportingCurrency)
	})
	all = p.merge(log, all, errs)

	exposures, errs := timed(log, "hierarchy_resolve", func() ([]bundle.Exposure, ctypes.Errors) {
		return p.resolve(converted, p.cfg.MaxHierarchyDepth)
	})
	all = p.merge(log, all, errs)

	propertyColl := propertyCollateralIndex(converted.Collateral)

	// First strategic materialisation point: the classified exposure
	// table is fully built before CRM begins.
	classified, errs := timed(log, "classify", func() ([]bundle.Exposure, ctypes.Errors) {
		return p.classify(exposures, converted.Counterparties, converted.SpecialisedLending, propertyColl, p.cfg)
	})
	all = p.merge(log, all, errs)
	if all.HasCritical() {
		return partial(runID, all), nil
	}

	groups := rowGroups(classified, p.cfg.CollectMode)
	log.Debug().Int("row_groups", len(groups)).Str("collect_mode", string(p.cfg.CollectMode)).Msg("collection strategy selected")

	var saResults, irbResults, slottingResults []bundle.Exposure
	var impacts []bundle.SupportingFactorImpactRow
	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return partial(runID, all), err
		}

		// Second strategic materialisation point: the CRM-adjusted table
		// for this row group is complete before any calculator runs.
		adjusted, errs := timed(log, "crm_process", func() ([]bundle.Exposure, ctypes.Errors) {
			return p.crm(group, converted.Counterparties, converted.Collateral, converted.Guarantees, converted.Provisions, converted.Ratings, p.cfg)
		})
		all = p.merge(log, all, errs)
		if all.HasCritical() {
			return partial(runID, all), nil
		}

		saIn, irbIn, slottingIn := splitByApproach(adjusted)

		saOut, saImpacts, errs := p.sa(saIn, propertyColl, p.cfg)
		all = p.merge(log, all, errs)
		irbOut, irbImpacts, errs := p.irb(irbIn, converted.Counterparties, p.cfg)
		all = p.merge(log, all, errs)
		slottingOut, errs := p.slotting(slottingIn, p.cfg)
		all = p.merge(log, all, errs)

		saResults = append(saResults, saOut...)
		irbResults = append(irbResults, irbOut...)
		slottingResults = append(slottingResults, slottingOut...)
		impacts = append(impacts, saImpacts...)
		impacts = append(impacts, irbImpacts...)
	}

	result, errs := p.aggregate(saResults, irbResults, slottingResults, impacts, propertyColl, p.cfg)
	all = p.merge(log, all, errs)

	result.RunID = runID
	result.Errors = all
	log.Info().
		Int("exposures", len(result.Results)).
		Int("errors", len(all)).
		Msg("calculation run complete")
	return result, nil
}

// timed wraps a stage invocation with a debug log line reporting the
// stage's elapsed time and error count; Run uses it for the FX,
// hierarchy, classification, and CRM stages. It is a free
// function because Go methods cannot take type parameters.
func timed[T any](log zerolog.Logger, stage string, fn func() (T, ctypes.Errors)) (T, ctypes.Errors) {
	start := time.Now()
	out, errs := fn()
	log.Debug().Str("stage", stage).Dur("elapsed", time.Since(start)).Int("stage_errors", len(errs)).Msg("stage complete")
	return out, errs
}

// merge appends a stage's accumulated errors onto the run's list, logging
// each record at its severity's matching level.
func (p *Pipeline) merge(log zerolog.Logger, all, errs ctypes.Errors) ctypes.Errors {
	for _, e := range errs {
		evt := log.Warn()
		if e.Severity == ctypes.SeverityError || e.Severity == ctypes.SeverityCritical {
			evt = log.Error()
		}
		evt.Str("code", e.Code).Str("category", string(e.Category)).Msg(e.Message)
	}
	return all.Add(errs...)
}

func partial(runID string, errs ctypes.Errors) bundle.AggregatedResultBundle {
	return bundle.AggregatedResultBundle{RunID: runID, Errors: errs}
}

// propertyCollateralIndex maps exposure references to their directly
// linked real-estate collateral, consumed by the classifier (mortgage
// detection), the SA calculator (LTV bands), and the aggregator
// (SA-equivalent pricing for the output floor).
func propertyCollateralIndex(collateral []bundle.Collateral) map[string]bundle.Collateral {
	out := map[string]bundle.Collateral{}
	for _, c := range collateral {
		if c.CollateralType != ctypes.CollateralRealEstate || c.BeneficiaryType != ctypes.BeneficiaryExposure {
			continue
		}
		if existing, ok := out[c.BeneficiaryReference]; !ok || c.MarketValue > existing.MarketValue {
			out[c.BeneficiaryReference] = c
		}
	}
	return out
}

// splitByApproach partitions the CRM-adjusted table so each downstream
// calculator sees only its own exposures.
func splitByApproach(exposures []bundle.Exposure) (sa, irbOut, slottingOut []bundle.Exposure) {
	for _, e := range exposures {
		switch e.Approach {
		case ctypes.ApproachFIRB, ctypes.ApproachAIRB:
			irbOut = append(irbOut, e)
		case ctypes.ApproachSlotting:
			slottingOut = append(slottingOut, e)
		default:
			sa = append(sa, e)
		}
	}
	return sa, irbOut, slottingOut
}
