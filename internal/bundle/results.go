package bundle

import "github.com/aristath/rwa-engine/internal/ctypes"

// ClassSummaryRow is one row of summary_by_class / pre_crm_summary /
// post_crm_summary.
type ClassSummaryRow struct {
	ExposureClass ctypes.ExposureClass
	TotalEAD      float64
	TotalRWA      float64
	Count         int
}

// ApproachSummaryRow is one row of summary_by_approach.
type ApproachSummaryRow struct {
	Approach Approach
	TotalEAD float64
	TotalRWA float64
	Count    int
}

// Approach re-exports ctypes.Approach so call sites in this package don't
// need to qualify it twice.
type Approach = ctypes.Approach

// Product-type re-exports, so table-building call sites read naturally.
const (
	ProductLoan       = ctypes.ProductLoan
	ProductFacility   = ctypes.ProductFacility
	ProductContingent = ctypes.ProductContingent
)

// FloorImpactRow records the output-floor comparison for one IRB exposure.
type FloorImpactRow struct {
	ExposureReference string
	RWAIRB            float64
	RWASAEquivalent   float64
	FloorPercentage   float64
	RWAFloored        float64
	FloorApplied      bool
}

// SupportingFactorImpactRow records the supporting-factor adjustment for
// one exposure (CRR only).
type SupportingFactorImpactRow struct {
	ExposureReference string
	CounterpartyRef   string
	RWAPreFactor      float64
	SupportingFactor  float64
	RWAPostFactor     float64
}

// CRMPortionType discriminates the rows of post_crm_detailed.
type CRMPortionType string

const (
	CRMPortionOriginal     CRMPortionType = "original"
	CRMPortionUnguaranteed CRMPortionType = "unguaranteed"
	CRMPortionGuaranteed   CRMPortionType = "guaranteed"
)

// PostCRMDetailRow is one row of post_crm_detailed: a single exposure,
// split into one or two rows by crm_portion_type.
type PostCRMDetailRow struct {
	ExposureReference string
	PortionType       CRMPortionType
	ExposureClass     ctypes.ExposureClass
	EAD               float64
	RWA               float64
}

// AggregatedResultBundle is the final output of the pipeline.
type AggregatedResultBundle struct {
	Results                 []Exposure
	SAResults               []Exposure
	IRBResults              []Exposure
	SlottingResults         []Exposure
	ExpectedLoss            []Exposure
	FloorImpact             []FloorImpactRow
	SupportingFactorImpact  []SupportingFactorImpactRow
	SummaryByClass          []ClassSummaryRow
	SummaryByApproach       []ApproachSummaryRow
	PreCRMSummary           []ClassSummaryRow
	PostCRMSummary          []ClassSummaryRow
	PostCRMDetailed         []PostCRMDetailRow
	Errors                  ctypes.Errors
	RunID                   string
}
