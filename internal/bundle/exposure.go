package bundle

import (
	"time"

	"github.com/aristath/rwa-engine/internal/ctypes"
)

// Exposure is the unified row produced by hierarchy.Resolve from loans,
// drawn facilities, and contingents,
// and carried — with columns progressively added, never mutated in place —
// through classifier.Classify, crm.Process, and the approach calculators.
//
// Go has no notion of "add a column to an existing frame", so each stage
// returns a fresh []Exposure built from its input; fields owned by a later
// stage are simply left at their zero value until that stage runs.
type Exposure struct {
	// --- identity & raw facts, set by hierarchy.Resolve ---
	ExposureReference   string
	ProductType         ctypes.ProductType
	CounterpartyRef     string
	Currency            string
	DrawnAmount         float64
	NominalAmount       float64
	Interest            float64
	MaturityDate        time.Time
	Seniority           ctypes.Seniority
	RiskType            ctypes.RiskType
	CCFModelled         *float64
	IsShortTermTradeLC  bool
	IsRevolving         bool
	IsBuyToLet          bool
	IsInfrastructure    bool
	ParentFacilityRef   string
	ModelledLGD         *float64 // A-IRB, from Loan.LGD
	BEEL                *float64

	// --- hierarchy / rating inheritance, set by hierarchy.Resolve ---
	UltimateParentRef       string
	InheritedCQS            ctypes.CQS
	InheritedRatingExternal bool
	InheritedAgency         string
	InternalPD              *float64
	LendingGroupRoot        string
	LendingGroupTotal       float64

	// --- classification, set by classifier.Classify ---
	ExposureClass ctypes.ExposureClass
	Approach      ctypes.Approach
	IsDefaulted   bool
	SLType        ctypes.SpecialisedLendingType
	SLCategory    ctypes.SlottingCategory
	IsHVCRE       bool

	// --- CRM waterfall, set by crm.Process ---
	PreCRMCounterpartyRef  string
	PreCRMExposureClass    ctypes.ExposureClass
	CCFApplied             float64
	EADFromCCF             float64
	EADGross               float64
	CollateralAllocated    float64
	EADAfterCollateral     float64
	GuarantorRef           string
	GuarantorExposureClass ctypes.ExposureClass
	GuarantorCQS           ctypes.CQS
	GuarantorIsIRB         bool
	GuaranteedPortion      float64
	UnguaranteedPortion    float64
	EADAfterGuarantee      float64
	ProvisionAllocated     float64
	ProvisionDeducted      float64
	EADFinal               float64
	LGDPreCRM              float64
	LGDPostCRM             float64
	DominantCollateralType ctypes.CollateralType // largest single eligible item backing this exposure, for the Basel 3.1 A-IRB LGD floor

	// --- approach calculators ---
	PD                   float64 // floored
	LGD                  float64 // floored/final
	RiskWeight           float64
	RWAPreFactor         float64
	SupportingFactor     float64
	RWA                  float64 // this calculator's output, pre output-floor
	MaturityYears        float64
	Correlation          float64
	MaturityAdjustment   float64
	CapitalRequirement   float64
	ExpectedLoss         float64
	GuaranteeNote        string  // e.g. GUARANTEE_NOT_APPLIED_NON_BENEFICIAL
	GuaranteedRWAShare   float64 // fraction of RWA attributable to the guaranteed portion, for split-row reporting
	AuditTrail           string

	// --- aggregator ---
	RWASAEquivalent       float64
	OutputFloorApplied    bool
	ReportingExposureClass ctypes.ExposureClass
}
