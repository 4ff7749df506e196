// Package bundle defines the tabular row types that flow through the RWA
// calculation pipeline and the bundle structs that group them at each
// stage boundary.
package bundle

import (
	"time"

	"github.com/aristath/rwa-engine/internal/ctypes"
)

// Facility is a committed credit line.
type Facility struct {
	FacilityReference    string
	CounterpartyRef      string
	Currency             string
	Limit                float64
	MaturityDate         time.Time
	Seniority            ctypes.Seniority
	RiskType             ctypes.RiskType
	IsRevolving          bool
	CCFModelled          *float64
	IsShortTermTradeLC   bool
	IsInfrastructure     bool

	// FX audit columns, set by fxconv.Convert.
	OriginalCurrency string
	OriginalLimit    float64
	FXRateApplied    *float64
}

// Loan is a drawn exposure.
type Loan struct {
	LoanReference     string
	CounterpartyRef   string
	Currency          string
	DrawnAmount       float64
	AccruedInterest   float64
	MaturityDate      time.Time
	Seniority         ctypes.Seniority
	LGD               *float64 // A-IRB modelled LGD
	BEEL              *float64 // Best-estimate expected loss, defaulted A-IRB
	IsBuyToLet        bool
	IsInfrastructure  bool

	OriginalCurrency    string
	OriginalDrawnAmount float64
	FXRateApplied       *float64
}

// Contingent is an off-balance-sheet commitment.
type Contingent struct {
	ContingentReference string
	CounterpartyRef     string
	Currency            string
	NominalAmount       float64
	MaturityDate        time.Time
	Seniority           ctypes.Seniority
	RiskType            ctypes.RiskType
	CCFModelled         *float64
	IsShortTermTradeLC  bool
	IsInfrastructure    bool

	OriginalCurrency      string
	OriginalNominalAmount float64
	FXRateApplied         *float64
}

// Counterparty is an obligor.
type Counterparty struct {
	CounterpartyReference   string
	EntityType              string
	CountryCode             string
	AnnualRevenue           float64
	TotalAssets             float64
	DefaultStatus           bool
	IsFinancialInstitution  bool
	IsPSE                   bool
	IsMDB                   bool
	IsCentralCounterparty   bool
	IsRGLA                  bool
	IsManagedAsRetail       bool

	OriginalCurrency string
}

// Collateral is a CRM item securing an exposure, facility, or counterparty.
type Collateral struct {
	CollateralReference   string
	CollateralType        ctypes.CollateralType
	MarketValue           float64
	NominalValue          float64
	Currency              string
	ValuationDate         time.Time
	ValuationType         string
	IsEligibleFinancial   bool
	IsEligibleIRB         bool
	IssuerCQS             ctypes.CQS
	ResidualMaturityYears float64
	PropertyType          ctypes.PropertyType
	PropertyLTV           float64
	IsIncomeProducing     bool
	BeneficiaryType       ctypes.BeneficiaryType
	BeneficiaryReference  string

	OriginalCurrency    string
	OriginalMarketValue float64
	FXRateApplied       *float64
}

// Guarantee is unfunded credit protection.
type Guarantee struct {
	GuaranteeReference   string
	Guarantor            string
	Currency             string
	AmountCovered        float64
	PercentageCovered    float64
	MaturityDate         time.Time
	BeneficiaryType      ctypes.BeneficiaryType
	BeneficiaryReference string

	OriginalCurrency     string
	OriginalAmountCovered float64
	FXRateApplied        *float64
}

// Provision is an SCRA/GCRA IFRS 9 credit risk adjustment.
type Provision struct {
	ProvisionReference   string
	ProvisionType        ctypes.ProvisionType
	IFRS9Stage           int8
	Currency             string
	Amount               float64
	AsOfDate             time.Time
	BeneficiaryType      ctypes.BeneficiaryType
	BeneficiaryReference string

	OriginalCurrency string
	OriginalAmount   float64
	FXRateApplied    *float64
}

// Rating is an internal or external credit assessment.
type Rating struct {
	RatingReference string
	CounterpartyRef string
	RatingType      ctypes.RatingType
	Agency          string
	CQS             ctypes.CQS
	PD              *float64 // internal ratings only
	RatingDate      time.Time
}

// FacilityMapping links a parent facility to a child facility or loan,
// supporting multi-level hierarchies.
type FacilityMapping struct {
	ParentFacilityRef string
	ChildRef          string
	ChildType         ctypes.ProductType // facility or loan
}

// OrgMapping links a parent counterparty to a child. Must be acyclic.
type OrgMapping struct {
	ParentCounterpartyRef string
	ChildCounterpartyRef  string
}

// LendingMapping groups connected counterparties for retail-threshold
// aggregation.
type LendingMapping struct {
	LendingGroupRoot      string
	CounterpartyReference string
}

// FXRate is a single exchange rate row.
type FXRate struct {
	CurrencyFrom string
	CurrencyTo   string
	Rate         float64
}

// SpecialisedLending carries slotting metadata for an exposure.
type SpecialisedLending struct {
	ExposureReference     string
	SLType                ctypes.SpecialisedLendingType
	SlottingCategory      ctypes.SlottingCategory
	RemainingMaturityYears float64
	IsHVCRE               bool
}
