// Package ctypes provides the enumerations and shared value types used
// throughout the RWA calculation pipeline: exposure classes, calculation
// approaches, collateral categories, and the error-accumulation record that
// every stage appends to instead of returning a Go error for business
// conditions.
package ctypes

// Framework selects the regulatory regime a CalculationConfig targets.
type Framework string

const (
	// FrameworkCRR is the Capital Requirements Regulation (EU 575/2013),
	// Basel 3.0, effective until 31 December 2026.
	FrameworkCRR Framework = "CRR"
	// FrameworkBasel31 is PRA PS9/24, the UK implementation of Basel 3.1,
	// effective from 1 January 2027.
	FrameworkBasel31 Framework = "BASEL_3_1"
)

// ExposureClass classifies an exposure for risk-weight and IRB-parameter
// purposes, aligned with CRR Art. 112 and Basel CRE20.
type ExposureClass string

const (
	ExposureSovereign           ExposureClass = "sovereign"
	ExposureCentralBank         ExposureClass = "central_bank"
	ExposureInstitution         ExposureClass = "institution"
	ExposureCorporate           ExposureClass = "corporate"
	ExposureCorporateSME        ExposureClass = "corporate_sme"
	ExposureRetailMortgage      ExposureClass = "retail_mortgage"
	ExposureRetailQRRE          ExposureClass = "retail_qrre"
	ExposureRetailOther         ExposureClass = "retail_other"
	ExposureSpecialisedLending  ExposureClass = "specialised_lending"
	ExposureEquity              ExposureClass = "equity"
	ExposureDefaulted           ExposureClass = "defaulted"
	ExposurePSE                 ExposureClass = "pse"
	ExposureMDB                 ExposureClass = "mdb"
	ExposureRGLA                ExposureClass = "rgla"
	ExposureCentralCounterparty ExposureClass = "central_counterparty"
	ExposureOther               ExposureClass = "other"
)

// Approach is the calculation methodology assigned to an exposure.
type Approach string

const (
	ApproachSA       Approach = "standardised"
	ApproachFIRB     Approach = "foundation_irb"
	ApproachAIRB     Approach = "advanced_irb"
	ApproachSlotting Approach = "slotting"
)

// CQS is a Credit Quality Step, 1 (best) through 6 (worst). 0 means unrated.
type CQS int8

// CQSUnrated marks the absence of an eligible external rating.
const CQSUnrated CQS = 0

// Seniority affects F-IRB supervisory LGD (45% senior, 75% subordinated).
type Seniority string

const (
	SeniorityUnknown      Seniority = ""
	SenioritySenior       Seniority = "senior"
	SenioritySubordinated Seniority = "subordinated"
)

// RiskType drives the SA/F-IRB CCF lookup for off-balance-sheet nominals
// (CRR Art. 111): FR = full risk, MR = medium risk, MLR = medium/low risk,
// LR = low risk.
type RiskType string

const (
	RiskTypeFullRisk      RiskType = "FR"
	RiskTypeMediumRisk    RiskType = "MR"
	RiskTypeMediumLowRisk RiskType = "MLR"
	RiskTypeLowRisk       RiskType = "LR"
)

// CollateralType categorises eligible collateral for CRM haircut and
// effective-LGD treatment (CRR Art. 197-199, CRE22).
type CollateralType string

const (
	CollateralCash           CollateralType = "cash"
	CollateralGold           CollateralType = "gold"
	CollateralFinancialBond  CollateralType = "bond"
	CollateralEquity         CollateralType = "equity"
	CollateralRealEstate     CollateralType = "real_estate"
	CollateralReceivables    CollateralType = "receivables"
	CollateralOtherPhysical  CollateralType = "other_physical"
	CollateralOther          CollateralType = "other"
)

// IsFinancial reports whether a collateral type belongs to the "financial"
// family (cash, gold, bonds, equities) for the purposes of the F-IRB
// overcollateralisation ratio and minimum-threshold rule (CRR Art. 230).
func (c CollateralType) IsFinancial() bool {
	switch c {
	case CollateralCash, CollateralGold, CollateralFinancialBond, CollateralEquity:
		return true
	default:
		return false
	}
}

// PropertyType distinguishes real-estate collateral for SA LTV-band lookup.
type PropertyType string

const (
	PropertyResidential PropertyType = "residential"
	PropertyCommercial  PropertyType = "commercial"
)

// MaturityBand buckets residual maturity for the supervisory haircut table
// (CRR Art. 224): 0-1y, 1-5y, 5y+.
type MaturityBand string

const (
	MaturityBand0To1 MaturityBand = "0-1y"
	MaturityBand1To5 MaturityBand = "1-5y"
	MaturityBand5Plus MaturityBand = "5y+"
)

// BeneficiaryType identifies the level of the hierarchy that a collateral,
// guarantee, or provision record attaches to.
type BeneficiaryType string

const (
	BeneficiaryExposure    BeneficiaryType = "exposure"
	BeneficiaryFacility    BeneficiaryType = "facility"
	BeneficiaryCounterparty BeneficiaryType = "counterparty"
)

// ProductType discriminates the unified exposures table.
type ProductType string

const (
	ProductLoan       ProductType = "loan"
	ProductFacility   ProductType = "facility"
	ProductContingent ProductType = "contingent"
)

// RatingType distinguishes internally-modelled ratings (which carry a PD,
// not inherited across the hierarchy) from external agency ratings (which
// are inherited).
type RatingType string

const (
	RatingInternal RatingType = "internal"
	RatingExternal RatingType = "external"
)

// ProvisionType distinguishes specific (SCRA) from general (GCRA) credit
// risk adjustments (IFRS 9-based).
type ProvisionType string

const (
	ProvisionSCRA ProvisionType = "SCRA"
	ProvisionGCRA ProvisionType = "GCRA"
)

// SlottingCategory is the supervisory category assigned to specialised
// lending exposures under the slotting approach (CRE33.5-8).
type SlottingCategory string

const (
	SlottingStrong       SlottingCategory = "strong"
	SlottingGood         SlottingCategory = "good"
	SlottingSatisfactory SlottingCategory = "satisfactory"
	SlottingWeak         SlottingCategory = "weak"
	SlottingDefault      SlottingCategory = "default"
)

// SpecialisedLendingType is the sub-category of specialised lending
// (CRE33.2).
type SpecialisedLendingType string

const (
	SLTypeProjectFinance     SpecialisedLendingType = "project_finance"
	SLTypeObjectFinance      SpecialisedLendingType = "object_finance"
	SLTypeCommoditiesFinance SpecialisedLendingType = "commodities_finance"
	SLTypeIPRE               SpecialisedLendingType = "ipre"
)

// CollectMode selects the execution strategy for the orchestrator.
type CollectMode string

const (
	CollectModeInMemory  CollectMode = "in-memory"
	CollectModeStreaming CollectMode = "streaming"
)
