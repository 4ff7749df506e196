// Package config provides the immutable CalculationConfig bundle that
// parametrises every stage of the RWA pipeline. Framework
// dispatch is data, not control flow: CRR vs Basel 3.1 is
// decided once, at construction, by choosing which factory to call: no
// calculator switches on config.Framework by name.
package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/aristath/rwa-engine/internal/ctypes"
)

// PDFloors holds the minimum PD applied before the IRB capital formula.
type PDFloors struct {
	Corporate            float64
	CorporateSME         float64
	RetailMortgage       float64
	RetailOther          float64
	RetailQRRETransactor float64
	RetailQRRERevolver   float64
}

// Floor returns the PD floor for the given exposure class. isQRRETransactor
// only matters when class is ExposureRetailQRRE.
func (f PDFloors) Floor(class ctypes.ExposureClass, isQRRETransactor bool) float64 {
	switch class {
	case ctypes.ExposureCorporate, ctypes.ExposureInstitution, ctypes.ExposureSovereign:
		return f.Corporate
	case ctypes.ExposureCorporateSME:
		return f.CorporateSME
	case ctypes.ExposureRetailMortgage:
		return f.RetailMortgage
	case ctypes.ExposureRetailQRRE:
		if isQRRETransactor {
			return f.RetailQRRETransactor
		}
		return f.RetailQRRERevolver
	case ctypes.ExposureRetailOther:
		return f.RetailOther
	default:
		return f.Corporate
	}
}

// pdFloorsCRR is the CRR single 0.03% floor for every class (Art. 163).
func pdFloorsCRR() PDFloors {
	return PDFloors{
		Corporate: 0.0003, CorporateSME: 0.0003, RetailMortgage: 0.0003,
		RetailOther: 0.0003, RetailQRRETransactor: 0.0003, RetailQRRERevolver: 0.0003,
	}
}

// pdFloorsBasel31 differentiates by class (CRE30.55).
func pdFloorsBasel31() PDFloors {
	return PDFloors{
		Corporate: 0.0005, CorporateSME: 0.0005, RetailMortgage: 0.0005,
		RetailOther: 0.0005, RetailQRRETransactor: 0.0003, RetailQRRERevolver: 0.0010,
	}
}

// LGDFloors holds the A-IRB LGD floors by collateral type, applicable only
// under Basel 3.1 (CRE30.41).
type LGDFloors struct {
	Unsecured     float64
	Financial     float64
	Receivables   float64
	RealEstate    float64
	OtherPhysical float64
}

// Floor returns the LGD floor for the given collateral type, or the
// unsecured floor when there is no eligible collateral (collType == "").
func (f LGDFloors) Floor(collType ctypes.CollateralType) float64 {
	switch collType {
	case ctypes.CollateralFinancialBond, ctypes.CollateralCash, ctypes.CollateralGold, ctypes.CollateralEquity:
		return f.Financial
	case ctypes.CollateralReceivables:
		return f.Receivables
	case ctypes.CollateralRealEstate:
		return f.RealEstate
	case ctypes.CollateralOtherPhysical:
		return f.OtherPhysical
	default:
		return f.Unsecured
	}
}

func lgdFloorsCRR() LGDFloors { return LGDFloors{} } // no LGD floors under CRR

func lgdFloorsBasel31() LGDFloors {
	return LGDFloors{Unsecured: 0.25, Financial: 0.0, Receivables: 0.10, RealEstate: 0.05, OtherPhysical: 0.15}
}

// SupportingFactors holds the CRR SME/infrastructure supporting factors
// (CRR Art. 501/501a). Disabled (all 1.0) under Basel 3.1.
type SupportingFactors struct {
	Enabled                bool
	SMEFactorUnderThreshold float64
	SMEFactorAboveThreshold float64
	SMEThresholdEUR         float64
	SMETurnoverThresholdEUR float64
	InfrastructureFactor    float64
}

func supportingFactorsCRR() SupportingFactors {
	return SupportingFactors{
		Enabled: true, SMEFactorUnderThreshold: 0.7619, SMEFactorAboveThreshold: 0.85,
		SMEThresholdEUR: 2_500_000, SMETurnoverThresholdEUR: 50_000_000, InfrastructureFactor: 0.75,
	}
}

func supportingFactorsBasel31() SupportingFactors {
	return SupportingFactors{
		Enabled: false, SMEFactorUnderThreshold: 1.0, SMEFactorAboveThreshold: 1.0,
		SMEThresholdEUR: 2_500_000, SMETurnoverThresholdEUR: 50_000_000, InfrastructureFactor: 1.0,
	}
}

// OutputFloorConfig is the Basel 3.1 transitional output floor (CRE99.1-8,
// PS9/24 Ch.12). Disabled under CRR.
type OutputFloorConfig struct {
	Enabled            bool
	FloorPercentage    float64
	TransitionalSchedule []ScheduleStep
}

// ScheduleStep is one entry of the transitional output-floor schedule.
type ScheduleStep struct {
	EffectiveFrom time.Time
	Percentage    float64
}

// PercentageAt returns the applicable floor percentage for a reporting
// date: the percentage of the latest transitional step in effect on that
// date, or the steady-state FloorPercentage when no step is in effect yet
// (a date before the first step, or an empty schedule).
func (o OutputFloorConfig) PercentageAt(reportingDate time.Time) float64 {
	if !o.Enabled {
		return 0
	}
	applicable := 0.0
	steps := append([]ScheduleStep(nil), o.TransitionalSchedule...)
	sort.Slice(steps, func(i, j int) bool { return steps[i].EffectiveFrom.Before(steps[j].EffectiveFrom) })
	for _, s := range steps {
		if !reportingDate.Before(s.EffectiveFrom) {
			applicable = s.Percentage
		}
	}
	if applicable > 0 {
		return applicable
	}
	return o.FloorPercentage
}

func outputFloorCRR() OutputFloorConfig { return OutputFloorConfig{Enabled: false} }

func outputFloorBasel31() OutputFloorConfig {
	return OutputFloorConfig{
		Enabled:         true,
		FloorPercentage: 0.725,
		TransitionalSchedule: []ScheduleStep{
			{EffectiveFrom: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), Percentage: 0.50},
			{EffectiveFrom: time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC), Percentage: 0.55},
			{EffectiveFrom: time.Date(2029, 1, 1, 0, 0, 0, 0, time.UTC), Percentage: 0.60},
			{EffectiveFrom: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), Percentage: 0.65},
			{EffectiveFrom: time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC), Percentage: 0.70},
			{EffectiveFrom: time.Date(2032, 1, 1, 0, 0, 0, 0, time.UTC), Percentage: 0.725},
		},
	}
}

// RetailThresholds bounds the total lending-group exposure a counterparty
// may carry and still be classified as retail.
type RetailThresholds struct {
	MaxExposureThreshold float64
	QRREMaxLimit         float64
}

func retailThresholdsCRR(eurGBPRate float64) RetailThresholds {
	return RetailThresholds{MaxExposureThreshold: 1_000_000 * eurGBPRate, QRREMaxLimit: 100_000 * eurGBPRate}
}

func retailThresholdsBasel31() RetailThresholds {
	return RetailThresholds{MaxExposureThreshold: 880_000, QRREMaxLimit: 100_000}
}

// IRBPermissions maps an exposure class to the set of approaches the firm
// is permitted to use for it.
type IRBPermissions struct {
	permitted map[ctypes.ExposureClass]map[ctypes.Approach]bool
	// AllowCorporateToRetailReclassification enables the CRR Art.147(5)
	// hybrid-preset reclassification rule.
	AllowCorporateToRetailReclassification bool
}

// IsPermitted reports whether approach is permitted for class. Classes with
// no explicit entry default to SA-only.
func (p IRBPermissions) IsPermitted(class ctypes.ExposureClass, approach ctypes.Approach) bool {
	m, ok := p.permitted[class]
	if !ok {
		return approach == ctypes.ApproachSA
	}
	return m[approach]
}

func newPermissions(m map[ctypes.ExposureClass][]ctypes.Approach) IRBPermissions {
	out := make(map[ctypes.ExposureClass]map[ctypes.Approach]bool, len(m))
	for class, approaches := range m {
		set := make(map[ctypes.Approach]bool, len(approaches))
		for _, a := range approaches {
			set[a] = true
		}
		out[class] = set
	}
	return IRBPermissions{permitted: out}
}

// PermissionsSAOnly permits nothing but SA for every class.
func PermissionsSAOnly() IRBPermissions { return IRBPermissions{permitted: map[ctypes.ExposureClass]map[ctypes.Approach]bool{}} }

// PermissionsFIRBOnly permits Foundation IRB for non-retail classes, SA for
// retail (F-IRB is not permitted for retail, CRE30.1).
func PermissionsFIRBOnly() IRBPermissions {
	return newPermissions(map[ctypes.ExposureClass][]ctypes.Approach{
		ctypes.ExposureSovereign:          {ctypes.ApproachSA, ctypes.ApproachFIRB},
		ctypes.ExposureInstitution:        {ctypes.ApproachSA, ctypes.ApproachFIRB},
		ctypes.ExposureCorporate:          {ctypes.ApproachSA, ctypes.ApproachFIRB},
		ctypes.ExposureCorporateSME:       {ctypes.ApproachSA, ctypes.ApproachFIRB},
		ctypes.ExposureSpecialisedLending: {ctypes.ApproachSA, ctypes.ApproachSlotting, ctypes.ApproachFIRB},
	})
}

// PermissionsAIRBOnly permits Advanced IRB for all non-equity,
// non-specialised-lending classes (specialised lending has no A-IRB, CRE33.5).
func PermissionsAIRBOnly() IRBPermissions {
	return newPermissions(map[ctypes.ExposureClass][]ctypes.Approach{
		ctypes.ExposureSovereign:          {ctypes.ApproachSA, ctypes.ApproachAIRB},
		ctypes.ExposureInstitution:        {ctypes.ApproachSA, ctypes.ApproachAIRB},
		ctypes.ExposureCorporate:          {ctypes.ApproachSA, ctypes.ApproachAIRB},
		ctypes.ExposureCorporateSME:       {ctypes.ApproachSA, ctypes.ApproachAIRB},
		ctypes.ExposureRetailMortgage:     {ctypes.ApproachSA, ctypes.ApproachAIRB},
		ctypes.ExposureRetailQRRE:         {ctypes.ApproachSA, ctypes.ApproachAIRB},
		ctypes.ExposureRetailOther:        {ctypes.ApproachSA, ctypes.ApproachAIRB},
		ctypes.ExposureSpecialisedLending: {ctypes.ApproachSA, ctypes.ApproachSlotting},
	})
}

// PermissionsFullIRB permits F-IRB and A-IRB wherever the regulator allows
// either (the broadest preset; used for testing/benchmarking).
func PermissionsFullIRB() IRBPermissions {
	return newPermissions(map[ctypes.ExposureClass][]ctypes.Approach{
		ctypes.ExposureSovereign:          {ctypes.ApproachSA, ctypes.ApproachFIRB, ctypes.ApproachAIRB},
		ctypes.ExposureInstitution:        {ctypes.ApproachSA, ctypes.ApproachFIRB, ctypes.ApproachAIRB},
		ctypes.ExposureCorporate:          {ctypes.ApproachSA, ctypes.ApproachFIRB, ctypes.ApproachAIRB},
		ctypes.ExposureCorporateSME:       {ctypes.ApproachSA, ctypes.ApproachFIRB, ctypes.ApproachAIRB},
		ctypes.ExposureRetailMortgage:     {ctypes.ApproachSA, ctypes.ApproachAIRB},
		ctypes.ExposureRetailQRRE:         {ctypes.ApproachSA, ctypes.ApproachAIRB},
		ctypes.ExposureRetailOther:        {ctypes.ApproachSA, ctypes.ApproachAIRB},
		ctypes.ExposureSpecialisedLending: {ctypes.ApproachSA, ctypes.ApproachSlotting, ctypes.ApproachFIRB},
	})
}

// PermissionsHybridRetailAIRBCorporateFIRB is the hybrid preset: A-IRB for
// retail, F-IRB for corporate, plus CRR Art.147(5) corporate-to-retail
// reclassification.
func PermissionsHybridRetailAIRBCorporateFIRB() IRBPermissions {
	p := newPermissions(map[ctypes.ExposureClass][]ctypes.Approach{
		ctypes.ExposureSovereign:          {ctypes.ApproachSA, ctypes.ApproachFIRB},
		ctypes.ExposureInstitution:        {ctypes.ApproachSA, ctypes.ApproachFIRB},
		ctypes.ExposureCorporate:          {ctypes.ApproachSA, ctypes.ApproachFIRB},
		ctypes.ExposureCorporateSME:       {ctypes.ApproachSA, ctypes.ApproachFIRB},
		ctypes.ExposureRetailMortgage:     {ctypes.ApproachSA, ctypes.ApproachAIRB},
		ctypes.ExposureRetailQRRE:         {ctypes.ApproachSA, ctypes.ApproachAIRB},
		ctypes.ExposureRetailOther:        {ctypes.ApproachSA, ctypes.ApproachAIRB},
		ctypes.ExposureSpecialisedLending: {ctypes.ApproachSA, ctypes.ApproachSlotting, ctypes.ApproachFIRB},
	})
	p.AllowCorporateToRetailReclassification = true
	return p
}

// CalculationConfig is the master, immutable configuration bundle passed by
// value to every stage.
type CalculationConfig struct {
	Framework                ctypes.Framework
	ReportingDate             time.Time
	ReportingCurrency         string
	PDFloors                  PDFloors
	LGDFloors                 LGDFloors
	SupportingFactors         SupportingFactors
	OutputFloor               OutputFloorConfig
	RetailThresholds          RetailThresholds
	IRBPermissions            IRBPermissions
	NonRetailScalingFactor    float64 // 1.06 under CRR, 1.0 under Basel 3.1
	EURGBPRate                float64
	MaxHierarchyDepth         int
	CollectMode               ctypes.CollectMode
	UKInstitutionCQS2Deviation bool // 30% instead of 50% for CQS-2 institutions
}

// OutputFloorPercentage returns the output-floor percentage applicable on
// ReportingDate.
func (c CalculationConfig) OutputFloorPercentage() float64 {
	return c.OutputFloor.PercentageAt(c.ReportingDate)
}

// NewCRR builds a CRR (Basel 3.0) configuration.
func NewCRR(reportingDate time.Time, permissions IRBPermissions, eurGBPRate float64, collectMode ctypes.CollectMode) (CalculationConfig, error) {
	if eurGBPRate <= 0 {
		return CalculationConfig{}, fmt.Errorf("config: eur/gbp rate must be positive, got %v", eurGBPRate)
	}
	cfg := CalculationConfig{
		Framework:                 ctypes.FrameworkCRR,
		ReportingDate:             reportingDate,
		ReportingCurrency:         "GBP",
		PDFloors:                  pdFloorsCRR(),
		LGDFloors:                 lgdFloorsCRR(),
		SupportingFactors:         supportingFactorsCRR(),
		OutputFloor:               outputFloorCRR(),
		RetailThresholds:          retailThresholdsCRR(eurGBPRate),
		IRBPermissions:            permissions,
		NonRetailScalingFactor:    1.06,
		EURGBPRate:                eurGBPRate,
		MaxHierarchyDepth:         10,
		CollectMode:               collectMode,
		UKInstitutionCQS2Deviation: true,
	}
	if err := cfg.Validate(); err != nil {
		return CalculationConfig{}, err
	}
	return cfg, nil
}

// NewBasel31 builds a Basel 3.1 / PRA PS9/24 configuration.
func NewBasel31(reportingDate time.Time, permissions IRBPermissions, collectMode ctypes.CollectMode) (CalculationConfig, error) {
	cfg := CalculationConfig{
		Framework:                 ctypes.FrameworkBasel31,
		ReportingDate:             reportingDate,
		ReportingCurrency:         "GBP",
		PDFloors:                  pdFloorsBasel31(),
		LGDFloors:                 lgdFloorsBasel31(),
		SupportingFactors:         supportingFactorsBasel31(),
		OutputFloor:               outputFloorBasel31(),
		RetailThresholds:          retailThresholdsBasel31(),
		IRBPermissions:            permissions,
		NonRetailScalingFactor:    1.0,
		EURGBPRate:                0, // not used; Basel 3.1 thresholds are GBP-denominated
		MaxHierarchyDepth:         10,
		CollectMode:               collectMode,
		UKInstitutionCQS2Deviation: true,
	}
	if err := cfg.Validate(); err != nil {
		return CalculationConfig{}, err
	}
	return cfg, nil
}

// SMETurnoverThreshold returns the SME-turnover reclassification
// threshold in the reporting currency.
func (c CalculationConfig) SMETurnoverThreshold() float64 {
	if c.Framework == ctypes.FrameworkCRR {
		return c.SupportingFactors.SMETurnoverThresholdEUR * c.EURGBPRate
	}
	return c.SupportingFactors.SMETurnoverThresholdEUR
}

// Validate checks the unrecoverable configuration conditions eagerly, so
// a malformed config never reaches a pipeline stage.
func (c CalculationConfig) Validate() error {
	switch c.Framework {
	case ctypes.FrameworkCRR, ctypes.FrameworkBasel31:
	default:
		return fmt.Errorf("config: unknown framework %q", c.Framework)
	}
	if c.OutputFloor.Enabled {
		if c.OutputFloor.FloorPercentage < 0 || c.OutputFloor.FloorPercentage > 1 {
			return fmt.Errorf("config: output floor percentage %.4f out of range [0,1]", c.OutputFloor.FloorPercentage)
		}
		for _, s := range c.OutputFloor.TransitionalSchedule {
			if s.Percentage < 0 || s.Percentage > 1 {
				return fmt.Errorf("config: transitional floor step %.4f out of range [0,1]", s.Percentage)
			}
		}
	}
	if c.MaxHierarchyDepth <= 0 {
		return fmt.Errorf("config: max hierarchy depth must be positive, got %d", c.MaxHierarchyDepth)
	}
	return nil
}
