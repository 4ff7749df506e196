package classifier

import (
	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/config"
	"github.com/aristath/rwa-engine/internal/ctypes"
)

// refineRetail applies the retail eligibility tests (CRR Art. 123): a retail
// candidate remains retail only if its lending-group total is below the
// retail threshold; candidates failing the test are reclassified as
// Corporate. Retail exposures secured by residential property become
// Retail-Mortgage.
func refineRetail(e bundle.Exposure, cpty bundle.Counterparty, propertyCollateral map[string]bundle.Collateral, cfg config.CalculationConfig) bundle.Exposure {
	if !isRetailCandidate(e.ExposureClass) {
		return e
	}
	if e.LendingGroupTotal >= cfg.RetailThresholds.MaxExposureThreshold {
		e.ExposureClass = ctypes.ExposureCorporate
		return e
	}
	if isResidentialMortgage(e, propertyCollateral) {
		e.ExposureClass = ctypes.ExposureRetailMortgage
		return e
	}
	if isQRREEligible(e, cfg) {
		e.ExposureClass = ctypes.ExposureRetailQRRE
	}
	return e
}

func isRetailCandidate(class ctypes.ExposureClass) bool {
	switch class {
	case ctypes.ExposureRetailOther, ctypes.ExposureRetailMortgage, ctypes.ExposureRetailQRRE:
		return true
	default:
		return false
	}
}

// isResidentialMortgage reports whether the exposure is secured by
// residential real-estate collateral, the signal used in place of an
// explicit mortgage product-type flag.
func isResidentialMortgage(e bundle.Exposure, propertyCollateral map[string]bundle.Collateral) bool {
	coll, ok := propertyCollateral[e.ExposureReference]
	return ok && coll.PropertyType == ctypes.PropertyResidential
}

// isQRREEligible applies the revolving, low-balance QRRE test (CRR
// Art. 123): revolving exposures whose drawn plus nominal amount is at
// most the configured QRRE limit.
func isQRREEligible(e bundle.Exposure, cfg config.CalculationConfig) bool {
	return e.IsRevolving && (e.DrawnAmount+e.NominalAmount) <= cfg.RetailThresholds.QRREMaxLimit
}

// maybeReclassifyHybrid applies the CRR Art. 147(5) hybrid-preset
// reclassification: corporates managed as retail, with
// aggregate exposure below the retail threshold, modelled LGD, and
// turnover below the SME limit, may be reclassified to Retail-Mortgage
// (if property collateral is present) or Retail-Other — never QRRE.
func maybeReclassifyHybrid(e bundle.Exposure, cpty bundle.Counterparty, propertyCollateral map[string]bundle.Collateral, cfg config.CalculationConfig) bundle.Exposure {
	if !cfg.IRBPermissions.AllowCorporateToRetailReclassification {
		return e
	}
	if e.ExposureClass != ctypes.ExposureCorporate && e.ExposureClass != ctypes.ExposureCorporateSME {
		return e
	}
	if !cpty.IsManagedAsRetail {
		return e
	}
	if e.LendingGroupTotal >= cfg.RetailThresholds.MaxExposureThreshold {
		return e
	}
	if e.ModelledLGD == nil {
		return e
	}
	if cpty.AnnualRevenue >= cfg.SMETurnoverThreshold() {
		return e
	}
	if _, hasProperty := propertyCollateral[e.ExposureReference]; hasProperty {
		e.ExposureClass = ctypes.ExposureRetailMortgage
	} else {
		e.ExposureClass = ctypes.ExposureRetailOther
	}
	return e
}
