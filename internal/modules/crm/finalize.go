package crm

import "github.com/aristath/rwa-engine/internal/bundle"

// finalise is the last waterfall step: ead_after_guarantee mirrors
// ead_after_collateral (guarantees affect risk-weight substitution
// downstream, not the EAD amount itself), and ead_final deducts the
// provision.
func finalise(e bundle.Exposure) bundle.Exposure {
	e.EADAfterGuarantee = e.EADAfterCollateral
	ead := e.EADAfterCollateral - e.ProvisionDeducted
	if ead < 0 {
		ead = 0
	}
	e.EADFinal = ead
	return e
}
