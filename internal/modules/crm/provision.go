package crm

import "github.com/aristath/rwa-engine/internal/bundle"
import "github.com/aristath/rwa-engine/internal/ctypes"

// aggregateProvisions sums SCRA provisions per beneficiary exposure,
// following the same three-level beneficiary resolution as collateral,
// but returns a flat per-exposure total since
// provisions are not haircut- or maturity-adjusted.
func aggregateProvisions(exposures []bundle.Exposure, provisions []bundle.Provision) map[string]float64 {
	eadByCounterparty := map[string]float64{}
	exposuresByCounterparty := map[string][]string{}
	eadByExposure := map[string]float64{}

	for _, e := range exposures {
		eadByExposure[e.ExposureReference] = e.EADGross
		eadByCounterparty[e.CounterpartyRef] += e.EADGross
		exposuresByCounterparty[e.CounterpartyRef] = append(exposuresByCounterparty[e.CounterpartyRef], e.ExposureReference)
	}
	facilities := buildFacilityIndex(exposures)

	out := make(map[string]float64, len(exposures))
	for _, p := range provisions {
		if p.ProvisionType != ctypes.ProvisionSCRA {
			continue
		}
		switch p.BeneficiaryType {
		case ctypes.BeneficiaryExposure:
			if _, ok := eadByExposure[p.BeneficiaryReference]; ok {
				out[p.BeneficiaryReference] += p.Amount
			}
		case ctypes.BeneficiaryFacility:
			total := facilities.ead[p.BeneficiaryReference]
			if total <= 0 {
				continue
			}
			for _, ref := range facilities.children[p.BeneficiaryReference] {
				out[ref] += p.Amount * (eadByExposure[ref] / total)
			}
		case ctypes.BeneficiaryCounterparty:
			total := eadByCounterparty[p.BeneficiaryReference]
			if total <= 0 {
				continue
			}
			for _, ref := range exposuresByCounterparty[p.BeneficiaryReference] {
				out[ref] += p.Amount * (eadByExposure[ref] / total)
			}
		}
	}
	return out
}

// applyProvision sets ProvisionAllocated on every exposure, and
// ProvisionDeducted for SA and slotting exposures (IRB exposures deduct
// nothing): the allocated amount, capped at ead_after_collateral. The
// drawn-origin and nominal-origin parts of EAD are not tracked
// separately; the deduction is taken from ead_after_collateral as a whole.
func applyProvision(e bundle.Exposure, allocated float64) bundle.Exposure {
	e.ProvisionAllocated = allocated
	if e.Approach != ctypes.ApproachSA && e.Approach != ctypes.ApproachSlotting {
		e.ProvisionDeducted = 0
		return e
	}
	deduction := allocated
	if deduction > e.EADAfterCollateral {
		deduction = e.EADAfterCollateral
	}
	e.ProvisionDeducted = deduction
	return e
}
