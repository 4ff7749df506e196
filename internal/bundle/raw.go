package bundle

import "context"

// RawDataBundle is the output of the external DataSource loader: one table
// per portfolio entity, exactly as loaded, with no
// transformations applied.
type RawDataBundle struct {
	Facilities          []Facility
	Loans               []Loan
	Contingents         []Contingent
	Counterparties      []Counterparty
	Collateral          []Collateral
	Guarantees          []Guarantee
	Provisions          []Provision
	Ratings             []Rating
	FacilityMappings    []FacilityMapping
	OrgMappings         []OrgMapping
	LendingMappings     []LendingMapping
	FXRates             []FXRate
	SpecialisedLending  []SpecialisedLending
}

// DataSource is the single external collaborator the core calculation
// pipeline consumes. File-format dialects, schema casting,
// and null normalisation are its responsibility, not the core's.
type DataSource interface {
	Load(ctx context.Context) (RawDataBundle, error)
}
