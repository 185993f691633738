package capabilities

import "context"

// Features del plan de red que pueden gatear operaciones por clínica.
const (
	FeaturePatientRequests = "requests:submit"
)

type CapabilityCheck struct {
	ClinicID string
	Feature  string
}

type CapabilitiesResolver interface {
	HasFeature(ctx context.Context, in CapabilityCheck) (bool, error)
}
