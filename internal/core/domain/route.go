package domain

import "fmt"

// Destination names a page the top-level caller navigates to.
type Destination string

const (
	DestinationIndex          Destination = "index.html"
	DestinationLogin          Destination = "login.html"
	DestinationPatientHome    Destination = "patient.html"
	DestinationPharmacistHome Destination = "pharmacist.html"
	DestinationAdminHome      Destination = "admin.html"
)

var homes = map[Role]Destination{
	RolePatient:    DestinationPatientHome,
	RolePharmacist: DestinationPharmacistHome,
	RoleAdmin:      DestinationAdminHome,
}

// RouteForRole maps an identity to its role's home page. It never navigates.
func RouteForRole(identity Identity) (Destination, error) {
	dest, ok := homes[identity.Role]
	if !ok {
		return "", fmt.Errorf("route %q: %w", identity.Role, ErrUnknownRole)
	}
	return dest, nil
}
