package domain

// Role selects the page a session is routed to and the API surface it may call.
type Role string

const (
	RolePatient    Role = "patient"
	RolePharmacist Role = "pharmacist"
	RoleAdmin      Role = "admin"
)

// Roles lists every role the product knows about.
var Roles = []Role{RolePatient, RolePharmacist, RoleAdmin}

// Valid reports whether r is one of the known roles. Comparison is exact.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RolePharmacist, RoleAdmin:
		return true
	}
	return false
}

// Identity is the authenticated user record cached client-side after login.
type Identity struct {
	ID        int64  `json:"id"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Credential is only ever sent in a login request; it is never persisted.
type Credential struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration carries the fields of a new account.
type Registration struct {
	Email    string `json:"email"           validate:"required,email"`
	Password string `json:"password"        validate:"required,min=6"`
	Name     string `json:"name"            validate:"required"`
	Role     Role   `json:"role"            validate:"required,oneof=patient pharmacist admin"`
	Phone    string `json:"phone,omitempty"`
}

// AuthResult is the service's answer to a successful login or registration.
type AuthResult struct {
	AccessToken string    `json:"access_token"`
	User        *Identity `json:"user"`
}
