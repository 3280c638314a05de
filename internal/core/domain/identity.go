package domain

import "errors"

// Role names as stored in the identity subsystem.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleAgent   = "AGENT"
	RoleClient  = "CLIENT"
)

// Account type tags.
const (
	AccountBackOffice = "BACK_OFFICE"
	AccountCorporate  = "CORPORATE"
	AccountIndividual = "INDIVIDUAL"
)

var ErrIdentityNotFound = errors.New("identity not found")
var ErrFlowNotAllowed = errors.New("login flow not allowed for identity")

// Role is a stable numeric identifier plus its name.
type Role struct {
	ID   uint   `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// AccountType tags an identity with exactly one account classification.
type AccountType struct {
	ID   uint   `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// Identity is the resolved account record consumed by authentication. It is a
// plain value: one account type, one or more roles in their stored order.
// The role order matters downstream — the first role is treated as the
// identity's default role.
type Identity struct {
	ID          string      `json:"id" bson:"_id"`
	Email       string      `json:"email" bson:"email"`
	Contact     string      `json:"contact" bson:"contact"`
	Username    string      `json:"username" bson:"username"`
	AccountType AccountType `json:"account_type" bson:"account_type"`
	Roles       []Role      `json:"roles" bson:"roles"`
}

// HasRole reports whether the identity carries the named role.
func (i *Identity) HasRole(name string) bool {
	for _, r := range i.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// IsBackOffice reports whether the identity belongs to back-office staff,
// either by account type or by carrying an administrative role.
func (i *Identity) IsBackOffice() bool {
	return i.AccountType.Name == AccountBackOffice ||
		i.HasRole(RoleAdmin) || i.HasRole(RoleManager)
}

// LoginFlow selects one of the three public login entry points.
type LoginFlow string

const (
	FlowGeneric    LoginFlow = "generic"
	FlowBackOffice LoginFlow = "backoffice"
	FlowUser       LoginFlow = "user"
)

// Purpose returns the OTP purpose tag scoped to this flow.
func (f LoginFlow) Purpose() string {
	switch f {
	case FlowBackOffice:
		return PurposeBackOfficeLogin
	case FlowUser:
		return PurposeUserLogin
	default:
		return PurposeLogin
	}
}

// Admits reports whether an identity may authenticate through this flow.
// The generic flow admits anyone; the two dedicated flows are mutually
// exclusive on the back-office classification.
func (f LoginFlow) Admits(identity *Identity) bool {
	switch f {
	case FlowBackOffice:
		return identity.IsBackOffice()
	case FlowUser:
		return !identity.IsBackOffice()
	default:
		return true
	}
}
