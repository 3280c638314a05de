package domain

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the flat claim set embedded in a session token. It is
// derived from an Identity at issuance and never mutated afterwards; a new
// login produces a new token.
type SessionClaims struct {
	IdentityID    string `json:"identity_id"`
	Email         string `json:"email,omitempty"`
	Contact       string `json:"contact,omitempty"`
	Username      string `json:"username"`
	RoleID        uint   `json:"role_id"`
	RoleIDs       []uint `json:"role_ids"`
	AccountTypeID uint   `json:"account_type_id"`
	IsBackOffice  bool   `json:"is_backoffice"`
	IsCorporate   bool   `json:"is_corporate"`
	IsAdmin       bool   `json:"is_admin"`
	IsAgent       bool   `json:"is_agent"`
	IsManager     bool   `json:"is_manager"`
	jwt.RegisteredClaims
}

// NewSessionClaims flattens an identity into its claim set. The derivation is
// deterministic: the same identity state always yields the same claims.
// RoleID is the first role in the identity's stored order.
func NewSessionClaims(identity *Identity) SessionClaims {
	claims := SessionClaims{
		IdentityID:    identity.ID,
		Email:         identity.Email,
		Contact:       identity.Contact,
		Username:      identity.Username,
		AccountTypeID: identity.AccountType.ID,
		IsBackOffice:  identity.IsBackOffice(),
		IsCorporate:   identity.AccountType.Name == AccountCorporate,
		IsAdmin:       identity.HasRole(RoleAdmin),
		IsAgent:       identity.HasRole(RoleAgent),
		IsManager:     identity.HasRole(RoleManager),
	}

	claims.RoleIDs = make([]uint, 0, len(identity.Roles))
	for _, r := range identity.Roles {
		claims.RoleIDs = append(claims.RoleIDs, r.ID)
	}
	if len(claims.RoleIDs) > 0 {
		claims.RoleID = claims.RoleIDs[0]
	}

	return claims
}
