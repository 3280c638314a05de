package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type requestOtpRequest struct {
	Contact string `json:"contact" validate:"required,min=3,max=254"`
}

type requestOtpResponse struct {
	Message string `json:"message"`
}

type verifyOtpRequest struct {
	Contact string `json:"contact" validate:"required,min=3,max=254"`
	Code    string `json:"code"    validate:"required,numeric,min=4,max=10"`
}

// identityEcho is the minimal identity summary returned alongside the token.
// Response-only: the JSON contract is not coupled to the claim wire format.
type identityEcho struct {
	ID           string `json:"id"`
	Email        string `json:"email,omitempty"`
	Contact      string `json:"contact,omitempty"`
	Username     string `json:"username"`
	RoleID       uint   `json:"role_id"`
	RoleIDs      []uint `json:"role_ids"`
	AccountType  uint   `json:"account_type_id"`
	IsBackOffice bool   `json:"is_backoffice"`
	IsCorporate  bool   `json:"is_corporate"`
	IsAdmin      bool   `json:"is_admin"`
	IsAgent      bool   `json:"is_agent"`
	IsManager    bool   `json:"is_manager"`
}

type verifyOtpResponse struct {
	Token    string       `json:"token"`
	Identity identityEcho `json:"identity"`
}

type identityLookupResponse struct {
	ID          string   `json:"id"`
	Email       string   `json:"email,omitempty"`
	Contact     string   `json:"contact,omitempty"`
	Username    string   `json:"username"`
	AccountType string   `json:"account_type"`
	Roles       []string `json:"roles"`
}
