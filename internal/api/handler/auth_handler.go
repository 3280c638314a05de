package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/api/metrics"
	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/domain"
	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	identities  ports.IdentityRepository
}

func NewAuthHandler(authService ports.AuthService, identities ports.IdentityRepository) *AuthHandler {
	return &AuthHandler{authService: authService, identities: identities}
}

// RequestOTP returns the handler issuing a one-time code for the given flow.
// The response never carries the code itself.
//
// @Summary      Request a one-time login code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      requestOtpRequest  true  "Destination contact (email or phone)"
// @Success      202   {object}  requestOtpResponse
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /auth/{flow}/request-otp [post]
func (h *AuthHandler) RequestOTP(flow domain.LoginFlow) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req requestOtpRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}

		if err := h.authService.RequestCode(c.Request().Context(), flow, req.Contact); err != nil {
			switch {
			case errors.Is(err, domain.ErrUnrecognizedContact):
				return c.JSON(http.StatusBadRequest, errorResponse{Error: "contact is not a valid email or phone number"})
			case errors.Is(err, domain.ErrTooManyRequests):
				return c.JSON(http.StatusTooManyRequests, errorResponse{Error: "a code was requested recently, try again later"})
			case errors.Is(err, domain.ErrDeliveryFailed):
				metrics.OtpDeliveryFailuresTotal.WithLabelValues(string(domain.ClassifyContact(req.Contact))).Inc()
				return c.JSON(http.StatusBadGateway, errorResponse{Error: "code could not be delivered"})
			}
			return err
		}

		metrics.OtpIssuedTotal.WithLabelValues(string(domain.ClassifyContact(req.Contact)), flow.Purpose()).Inc()
		return c.JSON(http.StatusAccepted, requestOtpResponse{Message: "code sent"})
	}
}

// VerifyOTP returns the handler exchanging a code for a session token under
// the given flow. Wrong, expired and consumed codes, unknown identities and
// flow mismatches all produce the same 401.
//
// @Summary      Verify a one-time code and authenticate
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyOtpRequest  true  "Contact and code"
// @Success      200   {object}  verifyOtpResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/{flow}/verify-otp [post]
func (h *AuthHandler) VerifyOTP(flow domain.LoginFlow) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req verifyOtpRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}

		start := time.Now()
		token, claims, err := h.authService.Authenticate(c.Request().Context(), flow, req.Contact, req.Code)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidOtp) {
				metrics.OtpVerifyTotal.WithLabelValues("failure").Inc()
				return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid or expired code"})
			}
			return err
		}

		metrics.OtpVerifyTotal.WithLabelValues("success").Inc()
		metrics.TokensIssuedTotal.WithLabelValues(string(flow)).Inc()
		metrics.AuthenticateDuration.WithLabelValues(string(flow)).Observe(time.Since(start).Seconds())

		return c.JSON(http.StatusOK, verifyOtpResponse{
			Token:    token,
			Identity: echoFromClaims(claims),
		})
	}
}

// Me returns the decoded session claims of the calling token. No store
// access: the token itself is the source.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Success      200  {object}  identityEcho
// @Failure      401  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echoFromClaims(claims))
}

// LookupIdentity resolves an identity by contact or email for back-office
// support staff.
//
// @Summary      Look up an identity by contact
// @Tags         backoffice
// @Produce      json
// @Param        contact  path      string  true  "Email or phone number"
// @Success      200      {object}  identityLookupResponse
// @Failure      404      {object}  errorResponse
// @Router       /backoffice/identities/{contact} [get]
func (h *AuthHandler) LookupIdentity(c echo.Context) error {
	identity, err := h.identities.FindByContact(c.Request().Context(), c.Param("contact"))
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "identity not found"})
		}
		return err
	}

	roles := make([]string, 0, len(identity.Roles))
	for _, r := range identity.Roles {
		roles = append(roles, r.Name)
	}

	return c.JSON(http.StatusOK, identityLookupResponse{
		ID:          identity.ID,
		Email:       identity.Email,
		Contact:     identity.Contact,
		Username:    identity.Username,
		AccountType: identity.AccountType.Name,
		Roles:       roles,
	})
}

func echoFromClaims(claims *domain.SessionClaims) identityEcho {
	return identityEcho{
		ID:           claims.IdentityID,
		Email:        claims.Email,
		Contact:      claims.Contact,
		Username:     claims.Username,
		RoleID:       claims.RoleID,
		RoleIDs:      claims.RoleIDs,
		AccountType:  claims.AccountTypeID,
		IsBackOffice: claims.IsBackOffice,
		IsCorporate:  claims.IsCorporate,
		IsAdmin:      claims.IsAdmin,
		IsAgent:      claims.IsAgent,
		IsManager:    claims.IsManager,
	}
}
