// Account HTTP handlers.
//
// This file exposes REST endpoints for registration, login, profile access,
// and interest-domain management:
//   - POST   /auth/register
//   - POST   /auth/login
//   - GET    /auth/me
//   - GET    /auth/available-domains
//   - PUT    /auth/domains              (replace selection)
//   - POST   /auth/domains             (add one)
//   - DELETE /auth/domains/{name}      (remove one)
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/smartswipe/go-swipe-backend/internal/domain"
	"github.com/smartswipe/go-swipe-backend/internal/services"
)

//
// DTOs
//

// CredentialsRequest is the JSON payload for registration and login.
type CredentialsRequest struct {
	Email    string `json:"email"    binding:"required" example:"ada@example.com"`
	Password string `json:"password" binding:"required" example:"hunter2hunter2"`
}

// AuthResponse wraps the account and its freshly issued access token.
type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// SetDomainsRequest is the JSON payload for replacing the domain selection.
type SetDomainsRequest struct {
	Domains []string `json:"domains" binding:"required" example:"technology,health"`
}

// AddDomainRequest is the JSON payload for appending one domain.
type AddDomainRequest struct {
	Domain string `json:"domain" binding:"required" example:"custom:space tech"`
}

// authErr maps account-service errors to HTTP responses.
func authErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrInvalidDomain),
		errors.Is(err, services.ErrDomainSelection):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

//
// Handlers
//

// Register godoc
// @ID          register
// @Summary     Register a new account
// @Description Creates an account and returns it with a fresh access token.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CredentialsRequest  true  "Credentials"
//
// @Success     201  {object}  handlers.AuthResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Email already registered"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password required")
		return
	}
	u, token, err := h.userSvc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		authErr(c, err)
		return
	}
	ok(c, http.StatusCreated, AuthResponse{User: u, Token: token})
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Verifies credentials and returns the account with an access token.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CredentialsRequest  true  "Credentials"
//
// @Success     200  {object}  handlers.AuthResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid credentials"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password required")
		return
	}
	u, token, err := h.userSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		authErr(c, err)
		return
	}
	ok(c, http.StatusOK, AuthResponse{User: u, Token: token})
}

// Me godoc
// @ID          me
// @Summary     Current account
// @Description Returns the authenticated user's profile.
// @Tags        Auth
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object}  domain.User
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Router      /auth/me [get]
func (h *Handlers) Me(c *gin.Context) {
	u, err := h.userSvc.Profile(c.Request.Context(), userID(c))
	if err != nil {
		authErr(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// AvailableDomains godoc
// @ID          availableDomains
// @Summary     List selectable interest domains
// @Description Returns the canonical domain catalog with display labels. Custom domains use the "custom:" prefix.
// @Tags        Auth
// @Produce     json
//
// @Success     200  {array}  services.DomainOption
// @Router      /auth/available-domains [get]
func (h *Handlers) AvailableDomains(c *gin.Context) {
	ok(c, http.StatusOK, h.userSvc.AvailableDomains())
}

// SetDomains godoc
// @ID          setDomains
// @Summary     Replace the interest selection
// @Description Replaces the user's selected domains (1 to 8) and marks onboarding complete.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.SetDomainsRequest  true  "New selection"
//
// @Success     200  {object}  domain.User
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid selection"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Router      /auth/domains [put]
func (h *Handlers) SetDomains(c *gin.Context) {
	var req SetDomainsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "domains required")
		return
	}
	u, err := h.userSvc.SetDomains(c.Request.Context(), userID(c), req.Domains)
	if err != nil {
		authErr(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// AddDomain godoc
// @ID          addDomain
// @Summary     Add one interest domain
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.AddDomainRequest  true  "Domain to add"
//
// @Success     200  {object}  domain.User
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid domain or selection full"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Router      /auth/domains [post]
func (h *Handlers) AddDomain(c *gin.Context) {
	var req AddDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Domain) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "domain required")
		return
	}
	u, err := h.userSvc.AddDomain(c.Request.Context(), userID(c), req.Domain)
	if err != nil {
		authErr(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// RemoveDomain godoc
// @ID          removeDomain
// @Summary     Remove one interest domain
// @Description Removes a domain from the selection. The last remaining domain cannot be removed.
// @Tags        Auth
// @Produce     json
// @Security    BearerAuth
//
// @Param       name  path  string  true  "Domain name"  example(health)
//
// @Success     200  {object}  domain.User
// @Failure     400  {object}  handlers.ErrorResponse  "Unknown domain or last domain"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Router      /auth/domains/{name} [delete]
func (h *Handlers) RemoveDomain(c *gin.Context) {
	u, err := h.userSvc.RemoveDomain(c.Request.Context(), userID(c), c.Param("name"))
	if err != nil {
		authErr(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}
