package handler

import (
	"errors"
	"net/http"
	"strings"

	"softdesk-go/internal/auth"
	identitydomain "softdesk-go/internal/domain/identity"
)

type signupRequest struct {
	Username               string `json:"username"`
	Email                  string `json:"email"`
	FirstName              string `json:"first_name"`
	LastName               string `json:"last_name"`
	Birthdate              string `json:"birthdate"`
	Password               string `json:"password"`
	PasswordConfirm        string `json:"password_confirm"`
	CanBeContacted         *bool  `json:"can_be_contacted"`
	CanDataBeShared        *bool  `json:"can_data_be_shared"`
	CanProfileViewable     *bool  `json:"can_profile_viewable"`
	CanContributeToProject *bool  `json:"can_contribute_to_a_project"`
	HasParentalApprovement bool   `json:"has_parental_approvement"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type tokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type accessTokenResponse struct {
	Access string `json:"access"`
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "username is required")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "password is required")
		return
	}
	birthdate, err := parseDateRequired(req.Birthdate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "birthdate must be a YYYY-MM-DD date")
		return
	}

	user, err := h.Identity.Register(r.Context(), identitydomain.RegisterInput{
		Username:               req.Username,
		Email:                  req.Email,
		FirstName:              req.FirstName,
		LastName:               req.LastName,
		Birthdate:              birthdate,
		Password:               req.Password,
		PasswordConfirm:        req.PasswordConfirm,
		CanBeContacted:         boolOrDefault(req.CanBeContacted, true),
		CanDataBeShared:        boolOrDefault(req.CanDataBeShared, true),
		CanProfileViewable:     boolOrDefault(req.CanProfileViewable, true),
		CanContributeToProject: boolOrDefault(req.CanContributeToProject, true),
		HasParentalApprovement: req.HasParentalApprovement,
	})
	if err != nil {
		switch {
		case errors.Is(err, identitydomain.ErrUsernameTaken):
			h.log.BusinessError("auth.signup: username taken", err, "username", req.Username)
			writeError(w, http.StatusBadRequest, "username_taken", "username already taken")
		case errors.Is(err, identitydomain.ErrEmailTaken):
			h.log.BusinessError("auth.signup: email taken", err, "username", req.Username)
			writeError(w, http.StatusBadRequest, "email_taken", "email already registered")
		case errors.Is(err, identitydomain.ErrPasswordMismatch):
			writeError(w, http.StatusBadRequest, "password_mismatch", "password confirmation does not match")
		case errors.Is(err, identitydomain.ErrParentalApprovalRequired):
			h.log.BusinessError("auth.signup: parental approval required", err, "username", req.Username)
			writeError(w, http.StatusBadRequest, "parental_approval_required", "parental approval is required below the minimum signup age")
		default:
			h.log.InternalError("auth.signup: register failed", err, "username", req.Username)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(*user))
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
		return
	}

	user, err := h.Identity.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, identitydomain.ErrInvalidCredentials) {
			h.log.BusinessError("auth.login: invalid credentials", err, "username", req.Username)
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
			return
		}
		h.log.InternalError("auth.login: authenticate failed", err, "username", req.Username)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	access, err := h.tokens.IssueAccess(user.ID, user.IsSuperuser)
	if err != nil {
		h.log.InternalError("auth.login: issue access token failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	refresh, err := h.tokens.IssueRefresh(user.ID, user.IsSuperuser)
	if err != nil {
		h.log.InternalError("auth.login: issue refresh token failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{Access: access, Refresh: refresh})
}

// Refresh exchanges a refresh token for a new access token. The account is
// re-read so a deleted user cannot mint new credentials.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Refresh) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "refresh is required")
		return
	}

	claims, err := h.tokens.Parse(req.Refresh, auth.TokenTypeRefresh)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	user, err := h.Identity.GetUserByID(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, identitydomain.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
			return
		}
		h.log.InternalError("auth.refresh: get user failed", err, "user_id", claims.Subject)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	access, err := h.tokens.IssueAccess(user.ID, user.IsSuperuser)
	if err != nil {
		h.log.InternalError("auth.refresh: issue access token failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, accessTokenResponse{Access: access})
}

func boolOrDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
