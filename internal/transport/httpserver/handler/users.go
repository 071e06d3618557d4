package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	identitydomain "softdesk-go/internal/domain/identity"
	"softdesk-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type updateUserRequest struct {
	Email                  *string `json:"email"`
	FirstName              *string `json:"first_name"`
	LastName               *string `json:"last_name"`
	Birthdate              *string `json:"birthdate"`
	CanBeContacted         *bool   `json:"can_be_contacted"`
	CanDataBeShared        *bool   `json:"can_data_be_shared"`
	CanProfileViewable     *bool   `json:"can_profile_viewable"`
	CanContributeToProject *bool   `json:"can_contribute_to_a_project"`
}

type changePasswordRequest struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type userResponse struct {
	ID                     string    `json:"id"`
	Username               string    `json:"username"`
	Email                  string    `json:"email"`
	FirstName              string    `json:"first_name"`
	LastName               string    `json:"last_name"`
	Birthdate              string    `json:"birthdate"`
	CanBeContacted         bool      `json:"can_be_contacted"`
	CanDataBeShared        bool      `json:"can_data_be_shared"`
	CanProfileViewable     bool      `json:"can_profile_viewable"`
	CanContributeToProject bool      `json:"can_contribute_to_a_project"`
	HasParentalApprovement bool      `json:"has_parental_approvement"`
	CreatedTime            time.Time `json:"created_time"`
}

type userListResponse struct {
	Items []userResponse `json:"items"`
	Total int64          `json:"total"`
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	query := r.URL.Query()
	limit, err := parseIntParam(query.Get("limit"), 50)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}
	offset, err := parseIntParam(query.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid offset")
		return
	}

	users, total, err := h.Identity.ListUsers(r.Context(), actor, limit, offset)
	if err != nil {
		h.log.InternalError("users.list: list users failed", err, "user_id", actor.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	items := make([]userResponse, 0, len(users))
	for _, user := range users {
		items = append(items, toUserResponse(user))
	}

	writeJSON(w, http.StatusOK, userListResponse{Items: items, Total: total})
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	userID := strings.TrimSpace(chi.URLParam(r, "user_id"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	user, err := h.Identity.GetUser(r.Context(), actor, userID)
	if err != nil {
		h.writeUserError(w, "users.get", actor.UserID, userID, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(*user))
}

func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	actor, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	userID := strings.TrimSpace(chi.URLParam(r, "user_id"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}

	birthdate, err := parseDateParam(req.Birthdate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "birthdate must be a YYYY-MM-DD date")
		return
	}

	user, err := h.Identity.UpdateUser(r.Context(), actor, identitydomain.UpdateUserInput{
		ID:                     userID,
		Email:                  req.Email,
		FirstName:              req.FirstName,
		LastName:               req.LastName,
		Birthdate:              birthdate,
		CanBeContacted:         req.CanBeContacted,
		CanDataBeShared:        req.CanDataBeShared,
		CanProfileViewable:     req.CanProfileViewable,
		CanContributeToProject: req.CanContributeToProject,
	})
	if err != nil {
		h.writeUserError(w, "users.update", actor.UserID, userID, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(*user))
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	actor, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	userID := strings.TrimSpace(chi.URLParam(r, "user_id"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "password is required")
		return
	}

	if err := h.Identity.ChangePassword(r.Context(), actor, userID, req.Password, req.PasswordConfirm); err != nil {
		h.writeUserError(w, "users.change_password", actor.UserID, userID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	userID := strings.TrimSpace(chi.URLParam(r, "user_id"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	if err := h.Identity.DeleteUser(r.Context(), actor, userID); err != nil {
		h.writeUserError(w, "users.delete", actor.UserID, userID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeUserError(w http.ResponseWriter, op, actorID, userID string, err error) {
	switch {
	case errors.Is(err, identitydomain.ErrUserNotFound):
		h.log.BusinessError(op+": user not found", err, "user_id", actorID, "target_id", userID)
		writeError(w, http.StatusNotFound, "user_not_found", "user not found")
	case errors.Is(err, identitydomain.ErrForbidden):
		h.log.BusinessError(op+": forbidden", err, "user_id", actorID, "target_id", userID)
		writeError(w, http.StatusForbidden, "forbidden", "forbidden")
	case errors.Is(err, identitydomain.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "email_taken", "email already registered")
	case errors.Is(err, identitydomain.ErrBirthdateImmutable):
		writeError(w, http.StatusBadRequest, "birthdate_immutable", "birthdate cannot be changed")
	case errors.Is(err, identitydomain.ErrPasswordMismatch):
		writeError(w, http.StatusBadRequest, "password_mismatch", "password confirmation does not match")
	default:
		h.log.InternalError(op+": failed", err, "user_id", actorID, "target_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toUserResponse(user identitydomain.User) userResponse {
	return userResponse{
		ID:                     user.ID,
		Username:               user.Username,
		Email:                  user.Email,
		FirstName:              user.FirstName,
		LastName:               user.LastName,
		Birthdate:              user.Birthdate.Format("2006-01-02"),
		CanBeContacted:         user.CanBeContacted,
		CanDataBeShared:        user.CanDataBeShared,
		CanProfileViewable:     user.CanProfileViewable,
		CanContributeToProject: user.CanContributeToProject,
		HasParentalApprovement: user.HasParentalApprovement,
		CreatedTime:            user.CreatedAt,
	}
}
