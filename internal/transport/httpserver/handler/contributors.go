package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	projectdomain "softdesk-go/internal/domain/project"
	"softdesk-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type addContributorRequest struct {
	UserID string `json:"user_id"`
}

type contributorResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ProjectID   string    `json:"project_id"`
	Role        string    `json:"role"`
	CreatedTime time.Time `json:"created_time"`
}

type contributorListResponse struct {
	Items []contributorResponse `json:"items"`
	Total int64                 `json:"total"`
}

type membershipResponse struct {
	UserID    string   `json:"user_id"`
	ProjectID string   `json:"project_id"`
	Roles     []string `json:"roles"`
}

func (h *Handlers) ListContributors(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	projectID := strings.TrimSpace(chi.URLParam(r, "project_id"))
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "project_id is required")
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

	rows, total, err := h.Projects.ListContributors(r.Context(), actor, projectID, limit, offset)
	if err != nil {
		h.writeContributorError(w, "contributors.list", actor.UserID, projectID, err)
		return
	}

	items := make([]contributorResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, toContributorResponse(row))
	}

	writeJSON(w, http.StatusOK, contributorListResponse{Items: items, Total: total})
}

func (h *Handlers) GetContributor(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	projectID := strings.TrimSpace(chi.URLParam(r, "project_id"))
	userID := strings.TrimSpace(chi.URLParam(r, "user_id"))
	if projectID == "" || userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "project_id and user_id are required")
		return
	}

	rows, err := h.Projects.GetContributor(r.Context(), actor, projectID, userID)
	if err != nil {
		h.writeContributorError(w, "contributors.get", actor.UserID, projectID, err)
		return
	}

	roles := make([]string, 0, len(rows))
	for _, row := range rows {
		roles = append(roles, string(row.Role))
	}

	writeJSON(w, http.StatusOK, membershipResponse{
		UserID:    userID,
		ProjectID: projectID,
		Roles:     roles,
	})
}

func (h *Handlers) AddContributor(w http.ResponseWriter, r *http.Request) {
	var req addContributorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	actor, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	projectID := strings.TrimSpace(chi.URLParam(r, "project_id"))
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "project_id is required")
		return
	}

	row, err := h.Projects.AddContributor(r.Context(), actor, projectID, strings.TrimSpace(req.UserID))
	if err != nil {
		h.writeContributorError(w, "contributors.add", actor.UserID, projectID, err)
		return
	}

	writeJSON(w, http.StatusCreated, toContributorResponse(*row))
}

func (h *Handlers) RemoveContributor(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	projectID := strings.TrimSpace(chi.URLParam(r, "project_id"))
	userID := strings.TrimSpace(chi.URLParam(r, "user_id"))
	if projectID == "" || userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "project_id and user_id are required")
		return
	}

	if err := h.Projects.RemoveContributor(r.Context(), actor, projectID, userID); err != nil {
		h.writeContributorError(w, "contributors.remove", actor.UserID, projectID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeContributorError(w http.ResponseWriter, op, actorID, projectID string, err error) {
	switch {
	case errors.Is(err, projectdomain.ErrProjectNotFound):
		h.log.BusinessError(op+": project not found", err, "user_id", actorID, "project_id", projectID)
		writeError(w, http.StatusNotFound, "project_not_found", "project not found")
	case errors.Is(err, projectdomain.ErrCandidateNotFound):
		h.log.BusinessError(op+": candidate not found", err, "user_id", actorID, "project_id", projectID)
		writeError(w, http.StatusNotFound, "user_not_found", "user not found")
	case errors.Is(err, projectdomain.ErrContributorNotFound):
		h.log.BusinessError(op+": contributor not found", err, "user_id", actorID, "project_id", projectID)
		writeError(w, http.StatusNotFound, "contributor_not_found", "contributor not found")
	case errors.Is(err, projectdomain.ErrForbidden):
		h.log.BusinessError(op+": forbidden", err, "user_id", actorID, "project_id", projectID)
		writeError(w, http.StatusForbidden, "forbidden", "forbidden")
	case errors.Is(err, projectdomain.ErrProjectClosed):
		h.log.BusinessError(op+": project closed", err, "user_id", actorID, "project_id", projectID)
		writeError(w, http.StatusForbidden, "project_closed", "project is not open")
	case errors.Is(err, projectdomain.ErrAlreadyContributor):
		writeError(w, http.StatusForbidden, "already_contributor", "user is already a contributor")
	case errors.Is(err, projectdomain.ErrNotEligible):
		h.log.BusinessError(op+": candidate not eligible", err, "user_id", actorID, "project_id", projectID)
		writeError(w, http.StatusForbidden, "not_eligible", "user cannot be added to a project")
	case errors.Is(err, projectdomain.ErrAuthorImmutable):
		writeError(w, http.StatusForbidden, "author_immutable", "author membership cannot be removed")
	default:
		h.log.InternalError(op+": failed", err, "user_id", actorID, "project_id", projectID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toContributorResponse(row projectdomain.Contributor) contributorResponse {
	return contributorResponse{
		ID:          row.ID,
		UserID:      row.UserID,
		ProjectID:   row.ProjectID,
		Role:        string(row.Role),
		CreatedTime: row.CreatedAt,
	}
}
