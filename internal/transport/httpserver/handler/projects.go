package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"softdesk-go/internal/domain/access"
	projectdomain "softdesk-go/internal/domain/project"
	"softdesk-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type updateProjectRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	Status      *string `json:"status"`
}

type projectResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	CreatedTime time.Time `json:"created_time"`
}

type projectListResponse struct {
	Items []projectResponse `json:"items"`
	Total int64             `json:"total"`
}

func (h *Handlers) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "title is required")
		return
	}

	actor, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	proj, err := h.Projects.CreateProject(r.Context(), actor, projectdomain.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
	})
	if err != nil {
		h.writeProjectError(w, "projects.create", actor.UserID, "", err)
		return
	}

	writeJSON(w, http.StatusCreated, toProjectResponse(*proj))
}

func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
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

	projects, total, err := h.Projects.ListProjects(r.Context(), actor, limit, offset)
	if err != nil {
		h.log.InternalError("projects.list: list projects failed", err, "user_id", actor.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	items := make([]projectResponse, 0, len(projects))
	for _, proj := range projects {
		items = append(items, toProjectResponse(proj))
	}

	writeJSON(w, http.StatusOK, projectListResponse{Items: items, Total: total})
}

func (h *Handlers) GetProject(w http.ResponseWriter, r *http.Request) {
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

	proj, err := h.Projects.GetProject(r.Context(), actor, projectID)
	if err != nil {
		h.writeProjectError(w, "projects.get", actor.UserID, projectID, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectResponse(*proj))
}

func (h *Handlers) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req updateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
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
	if req.Title == nil && req.Description == nil && req.Type == nil && req.Status == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "no fields to update")
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "title is required")
		return
	}

	var status *access.ProjectStatus
	if req.Status != nil {
		value := access.ProjectStatus(*req.Status)
		status = &value
	}

	proj, err := h.Projects.UpdateProject(r.Context(), actor, projectdomain.UpdateProjectInput{
		ID:          projectID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Status:      status,
	})
	if err != nil {
		h.writeProjectError(w, "projects.update", actor.UserID, projectID, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectResponse(*proj))
}

func (h *Handlers) DeleteProject(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Projects.ArchiveOrCancel(r.Context(), actor, projectID); err != nil {
		h.writeProjectError(w, "projects.delete", actor.UserID, projectID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeProjectError(w http.ResponseWriter, op, actorID, projectID string, err error) {
	switch {
	case errors.Is(err, projectdomain.ErrProjectNotFound):
		h.log.BusinessError(op+": project not found", err, "user_id", actorID, "project_id", projectID)
		writeError(w, http.StatusNotFound, "project_not_found", "project not found")
	case errors.Is(err, projectdomain.ErrForbidden):
		h.log.BusinessError(op+": forbidden", err, "user_id", actorID, "project_id", projectID)
		writeError(w, http.StatusForbidden, "forbidden", "forbidden")
	case errors.Is(err, projectdomain.ErrProjectClosed):
		h.log.BusinessError(op+": project closed", err, "user_id", actorID, "project_id", projectID)
		writeError(w, http.StatusForbidden, "project_closed", "project is not open")
	case errors.Is(err, projectdomain.ErrInvalidType):
		writeError(w, http.StatusBadRequest, "invalid_type", "unknown project type")
	case errors.Is(err, projectdomain.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status", "unknown project status")
	default:
		h.log.InternalError(op+": failed", err, "user_id", actorID, "project_id", projectID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toProjectResponse(proj projectdomain.Project) projectResponse {
	return projectResponse{
		ID:          proj.ID,
		Title:       proj.Title,
		Description: proj.Description,
		Type:        proj.Type,
		Status:      string(proj.Status),
		CreatedTime: proj.CreatedAt,
	}
}
