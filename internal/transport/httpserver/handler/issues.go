package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"softdesk-go/internal/domain/access"
	issuedomain "softdesk-go/internal/domain/issue"
	"softdesk-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createIssueRequest struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Tag            string  `json:"tag"`
	Priority       string  `json:"priority"`
	Status         string  `json:"status"`
	AssigneeUserID *string `json:"assignee_user_id"`
}

type updateIssueRequest struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	Tag            *string `json:"tag"`
	Priority       *string `json:"priority"`
	AssigneeUserID *string `json:"assignee_user_id"`
	ClearAssignee  bool    `json:"clear_assignee"`
}

type updateIssueStatusRequest struct {
	Status string `json:"status"`
}

type issueResponse struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"project_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Tag            string    `json:"tag"`
	Priority       string    `json:"priority"`
	Status         string    `json:"status"`
	AuthorUserID   *string   `json:"author_user_id"`
	AssigneeUserID *string   `json:"assignee_user_id"`
	CreatedTime    time.Time `json:"created_time"`
}

type issueListResponse struct {
	Items []issueResponse `json:"items"`
	Total int64           `json:"total"`
}

func (h *Handlers) CreateIssue(w http.ResponseWriter, r *http.Request) {
	var req createIssueRequest
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

	projectID := strings.TrimSpace(chi.URLParam(r, "project_id"))
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "project_id is required")
		return
	}

	record, err := h.Issues.CreateIssue(r.Context(), actor, issuedomain.CreateIssueInput{
		ProjectID:      projectID,
		Title:          req.Title,
		Description:    req.Description,
		Tag:            req.Tag,
		Priority:       req.Priority,
		Status:         access.IssueStatus(req.Status),
		AssigneeUserID: req.AssigneeUserID,
	})
	if err != nil {
		h.writeIssueError(w, "issues.create", actor.UserID, projectID, "", err)
		return
	}

	writeJSON(w, http.StatusCreated, toIssueResponse(*record))
}

func (h *Handlers) ListIssues(w http.ResponseWriter, r *http.Request) {
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

	issues, total, err := h.Issues.ListIssues(r.Context(), actor, projectID, limit, offset)
	if err != nil {
		h.writeIssueError(w, "issues.list", actor.UserID, projectID, "", err)
		return
	}

	items := make([]issueResponse, 0, len(issues))
	for _, record := range issues {
		items = append(items, toIssueResponse(record))
	}

	writeJSON(w, http.StatusOK, issueListResponse{Items: items, Total: total})
}

func (h *Handlers) GetIssue(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	projectID := strings.TrimSpace(chi.URLParam(r, "project_id"))
	issueID := strings.TrimSpace(chi.URLParam(r, "issue_id"))
	if projectID == "" || issueID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "project_id and issue_id are required")
		return
	}

	record, err := h.Issues.GetIssue(r.Context(), actor, projectID, issueID)
	if err != nil {
		h.writeIssueError(w, "issues.get", actor.UserID, projectID, issueID, err)
		return
	}

	writeJSON(w, http.StatusOK, toIssueResponse(*record))
}

func (h *Handlers) UpdateIssue(w http.ResponseWriter, r *http.Request) {
	var req updateIssueRequest
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
	issueID := strings.TrimSpace(chi.URLParam(r, "issue_id"))
	if projectID == "" || issueID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "project_id and issue_id are required")
		return
	}
	if req.Title == nil && req.Description == nil && req.Tag == nil && req.Priority == nil &&
		req.AssigneeUserID == nil && !req.ClearAssignee {
		writeError(w, http.StatusBadRequest, "invalid_request", "no fields to update")
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "title is required")
		return
	}

	record, err := h.Issues.UpdateIssue(r.Context(), actor, issuedomain.UpdateIssueInput{
		ProjectID:      projectID,
		IssueID:        issueID,
		Title:          req.Title,
		Description:    req.Description,
		Tag:            req.Tag,
		Priority:       req.Priority,
		AssigneeUserID: req.AssigneeUserID,
		ClearAssignee:  req.ClearAssignee,
	})
	if err != nil {
		h.writeIssueError(w, "issues.update", actor.UserID, projectID, issueID, err)
		return
	}

	writeJSON(w, http.StatusOK, toIssueResponse(*record))
}

func (h *Handlers) UpdateIssueStatus(w http.ResponseWriter, r *http.Request) {
	var req updateIssueStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "status is required")
		return
	}

	actor, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	projectID := strings.TrimSpace(chi.URLParam(r, "project_id"))
	issueID := strings.TrimSpace(chi.URLParam(r, "issue_id"))
	if projectID == "" || issueID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "project_id and issue_id are required")
		return
	}

	record, err := h.Issues.UpdateStatus(r.Context(), actor, projectID, issueID, access.IssueStatus(req.Status))
	if err != nil {
		h.writeIssueError(w, "issues.update_status", actor.UserID, projectID, issueID, err)
		return
	}

	writeJSON(w, http.StatusOK, toIssueResponse(*record))
}

func (h *Handlers) FinishIssue(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	projectID := strings.TrimSpace(chi.URLParam(r, "project_id"))
	issueID := strings.TrimSpace(chi.URLParam(r, "issue_id"))
	if projectID == "" || issueID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "project_id and issue_id are required")
		return
	}

	if err := h.Issues.Finish(r.Context(), actor, projectID, issueID); err != nil {
		h.writeIssueError(w, "issues.finish", actor.UserID, projectID, issueID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeIssueError(w http.ResponseWriter, op, actorID, projectID, issueID string, err error) {
	switch {
	case errors.Is(err, issuedomain.ErrProjectNotFound):
		h.log.BusinessError(op+": project not found", err, "user_id", actorID, "project_id", projectID)
		writeError(w, http.StatusNotFound, "project_not_found", "project not found")
	case errors.Is(err, issuedomain.ErrIssueNotFound):
		h.log.BusinessError(op+": issue not found", err, "user_id", actorID, "project_id", projectID, "issue_id", issueID)
		writeError(w, http.StatusNotFound, "issue_not_found", "issue not found")
	case errors.Is(err, issuedomain.ErrForbidden):
		h.log.BusinessError(op+": forbidden", err, "user_id", actorID, "project_id", projectID, "issue_id", issueID)
		writeError(w, http.StatusForbidden, "forbidden", "forbidden")
	case errors.Is(err, issuedomain.ErrProjectClosed):
		h.log.BusinessError(op+": project closed", err, "user_id", actorID, "project_id", projectID)
		writeError(w, http.StatusForbidden, "project_closed", "project is not open")
	case errors.Is(err, issuedomain.ErrIssueNotMutable):
		h.log.BusinessError(op+": issue finished", err, "user_id", actorID, "project_id", projectID, "issue_id", issueID)
		writeError(w, http.StatusForbidden, "issue_finished", "issue is finished")
	case errors.Is(err, issuedomain.ErrAssigneeNotContributor):
		writeError(w, http.StatusForbidden, "assignee_not_contributor", "assignee is not a contributor of the project")
	case errors.Is(err, issuedomain.ErrInvalidTag):
		writeError(w, http.StatusBadRequest, "invalid_tag", "unknown issue tag")
	case errors.Is(err, issuedomain.ErrInvalidPriority):
		writeError(w, http.StatusBadRequest, "invalid_priority", "unknown issue priority")
	case errors.Is(err, issuedomain.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status", "unknown issue status")
	default:
		h.log.InternalError(op+": failed", err, "user_id", actorID, "project_id", projectID, "issue_id", issueID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toIssueResponse(record issuedomain.Issue) issueResponse {
	return issueResponse{
		ID:             record.ID,
		ProjectID:      record.ProjectID,
		Title:          record.Title,
		Description:    record.Description,
		Tag:            record.Tag,
		Priority:       record.Priority,
		Status:         string(record.Status),
		AuthorUserID:   record.AuthorUserID,
		AssigneeUserID: record.AssigneeUserID,
		CreatedTime:    record.CreatedAt,
	}
}
