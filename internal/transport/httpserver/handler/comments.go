package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	commentdomain "softdesk-go/internal/domain/comment"
	"softdesk-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createCommentRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateCommentRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type commentResponse struct {
	ID           string    `json:"id"`
	UUID         string    `json:"uuid"`
	IssueID      string    `json:"issue_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	AuthorUserID string    `json:"author_user_id"`
	CreatedTime  time.Time `json:"created_time"`
}

type commentListResponse struct {
	Items []commentResponse `json:"items"`
	Total int64             `json:"total"`
}

func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
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
	issueID := strings.TrimSpace(chi.URLParam(r, "issue_id"))
	if projectID == "" || issueID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "project_id and issue_id are required")
		return
	}

	record, err := h.Comments.CreateComment(r.Context(), actor, commentdomain.CreateCommentInput{
		ProjectID:   projectID,
		IssueID:     issueID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.writeCommentError(w, "comments.create", actor.UserID, projectID, issueID, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCommentResponse(*record))
}

func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
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

	comments, total, err := h.Comments.ListComments(r.Context(), actor, projectID, issueID, limit, offset)
	if err != nil {
		h.writeCommentError(w, "comments.list", actor.UserID, projectID, issueID, err)
		return
	}

	items := make([]commentResponse, 0, len(comments))
	for _, record := range comments {
		items = append(items, toCommentResponse(record))
	}

	writeJSON(w, http.StatusOK, commentListResponse{Items: items, Total: total})
}

func (h *Handlers) GetComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	projectID := strings.TrimSpace(chi.URLParam(r, "project_id"))
	issueID := strings.TrimSpace(chi.URLParam(r, "issue_id"))
	commentID := strings.TrimSpace(chi.URLParam(r, "comment_id"))
	if projectID == "" || issueID == "" || commentID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "project_id, issue_id and comment_id are required")
		return
	}

	record, err := h.Comments.GetComment(r.Context(), actor, projectID, issueID, commentID)
	if err != nil {
		h.writeCommentError(w, "comments.get", actor.UserID, projectID, issueID, err)
		return
	}

	writeJSON(w, http.StatusOK, toCommentResponse(*record))
}

func (h *Handlers) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var req updateCommentRequest
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
	commentID := strings.TrimSpace(chi.URLParam(r, "comment_id"))
	if projectID == "" || issueID == "" || commentID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "project_id, issue_id and comment_id are required")
		return
	}
	if req.Title == nil && req.Description == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "no fields to update")
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "title is required")
		return
	}

	record, err := h.Comments.UpdateComment(r.Context(), actor, commentdomain.UpdateCommentInput{
		ProjectID:   projectID,
		IssueID:     issueID,
		CommentID:   commentID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.writeCommentError(w, "comments.update", actor.UserID, projectID, issueID, err)
		return
	}

	writeJSON(w, http.StatusOK, toCommentResponse(*record))
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	projectID := strings.TrimSpace(chi.URLParam(r, "project_id"))
	issueID := strings.TrimSpace(chi.URLParam(r, "issue_id"))
	commentID := strings.TrimSpace(chi.URLParam(r, "comment_id"))
	if projectID == "" || issueID == "" || commentID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "project_id, issue_id and comment_id are required")
		return
	}

	if err := h.Comments.DeleteComment(r.Context(), actor, projectID, issueID, commentID); err != nil {
		h.writeCommentError(w, "comments.delete", actor.UserID, projectID, issueID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeCommentError(w http.ResponseWriter, op, actorID, projectID, issueID string, err error) {
	switch {
	case errors.Is(err, commentdomain.ErrProjectNotFound):
		h.log.BusinessError(op+": project not found", err, "user_id", actorID, "project_id", projectID)
		writeError(w, http.StatusNotFound, "project_not_found", "project not found")
	case errors.Is(err, commentdomain.ErrIssueNotFound):
		h.log.BusinessError(op+": issue not found", err, "user_id", actorID, "project_id", projectID, "issue_id", issueID)
		writeError(w, http.StatusNotFound, "issue_not_found", "issue not found")
	case errors.Is(err, commentdomain.ErrCommentNotFound):
		h.log.BusinessError(op+": comment not found", err, "user_id", actorID, "project_id", projectID, "issue_id", issueID)
		writeError(w, http.StatusNotFound, "comment_not_found", "comment not found")
	case errors.Is(err, commentdomain.ErrForbidden):
		h.log.BusinessError(op+": forbidden", err, "user_id", actorID, "project_id", projectID, "issue_id", issueID)
		writeError(w, http.StatusForbidden, "forbidden", "forbidden")
	case errors.Is(err, commentdomain.ErrProjectClosed):
		h.log.BusinessError(op+": project closed", err, "user_id", actorID, "project_id", projectID)
		writeError(w, http.StatusForbidden, "project_closed", "project is not open")
	default:
		h.log.InternalError(op+": failed", err, "user_id", actorID, "project_id", projectID, "issue_id", issueID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toCommentResponse(record commentdomain.Comment) commentResponse {
	return commentResponse{
		ID:           record.ID,
		UUID:         record.UUID,
		IssueID:      record.IssueID,
		Title:        record.Title,
		Description:  record.Description,
		AuthorUserID: record.AuthorUserID,
		CreatedTime:  record.CreatedAt,
	}
}
