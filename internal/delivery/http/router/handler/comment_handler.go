package handler

import (
	"log/slog"
	"net/http"

	"plume/config"
	"plume/internal/delivery/http/middleware"
	"plume/internal/delivery/http/response"
	"plume/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CommentHandler holds dependencies for comment handlers.
type CommentHandler struct {
	uc     usecase.CommentUsecase
	cfg    *config.Config
	logger *slog.Logger
}

// NewCommentHandler is the constructor for CommentHandler, injected by Fx.
func NewCommentHandler(uc usecase.CommentUsecase, cfg *config.Config, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{uc: uc, cfg: cfg, logger: logger}
}

type commentRequest struct {
	Body     string `json:"body" validate:"required"`
	ParentID string `json:"parentId" validate:"omitempty,uuid"`
}

// Create handles commenting on a post, optionally as a reply.
func (h *CommentHandler) Create(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid post ID")
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid comment input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BindingError(c, "VALIDATION_FAILED", "Invalid comment input")
	}

	input := &usecase.CreateCommentInput{
		PostID:   postID,
		AuthorID: userID,
		Body:     req.Body,
	}
	if req.ParentID != "" {
		parentID, parseErr := uuid.Parse(req.ParentID)
		if parseErr != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid parent comment ID")
		}
		input.ParentID = &parentID
	}

	comment, err := h.uc.CreateComment(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, comment, "Comment created successfully")
}

// List handles listing a post's comments in threaded order.
func (h *CommentHandler) List(c echo.Context) error {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid post ID")
	}

	limit, offset := parsePagination(c, h.cfg)

	comments, err := h.uc.ListComments(c.Request().Context(), postID, limit, offset)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, comments, "Comments retrieved successfully")
}

// Delete handles the comment deletion request.
func (h *CommentHandler) Delete(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid comment ID")
	}

	if err := h.uc.DeleteComment(c.Request().Context(), commentID, userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Comment deleted"}, "Comment deleted successfully")
}
