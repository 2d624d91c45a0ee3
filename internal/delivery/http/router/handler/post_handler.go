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

// PostHandler holds dependencies for post CRUD handlers.
type PostHandler struct {
	uc     usecase.PostUsecase
	cfg    *config.Config
	logger *slog.Logger
}

// NewPostHandler is the constructor for PostHandler, injected by Fx.
func NewPostHandler(uc usecase.PostUsecase, cfg *config.Config, logger *slog.Logger) *PostHandler {
	return &PostHandler{uc: uc, cfg: cfg, logger: logger}
}

type postRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"required"`
}

// Create handles the post creation request.
func (h *PostHandler) Create(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	var req postRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid post input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BindingError(c, "VALIDATION_FAILED", "Invalid post input")
	}

	post, err := h.uc.CreatePost(c.Request().Context(), &usecase.CreatePostInput{
		AuthorID: userID,
		Title:    req.Title,
		Body:     req.Body,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, post, "Post created successfully")
}

// Get handles the single post retrieval request.
func (h *PostHandler) Get(c echo.Context) error {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid post ID")
	}

	post, err := h.uc.GetPost(c.Request().Context(), postID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, post, "Post retrieved successfully")
}

// ListByAuthor handles listing an author's posts.
func (h *PostHandler) ListByAuthor(c echo.Context) error {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user ID")
	}

	limit, offset := parsePagination(c, h.cfg)

	posts, err := h.uc.ListPostsByAuthor(c.Request().Context(), authorID, limit, offset)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, posts, "Posts retrieved successfully")
}

// Update handles the post update request.
func (h *PostHandler) Update(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid post ID")
	}

	var req postRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid post input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BindingError(c, "VALIDATION_FAILED", "Invalid post input")
	}

	post, err := h.uc.UpdatePost(c.Request().Context(), &usecase.UpdatePostInput{
		PostID:   postID,
		AuthorID: userID,
		Title:    req.Title,
		Body:     req.Body,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, post, "Post updated successfully")
}

// Delete handles the post deletion request.
func (h *PostHandler) Delete(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid post ID")
	}

	if err := h.uc.DeletePost(c.Request().Context(), postID, userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Post deleted"}, "Post deleted successfully")
}
