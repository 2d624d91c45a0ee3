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

// SocialHandler holds dependencies for follow and bookmark handlers.
type SocialHandler struct {
	uc     usecase.SocialUsecase
	cfg    *config.Config
	logger *slog.Logger
}

// NewSocialHandler is the constructor for SocialHandler, injected by Fx.
func NewSocialHandler(uc usecase.SocialUsecase, cfg *config.Config, logger *slog.Logger) *SocialHandler {
	return &SocialHandler{uc: uc, cfg: cfg, logger: logger}
}

// Follow handles the follow request.
func (h *SocialHandler) Follow(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	followeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user ID")
	}

	if err := h.uc.Follow(c.Request().Context(), userID, followeeID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, map[string]string{"message": "Now following"}, "Follow successful")
}

// Unfollow handles the unfollow request.
func (h *SocialHandler) Unfollow(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	followeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user ID")
	}

	if err := h.uc.Unfollow(c.Request().Context(), userID, followeeID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Unfollowed"}, "Unfollow successful")
}

// ListFollowers handles listing a user's followers.
func (h *SocialHandler) ListFollowers(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user ID")
	}

	limit, offset := parsePagination(c, h.cfg)

	followers, err := h.uc.ListFollowers(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, followers, "Followers retrieved successfully")
}

// ListFollowing handles listing who a user follows.
func (h *SocialHandler) ListFollowing(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user ID")
	}

	limit, offset := parsePagination(c, h.cfg)

	following, err := h.uc.ListFollowing(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, following, "Following retrieved successfully")
}

// Bookmark handles the bookmark creation request.
func (h *SocialHandler) Bookmark(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid post ID")
	}

	if err := h.uc.BookmarkPost(c.Request().Context(), userID, postID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, map[string]string{"message": "Post bookmarked"}, "Bookmark successful")
}

// Unbookmark handles the bookmark removal request.
func (h *SocialHandler) Unbookmark(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid post ID")
	}

	if err := h.uc.UnbookmarkPost(c.Request().Context(), userID, postID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Bookmark removed"}, "Unbookmark successful")
}

// ListBookmarks handles listing the caller's bookmarks.
func (h *SocialHandler) ListBookmarks(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	limit, offset := parsePagination(c, h.cfg)

	bookmarks, err := h.uc.ListBookmarks(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, bookmarks, "Bookmarks retrieved successfully")
}
