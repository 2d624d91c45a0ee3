// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"plume/internal/delivery/http/middleware"
	"plume/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler      *handler.AccountHandler
	PostHandler         *handler.PostHandler
	CommentHandler      *handler.CommentHandler
	SocialHandler       *handler.SocialHandler
	NotificationHandler *handler.NotificationHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler      *handler.AccountHandler
	postHandler         *handler.PostHandler
	commentHandler      *handler.CommentHandler
	socialHandler       *handler.SocialHandler
	notificationHandler *handler.NotificationHandler
	authMiddleware      *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler:      params.AccountHandler,
		postHandler:         params.PostHandler,
		commentHandler:      params.CommentHandler,
		socialHandler:       params.SocialHandler,
		notificationHandler: params.NotificationHandler,
		authMiddleware:      params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Account lifecycle routes, no authentication required
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.accountHandler.Register)
		authGroup.POST("/login", r.accountHandler.Login)
		authGroup.POST("/refresh", r.accountHandler.RefreshToken)
		authGroup.POST("/logout", r.accountHandler.Logout)
		authGroup.POST("/forgot-password", r.accountHandler.ForgotPassword)
		authGroup.POST("/reset-password", r.accountHandler.ResetPassword)
		authGroup.POST("/verify-email", r.accountHandler.VerifyEmail)
		authGroup.POST("/resend-verification", r.accountHandler.ResendVerification)
	}

	// Public read routes
	e.GET("/posts/:id", r.postHandler.Get)
	e.GET("/posts/:id/comments", r.commentHandler.List)
	e.GET("/users/:id/posts", r.postHandler.ListByAuthor)
	e.GET("/users/:id/followers", r.socialHandler.ListFollowers)
	e.GET("/users/:id/following", r.socialHandler.ListFollowing)

	// Writes require a valid access token
	postGroup := e.Group("/posts")
	postGroup.Use(r.authMiddleware.Authenticate)
	{
		postGroup.POST("", r.postHandler.Create)
		postGroup.PUT("/:id", r.postHandler.Update)
		postGroup.DELETE("/:id", r.postHandler.Delete)
		postGroup.POST("/:id/comments", r.commentHandler.Create)
		postGroup.POST("/:id/bookmark", r.socialHandler.Bookmark)
		postGroup.DELETE("/:id/bookmark", r.socialHandler.Unbookmark)
	}

	commentGroup := e.Group("/comments")
	commentGroup.Use(r.authMiddleware.Authenticate)
	{
		commentGroup.DELETE("/:id", r.commentHandler.Delete)
	}

	userGroup := e.Group("/users")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.POST("/:id/follow", r.socialHandler.Follow)
		userGroup.DELETE("/:id/follow", r.socialHandler.Unfollow)
	}

	bookmarkGroup := e.Group("/bookmarks")
	bookmarkGroup.Use(r.authMiddleware.Authenticate)
	{
		bookmarkGroup.GET("", r.socialHandler.ListBookmarks)
	}

	notificationGroup := e.Group("/notifications")
	notificationGroup.Use(r.authMiddleware.Authenticate)
	{
		notificationGroup.GET("", r.notificationHandler.List)
		notificationGroup.GET("/unread-count", r.notificationHandler.CountUnread)
		notificationGroup.POST("/:id/read", r.notificationHandler.MarkRead)
	}
}
