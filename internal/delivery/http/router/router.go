// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"shop/internal/delivery/http/middleware"
	"shop/internal/delivery/http/router/handler"
	"shop/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	MemberHandler  *handler.MemberHandler
	OAuthHandler   *handler.OAuthHandler
	ItemHandler    *handler.ItemHandler
	CartHandler    *handler.CartHandler
	OrderHandler   *handler.OrderHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	memberHandler  *handler.MemberHandler
	oauthHandler   *handler.OAuthHandler
	itemHandler    *handler.ItemHandler
	cartHandler    *handler.CartHandler
	orderHandler   *handler.OrderHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		memberHandler:  params.MemberHandler,
		oauthHandler:   params.OAuthHandler,
		itemHandler:    params.ItemHandler,
		cartHandler:    params.CartHandler,
		orderHandler:   params.OrderHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.memberHandler.Register)
		authGroup.POST("/login", r.memberHandler.Login)
	}

	oauthGroup := e.Group("/oauth")
	{
		oauthGroup.GET("/:provider/login", r.oauthHandler.Login)
		oauthGroup.GET("/:provider/callback", r.oauthHandler.Callback)
		oauthGroup.POST("/google/token", r.oauthHandler.GoogleIDToken)
	}

	apiV1 := e.Group("/api/v1")

	// Storefront, no login required
	itemGroup := apiV1.Group("/items")
	{
		itemGroup.GET("", r.itemHandler.SearchMainItems)
		itemGroup.GET("/:id", r.itemHandler.GetItem)
		itemGroup.GET("/:id/qr", r.itemHandler.ItemQRCode)
		itemGroup.POST("/qr/resolve", r.itemHandler.ResolveItemQR)
	}

	adminGroup := apiV1.Group("/admin", r.authMiddleware.Authenticate, r.authMiddleware.RequireRole(entity.RoleAdmin))
	{
		adminGroup.POST("/items", r.itemHandler.RegisterItem)
		adminGroup.PUT("/items/:id", r.itemHandler.UpdateItem)
		adminGroup.GET("/items", r.itemHandler.SearchAdminItems)
	}

	cartGroup := apiV1.Group("/cart", r.authMiddleware.Authenticate)
	{
		cartGroup.GET("", r.cartHandler.ListCart)
		cartGroup.POST("/items", r.cartHandler.AddToCart)
		cartGroup.PATCH("/items/:id", r.cartHandler.UpdateCartItem)
		cartGroup.DELETE("/items/:id", r.cartHandler.DeleteCartItem)
		cartGroup.POST("/orders", r.cartHandler.OrderCartItems)
	}

	orderGroup := apiV1.Group("/orders", r.authMiddleware.Authenticate)
	{
		orderGroup.POST("", r.orderHandler.PlaceOrder)
		orderGroup.GET("", r.orderHandler.History)
		orderGroup.POST("/:id/cancel", r.orderHandler.CancelOrder)
	}
}
