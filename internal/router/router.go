// Package router wires HTTP routes to their handlers and access rules.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Kiraws/ExploreTogoBack/internal/handler"
	"github.com/Kiraws/ExploreTogoBack/internal/middleware"
)

// Handlers groups every handler the router needs.
type Handlers struct {
	Auth          *handler.AuthHandler
	Venues        *handler.VenueHandler
	ImagesH       *handler.ImageHandler
	Reservations  *handler.ReservationHandler
	Social        *handler.SocialHandler
	Notifications *handler.NotificationHandler
	Menus         *handler.MenuHandler
}

// Register sets up all routes. Public venue reads optionally go
// through the response cache middleware; everything mutating requires
// a JWT, and venue management additionally requires the gerant or
// admin role.
func Register(e *echo.Echo, h Handlers, jwtSecret string, cache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	// ----- auth -----
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)
	auth.POST("/forgot-password", h.Auth.ForgotPassword)
	auth.POST("/reset-password", h.Auth.ResetPassword)

	jwt := middleware.JWTAuth(jwtSecret)
	anyRole := middleware.RequireRole(
		middleware.RoleAdmin, middleware.RoleGerant, middleware.RoleUtilisateur)
	manage := middleware.RequireRole(middleware.RoleAdmin, middleware.RoleGerant)

	// ----- account -----
	me := e.Group("/v1/me", jwt, anyRole)
	me.GET("", h.Auth.Profile)
	me.PUT("", h.Auth.UpdateProfile)
	me.DELETE("", h.Auth.DeleteAccount)
	me.GET("/reservations", h.Reservations.ListMine)
	me.GET("/favoris", h.Social.ListFavorites)
	me.GET("/likes", h.Social.ListLikes)
	me.GET("/notifications", h.Notifications.List)

	// ----- public venue reads -----
	public := e.Group("/v1")
	if cache != nil {
		public.Use(cache)
	}
	public.GET("/lieux", h.Venues.List)
	public.GET("/lieux/:id", h.Venues.GetByID)
	public.GET("/lieux/:id/images", h.ImagesH.List)
	public.GET("/lieux/:id/menus", h.Menus.ListMenus)
	public.GET("/categories/:categorieId/plats", h.Menus.ListPlatsByCategorie)

	// ----- venue management (gerant/admin) -----
	lieux := e.Group("/v1/lieux", jwt, manage)
	lieux.POST("", h.Venues.Create)
	lieux.PUT("/:id", h.Venues.Update)
	lieux.PATCH("/:id/desactiver", h.Venues.Desactivate)
	lieux.DELETE("/:id", h.Venues.Delete)
	lieux.POST("/:id/images", h.ImagesH.Add)
	lieux.DELETE("/:id/images", h.ImagesH.Remove)

	// ----- menus (gerant/admin) -----
	lieux.POST("/:id/menus", h.Menus.CreateMenu)
	menus := e.Group("/v1/menus", jwt, manage)
	menus.PUT("/:menuId", h.Menus.UpdateMenu)
	menus.DELETE("/:menuId", h.Menus.DeleteMenu)
	menus.POST("/:menuId/categories", h.Menus.CreateCategorie)
	categories := e.Group("/v1/categories", jwt, manage)
	categories.DELETE("/:categorieId", h.Menus.DeleteCategorie)
	categories.POST("/:categorieId/plats", h.Menus.CreatePlat)
	plats := e.Group("/v1/plats", jwt, manage)
	plats.PUT("/:platId", h.Menus.UpdatePlat)
	plats.DELETE("/:platId", h.Menus.DeletePlat)

	// ----- social (any authenticated user) -----
	social := e.Group("/v1/lieux/:id", jwt, anyRole)
	social.POST("/like", h.Social.Like)
	social.DELETE("/like", h.Social.Unlike)
	social.POST("/favoris", h.Social.Favorite)
	social.DELETE("/favoris", h.Social.Unfavorite)

	// ----- reservations -----
	reservations := e.Group("/v1/reservations", jwt, anyRole)
	reservations.POST("", h.Reservations.Create)
	reservations.PATCH("/:id/statut", h.Reservations.UpdateStatus)
	reservations.DELETE("/:id", h.Reservations.Delete)
	e.GET("/v1/lieux/:id/reservations", h.Reservations.ListByLieu, jwt, manage)

	// ----- notifications -----
	notifications := e.Group("/v1/notifications", jwt, anyRole)
	notifications.POST("", h.Notifications.Create, middleware.RequireRole(middleware.RoleAdmin))
	notifications.PATCH("/:id/lue", h.Notifications.MarkRead)
	notifications.PATCH("/lues", h.Notifications.MarkAllRead)
	notifications.DELETE("/:id", h.Notifications.Delete)
}
