package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the authenticated editor surface and the public
// profile-page lookup.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(ColoredHTTPLoggingMiddleware)

		// Ingestion
		r.Post("/upload-pdf", handlers.uploadHandler.uploadPDF())

		// Profile editor endpoints
		r.Get("/profile", handlers.profileHandler.getProfile())
		r.Get("/profile/exists", handlers.profileHandler.profileExists())
		r.Get("/slug-available", handlers.profileHandler.slugAvailable())
		r.Put("/profile/{profileID}", handlers.profileHandler.updateProfile())
		r.Put("/profile/{profileID}/slug", handlers.profileHandler.updateSlug())
		r.Post("/profile/{profileID}/publish", handlers.profileHandler.togglePublish())
		r.Delete("/profile/{profileID}", handlers.profileHandler.deleteProfile())
	})

	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		// Public profile page lookup; only published profiles resolve
		r.Get("/p/{slug}", handlers.profileHandler.getPublicProfile())
	})
}
