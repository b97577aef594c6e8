package router

import (
	"parkade/internal/handlers/auth"
	"parkade/internal/handlers/booking"
	"parkade/internal/handlers/listing"
	"parkade/internal/handlers/marketplace"
	"parkade/internal/handlers/user"
	"parkade/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth        auth.Handler
	Marketplace marketplace.Handler
	Booking     booking.Handler
	Listing     listing.Handler
	User        user.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	Auth           middleware.Auth
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)

		// The marketplace view is public; a session only adds the owned bucket.
		routerGroup.Group(func(public chi.Router) {
			public.Use(r.Auth.Optional)
			r.DomainHandlers.Marketplace.Router(public)
			r.DomainHandlers.Listing.Router(public)
			r.DomainHandlers.User.Router(public)
		})

		routerGroup.Group(func(private chi.Router) {
			private.Use(r.Auth.Required)
			r.DomainHandlers.Booking.Router(private)
		})
	})
}

func New(domainHandlers DomainHandlers, auth middleware.Auth) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Auth:           auth,
	}
}
