// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/foodgram/cliparse"
	"github.com/danielhkuo/foodgram/handlers"
	"github.com/danielhkuo/foodgram/media"
	"github.com/danielhkuo/foodgram/middleware"
	"github.com/danielhkuo/foodgram/recipes"
	"github.com/danielhkuo/foodgram/relations"
	"github.com/danielhkuo/foodgram/shopping"
	"github.com/danielhkuo/foodgram/store"
)

func NewRouter(conn *sqlx.DB, cfg cliparse.Config) http.Handler {
	s := store.New(conn, cfg.MediaURL)
	images := media.NewStore(cfg.MediaDir)
	guard := relations.NewGuard(conn)
	service := recipes.NewService(recipes.NewValidator(s), recipes.NewWriter(conn), s, images)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(s, cfg)
	referenceHandler := handlers.NewReferenceHandler(s)
	recipeHandler := handlers.NewRecipeHandler(s, service, guard, shopping.NewAggregator(conn), cfg)
	subscriptionHandler := handlers.NewSubscriptionHandler(s, guard, cfg)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.WithLogging)
	r.Use(chimw.Recoverer)
	r.Use(chimw.StripSlashes)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Root
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("foodgram API v1"))
	})

	// Uploaded images, when served locally
	if prefix := strings.TrimSuffix(cfg.MediaURL, "/"); cfg.MediaDir != "" && strings.HasPrefix(prefix, "/") {
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(images.Root()))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(s))

		// Accounts and tokens
		r.Post("/users", userHandler.Register)
		r.Get("/users", userHandler.List)
		r.Get("/users/me", middleware.RequireUser(userHandler.Me))
		r.Post("/users/set_password", middleware.RequireUser(userHandler.SetPassword))
		r.Get("/users/{id}", userHandler.Get)
		r.Post("/auth/token/login", userHandler.Login)
		r.Post("/auth/token/logout", middleware.RequireUser(userHandler.Logout))

		// Subscriptions
		r.Get("/users/subscriptions", middleware.RequireUser(subscriptionHandler.List))
		r.Post("/users/{id}/subscribe", middleware.RequireUser(subscriptionHandler.Subscribe))
		r.Delete("/users/{id}/subscribe", middleware.RequireUser(subscriptionHandler.Unsubscribe))

		// Reference data
		r.Get("/tags", referenceHandler.ListTags)
		r.Get("/tags/{id}", referenceHandler.GetTag)
		r.Get("/ingredients", referenceHandler.ListIngredients)
		r.Get("/ingredients/{id}", referenceHandler.GetIngredient)

		// Recipes
		r.Get("/recipes", recipeHandler.List)
		r.Post("/recipes", middleware.RequireUser(recipeHandler.Create))
		r.Get("/recipes/download_shopping_cart", middleware.RequireUser(recipeHandler.DownloadShoppingCart))
		r.Get("/recipes/{id}", recipeHandler.Get)
		r.Patch("/recipes/{id}", middleware.RequireUser(recipeHandler.Update))
		r.Delete("/recipes/{id}", middleware.RequireUser(recipeHandler.Delete))

		// Relations
		r.Post("/recipes/{id}/favorite", middleware.RequireUser(recipeHandler.AddFavorite))
		r.Delete("/recipes/{id}/favorite", middleware.RequireUser(recipeHandler.RemoveFavorite))
		r.Post("/recipes/{id}/shopping_cart", middleware.RequireUser(recipeHandler.AddToCart))
		r.Delete("/recipes/{id}/shopping_cart", middleware.RequireUser(recipeHandler.RemoveFromCart))
	})

	return r
}
