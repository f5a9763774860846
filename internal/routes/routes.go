package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/tastebase/recipe-api/internal/config"
	"github.com/tastebase/recipe-api/internal/handlers"
	"github.com/tastebase/recipe-api/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	userHandler *handlers.UserHandler,
	tagHandler *handlers.TagHandler,
	ingredientHandler *handlers.IngredientHandler,
	recipeHandler *handlers.RecipeHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Uploaded recipe images.
	app.Static("/media", cfg.MediaRoot)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// User registration and token exchange are public, with a stricter
	// rate limit: 10 req/min per IP.
	user := api.Group("/user")
	user.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	user.Post("/create", userHandler.Create)
	user.Post("/token", userHandler.Token)
	user.Post("/token/refresh", userHandler.Refresh)

	// Current-user profile (JWT required).
	api.Get("/user/me", middleware.JWTProtected(cfg), userHandler.Me)
	api.Patch("/user/me", middleware.JWTProtected(cfg), userHandler.UpdateMe)
	api.Delete("/user/me", middleware.JWTProtected(cfg), userHandler.DeleteMe)

	// Everything under /recipe requires authentication.
	recipe := api.Group("/recipe", middleware.JWTProtected(cfg))

	recipe.Get("/tags", tagHandler.List)
	recipe.Post("/tags", tagHandler.Create)
	recipe.Put("/tags/:id", tagHandler.Update)
	recipe.Patch("/tags/:id", tagHandler.Update)
	recipe.Delete("/tags/:id", tagHandler.Delete)

	recipe.Get("/ingredients", ingredientHandler.List)
	recipe.Post("/ingredients", ingredientHandler.Create)
	recipe.Put("/ingredients/:id", ingredientHandler.Update)
	recipe.Patch("/ingredients/:id", ingredientHandler.Update)
	recipe.Delete("/ingredients/:id", ingredientHandler.Delete)

	recipe.Get("/recipes", recipeHandler.List)
	recipe.Post("/recipes", recipeHandler.Create)
	recipe.Get("/recipes/:id", recipeHandler.Get)
	recipe.Put("/recipes/:id", recipeHandler.Replace)
	recipe.Patch("/recipes/:id", recipeHandler.Patch)
	recipe.Delete("/recipes/:id", recipeHandler.Delete)
	recipe.Post("/recipes/:id/image", recipeHandler.UploadImage)

	// Staff-only operational endpoints.
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.StaffRequired(db))
	admin.Get("/logs", adminHandler.ListLogs)
}
