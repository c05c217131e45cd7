package routes

import (
	"time"

	"pustaka-api/internal/adapters/http/handlers"
	"pustaka-api/internal/adapters/http/middleware"
	"pustaka-api/internal/adapters/persistence/repositories"
	"pustaka-api/internal/config"
	"pustaka-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	bookRepo := repositories.NewBookRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)

	// Master repositories
	genreRepo := repositories.NewGenreRepository(db)
	authorRepo := repositories.NewAuthorRepository(db)
	locationRepo := repositories.NewLocationRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	bookService := services.NewBookService(bookRepo, reviewRepo)
	reviewService := services.NewReviewService(reviewRepo, bookRepo)
	loanService := services.NewLoanService(loanRepo, bookRepo, cfg.Library.Rules())

	snapClient := services.NewSnapClient(services.SnapConfig{
		ServerKey:    cfg.Midtrans.ServerKey,
		ClientKey:    cfg.Midtrans.ClientKey,
		IsProduction: cfg.Midtrans.IsProduction,
	})
	paymentService := services.NewPaymentService(loanRepo, snapClient)

	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	bookHandler := handlers.NewBookHandler(bookService, reviewService)
	loanHandler := handlers.NewLoanHandler(loanService)
	loanAdminHandler := handlers.NewLoanAdminHandler(loanService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	masterHandler := handlers.NewMasterHandler(genreRepo, authorRepo, locationRepo)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, userHandler, bookHandler,
		loanHandler, loanAdminHandler, paymentHandler, masterHandler,
		dashboardHandler, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	bookHandler *handlers.BookHandler,
	loanHandler *handlers.LoanHandler,
	loanAdminHandler *handlers.LoanAdminHandler,
	paymentHandler *handlers.PaymentHandler,
	masterHandler *handlers.MasterHandler,
	dashboardHandler *handlers.DashboardHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Public catalog: browse without login, short cache on master lists
	router.Get("/books", bookHandler.List)
	router.Get("/books/:id", bookHandler.Get)
	router.Get("/genres", middleware.CacheControl(10*time.Minute), masterHandler.ListGenres)
	router.Get("/authors", middleware.CacheControl(10*time.Minute), masterHandler.ListAuthors)
	router.Get("/locations", middleware.CacheControl(10*time.Minute), masterHandler.ListLocations)

	// Payment gateway webhook (public, the gateway calls it)
	router.Post("/payments/notification", paymentHandler.Notification)

	// Reviews (authenticated members)
	router.Post("/books/:id/reviews", middleware.AuthMiddleware(cfg), bookHandler.SubmitReview)

	// Loan routes (authenticated members)
	loanRoutes := router.Group("/loans")
	loanRoutes.Use(middleware.AuthMiddleware(cfg))
	setupLoanRoutes(loanRoutes, loanHandler, paymentHandler)

	// Profile routes (authenticated users)
	profileRoutes := router.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	setupProfileRoutes(profileRoutes, userHandler)

	// User management routes (Admin only)
	userRoutes := router.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Use(middleware.AdminOnly())
	setupUserRoutes(userRoutes, userHandler)

	// Admin routes (Admin only)
	adminRoutes := router.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.AdminOnly())
	setupAdminRoutes(adminRoutes, bookHandler, loanAdminHandler, masterHandler, dashboardHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes, rate limited against brute force
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupLoanRoutes configures member loan routes
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler, paymentHandler *handlers.PaymentHandler) {
	router.Post("/", handler.RequestLoan)
	router.Get("/my", handler.MyLoans)
	router.Get("/summary", handler.Summary)
	router.Delete("/:id", handler.Cancel)
	router.Post("/:id/pay", paymentHandler.CreateFinePayment)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/", handler.UpdateProfile)
	router.Put("/password", handler.ChangePassword)
}

// setupUserRoutes configures user management routes (Admin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.ListUsers)
	router.Get("/:id", handler.GetUser)
	router.Put("/:id", handler.UpdateUser)
	router.Delete("/:id", handler.DeleteUser)
}

// setupAdminRoutes configures the librarian console (Admin only)
func setupAdminRoutes(
	router fiber.Router,
	bookHandler *handlers.BookHandler,
	loanAdminHandler *handlers.LoanAdminHandler,
	masterHandler *handlers.MasterHandler,
	dashboardHandler *handlers.DashboardHandler,
) {
	// Dashboard
	router.Get("/dashboard", dashboardHandler.GetAdminDashboard)

	// Catalog management
	router.Post("/books", bookHandler.Create)
	router.Put("/books/:id", bookHandler.Update)
	router.Delete("/books/:id", bookHandler.Delete)

	// Loan console; batch routes before :id so they are not captured
	router.Get("/loans", loanAdminHandler.List)
	router.Post("/loans/approve-batch", loanAdminHandler.ApproveBatch)
	router.Post("/loans/reject-batch", loanAdminHandler.RejectBatch)
	router.Post("/loans/return-batch", loanAdminHandler.ReturnBatch)
	router.Get("/loans/:id", loanAdminHandler.Get)
	router.Post("/loans/:id/approve", loanAdminHandler.Approve)
	router.Post("/loans/:id/reject", loanAdminHandler.Reject)
	router.Post("/loans/:id/return", loanAdminHandler.Return)
	router.Post("/loans/:id/mark-paid", loanAdminHandler.MarkPaid)

	// Master data
	router.Post("/genres", masterHandler.CreateGenre)
	router.Put("/genres/:id", masterHandler.UpdateGenre)
	router.Delete("/genres/:id", masterHandler.DeleteGenre)
	router.Post("/authors", masterHandler.CreateAuthor)
	router.Put("/authors/:id", masterHandler.UpdateAuthor)
	router.Delete("/authors/:id", masterHandler.DeleteAuthor)
	router.Post("/locations", masterHandler.CreateLocation)
	router.Put("/locations/:id", masterHandler.UpdateLocation)
	router.Delete("/locations/:id", masterHandler.DeleteLocation)
}
