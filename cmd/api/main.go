package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/yzahrani/splitmate/internal/balance"
	"github.com/yzahrani/splitmate/internal/config"
	"github.com/yzahrani/splitmate/internal/database"
	"github.com/yzahrani/splitmate/internal/expense"
	expensesplit "github.com/yzahrani/splitmate/internal/expense/split"
	"github.com/yzahrani/splitmate/internal/group"
	"github.com/yzahrani/splitmate/internal/notification"
	"github.com/yzahrani/splitmate/internal/settlement"
	"github.com/yzahrani/splitmate/internal/user"
	"github.com/yzahrani/splitmate/pkg/logging"
	mw "github.com/yzahrani/splitmate/pkg/middleware"
)

// @title        Splitmate API
// @version      1.0
// @description  Bill splitting with groups, expenses, settlements, and running balances.
// @BasePath     /api/v1
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.SlogLevel())

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		slog.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to database")

	validate := validator.New()
	splitFactory := expensesplit.NewFactory()

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService, validate)

	// Notification feature, injected as the notifier everywhere below
	notificationRepo := notification.NewRepository(db)
	notificationService := notification.NewService(notificationRepo, userService)
	notificationHandler := notification.NewHandler(notificationService)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo, notificationService)
	groupHandler := group.NewHandler(groupService, userService, validate)

	// Expense feature (with split factory injected)
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(expenseRepo, groupRepo, notificationService, splitFactory)
	expenseHandler := expense.NewHandler(expenseService, validate)

	// Settlement feature
	settlementRepo := settlement.NewRepository(db)
	settlementService := settlement.NewService(settlementRepo, groupRepo, notificationService)
	settlementHandler := settlement.NewHandler(settlementService, validate)

	// Balance views, computed on demand over the repositories
	balanceService := balance.NewService(expenseRepo, settlementRepo, groupRepo, userRepo)
	balanceHandler := balance.NewHandler(balanceService)

	auth := mw.NewAuthenticator(cfg.JWTSecret, cfg.DevAuth)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Mount("/users", userHandler.Routes())
		r.Mount("/groups", groupHandler.Routes())
		r.Mount("/expenses", expenseHandler.Routes())
		r.Mount("/settlements", settlementHandler.Routes())
		r.Mount("/notifications", notificationHandler.Routes())
		r.Mount("/balances", balanceHandler.Routes())
		r.Mount("/friends", balanceHandler.FriendsRoutes())
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
