package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"poketally/bot"
	"poketally/config"
	"poketally/database"
	"poketally/events"
	"poketally/repository"
	"poketally/service"
	"poketally/web"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting poketally bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	log.Println("Initializing services...")
	pendingStore := service.NewPendingWithdrawalStore(cfg.PendingWithdrawalTTL)
	ledgerService := service.NewLedgerService(uowFactory)
	catchService := service.NewCatchService(uowFactory)
	withdrawalService := service.NewWithdrawalService(uowFactory, pendingStore)
	settingsService := service.NewSettingsService(uowFactory)
	statsService := service.NewStatsService(uowFactory)
	log.Println("Services initialized successfully")

	// Expire abandoned withdrawal requests in the background
	go pendingStore.RunCleanup(ctx, time.Minute)

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:                cfg.DiscordToken,
		AdminUserID:          cfg.AdminUserID,
		CommandPrefix:        cfg.CommandPrefix,
		PayConfirmToken:      cfg.PayConfirmToken,
		CatchSourceBotID:     cfg.CatchSourceBotID,
		PendingWithdrawalTTL: cfg.PendingWithdrawalTTL,
	}
	discordBot, err := bot.New(botConfig, ledgerService, catchService, withdrawalService, settingsService, statsService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Start the read-only dashboard API
	dashboard := web.NewServer(
		cfg.DashboardAddr,
		repository.NewUserRepository(db),
		repository.NewSettingsRepository(db),
		repository.NewMessageRepository(db),
		repository.NewWithdrawalRepository(db),
	)
	dashboardErr := make(chan error, 1)
	go func() {
		dashboardErr <- dashboard.Start()
	}()

	// Wait for context cancellation or a dashboard failure
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	select {
	case <-ctx.Done():
	case err := <-dashboardErr:
		if err != nil {
			log.Printf("Dashboard error: %v", err)
		}
	}

	// Cleanup resources
	log.Println("Shutting down bot...")

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := dashboard.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down dashboard: %v", err)
	}

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	log.Println("Shutdown completed")
	return nil
}
