package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/frkn-dev/trialgate/internal/config"
	"github.com/frkn-dev/trialgate/internal/gate"
	"github.com/frkn-dev/trialgate/internal/http_api"
	"github.com/frkn-dev/trialgate/internal/journal"
	"github.com/frkn-dev/trialgate/internal/notificator"
	"github.com/frkn-dev/trialgate/internal/trial"
	"github.com/frkn-dev/trialgate/internal/upstream"
	"github.com/frkn-dev/trialgate/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "trialgate",
		Usage: "Trialgate provisions FRKN trial subscriptions behind a public form",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "listen", Aliases: []string{"l"}, Usage: "Listen address for the trial endpoint"},
			&cli.StringFlag{Name: "trials-file", Aliases: []string{"f"}, Usage: "Path to the append-only trials journal"},
			&cli.StringFlag{Name: "telegram-token", Aliases: []string{"t"}, Usage: "Telegram bot token for activation pings"},
			&cli.BoolFlag{Name: "development", Aliases: []string{"D"}, Usage: "Development mode"},
		},
		Action: func(c *cli.Context) error {
			return run(c)
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	// Override with flags if set
	if c.IsSet("listen") {
		cfg.ListenAddr = c.String("listen")
	}
	if c.IsSet("trials-file") {
		cfg.JournalPath = c.String("trials-file")
	}
	if c.IsSet("telegram-token") {
		cfg.TelegramBotToken = c.String("telegram-token")
	}
	if c.IsSet("development") {
		cfg.Development = c.Bool("development")
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}

	// Rebuild the idempotency index from the journal
	index, err := journal.Load(cfg.JournalPath)
	if err != nil {
		return fmt.Errorf("failed to load trial journal: %v", err)
	}
	log.Info("Trial journal loaded", "path", cfg.JournalPath, "entries", len(index))

	admissionGate := gate.New(index)
	trialJournal := journal.New(cfg.JournalPath)

	// Initialize the upstream API client
	client := upstream.NewClient(log)

	// Initialize notificators; telegram only when a bot token is set
	email := notificator.NewEmailNotificator(log)
	var telegram *notificator.TelegramNotificator
	if cfg.TelegramBotToken != "" {
		telegram, err = notificator.NewTelegramNotificator(log, cfg.TelegramBotToken)
		if err != nil {
			log.Warn("Telegram notificator disabled: ", err)
			telegram = nil
		}
	}
	notifier := notificator.NewNotificator(log, email, telegram)

	// Create the trial activation service
	trials := trial.NewService(log, admissionGate, client, trialJournal, notifier)

	apiServer := http_api.NewHTTPServer(trials, cfg.ListenAddr, log)

	go apiServer.Start()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := apiServer.Shutdown(); err != nil {
		log.Error("Failed to shut down cleanly: ", err)
	}

	return nil
}
