package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/anonchat/pairbot/internal/config"
	"github.com/anonchat/pairbot/internal/engine"
	"github.com/anonchat/pairbot/internal/metrics"
	"github.com/anonchat/pairbot/internal/telegram"
)

func main() {
	log.Println("Starting anonymous chat bot...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("failed to connect to Telegram: %v", err)
	}
	log.Printf("[bot] authorized as @%s", api.Self.UserName)

	eng := engine.New(telegram.NewSender(api))
	bot := telegram.New(api, eng, cfg)

	// Prometheus metrics listener.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		log.Printf("[metrics] listening on %s", cfg.MetricsAddr)
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			log.Printf("[metrics] listener stopped: %v", err)
		}
	}()

	log.Printf("anonymous chat bot running")
	log.Printf("  admin_handle: %s", cfg.AdminHandle)
	log.Printf("  metrics_addr: %s", cfg.MetricsAddr)

	// Graceful shutdown: closing the update channel lets Run drain and
	// return.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("received signal %v, shutting down...", sig)
		api.StopReceivingUpdates()
	}()

	bot.Run()
}
