package main

import (
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"path/filepath"

	"courierbook/impl/core"
	"courierbook/internal/automation"
	"courierbook/internal/config"
	"courierbook/internal/geo"
	"courierbook/internal/http-server/api"
	"courierbook/internal/pricing"
	"courierbook/internal/stripeclient"
	"courierbook/internal/telegram"
	"courierbook/lib/logger"
	"courierbook/lib/sl"
)

const logFileName = "courierbook.log"

func main() {
	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	log := logger.SetupLogger(conf.Env, filepath.Join(*logPath, logFileName))
	log.Info("starting courierbook", slog.String("config", *configPath), slog.String("env", conf.Env))

	var notifier *telegram.Notifier
	if conf.Telegram.Enabled && conf.Telegram.ApiKey != "" {
		var err error
		notifier, err = telegram.New(conf.Telegram.ApiKey, conf.Telegram.ChatId, log)
		if err != nil {
			log.Error("telegram notifier not started", sl.Err(err))
		} else {
			log = slog.New(logger.NewTelegramHandler(log.Handler(), notifier, slog.LevelError))
			log.Info("telegram notifications enabled", slog.Int64("chat_id", conf.Telegram.ChatId))
		}
	}

	pricer := pricing.NewEngine(conf.Pricing.Currency, log)

	autoClient := automation.NewClient(automation.Config{
		AvailabilityURL:    conf.Automation.AvailabilityURL,
		BookingURL:         conf.Automation.BookingURL,
		UnavailableMessage: conf.Automation.UnavailableMessage,
	}, log)

	stripeClient := stripeclient.New(conf, log)
	if notifier != nil {
		stripeClient.SetNotifier(notifier)
	}
	stripeClient.SetBookingSink(autoClient)

	resolver := geo.NewResolver(
		geo.NewPostcodesClient(conf.Geo.PostcodesURL, log),
		geo.NewOSRMClient(conf.Geo.OsrmURL, log),
		log,
	)
	if conf.Geo.GoogleAPIKey != "" {
		resolver.SetFallback(geo.NewGoogleRoutesClient("", conf.Geo.GoogleAPIKey, log))
	}

	handler := core.New(stripeClient, pricer, log)
	handler.SetResolver(resolver)
	handler.SetAutomation(autoClient)

	if err := api.New(conf, log, &handler); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("api server stopped", sl.Err(err))
	}
}
