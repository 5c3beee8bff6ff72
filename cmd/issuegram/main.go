package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	sd "github.com/coreos/go-systemd/v22/daemon"

	"issuegram/internal/config"
	"issuegram/internal/eventbus"
	"issuegram/internal/notify"
	"issuegram/internal/telegram"
	"issuegram/internal/tracker"
	"issuegram/internal/webhook"
	logx "issuegram/pkg/logx"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "./config.yaml", "path to config file (json or yaml)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	mgr := config.NewManager(cfgPath)
	mgr.SetValidator(config.Validate)
	cfg, err := mgr.Load()
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}
	if err := config.Validate(ctx, cfg); err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}

	logSvc, log := logx.New(loggingConfig(cfg))
	defer logSvc.Close()
	mgr.SetLogger(log.With(logx.String("comp", "config")))

	dcfg, err := dispatchConfig(cfg)
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}

	bus := eventbus.New()
	disp := telegram.New(dcfg, log.With(logx.String("comp", "telegram")))
	comp := notify.New(cfg.Notification, tracker.Links{BaseURL: cfg.Tracker.BaseURL}, disp,
		log.With(logx.String("comp", "notify")))

	listener := notify.NewListener(bus, comp, log.With(logx.String("comp", "notify")))
	go listener.Run(ctx)

	if cfg.HTTP.Enabled {
		srv := webhook.NewServer(cfg.HTTP.Addr, cfg.Tracker.WebhookSecret, bus,
			log.With(logx.String("comp", "webhook")))
		go func() {
			if err := srv.Run(ctx); err != nil {
				log.Error("webhook listener failed", logx.Err(err))
				cancel()
			}
		}()
	}

	// Hot reload: settings apply in place; an addr change needs a restart.
	sub := mgr.Subscribe(4)
	defer mgr.Unsubscribe(sub)
	go func() { _ = mgr.Watch(ctx) }()
	go func() {
		for next := range sub {
			logSvc.Apply(loggingConfig(next))
			comp.Apply(next.Notification, tracker.Links{BaseURL: next.Tracker.BaseURL})
			if dc, err := dispatchConfig(next); err == nil {
				disp.Apply(dc)
			} else {
				log.Warn("dispatch config not applied", logx.Err(err))
			}
			if next.HTTP.Addr != cfg.HTTP.Addr || next.HTTP.Enabled != cfg.HTTP.Enabled {
				log.Warn("http listener changes require a restart")
			}
			log.Info("config reloaded")
		}
	}()

	_, _ = sd.SdNotify(false, sd.SdNotifyReady)
	log.Info("issuegram started",
		logx.Bool("webhook", cfg.HTTP.Enabled),
		logx.Bool("post_updates", cfg.Notification.PostUpdates))

	<-ctx.Done()
	_, _ = sd.SdNotify(false, sd.SdNotifyStopping)

	// Give in-flight deliveries a short window to finish.
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := disp.Stop(stopCtx); err != nil {
		log.Warn("deliveries still in flight at shutdown", logx.Err(err))
	}
	log.Info("issuegram stopped")
}

func loggingConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
}

func dispatchConfig(cfg *config.Config) (telegram.Config, error) {
	phase, err := config.ParseDurationField("dispatch.phase_timeout", cfg.Dispatch.PhaseTimeout)
	if err != nil {
		return telegram.Config{}, err
	}
	return telegram.Config{
		APIBaseURL:   cfg.Dispatch.APIBaseURL,
		PhaseTimeout: phase,
		Attempts:     cfg.Dispatch.Attempts,
		RatePerSec:   cfg.Dispatch.RatePerSec,
		DefaultToken: cfg.Notification.TelegramBotToken,
	}, nil
}
