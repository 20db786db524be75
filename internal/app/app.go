// Package app assembles the process: config, persistence, gateway, decision
// client, controller, control server and the bar scheduler.
package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"obot/internal/config"
	"obot/internal/decision"
	"obot/internal/gateway/bridge"
	"obot/internal/gateway/exchange"
	"obot/internal/gateway/paper"
	"obot/internal/logger"
	"obot/internal/notifier"
	"obot/internal/scheduler"
	"obot/internal/store/sqlite"
	"obot/internal/trader"
	transporthttp "obot/internal/transport/http"
	"obot/internal/types"
)

// Bar evaluation starts a moment after the close so the bridge has the
// finished candle.
const barCloseOffset = 2 * time.Second

type App struct {
	cfg        *config.Config
	store      *sqlite.Store
	overrides  *config.OverridesLoader
	controller *trader.Controller
	server     *transporthttp.Server
}

func New(cfg *config.Config) (*App, error) {
	store, err := sqlite.NewStore(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("opening store failed: %w", err)
	}

	gateway, err := buildGateway(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	decider := decision.NewClient(cfg.Predict.APIURL, time.Duration(cfg.Predict.TimeoutSeconds)*time.Second)

	var notify *notifier.Notifier
	if tg := cfg.Notify.Telegram; tg.Enabled {
		notify = notifier.New(notifier.NewTelegram(tg.BotToken, tg.ChatID))
	}

	var overrides *config.OverridesLoader
	if cfg.App.OverridesPath != "" {
		overrides, err = config.NewOverridesLoader(cfg.App.OverridesPath)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("overrides loader failed: %w", err)
		}
	}

	controller, err := trader.New(trader.Options{
		Config:    *cfg,
		Overrides: overrides,
		Gateway:   gateway,
		Decider:   decider,
		Journal:   store,
		Notify:    notify,
	})
	if err != nil {
		store.Close()
		return nil, err
	}
	if err := controller.Restore(context.Background()); err != nil {
		logger.Warnf("risk state restore failed, starting fresh: %v", err)
	}

	server, err := transporthttp.NewServer(cfg.App.HTTPAddr, controller)
	if err != nil {
		store.Close()
		return nil, err
	}

	logger.Infof("wired %s gateway for %s %s", gateway.Name(), cfg.Symbol.Name, cfg.Symbol.Timeframe)
	return &App{
		cfg:        cfg,
		store:      store,
		overrides:  overrides,
		controller: controller,
		server:     server,
	}, nil
}

func buildGateway(cfg *config.Config) (exchange.Gateway, error) {
	switch cfg.Bridge.Mode {
	case "paper":
		return paper.New(cfg.Symbol.Name, cfg.Bridge.PaperBalance, cfg.Symbol.PointValue), nil
	case "rest", "":
		return bridge.New(cfg.Bridge.APIURL, time.Duration(cfg.Bridge.TimeoutSeconds)*time.Second), nil
	default:
		return nil, fmt.Errorf("unknown bridge mode %q", cfg.Bridge.Mode)
	}
}

// Run blocks until the context is cancelled or a component fails.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.server.Run(ctx)
	})

	g.Go(func() error {
		interval := types.Timeframe(a.cfg.Symbol.Timeframe).Duration()
		sched := scheduler.NewAlignedScheduler(ctx, interval, barCloseOffset)
		sched.Start(func(barOpen time.Time) {
			evalCtx, cancel := context.WithTimeout(ctx, interval/2)
			defer cancel()
			a.controller.OnNewBar(evalCtx, barOpen)
		})
		return nil
	})

	err := g.Wait()
	a.close()
	return err
}

func (a *App) close() {
	if a.overrides != nil {
		if cerr := a.overrides.Close(); cerr != nil {
			logger.Warnf("closing overrides loader failed: %v", cerr)
		}
	}
	if cerr := a.store.Close(); cerr != nil {
		logger.Warnf("closing store failed: %v", cerr)
	}
}
