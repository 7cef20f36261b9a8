package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ternarybob/banner"

	"TWStockDesk/internal/calculator"
	"TWStockDesk/internal/collector"
	"TWStockDesk/internal/config"
	"TWStockDesk/internal/logging"
	"TWStockDesk/internal/metrics"
	"TWStockDesk/internal/news"
	"TWStockDesk/internal/notifier"
	"TWStockDesk/internal/recorder"
	"TWStockDesk/internal/scheduler"
	"TWStockDesk/internal/web"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	banner.PrintSimple("TWStockDesk", version)

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logging.New("info").Fatal().Err(err).Str("path", cfgPath).Msg("load config")
	}
	logger := logging.New(cfg.Logging.Level)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("config validation")
	}
	logger.Info().Str("config", cfgPath).Str("version", version).Msg("TWStockDesk starting")

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics()

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "mock":
		fetcher = &collector.MockFetcher{Price: 600}
	default:
		fetcher = collector.NewYahooFetcher(cfg.DataSource.BaseURL, cfg.Proxy, cfg.DataSource.Timeout, cfg.DataSource.RatePerSecond)
	}
	logger.Info().Str("source", fetcher.Name()).Msg("data source ready")

	// Fetch cache: shared Redis when configured, otherwise in-process
	var store collector.Store
	if cfg.Cache.RedisAddr != "" {
		rs, err := collector.NewRedisStore(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, cfg.Cache.TTL, logger)
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Cache.RedisAddr).Msg("redis unavailable, using memory cache")
		} else {
			store = rs
			defer rs.Close()
		}
	}
	if store == nil {
		store = collector.NewMemoryStore(cfg.Cache.TTL, cfg.Cache.MaxEntries)
	}
	fetcher = collector.NewCachingFetcher(fetcher, store, m, logger)

	// Init collector
	watchlist := make([]collector.Symbol, len(cfg.Watchlist))
	codes := make([]string, len(cfg.Watchlist))
	for i, s := range cfg.Watchlist {
		watchlist[i] = collector.Symbol{Code: s.Code, Name: s.Name}
		codes[i] = s.Code
	}
	symbols := collector.NewSymbols(watchlist, cfg.DataSource.MarketSuffix, cfg.DataSource.OTCSuffix)
	col := collector.NewCollector(fetcher, symbols, collector.Options{
		Lookback:         cfg.DataSource.Lookback,
		DividendLookback: cfg.DataSource.DividendLookback,
		Indicators: calculator.IndicatorParams{
			MAPeriod:  cfg.Analysis.MAPeriod,
			RSIPeriod: cfg.Analysis.RSIPeriod,
		},
		FitWindow:        cfg.Analysis.FitWindow,
		Horizon:          cfg.Analysis.Horizon,
		DividendPayments: cfg.Analysis.DividendPayments,
	}, m, logger)

	// Init news
	newsSvc := news.NewService(
		news.NewRSSSource(cfg.News.FeedURL, cfg.News.MaxItems, cfg.Proxy, cfg.DataSource.Timeout),
		nil, m, logger,
	)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init Telegram notifier
	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
		sender = tn
	} else {
		logger.Info().Msg("telegram not configured, digest is recorded only")
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, newsSvc, sender, rec, codes, cfg.Location(), logger)
	if err := sched.RegisterAll(cfg.Schedule.DigestCron); err != nil {
		logger.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info().Msg("telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info().Msg("RUN_ON_START enabled, executing digest now")
		go sched.RunDigestNow()
	}

	// Init web server
	srv, err := web.New(web.Deps{
		Builder:  col,
		News:     newsSvc,
		Symbols:  symbols,
		Recorder: rec,
		Metrics:  m,
		Logger:   logger,
	}, cfg.Addr())
	if err != nil {
		logger.Fatal().Err(err).Msg("init web server")
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		logger.Info().Msg("shutdown signal received, stopping")
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("web server stopped")
		}
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("web shutdown")
	}
	logger.Info().Msg("TWStockDesk stopped")
}
