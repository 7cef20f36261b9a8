package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"TWStockDesk/internal/model"
	"TWStockDesk/internal/notifier"
	"TWStockDesk/internal/recorder"
)

// DashboardBuilder builds the dashboard for one symbol.
type DashboardBuilder interface {
	Build(ctx context.Context, input string) (*model.Dashboard, error)
}

// NewsProvider returns the latest tagged headlines.
type NewsProvider interface {
	Latest(ctx context.Context) []model.NewsItem
}

// Sender delivers a message with retries.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the cron tasks and bot commands.
type Scheduler struct {
	Cron      *cron.Cron
	Builder   DashboardBuilder
	News      NewsProvider
	Notifier  Sender // nil when Telegram is not configured
	Recorder  recorder.Recorder
	Watchlist []string
	Ctx       context.Context
	logger    arbor.ILogger
	now       func() time.Time
}

// NewScheduler creates a new Scheduler whose cron specs are evaluated in loc.
func NewScheduler(ctx context.Context, builder DashboardBuilder, news NewsProvider, sender Sender, rec recorder.Recorder, watchlist []string, loc *time.Location, logger arbor.ILogger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Builder:   builder,
		News:      news,
		Notifier:  sender,
		Recorder:  rec,
		Watchlist: watchlist,
		Ctx:       ctx,
		logger:    logger,
		now:       func() time.Time { return time.Now().In(loc) },
	}
}

// RegisterAll registers the after-close digest task.
func (s *Scheduler) RegisterAll(digestCron string) error {
	if _, err := s.Cron.AddFunc(digestCron, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Int("entries", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// RunDigestNow executes the digest task immediately.
func (s *Scheduler) RunDigestNow() {
	s.digestTask()
}

func (s *Scheduler) digestTask() {
	s.logger.Info().Int("symbols", len(s.Watchlist)).Msg("running digest task")
	report := s.buildDigest(s.Ctx)
	if s.Notifier != nil {
		s.trySend(report)
	}
}

// buildDigest builds every watchlist dashboard, which also warms the fetch
// cache, records snapshots and news, and returns the digest message.
func (s *Scheduler) buildDigest(ctx context.Context) string {
	var (
		dashboards []*model.Dashboard
		failed     []string
	)
	for _, code := range s.Watchlist {
		if ctx.Err() != nil {
			break
		}
		d, err := s.Builder.Build(ctx, code)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", code).Msg("digest build failed")
			failed = append(failed, code)
			continue
		}
		dashboards = append(dashboards, d)
		if err := s.Recorder.RecordSnapshot(d); err != nil {
			s.logger.Error().Err(err).Str("symbol", d.Symbol).Msg("record snapshot failed")
		}
	}

	items := s.News.Latest(ctx)
	if err := s.Recorder.RecordNews(items); err != nil {
		s.logger.Error().Err(err).Msg("record news failed")
	}

	s.logger.Info().Int("built", len(dashboards)).Int("failed", len(failed)).Msg("digest complete")
	return notifier.FormatDigest(s.now(), dashboards, failed, items)
}

// HandleCommand processes a bot command and returns the reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.HelpText
	}
	// Group chats address commands as /quote@BotName.
	name, _, _ := strings.Cut(fields[0], "@")

	switch name {
	case "/quote", "/q":
		if len(fields) < 2 {
			return "用法: /quote &lt;代號&gt; (例: /quote 2330)"
		}
		d, err := s.Builder.Build(ctx, fields[1])
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", fields[1]).Msg("quote command failed")
			if errors.Is(err, model.ErrInvalidSymbol) {
				return fmt.Sprintf("❌ 找不到代號: %s", html.EscapeString(fields[1]))
			}
			return "❌ 找不到資料"
		}
		return notifier.FormatQuote(d)
	case "/news":
		return notifier.FormatNews(s.News.Latest(ctx))
	case "/digest":
		return s.buildDigest(ctx)
	default:
		return notifier.HelpText
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.logger.Error().Err(err).Msg("send notification failed")
	}
}
