// Package workflow runs the user-facing operations: onboarding completion,
// demo and live analyses, and export, on top of a session.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/tubearchitect/internal/apperr"
	"github.com/BerylCAtieno/tubearchitect/internal/export"
	"github.com/BerylCAtieno/tubearchitect/internal/metrics"
	"github.com/BerylCAtieno/tubearchitect/internal/models"
	"github.com/BerylCAtieno/tubearchitect/internal/session"
	"github.com/BerylCAtieno/tubearchitect/internal/store"
	"github.com/BerylCAtieno/tubearchitect/internal/strategy"
)

const (
	SourceDemo = "demo"
	SourceLive = "live"
)

// StatsProvider looks up public channel statistics.
type StatsProvider interface {
	Lookup(ctx context.Context, identifier, apiKey string) (*models.ChannelStats, error)
}

// Generator produces a validated strategy for a profile and channel.
type Generator interface {
	Generate(ctx context.Context, profile models.ProfileInput, stats models.ChannelStats) (*models.ChannelAnalysis, error)
	ModeFor(profile models.ProfileInput) strategy.Mode
}

type Workflow struct {
	sessions  *session.Manager
	profiles  store.ProfileStore
	stats     StatsProvider
	generator Generator
	channels  []models.ChannelStats
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup
}

func New(sessions *session.Manager, profiles store.ProfileStore, stats StatsProvider, generator Generator, logger *zap.Logger) *Workflow {
	ctx, cancel := context.WithCancel(context.Background())
	return &Workflow{
		sessions:  sessions,
		profiles:  profiles,
		stats:     stats,
		generator: generator,
		channels:  models.DemoChannels(),
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// DemoChannels lists the records AnalyzeDemo accepts, by index.
func (w *Workflow) DemoChannels() []models.ChannelStats {
	out := make([]models.ChannelStats, len(w.channels))
	for i, ch := range w.channels {
		out[i] = ch.Clone()
	}
	return out
}

// Session returns the user's session, rehydrating the saved profile the
// first time the user is seen.
func (w *Workflow) Session(ctx context.Context, userID string) (*session.Session, error) {
	if s, ok := w.sessions.Get(userID); ok {
		return s, nil
	}

	profile, err := w.profiles.Get(ctx, userID)
	found := err == nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	s, created := w.sessions.GetOrCreate(userID, func(s *session.Session) {
		if found {
			s.SetProfile(profile)
		}
	})
	if created {
		w.logger.Debug("Session started",
			zap.String("user_id", userID),
			zap.Bool("rehydrated", found))
	}
	return s, nil
}

// Advance applies a navigation event. Finishing the last onboarding step
// persists the profile first.
func (w *Workflow) Advance(ctx context.Context, s *session.Session, ev session.Event) (session.State, error) {
	st := s.State()
	if ev.Kind == session.EventNext && st.Stage == session.StageOnboarding && int(st.Step) == session.StepCount-1 {
		if err := w.CompleteOnboarding(ctx, s); err != nil {
			return st, err
		}
	}
	return s.Apply(ev)
}

// CompleteOnboarding validates the whole profile and saves it without the
// model credential.
func (w *Workflow) CompleteOnboarding(ctx context.Context, s *session.Session) error {
	profile := s.Profile()
	if err := session.ValidateStep(profile, session.StepCommitment); err != nil {
		return err
	}
	if err := w.profiles.Save(ctx, s.UserID(), profile.Redacted()); err != nil {
		w.logger.Error("Failed to save profile", zap.String("user_id", s.UserID()), zap.Error(err))
		return err
	}
	w.logger.Info("Onboarding completed",
		zap.String("user_id", s.UserID()),
		zap.String("niche", profile.Niche))
	return nil
}

// SaveProfile replaces the session's answers with a complete profile and
// persists it.
func (w *Workflow) SaveProfile(ctx context.Context, s *session.Session, profile models.ProfileInput) error {
	profile.Normalize()
	if err := session.ValidateStep(profile, session.StepCommitment); err != nil {
		return err
	}
	s.SetProfile(profile)
	return w.CompleteOnboarding(ctx, s)
}

type job func(ctx context.Context) error

// AnalyzeDemo analyses a demonstration channel and waits for the result.
func (w *Workflow) AnalyzeDemo(ctx context.Context, s *session.Session, index int) error {
	run, err := w.beginDemo(s, index)
	if err != nil {
		return err
	}
	return run(ctx)
}

// StartDemo begins a demo analysis and finishes it in the background.
func (w *Workflow) StartDemo(s *session.Session, index int) error {
	run, err := w.beginDemo(s, index)
	if err != nil {
		return err
	}
	w.spawn(run)
	return nil
}

// AnalyzeLive looks up a channel with the caller's YouTube API key, then
// analyses it, and waits for the result.
func (w *Workflow) AnalyzeLive(ctx context.Context, s *session.Session, identifier, apiKey string) error {
	run, err := w.beginLive(s, identifier, apiKey)
	if err != nil {
		return err
	}
	return run(ctx)
}

// StartLive is AnalyzeLive finishing in the background.
func (w *Workflow) StartLive(s *session.Session, identifier, apiKey string) error {
	run, err := w.beginLive(s, identifier, apiKey)
	if err != nil {
		return err
	}
	w.spawn(run)
	return nil
}

func (w *Workflow) beginDemo(s *session.Session, index int) (job, error) {
	if index < 0 || index >= len(w.channels) {
		return nil, apperr.NewInvalidInput("demoIndex", "Unknown demonstration channel")
	}
	if st := s.State(); st.Stage != session.StageConnecting {
		return nil, w.refuse(s, st)
	}

	a, err := s.Begin()
	if err != nil {
		return nil, err
	}
	stats := w.channels[index].Clone()
	w.logger.Info("Demo analysis started",
		zap.String("user_id", s.UserID()),
		zap.String("channel", stats.Name))

	return func(ctx context.Context) error {
		return w.generate(ctx, s, a, SourceDemo, stats)
	}, nil
}

func (w *Workflow) beginLive(s *session.Session, identifier, apiKey string) (job, error) {
	identifier = strings.TrimSpace(identifier)
	apiKey = strings.TrimSpace(apiKey)
	if identifier == "" {
		return nil, apperr.NewInvalidInput("channelId", "A channel ID is required")
	}
	if apiKey == "" {
		return nil, apperr.NewInvalidInput("apiKey", "A YouTube API key is required")
	}
	if st := s.State(); st.Stage != session.StageConnectingAdvanced {
		return nil, w.refuse(s, st)
	}

	a, err := s.Begin()
	if err != nil {
		return nil, err
	}
	w.logger.Info("Live analysis started",
		zap.String("user_id", s.UserID()),
		zap.String("identifier", identifier))

	return func(ctx context.Context) error {
		stats, err := w.stats.Lookup(ctx, identifier, apiKey)
		metrics.RecordStatsLookup(err)
		if err != nil {
			return w.fail(s, a, SourceLive, err)
		}
		return w.generate(ctx, s, a, SourceLive, *stats)
	}, nil
}

func (w *Workflow) generate(ctx context.Context, s *session.Session, a session.Attempt, source string, stats models.ChannelStats) error {
	mode := w.generator.ModeFor(a.Profile)
	start := time.Now()
	analysis, err := w.generator.Generate(ctx, a.Profile, stats)
	metrics.RecordGeneration(string(mode), time.Since(start))
	if err != nil {
		return w.fail(s, a, source, err)
	}

	if err := s.Complete(a, stats, analysis); err != nil {
		w.logger.Info("Discarded analysis for a superseded attempt",
			zap.String("user_id", s.UserID()),
			zap.Error(err))
		return err
	}
	metrics.RecordAnalysis(source, nil)
	w.logger.Info("Analysis completed",
		zap.String("user_id", s.UserID()),
		zap.String("source", source),
		zap.String("mode", string(mode)),
		zap.String("channel", stats.Name),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (w *Workflow) fail(s *session.Session, a session.Attempt, source string, cause error) error {
	metrics.RecordAnalysis(source, cause)
	w.logger.Warn("Analysis failed",
		zap.String("user_id", s.UserID()),
		zap.String("source", source),
		zap.String("kind", string(apperr.KindOf(cause))),
		zap.Error(cause))
	if err := s.Fail(a, cause); err != nil {
		w.logger.Debug("Failure for a superseded attempt", zap.Error(err))
	}
	return cause
}

// refuse reports why an analysis cannot start from the current screen.
func (w *Workflow) refuse(s *session.Session, st session.State) error {
	if s.Snapshot().Busy {
		return apperr.NewBusy()
	}
	return apperr.NewInvalidTransition(st.String(), session.EventBeginAnalysis.String())
}

func (w *Workflow) spawn(run job) {
	w.wg.Go(func() {
		_ = run(w.ctx)
	})
}

// Export renders the last successful analysis as a document.
func (w *Workflow) Export(s *session.Session) (*export.File, error) {
	stats, analysis, ok := s.Result()
	if !ok {
		err := apperr.NewNotFound("There is no strategy to export yet")
		metrics.RecordExport(err)
		return nil, err
	}
	file, err := export.Render(analysis, stats)
	metrics.RecordExport(err)
	if err != nil {
		w.logger.Error("Export failed", zap.String("user_id", s.UserID()), zap.Error(err))
		return nil, err
	}
	w.logger.Info("Strategy exported",
		zap.String("user_id", s.UserID()),
		zap.String("file", file.Name),
		zap.Int("bytes", len(file.Data)))
	return file, nil
}

// Close cancels background analyses and waits for them to return.
func (w *Workflow) Close() {
	w.cancel()
	w.wg.Wait()
}

// Wait blocks until background analyses have finished.
func (w *Workflow) Wait() {
	w.wg.Wait()
}
