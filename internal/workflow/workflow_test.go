package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/tubearchitect/internal/apperr"
	"github.com/BerylCAtieno/tubearchitect/internal/export"
	"github.com/BerylCAtieno/tubearchitect/internal/models"
	"github.com/BerylCAtieno/tubearchitect/internal/session"
	"github.com/BerylCAtieno/tubearchitect/internal/store"
	"github.com/BerylCAtieno/tubearchitect/internal/strategy"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeStats struct {
	mu    sync.Mutex
	calls []string
	stats *models.ChannelStats
	err   error
}

func (f *fakeStats) Lookup(_ context.Context, identifier, apiKey string) (*models.ChannelStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, identifier+"|"+apiKey)
	if f.err != nil {
		return nil, f.err
	}
	ch := f.stats.Clone()
	return &ch, nil
}

type fakeGenerator struct {
	mu       sync.Mutex
	profiles []models.ProfileInput
	channels []string
	err      error
	// release, when set, is waited on before answering.
	release chan struct{}
}

func (f *fakeGenerator) Generate(ctx context.Context, profile models.ProfileInput, stats models.ChannelStats) (*models.ChannelAnalysis, error) {
	f.mu.Lock()
	f.profiles = append(f.profiles, profile)
	f.channels = append(f.channels, stats.Name)
	release, err := f.release, f.err
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return strategy.DemoAnalysis(), nil
}

func (f *fakeGenerator) ModeFor(profile models.ProfileInput) strategy.Mode {
	if profile.ModelCredential != "" {
		return strategy.ModeLive
	}
	return strategy.ModeDemo
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.channels)
}

func completeProfile() models.ProfileInput {
	return models.ProfileInput{
		Name:                  "Sara",
		Niche:                 "Tech & Coding",
		PassionBio:            "I love explaining how gadgets work inside",
		ContentStyles:         []string{"Education"},
		ExperienceLevel:       models.ExperienceBeginner,
		PrimaryGoal:           models.GoalMonetization,
		TimeCommitment:        "40+ Hours (Full-Time)",
		ProductionConstraints: []string{},
		ModelCredential:       "gemini-key",
	}
}

type fixture struct {
	wf       *Workflow
	profiles *store.MemoryStore
	stats    *fakeStats
	gen      *fakeGenerator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		profiles: store.NewMemoryStore(),
		stats: &fakeStats{stats: &models.ChannelStats{
			ChannelID: "UC123", Name: "Maker Lab", SubscriberCount: 1500, TotalViewCount: 90000,
		}},
		gen: &fakeGenerator{},
	}
	f.wf = New(session.NewManager(), f.profiles, f.stats, f.gen, zap.NewNop())
	t.Cleanup(f.wf.Close)
	return f
}

// connected returns a session on the connect screen with a saved profile.
func (f *fixture) connected(t *testing.T) *session.Session {
	t.Helper()
	ctx := context.Background()
	s, err := f.wf.Session(ctx, "user-1")
	require.NoError(t, err)
	require.NoError(t, f.wf.SaveProfile(ctx, s, completeProfile()))
	_, err = f.wf.Advance(ctx, s, session.Resume())
	require.NoError(t, err)
	return s
}

func TestOnboardingPersistsRedactedProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.wf.Session(ctx, "user-1")
	require.NoError(t, err)
	_, err = f.wf.Advance(ctx, s, session.Start())
	require.NoError(t, err)

	want := completeProfile()
	s.UpdateProfile(func(p *models.ProfileInput) { *p = want })
	for i := 0; i < session.StepCount; i++ {
		_, err := f.wf.Advance(ctx, s, session.Next())
		require.NoError(t, err, "step %d", i)
	}
	assert.Equal(t, session.StageConnecting, s.State().Stage)

	saved, err := f.profiles.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Sara", saved.Name)
	assert.Empty(t, saved.ModelCredential)
}

func TestSessionRehydratesFromStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.profiles.Save(ctx, "user-9", completeProfile()))

	s, err := f.wf.Session(ctx, "user-9")
	require.NoError(t, err)
	snap := s.Snapshot()
	assert.True(t, snap.ProfileComplete)
	assert.Equal(t, "Sara", snap.Profile.Name)
	assert.False(t, snap.HasCredential)

	again, err := f.wf.Session(ctx, "user-9")
	require.NoError(t, err)
	assert.Same(t, s, again)
}

func TestSaveProfileRejectsIncomplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s, err := f.wf.Session(ctx, "user-1")
	require.NoError(t, err)

	p := completeProfile()
	p.ContentStyles = nil
	err = f.wf.SaveProfile(ctx, s, p)
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	_, err = f.profiles.Get(ctx, "user-1")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestAnalyzeDemo(t *testing.T) {
	f := newFixture(t)
	s := f.connected(t)

	require.NoError(t, f.wf.AnalyzeDemo(context.Background(), s, 0))

	snap := s.Snapshot()
	assert.Equal(t, session.State{Stage: session.StageDashboard, Tab: session.TabOverview}, snap.State)
	require.NotNil(t, snap.Channel)
	assert.Equal(t, "Future Tech (Sample)", snap.Channel.Name)
	assert.NotNil(t, snap.Analysis)
	assert.Empty(t, f.stats.calls)

	// The generator sees the in-memory credential.
	require.Len(t, f.gen.profiles, 1)
	assert.Equal(t, "gemini-key", f.gen.profiles[0].ModelCredential)
}

func TestAnalyzeDemoFailureReturnsToConnect(t *testing.T) {
	f := newFixture(t)
	f.gen.err = apperr.NewUpstream("gemini", "quota exceeded", 403)
	s := f.connected(t)

	err := f.wf.AnalyzeDemo(context.Background(), s, 0)
	assert.True(t, errors.Is(err, apperr.ErrUpstream))

	snap := s.Snapshot()
	assert.Equal(t, session.StageConnecting, snap.State.Stage)
	assert.Equal(t, "quota exceeded", snap.Error)
	assert.Nil(t, snap.Analysis)
}

func TestAnalyzeDemoRejectsUnknownIndex(t *testing.T) {
	f := newFixture(t)
	s := f.connected(t)

	err := f.wf.AnalyzeDemo(context.Background(), s, 7)
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
	assert.Equal(t, session.StageConnecting, s.State().Stage)
	assert.Zero(t, f.gen.calls())
}

func TestAnalyzeLive(t *testing.T) {
	f := newFixture(t)
	s := f.connected(t)
	_, err := f.wf.Advance(context.Background(), s, session.Advanced())
	require.NoError(t, err)

	require.NoError(t, f.wf.AnalyzeLive(context.Background(), s, " UC123 ", "yt-key"))

	assert.Equal(t, []string{"UC123|yt-key"}, f.stats.calls)
	assert.Equal(t, []string{"Maker Lab"}, f.gen.channels)
	assert.Equal(t, session.StageDashboard, s.State().Stage)
}

func TestAnalyzeLiveChannelNotFound(t *testing.T) {
	f := newFixture(t)
	f.stats.err = apperr.NewChannelNotFound("UC_missing")
	s := f.connected(t)
	_, err := f.wf.Advance(context.Background(), s, session.Advanced())
	require.NoError(t, err)

	err = f.wf.AnalyzeLive(context.Background(), s, "UC_missing", "yt-key")
	assert.True(t, errors.Is(err, apperr.ErrChannelNotFound))

	snap := s.Snapshot()
	assert.Equal(t, session.StageConnectingAdvanced, snap.State.Stage)
	assert.Equal(t, "Channel not found. Check the channel ID and try again.", snap.Error)
	assert.Zero(t, f.gen.calls())
}

func TestAnalyzeLiveRequiresInputs(t *testing.T) {
	f := newFixture(t)
	s := f.connected(t)
	_, err := f.wf.Advance(context.Background(), s, session.Advanced())
	require.NoError(t, err)

	err = f.wf.AnalyzeLive(context.Background(), s, "", "yt-key")
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
	err = f.wf.AnalyzeLive(context.Background(), s, "UC123", " ")
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	assert.Equal(t, session.StageConnectingAdvanced, s.State().Stage)
	assert.Empty(t, f.stats.calls)
}

func TestAnalyzeLiveFromWrongScreen(t *testing.T) {
	f := newFixture(t)
	s := f.connected(t)

	err := f.wf.AnalyzeLive(context.Background(), s, "UC123", "yt-key")
	assert.True(t, errors.Is(err, apperr.ErrInvalidTransition))
}

func TestStartDemoInBackground(t *testing.T) {
	f := newFixture(t)
	f.gen.release = make(chan struct{})
	s := f.connected(t)

	require.NoError(t, f.wf.StartDemo(s, 0))
	assert.Equal(t, session.StageAnalyzing, s.State().Stage)

	err := f.wf.StartDemo(s, 0)
	assert.True(t, errors.Is(err, apperr.ErrBusy))

	close(f.gen.release)
	f.wf.Wait()

	assert.Equal(t, session.StageDashboard, s.State().Stage)
	assert.Equal(t, 1, f.gen.calls())
}

func TestCloseCancelsBackgroundAnalysis(t *testing.T) {
	f := newFixture(t)
	f.gen.release = make(chan struct{})
	s := f.connected(t)

	require.NoError(t, f.wf.StartDemo(s, 0))
	f.wf.Close()

	snap := s.Snapshot()
	assert.Equal(t, session.StageConnecting, snap.State.Stage)
	assert.False(t, snap.Busy)
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	s := f.connected(t)

	_, err := f.wf.Export(s)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	require.NoError(t, f.wf.AnalyzeDemo(context.Background(), s, 0))
	file, err := f.wf.Export(s)
	require.NoError(t, err)
	assert.Equal(t, "TubeArchitect_Future Tech (Sample).docx", file.Name)

	rows, err := export.ReadIdeaTable(file.Data)
	require.NoError(t, err)
	assert.Len(t, rows, len(strategy.DemoAnalysis().VideoIdeas)+1)
}
