package session

import (
	"errors"
	"sync"

	"github.com/BerylCAtieno/tubearchitect/internal/apperr"
	"github.com/BerylCAtieno/tubearchitect/internal/models"
	"github.com/BerylCAtieno/tubearchitect/internal/validation"
)

// stepFields names the ProfileInput fields each onboarding page collects.
// The final page reviews the whole profile.
var stepFields = map[Step][]string{
	StepIdentity:   {"Name", "Niche"},
	StepPassion:    {"PassionBio"},
	StepStyle:      {"ContentStyles"},
	StepExperience: {"ExperienceLevel"},
	StepGoals:      {"PrimaryGoal"},
	StepReality:    {"TimeCommitment", "ProductionConstraints"},
}

// ValidateStep checks the answers collected by one onboarding page.
func ValidateStep(profile models.ProfileInput, step Step) error {
	var err error
	if fields, ok := stepFields[step]; ok {
		err = validation.StructPartial(profile, fields...)
	} else {
		err = validation.Struct(profile)
	}
	return inputError(err)
}

// ProfileComplete reports whether every onboarding answer is valid.
func ProfileComplete(profile models.ProfileInput) bool {
	return validation.Struct(profile) == nil
}

func inputError(err error) error {
	if err == nil {
		return nil
	}
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		return apperr.NewInvalidInput(fe.Path, fe.Msg).WithCause(err)
	}
	return err
}

// Attempt identifies one in-flight analysis. Results for an attempt that is
// no longer current are discarded.
type Attempt struct {
	ID       uint64
	ReturnTo Stage
	Profile  models.ProfileInput
}

// Session is the state of one user's visit. All methods are safe for
// concurrent use.
type Session struct {
	mu       sync.Mutex
	userID   string
	state    State
	profile  models.ProfileInput
	stats    *models.ChannelStats
	analysis *models.ChannelAnalysis
	lastErr  string
	attempt  uint64
	busy     bool
}

func New(userID string) *Session {
	return &Session{userID: userID}
}

func (s *Session) UserID() string {
	return s.userID
}

// Snapshot is a read-only copy of a session for rendering.
type Snapshot struct {
	UserID          string                  `json:"userId"`
	State           State                   `json:"state"`
	Profile         models.ProfileInput     `json:"profile"`
	HasCredential   bool                    `json:"hasModelCredential"`
	ProfileComplete bool                    `json:"profileComplete"`
	Channel         *models.ChannelStats    `json:"channel,omitempty"`
	Analysis        *models.ChannelAnalysis `json:"analysis,omitempty"`
	Error           string                  `json:"error,omitempty"`
	Busy            bool                    `json:"busy"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		UserID:          s.userID,
		State:           s.state,
		Profile:         s.profile.Redacted(),
		HasCredential:   s.profile.ModelCredential != "",
		ProfileComplete: ProfileComplete(s.profile),
		Analysis:        s.analysis,
		Error:           s.lastErr,
		Busy:            s.busy,
	}
	if s.stats != nil {
		ch := s.stats.Clone()
		snap.Channel = &ch
	}
	return snap
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Profile returns the current answers, credential included.
func (s *Session) Profile() models.ProfileInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.profile
	p.ContentStyles = append([]string(nil), p.ContentStyles...)
	p.ProductionConstraints = append([]string(nil), p.ProductionConstraints...)
	return p
}

// SetProfile replaces the answers. An empty incoming credential keeps the
// one already held in memory.
func (s *Session) SetProfile(p models.ProfileInput) {
	p.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ModelCredential == "" {
		p.ModelCredential = s.profile.ModelCredential
	}
	s.profile = p
}

// UpdateProfile edits the answers in place.
func (s *Session) UpdateProfile(fn func(*models.ProfileInput)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.profile)
	s.profile.Normalize()
}

// Result returns the channel and strategy from the last successful analysis.
func (s *Session) Result() (*models.ChannelStats, *models.ChannelAnalysis, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.analysis == nil || s.stats == nil {
		return nil, nil, false
	}
	ch := s.stats.Clone()
	return &ch, s.analysis, true
}

// Apply runs a navigation event. Analysis events go through Begin, Complete
// and Fail instead.
func (s *Session) Apply(ev Event) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case EventBeginAnalysis, EventSucceeded, EventFailed:
		return s.state, apperr.NewInvalidTransition(s.state.String(), ev.Kind.String())
	case EventSignOut:
	default:
		if s.busy {
			return s.state, apperr.NewBusy()
		}
	}

	switch {
	case ev.Kind == EventResume && !ProfileComplete(s.profile):
		return s.state, apperr.NewInvalidTransition(s.state.String(), ev.Kind.String())
	case ev.Kind == EventNext && s.state.Stage == StageOnboarding:
		if err := ValidateStep(s.profile, s.state.Step); err != nil {
			return s.state, err
		}
	}

	next, err := Transition(s.state, ev)
	if err != nil {
		return s.state, err
	}

	switch ev.Kind {
	case EventStart:
		s.profile = models.ProfileInput{}
		s.lastErr = ""
	case EventAdvanced, EventBack:
		s.lastErr = ""
	case EventNewAnalysis:
		s.stats, s.analysis, s.lastErr = nil, nil, ""
	case EventSignOut:
		s.stats, s.analysis, s.lastErr = nil, nil, ""
		s.busy = false
		s.attempt++
	}
	s.state = next
	return next, nil
}

// Begin moves to Analyzing and marks the session busy.
func (s *Session) Begin() (Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return Attempt{}, apperr.NewBusy()
	}
	next, err := Transition(s.state, BeginAnalysis())
	if err != nil {
		return Attempt{}, err
	}

	s.attempt++
	s.busy = true
	s.lastErr = ""
	s.stats, s.analysis = nil, nil
	s.state = next

	p := s.profile
	p.ContentStyles = append([]string(nil), p.ContentStyles...)
	p.ProductionConstraints = append([]string(nil), p.ProductionConstraints...)
	return Attempt{ID: s.attempt, ReturnTo: next.ReturnTo, Profile: p}, nil
}

// Complete stores the result of a current attempt and opens the dashboard.
func (s *Session) Complete(a Attempt, stats models.ChannelStats, analysis *models.ChannelAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.current(a, EventSucceeded); err != nil {
		return err
	}
	next, err := Transition(s.state, Succeeded())
	if err != nil {
		return err
	}
	ch := stats.Clone()
	s.stats = &ch
	s.analysis = analysis
	s.busy = false
	s.state = next
	return nil
}

// Fail returns to the screen the attempt started from and keeps the message
// for display.
func (s *Session) Fail(a Attempt, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.current(a, EventFailed); err != nil {
		return err
	}
	next, err := Transition(s.state, Failed(a.ReturnTo))
	if err != nil {
		return err
	}
	s.lastErr = apperr.UserMessage(cause)
	s.busy = false
	s.state = next
	return nil
}

// LastError is the message from the most recent failed attempt.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) current(a Attempt, kind EventKind) error {
	if !s.busy || a.ID != s.attempt {
		return apperr.NewInvalidTransition(s.state.String(), kind.String())
	}
	return nil
}
