// Package session holds the per-user navigation state of the application and
// the pure transition function that moves it between screens.
package session

import (
	"fmt"

	"github.com/BerylCAtieno/tubearchitect/internal/apperr"
)

type Stage int

const (
	StageWelcome Stage = iota
	StageOnboarding
	StageConnecting
	StageConnectingAdvanced
	StageAnalyzing
	StageDashboard
)

var stageNames = map[Stage]string{
	StageWelcome:            "welcome",
	StageOnboarding:         "onboarding",
	StageConnecting:         "connecting",
	StageConnectingAdvanced: "connecting_advanced",
	StageAnalyzing:          "analyzing",
	StageDashboard:          "dashboard",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Step is an onboarding questionnaire page.
type Step int

const (
	StepIdentity Step = iota
	StepPassion
	StepStyle
	StepExperience
	StepGoals
	StepReality
	StepCommitment
)

// StepCount is the number of onboarding pages.
const StepCount = int(StepCommitment) + 1

var stepNames = [StepCount]string{"identity", "passion", "style", "experience", "goals", "reality", "commitment"}

func (s Step) String() string {
	if s >= 0 && int(s) < StepCount {
		return stepNames[s]
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Tab is a dashboard view.
type Tab string

const (
	TabOverview   Tab = "overview"
	TabStrategy   Tab = "strategy"
	TabIdeas      Tab = "ideas"
	TabProduction Tab = "production"
	TabSettings   Tab = "settings"
)

// Tabs lists the dashboard views in display order.
func Tabs() []Tab {
	return []Tab{TabOverview, TabStrategy, TabIdeas, TabProduction, TabSettings}
}

func ParseTab(s string) (Tab, bool) {
	for _, t := range Tabs() {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// State is the screen a session is on. Step is meaningful only during
// onboarding and Tab only on the dashboard. ReturnTo records where a failed
// analysis goes back to.
type State struct {
	Stage    Stage `json:"stage"`
	Step     Step  `json:"step"`
	Tab      Tab   `json:"tab,omitempty"`
	ReturnTo Stage `json:"-"`
}

func (s State) String() string {
	switch s.Stage {
	case StageOnboarding:
		return fmt.Sprintf("onboarding(%s)", s.Step)
	case StageDashboard:
		return fmt.Sprintf("dashboard(%s)", s.Tab)
	default:
		return s.Stage.String()
	}
}

type EventKind int

const (
	EventStart EventKind = iota
	EventResume
	EventNext
	EventBack
	EventAdvanced
	EventBeginAnalysis
	EventSucceeded
	EventFailed
	EventSelectTab
	EventNewAnalysis
	EventSignOut
)

var eventNames = map[EventKind]string{
	EventStart:         "start",
	EventResume:        "resume",
	EventNext:          "next",
	EventBack:          "back",
	EventAdvanced:      "advanced",
	EventBeginAnalysis: "begin_analysis",
	EventSucceeded:     "succeeded",
	EventFailed:        "failed",
	EventSelectTab:     "select_tab",
	EventNewAnalysis:   "new_analysis",
	EventSignOut:       "sign_out",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event drives a transition. Tab is read by EventSelectTab, ReturnTo by
// EventFailed.
type Event struct {
	Kind     EventKind
	Tab      Tab
	ReturnTo Stage
}

func Start() Event                { return Event{Kind: EventStart} }
func Resume() Event               { return Event{Kind: EventResume} }
func Next() Event                 { return Event{Kind: EventNext} }
func Back() Event                 { return Event{Kind: EventBack} }
func Advanced() Event             { return Event{Kind: EventAdvanced} }
func BeginAnalysis() Event        { return Event{Kind: EventBeginAnalysis} }
func Succeeded() Event            { return Event{Kind: EventSucceeded} }
func Failed(returnTo Stage) Event { return Event{Kind: EventFailed, ReturnTo: returnTo} }
func SelectTab(tab Tab) Event     { return Event{Kind: EventSelectTab, Tab: tab} }
func NewAnalysis() Event          { return Event{Kind: EventNewAnalysis} }
func SignOut() Event              { return Event{Kind: EventSignOut} }

// Transition computes the next state. It has no side effects; guards that
// depend on session data (step validation, busy flag) are applied by Session.
func Transition(from State, ev Event) (State, error) {
	if ev.Kind == EventSignOut {
		return State{Stage: StageWelcome}, nil
	}

	switch from.Stage {
	case StageWelcome:
		switch ev.Kind {
		case EventStart:
			return State{Stage: StageOnboarding, Step: StepIdentity}, nil
		case EventResume:
			return State{Stage: StageConnecting}, nil
		}

	case StageOnboarding:
		switch ev.Kind {
		case EventNext:
			if int(from.Step) >= StepCount-1 {
				return State{Stage: StageConnecting}, nil
			}
			return State{Stage: StageOnboarding, Step: from.Step + 1}, nil
		case EventBack:
			if from.Step <= StepIdentity {
				return from, nil
			}
			return State{Stage: StageOnboarding, Step: from.Step - 1}, nil
		}

	case StageConnecting:
		switch ev.Kind {
		case EventAdvanced:
			return State{Stage: StageConnectingAdvanced}, nil
		case EventBeginAnalysis:
			return State{Stage: StageAnalyzing, ReturnTo: StageConnecting}, nil
		}

	case StageConnectingAdvanced:
		switch ev.Kind {
		case EventBack:
			return State{Stage: StageConnecting}, nil
		case EventBeginAnalysis:
			return State{Stage: StageAnalyzing, ReturnTo: StageConnectingAdvanced}, nil
		}

	case StageAnalyzing:
		switch ev.Kind {
		case EventSucceeded:
			return State{Stage: StageDashboard, Tab: TabOverview}, nil
		case EventFailed:
			returnTo := ev.ReturnTo
			if returnTo != StageConnecting && returnTo != StageConnectingAdvanced {
				returnTo = from.ReturnTo
			}
			if returnTo != StageConnectingAdvanced {
				returnTo = StageConnecting
			}
			return State{Stage: returnTo}, nil
		}

	case StageDashboard:
		switch ev.Kind {
		case EventSelectTab:
			if _, ok := ParseTab(string(ev.Tab)); !ok {
				return from, apperr.NewInvalidInput("tab", fmt.Sprintf("Unknown dashboard tab %q", ev.Tab))
			}
			return State{Stage: StageDashboard, Tab: ev.Tab}, nil
		case EventNewAnalysis:
			return State{Stage: StageConnecting}, nil
		}
	}

	return from, apperr.NewInvalidTransition(from.String(), ev.Kind.String())
}
