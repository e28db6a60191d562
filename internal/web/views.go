package web

import (
	"fmt"
	"html/template"
	"slices"

	"github.com/BerylCAtieno/tubearchitect/internal/models"
	"github.com/BerylCAtieno/tubearchitect/internal/session"
)

// Icon is one of the fixed glyphs the templates may draw.
type Icon int

const (
	IconOverview Icon = iota
	IconStrategy
	IconIdeas
	IconProduction
	IconSettings
	IconUsers
	IconVideo
	IconEye
	IconTrendUp
	IconAlert
	IconDownload
	IconLogout
	IconSparkles
	IconYouTube
	iconCount
)

// Stroke paths on a 24x24 grid.
var iconPaths = [iconCount]string{
	IconOverview:   "M3 3h7v9H3zM14 3h7v5h-7zM14 12h7v9h-7zM3 16h7v5H3z",
	IconStrategy:   "M12 2a10 10 0 1 0 0 20 10 10 0 0 0 0-20zM12 6a6 6 0 1 0 0 12 6 6 0 0 0 0-12zM12 10a2 2 0 1 0 0 4 2 2 0 0 0 0-4z",
	IconIdeas:      "M9 18h6M10 22h4M12 2a7 7 0 0 0-4 12.7V17h8v-2.3A7 7 0 0 0 12 2z",
	IconProduction: "M3 4h18v18H3zM16 2v4M8 2v4M3 10h18",
	IconSettings:   "M12 15a3 3 0 1 0 0-6 3 3 0 0 0 0 6zM19.4 15a1.7 1.7 0 0 0 .3 1.8l.1.1a2 2 0 1 1-2.8 2.8l-.1-.1a1.7 1.7 0 0 0-1.8-.3 1.7 1.7 0 0 0-1 1.5V21a2 2 0 1 1-4 0v-.1a1.7 1.7 0 0 0-1.1-1.5 1.7 1.7 0 0 0-1.8.3l-.1.1a2 2 0 1 1-2.8-2.8l.1-.1a1.7 1.7 0 0 0 .3-1.8 1.7 1.7 0 0 0-1.5-1H3a2 2 0 1 1 0-4h.1a1.7 1.7 0 0 0 1.5-1.1 1.7 1.7 0 0 0-.3-1.8l-.1-.1a2 2 0 1 1 2.8-2.8l.1.1a1.7 1.7 0 0 0 1.8.3H9a1.7 1.7 0 0 0 1-1.5V3a2 2 0 1 1 4 0v.1a1.7 1.7 0 0 0 1 1.5 1.7 1.7 0 0 0 1.8-.3l.1-.1a2 2 0 1 1 2.8 2.8l-.1.1a1.7 1.7 0 0 0-.3 1.8V9a1.7 1.7 0 0 0 1.5 1H21a2 2 0 1 1 0 4h-.1a1.7 1.7 0 0 0-1.5 1z",
	IconUsers:      "M17 21v-2a4 4 0 0 0-4-4H5a4 4 0 0 0-4 4v2M9 11a4 4 0 1 0 0-8 4 4 0 0 0 0 8zM23 21v-2a4 4 0 0 0-3-3.9M16 3.1a4 4 0 0 1 0 7.8",
	IconVideo:      "M23 7l-7 5 7 5zM1 5h15v14H1z",
	IconEye:        "M1 12s4-8 11-8 11 8 11 8-4 8-11 8S1 12 1 12zM12 15a3 3 0 1 0 0-6 3 3 0 0 0 0 6z",
	IconTrendUp:    "M23 6l-9.5 9.5-5-5L1 18M17 6h6v6",
	IconAlert:      "M12 2a10 10 0 1 0 0 20 10 10 0 0 0 0-20zM12 8v4M12 16h.01",
	IconDownload:   "M21 15v4a2 2 0 0 1-2 2H5a2 2 0 0 1-2-2v-4M7 10l5 5 5-5M12 15V3",
	IconLogout:     "M9 21H5a2 2 0 0 1-2-2V5a2 2 0 0 1 2-2h4M16 17l5-5-5-5M21 12H9",
	IconSparkles:   "M12 3l1.9 5.8L20 10.7l-6.1 1.9L12 18.5l-1.9-5.9L4 10.7l6.1-1.9z",
	IconYouTube:    "M22.5 6.4a2.8 2.8 0 0 0-2-2C18.8 4 12 4 12 4s-6.8 0-8.5.4a2.8 2.8 0 0 0-2 2A29 29 0 0 0 1 12a29 29 0 0 0 .5 5.6 2.8 2.8 0 0 0 2 2c1.7.4 8.5.4 8.5.4s6.8 0 8.5-.4a2.8 2.8 0 0 0 2-2A29 29 0 0 0 23 12a29 29 0 0 0-.5-5.6zM9.8 15.5V8.5l5.7 3.5z",
}

// SVG renders the icon inline. The markup comes only from iconPaths.
func (i Icon) SVG() template.HTML {
	if i < 0 || i >= iconCount {
		return ""
	}
	return template.HTML(fmt.Sprintf(
		`<svg class="icon" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true"><path d="%s"/></svg>`,
		iconPaths[i]))
}

// screen pairs a session stage with the page template that draws it.
type screen struct {
	template string
	title    string
}

var screens = map[session.Stage]screen{
	session.StageWelcome:            {"landing.tmpl", "TubeArchitect"},
	session.StageOnboarding:         {"onboarding.tmpl", "Build your creator profile"},
	session.StageConnecting:         {"connect.tmpl", "Connect your channel"},
	session.StageConnectingAdvanced: {"advanced.tmpl", "Connect a live channel"},
	session.StageAnalyzing:          {"analyzing.tmpl", "Analyzing your channel"},
	session.StageDashboard:          {"dashboard.tmpl", "Your strategy"},
}

func screenFor(stage session.Stage) screen {
	if s, ok := screens[stage]; ok {
		return s
	}
	return screens[session.StageWelcome]
}

// Step bodies, indexed by session.Step.
var stepTemplates = [session.StepCount]string{
	session.StepIdentity:   "step_identity",
	session.StepPassion:    "step_passion",
	session.StepStyle:      "step_style",
	session.StepExperience: "step_experience",
	session.StepGoals:      "step_goals",
	session.StepReality:    "step_reality",
	session.StepCommitment: "step_commitment",
}

var stepTitles = [session.StepCount]string{
	session.StepIdentity:   "Who are you?",
	session.StepPassion:    "What lights you up?",
	session.StepStyle:      "How do you like to create?",
	session.StepExperience: "Where are you today?",
	session.StepGoals:      "What is the goal?",
	session.StepReality:    "Reality check",
	session.StepCommitment: "Ready to build",
}

type stepInfo struct {
	Number int
	Count  int
	Title  string
	First  bool
	Last   bool
}

func stepInfoFor(step session.Step) stepInfo {
	return stepInfo{
		Number: int(step) + 1,
		Count:  session.StepCount,
		Title:  stepTitles[step],
		First:  step == session.StepIdentity,
		Last:   int(step) == session.StepCount-1,
	}
}

// choice is an option rendered with its selection state.
type choice struct {
	models.Option
	Selected bool
}

func choices(options []models.Option, selected func(id string) bool) []choice {
	out := make([]choice, len(options))
	for i, o := range options {
		out[i] = choice{Option: o, Selected: selected(o.ID)}
	}
	return out
}

func plainChoices(values []string, selected func(id string) bool) []choice {
	out := make([]choice, len(values))
	for i, v := range values {
		out[i] = choice{Option: models.Option{ID: v, Label: v}, Selected: selected(v)}
	}
	return out
}

// onboardingOptions holds every option list with the profile's current
// answers marked.
type onboardingOptions struct {
	Niches      []choice
	Styles      []choice
	Experience  []choice
	Goals       []choice
	Time        []choice
	Constraints []choice
}

func optionsFor(p models.ProfileInput) onboardingOptions {
	is := func(v string) func(string) bool {
		return func(id string) bool { return id == v }
	}
	in := func(set []string) func(string) bool {
		return func(id string) bool { return slices.Contains(set, id) }
	}
	return onboardingOptions{
		Niches:      plainChoices(models.Niches, is(p.Niche)),
		Styles:      choices(models.ContentStyles, in(p.ContentStyles)),
		Experience:  choices(models.ExperienceLevels, is(string(p.ExperienceLevel))),
		Goals:       choices(models.PrimaryGoals, is(string(p.PrimaryGoal))),
		Time:        plainChoices(models.TimeCommitments, is(p.TimeCommitment)),
		Constraints: plainChoices(models.ProductionConstraints, in(p.ProductionConstraints)),
	}
}

// tabView is the content of one dashboard tab. Every variant names the
// template that renders it.
type tabView interface {
	template() string
}

type statCard struct {
	Icon  Icon
	Label string
	Value uint64
}

type trendBar struct {
	Value   int
	Percent int
}

type overviewTab struct {
	Channel    models.ChannelStats
	Cards      []statCard
	Trend      []trendBar
	Strengths  []string
	Weaknesses []string
}

type strategyTab struct {
	Concept models.SuccessfulConcept
	SEO     models.SEOTips
}

type ideasTab struct {
	Ideas []models.VideoIdea
}

type productionTab struct {
	Schedule    []models.ScheduleEntry
	ActionItems []models.ActionItem
}

type settingsTab struct {
	Profile       models.ProfileInput
	Styles        []string
	HasCredential bool
}

func (overviewTab) template() string   { return "tab_overview" }
func (strategyTab) template() string   { return "tab_strategy" }
func (ideasTab) template() string      { return "tab_ideas" }
func (productionTab) template() string { return "tab_production" }
func (settingsTab) template() string   { return "tab_settings" }

// viewFor projects the session snapshot onto the selected tab.
func viewFor(tab session.Tab, snap session.Snapshot) tabView {
	analysis := models.ChannelAnalysis{}
	if snap.Analysis != nil {
		analysis = *snap.Analysis
	}
	channel := models.ChannelStats{}
	if snap.Channel != nil {
		channel = *snap.Channel
	}

	switch tab {
	case session.TabStrategy:
		return strategyTab{Concept: analysis.SuccessfulConcept, SEO: analysis.SEOTips}
	case session.TabIdeas:
		return ideasTab{Ideas: analysis.VideoIdeas}
	case session.TabProduction:
		return productionTab{Schedule: analysis.ProductionSchedule, ActionItems: analysis.ActionItems}
	case session.TabSettings:
		styles := make([]string, 0, len(snap.Profile.ContentStyles))
		for _, o := range models.ContentStyles {
			if slices.Contains(snap.Profile.ContentStyles, o.ID) {
				styles = append(styles, o.Label)
			}
		}
		return settingsTab{Profile: snap.Profile, Styles: styles, HasCredential: snap.HasCredential}
	default:
		return overviewTab{
			Channel: channel,
			Cards: []statCard{
				{Icon: IconUsers, Label: "Subscribers", Value: channel.SubscriberCount},
				{Icon: IconVideo, Label: "Videos", Value: channel.VideoCount},
				{Icon: IconEye, Label: "Total Views", Value: channel.TotalViewCount},
			},
			Trend:      trendBars(channel.RecentViewsTrend),
			Strengths:  analysis.Strengths,
			Weaknesses: analysis.Weaknesses,
		}
	}
}

// trendBars scales the views trend so the largest value fills the chart.
func trendBars(values []int) []trendBar {
	peak := 0
	for _, v := range values {
		peak = max(peak, v)
	}
	bars := make([]trendBar, len(values))
	for i, v := range values {
		bars[i] = trendBar{Value: v}
		if peak > 0 && v > 0 {
			bars[i].Percent = v * 100 / peak
		}
	}
	return bars
}

type tabLink struct {
	Tab    session.Tab
	Label  string
	Icon   Icon
	Active bool
}

var tabLabels = map[session.Tab]struct {
	label string
	icon  Icon
}{
	session.TabOverview:   {"Overview", IconOverview},
	session.TabStrategy:   {"Strategy", IconStrategy},
	session.TabIdeas:      {"Video Ideas", IconIdeas},
	session.TabProduction: {"Production", IconProduction},
	session.TabSettings:   {"Settings", IconSettings},
}

func tabLinks(active session.Tab) []tabLink {
	tabs := session.Tabs()
	links := make([]tabLink, len(tabs))
	for i, t := range tabs {
		meta := tabLabels[t]
		links[i] = tabLink{Tab: t, Label: meta.label, Icon: meta.icon, Active: t == active}
	}
	return links
}

// page is the data every screen template receives.
type page struct {
	Title    string
	Snapshot session.Snapshot
	Error    string
	Step     stepInfo
	Options  onboardingOptions
	Channels []models.ChannelStats
	Tabs     []tabLink
	Body     template.HTML
}
