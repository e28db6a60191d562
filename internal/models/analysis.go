package models

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// ChannelAnalysis is the strategy document returned by the model. Every field
// must be present in a response; strings may be empty. The validate tags add
// the checks that go beyond presence.
type ChannelAnalysis struct {
	Strengths          []string          `json:"strengths" validate:"required"`
	Weaknesses         []string          `json:"weaknesses" validate:"required"`
	SuccessfulConcept  SuccessfulConcept `json:"successfulConcept"`
	VideoIdeas         []VideoIdea       `json:"videoIdeas" validate:"required,dive"`
	ActionItems        []ActionItem      `json:"actionItems" validate:"required,dive"`
	ProductionSchedule []ScheduleEntry   `json:"productionSchedule" validate:"required,dive"`
	SEOTips            SEOTips           `json:"seoTips"`
}

type SuccessfulConcept struct {
	Description string   `json:"description"`
	KeyElements []string `json:"keyElements" validate:"required"`
}

type VideoIdea struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Reasoning   string `json:"reasoning"`
	Impact      Impact `json:"impact"`
}

// Impact values are free-form magnitudes such as "High" or "+20%".
type Impact struct {
	Views       string `json:"views"`
	Engagement  string `json:"engagement"`
	Subscribers string `json:"subscribers"`
}

type ActionItem struct {
	Task     string   `json:"task"`
	Priority Priority `json:"priority" validate:"oneof=High Medium Low"`
}

type ScheduleEntry struct {
	Day      string `json:"day"`
	Activity string `json:"activity"`
}

type SEOTips struct {
	TagSuggestions  []string `json:"tagSuggestions" validate:"required"`
	CommentStrategy string   `json:"commentStrategy"`
}
