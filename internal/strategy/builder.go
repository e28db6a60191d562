package strategy

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/BerylCAtieno/tubearchitect/internal/apperr"
	"github.com/BerylCAtieno/tubearchitect/internal/models"
)

const (
	DefaultLanguage = "English"
	// ideaCount is requested in the prompt only; Parse does not enforce it.
	ideaCount = 10
)

// Request is everything sent to the model for one analysis.
type Request struct {
	SystemInstruction string
	Prompt            string
	Schema            *genai.Schema
}

// Instruction joins the system instruction and the prompt.
func (r *Request) Instruction() string {
	return r.SystemInstruction + "\n\n" + r.Prompt
}

// Builder renders Requests. It holds no state besides its options, so Build
// is a pure function of the profile and stats.
type Builder struct {
	Language string
}

func NewBuilder(language string) *Builder {
	if strings.TrimSpace(language) == "" {
		language = DefaultLanguage
	}
	return &Builder{Language: language}
}

func (b *Builder) Build(profile models.ProfileInput, stats models.ChannelStats) (*Request, error) {
	switch {
	case strings.TrimSpace(profile.Niche) == "":
		return nil, apperr.NewInvalidInput("niche", "niche is required to build a strategy")
	case strings.TrimSpace(profile.PassionBio) == "":
		return nil, apperr.NewInvalidInput("passionBio", "passionBio is required to build a strategy")
	case len(profile.ContentStyles) == 0:
		return nil, apperr.NewInvalidInput("contentStyles", "at least one content style is required to build a strategy")
	case !stats.Resolved():
		return nil, apperr.NewInvalidInput("channel", "channel statistics have not been resolved")
	}

	return &Request{
		SystemInstruction: b.systemInstruction(profile, stats),
		Prompt:            b.prompt(profile, stats),
		Schema:            AnalysisSchema(),
	}, nil
}

func (b *Builder) systemInstruction(profile models.ProfileInput, stats models.ChannelStats) string {
	return fmt.Sprintf(`You are a YouTube Growth Architect.
Your task is a deep, complete analysis of the real channel data provided.
Your answer MUST be a single, precise JSON object written in %s, with no markdown and no surrounding text.
The data belongs to the channel "%s", which has %d subscribers and %d videos.
Video ideas must be original and unconventional, grounded in the psychology of the %s audience.
Avoid generic advice. Be specific in the SEO tips and the production schedule.`,
		b.Language, stats.Name, stats.SubscriberCount, stats.VideoCount, profile.Niche)
}

func (b *Builder) prompt(profile models.ProfileInput, stats models.ChannelStats) string {
	constraints := "None specified"
	if len(profile.ProductionConstraints) > 0 {
		constraints = strings.Join(models.SortedSet(profile.ProductionConstraints), ", ")
	}

	return fmt.Sprintf(`Perform a strategic teardown of the following YouTube channel.

Channel data:
- Name: %s
- Subscribers: %d
- Total views: %d
- Published videos: %d

Creator profile:
- Name: %s
- Niche: %s
- Passion: %s
- Content styles: %s
- Experience level: %s
- Primary goal: %s
- Weekly time budget: %s
- Production bottlenecks: %s

Required in the JSON:
1. strengths and weaknesses based on the channel numbers.
2. successfulConcept: a description of the content strategy and its key elements.
3. videoIdeas: exactly %d ideas, each with title, description, reasoning and expected impact (views, engagement, subscribers).
4. actionItems: immediate tasks, each with a priority of High, Medium or Low.
5. productionSchedule: a precise weekly schedule that fits the time budget, one entry per day.
6. seoTips: golden tag suggestions and a strategy for handling comments.`,
		stats.Name,
		stats.SubscriberCount,
		stats.TotalViewCount,
		stats.VideoCount,
		profile.Name,
		profile.Niche,
		profile.PassionBio,
		strings.Join(models.SortedSet(profile.ContentStyles), ", "),
		profile.ExperienceLevel,
		profile.PrimaryGoal,
		profile.TimeCommitment,
		constraints,
		ideaCount,
	)
}

// AnalysisSchema mirrors models.ChannelAnalysis. Every property is required.
func AnalysisSchema() *genai.Schema {
	return object(map[string]*genai.Schema{
		"strengths":  stringArray(),
		"weaknesses": stringArray(),
		"successfulConcept": object(map[string]*genai.Schema{
			"description": str(),
			"keyElements": stringArray(),
		}, "description", "keyElements"),
		"videoIdeas": array(object(map[string]*genai.Schema{
			"title":       str(),
			"description": str(),
			"reasoning":   str(),
			"impact": object(map[string]*genai.Schema{
				"views":       str(),
				"engagement":  str(),
				"subscribers": str(),
			}, "views", "engagement", "subscribers"),
		}, "title", "description", "reasoning", "impact")),
		"actionItems": array(object(map[string]*genai.Schema{
			"task": str(),
			"priority": {
				Type: genai.TypeString,
				Enum: []string{string(models.PriorityHigh), string(models.PriorityMedium), string(models.PriorityLow)},
			},
		}, "task", "priority")),
		"productionSchedule": array(object(map[string]*genai.Schema{
			"day":      str(),
			"activity": str(),
		}, "day", "activity")),
		"seoTips": object(map[string]*genai.Schema{
			"tagSuggestions":  stringArray(),
			"commentStrategy": str(),
		}, "tagSuggestions", "commentStrategy"),
	}, "strengths", "weaknesses", "successfulConcept", "videoIdeas", "actionItems", "productionSchedule", "seoTips")
}

func object(props map[string]*genai.Schema, required ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

func array(items *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: items}
}

func stringArray() *genai.Schema {
	return array(str())
}

func str() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}
