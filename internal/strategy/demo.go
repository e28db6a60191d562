package strategy

import (
	"context"
	"time"

	"github.com/BerylCAtieno/tubearchitect/internal/models"
)

const DefaultDemoDelay = 1500 * time.Millisecond

// DemoFallbackPolicy answers with the canned demonstration strategy when no
// model credential is configured. It never makes an outbound call.
type DemoFallbackPolicy struct {
	Delay time.Duration
}

// Analysis waits for the synthetic delay, or until ctx is done.
func (p DemoFallbackPolicy) Analysis(ctx context.Context) (*models.ChannelAnalysis, error) {
	if p.Delay > 0 {
		timer := time.NewTimer(p.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return DemoAnalysis(), nil
}

// DemoAnalysis returns a fresh copy of the demonstration strategy.
func DemoAnalysis() *models.ChannelAnalysis {
	return &models.ChannelAnalysis{
		Strengths: []string{
			"Consistent upload history with 142 published videos",
			"Healthy views-per-subscriber ratio for a mid-sized tech channel",
			"Clear niche positioning around future technology",
		},
		Weaknesses: []string{
			"Thumbnails lack a recognizable visual identity",
			"Low comment engagement compared to view counts",
			"No Shorts presence to feed the long-form funnel",
		},
		SuccessfulConcept: models.SuccessfulConcept{
			Description: "Explain upcoming technology through practical, hands-on experiments that show viewers what changes in their daily life.",
			KeyElements: []string{
				"Hands-on demonstrations",
				"Clear before/after comparisons",
				"Strong opinion in the first 30 seconds",
			},
		},
		VideoIdeas: []models.VideoIdea{
			{
				Title:       "I Lived With Only AI Assistants for 7 Days",
				Description: "A week-long challenge replacing every app with an AI assistant.",
				Reasoning:   "Challenge formats drive retention and the topic is trending.",
				Impact:      models.Impact{Views: "High", Engagement: "High", Subscribers: "+800"},
			},
			{
				Title:       "The $50 Gadget That Beats a $1000 Phone",
				Description: "Side-by-side test of a budget device against a flagship.",
				Reasoning:   "Price contrast titles have strong click-through rates.",
				Impact:      models.Impact{Views: "High", Engagement: "Medium", Subscribers: "+500"},
			},
			{
				Title:       "Why Your Next Laptop Won't Have a Keyboard",
				Description: "A speculative look at input devices over the next decade.",
				Reasoning:   "Future predictions invite debate in the comments.",
				Impact:      models.Impact{Views: "Medium", Engagement: "High", Subscribers: "+300"},
			},
			{
				Title:       "Building a Smart Home for Under $200",
				Description: "Step-by-step budget smart home build.",
				Reasoning:   "Tutorial content is evergreen and ranks well in search.",
				Impact:      models.Impact{Views: "Medium", Engagement: "Medium", Subscribers: "+400"},
			},
			{
				Title:       "I Tested 5 Viral Tech Hacks So You Don't Have To",
				Description: "Debunking or confirming popular tech tips from social media.",
				Reasoning:   "Myth-busting borrows traffic from already viral topics.",
				Impact:      models.Impact{Views: "High", Engagement: "High", Subscribers: "+600"},
			},
			{
				Title:       "What 10 Years of Using the Same Phone Taught Me",
				Description: "A personal story about upgrade culture and longevity.",
				Reasoning:   "Personal narratives build loyalty and watch time.",
				Impact:      models.Impact{Views: "Medium", Engagement: "High", Subscribers: "+350"},
			},
			{
				Title:       "The Hidden Settings Every Phone Owner Should Change",
				Description: "Quick list of privacy and battery settings.",
				Reasoning:   "Search-friendly utility content with broad appeal.",
				Impact:      models.Impact{Views: "High", Engagement: "Medium", Subscribers: "+450"},
			},
			{
				Title:       "Reacting to Tech Predictions From 2010",
				Description: "Reviewing old predictions and scoring their accuracy.",
				Reasoning:   "Nostalgia plus reaction formats are cheap to produce.",
				Impact:      models.Impact{Views: "Medium", Engagement: "Medium", Subscribers: "+250"},
			},
			{
				Title:       "I Asked 100 Developers Which AI Tool They Actually Use",
				Description: "Survey-driven video with real usage data.",
				Reasoning:   "Original data makes the video citable and shareable.",
				Impact:      models.Impact{Views: "Medium", Engagement: "High", Subscribers: "+500"},
			},
			{
				Title:       "60-Second Tech News: The Week in Review",
				Description: "A recurring Shorts series summarizing weekly news.",
				Reasoning:   "Shorts feed discovery and funnel viewers to long-form videos.",
				Impact:      models.Impact{Views: "High", Engagement: "Low", Subscribers: "+700"},
			},
		},
		ActionItems: []models.ActionItem{
			{Task: "Redesign thumbnails with one consistent color and face placement", Priority: models.PriorityHigh},
			{Task: "Pin a question comment on every new upload", Priority: models.PriorityHigh},
			{Task: "Publish two Shorts per week cut from long-form videos", Priority: models.PriorityMedium},
			{Task: "Add chapters and keyword-rich descriptions to the top 20 videos", Priority: models.PriorityMedium},
			{Task: "Create an end screen playlist for new viewers", Priority: models.PriorityLow},
		},
		ProductionSchedule: []models.ScheduleEntry{
			{Day: "Monday", Activity: "Research and outline the weekly video"},
			{Day: "Tuesday", Activity: "Script and plan the shots"},
			{Day: "Wednesday", Activity: "Film the main video and B-roll"},
			{Day: "Thursday", Activity: "Edit and design the thumbnail"},
			{Day: "Friday", Activity: "Publish and reply to comments in the first hour"},
			{Day: "Saturday", Activity: "Cut two Shorts from the week's footage"},
			{Day: "Sunday", Activity: "Review analytics and pick next week's topic"},
		},
		SEOTips: models.SEOTips{
			TagSuggestions:  []string{"future tech", "gadget review", "ai tools", "tech explained", "smart home"},
			CommentStrategy: "Reply to every comment in the first hour, pin a question that invites opinions, and heart thoughtful replies to reward discussion.",
		},
	}
}
