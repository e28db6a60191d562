package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/tubearchitect/internal/models"
)

func validProfile() models.ProfileInput {
	return models.ProfileInput{
		Name:                  "Sara",
		Niche:                 "Gaming",
		PassionBio:            "Speedrunning old platformers",
		ContentStyles:         []string{"Gaming", "Shorts"},
		ExperienceLevel:       models.ExperienceIntermediate,
		PrimaryGoal:           models.GoalCommunity,
		TimeCommitment:        "< 5 Hours (Side Hustle)",
		ProductionConstraints: []string{"Editing Speed"},
	}
}

func TestProfileValidation(t *testing.T) {
	tests := map[string]struct {
		mutate func(*models.ProfileInput)
		path   string
		tag    string
		msg    string
	}{
		"missing name": {
			mutate: func(p *models.ProfileInput) { p.Name = "" },
			path:   "name", tag: "required", msg: "name is required",
		},
		"short bio": {
			mutate: func(p *models.ProfileInput) { p.PassionBio = "too short" },
			path:   "passionBio", tag: "min", msg: "passionBio must be at least 11 characters",
		},
		"no styles": {
			mutate: func(p *models.ProfileInput) { p.ContentStyles = []string{} },
			path:   "contentStyles", tag: "min",
		},
		"duplicate style": {
			mutate: func(p *models.ProfileInput) { p.ContentStyles = []string{"Gaming", "Gaming"} },
			path:   "contentStyles", tag: "unique", msg: "contentStyles must not contain duplicates",
		},
		"unknown style": {
			mutate: func(p *models.ProfileInput) { p.ContentStyles = []string{"Cooking"} },
			path:   "contentStyles[0]", tag: "contentstyle", msg: `contentStyles[0] has an unknown value "Cooking"`,
		},
		"unknown experience": {
			mutate: func(p *models.ProfileInput) { p.ExperienceLevel = "Expert" },
			path:   "experienceLevel", tag: "oneof",
		},
		"unknown time commitment": {
			mutate: func(p *models.ProfileInput) { p.TimeCommitment = "Whenever" },
			path:   "timeCommitment", tag: "timecommitment",
		},
		"unknown constraint": {
			mutate: func(p *models.ProfileInput) { p.ProductionConstraints = []string{"Money"} },
			path:   "productionConstraints[0]", tag: "constraint",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(&p)

			err := Struct(p)
			var fe *FieldError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tt.path, fe.Path)
			assert.Equal(t, tt.tag, fe.Tag)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, fe.Error())
			}
		})
	}
}

func TestValidProfilePasses(t *testing.T) {
	assert.NoError(t, Struct(validProfile()))

	p := validProfile()
	p.ProductionConstraints = nil
	assert.NoError(t, Struct(p), "constraints are optional")
}

func TestStructPartialChecksNamedFieldsOnly(t *testing.T) {
	p := models.ProfileInput{Name: "Sara"}
	assert.Error(t, Struct(p))
	assert.NoError(t, StructPartial(p, "Name"))

	err := StructPartial(p, "Name", "Niche")
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "niche", fe.Path)
}

func TestAnalysisPathsAreNested(t *testing.T) {
	a := models.ChannelAnalysis{
		Strengths:          []string{"upload cadence"},
		Weaknesses:         []string{},
		SuccessfulConcept:  models.SuccessfulConcept{Description: "Tutorials", KeyElements: []string{"short intros"}},
		VideoIdeas:         []models.VideoIdea{},
		ActionItems:        []models.ActionItem{{Task: "Fix thumbnails", Priority: "Urgent"}},
		ProductionSchedule: []models.ScheduleEntry{},
		SEOTips:            models.SEOTips{TagSuggestions: []string{"tech"}, CommentStrategy: "Pin a question"},
	}

	err := Struct(a)
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "actionItems[0].priority", fe.Path)
	assert.Equal(t, "oneof", fe.Tag)

	a.ActionItems[0].Priority = models.PriorityHigh
	a.SEOTips.TagSuggestions = nil
	require.True(t, errors.As(Struct(a), &fe))
	assert.Equal(t, "seoTips.tagSuggestions", fe.Path)
}

func TestRequirePresent(t *testing.T) {
	type leaf struct {
		Title string `json:"title"`
		Note  string `json:"note,omitempty"`
	}
	type doc struct {
		Name  string `json:"name"`
		Leaf  leaf   `json:"leaf"`
		Items []leaf `json:"items"`
	}

	tests := []struct {
		name string
		raw  string
		path string
	}{
		{"complete", `{"name":"","leaf":{"title":""},"items":[]}`, ""},
		{"omitempty may be absent", `{"name":"a","leaf":{"title":"b"},"items":[{"title":"c"}]}`, ""},
		{"missing scalar", `{"leaf":{"title":"b"},"items":[]}`, "name"},
		{"null scalar", `{"name":null,"leaf":{"title":"b"},"items":[]}`, "name"},
		{"missing object reports leaf", `{"name":"a","items":[]}`, "leaf.title"},
		{"null array", `{"name":"a","leaf":{"title":"b"},"items":null}`, "items"},
		{"element field", `{"name":"a","leaf":{"title":"b"},"items":[{"title":"c"},{}]}`, "items[1].title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequirePresent([]byte(tt.raw), &doc{})
			if tt.path == "" {
				assert.NoError(t, err)
				return
			}
			var fe *FieldError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tt.path, fe.Path)
			assert.Equal(t, "required", fe.Tag)
			assert.Equal(t, tt.path+" is required", fe.Msg)
		})
	}
}

func TestRequirePresentRejectsInvalidJSON(t *testing.T) {
	assert.Error(t, RequirePresent([]byte("{"), &struct{}{}))
}

func TestDescribePassesOtherErrorsThrough(t *testing.T) {
	assert.NoError(t, Describe(nil))

	plain := errors.New("boom")
	assert.Same(t, plain, Describe(plain))
}
