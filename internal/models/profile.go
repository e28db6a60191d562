package models

import (
	"slices"
	"strings"
)

type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "Beginner"
	ExperienceIntermediate ExperienceLevel = "Intermediate"
	ExperienceAdvanced     ExperienceLevel = "Advanced"
)

type PrimaryGoal string

const (
	GoalMonetization   PrimaryGoal = "Monetization"
	GoalAudienceGrowth PrimaryGoal = "Audience Growth"
	GoalPersonalBrand  PrimaryGoal = "Personal Brand"
	GoalCommunity      PrimaryGoal = "Community"
)

// Option lists offered by the onboarding wizard.
var (
	Niches = []string{
		"Tech & Coding", "Gaming", "Lifestyle & Vlog",
		"Education & How-to", "Business & Finance", "Entertainment & Comedy",
		"Health & Fitness", "Other",
	}

	ContentStyles = []Option{
		{ID: "Education", Label: "Education / Tutorials"},
		{ID: "Commentary", Label: "Commentary / Analysis"},
		{ID: "Documentary", Label: "Storytelling / Docu"},
		{ID: "Vlogs", Label: "Vlogs / Reality"},
		{ID: "Gaming", Label: "Gaming / Let's Play"},
		{ID: "Shorts", Label: "Shorts-Only"},
		{ID: "Hybrid", Label: "Hybrid / Mixed"},
	}

	ExperienceLevels = []Option{
		{ID: string(ExperienceBeginner), Label: "Explorer", Description: "Just starting or have < 10 videos."},
		{ID: string(ExperienceIntermediate), Label: "Builder", Description: "Some traction but inconsistent growth."},
		{ID: string(ExperienceAdvanced), Label: "Authority", Description: "Solid audience, looking to scale."},
	}

	PrimaryGoals = []Option{
		{ID: string(GoalMonetization), Label: "Monetization", Description: "I need this to generate income."},
		{ID: string(GoalAudienceGrowth), Label: "Audience Growth", Description: "I want 100k subscribers."},
		{ID: string(GoalPersonalBrand), Label: "Personal Brand", Description: "Known as an expert."},
		{ID: string(GoalCommunity), Label: "Community", Description: "Build a loyal tribe."},
	}

	TimeCommitments = []string{
		"< 5 Hours (Side Hustle)",
		"10-20 Hours (Part-Time)",
		"40+ Hours (Full-Time)",
	}

	ProductionConstraints = []string{
		"Ideas / Scripting",
		"Filming / Camera",
		"Editing Speed",
		"Thumbnails / Design",
		"None (I have a team)",
	}
)

type Option struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// ProfileInput holds the onboarding answers. ModelCredential is a secret and
// is stripped by Redacted before the profile leaves the session.
type ProfileInput struct {
	Name                  string          `json:"name" validate:"required"`
	Niche                 string          `json:"niche" validate:"required"`
	PassionBio            string          `json:"passionBio" validate:"required,min=11"`
	ContentStyles         []string        `json:"contentStyles" validate:"required,min=1,unique,dive,contentstyle"`
	ExperienceLevel       ExperienceLevel `json:"experienceLevel" validate:"required,oneof=Beginner Intermediate Advanced"`
	PrimaryGoal           PrimaryGoal     `json:"primaryGoal" validate:"required,oneof=Monetization 'Audience Growth' 'Personal Brand' Community"`
	TimeCommitment        string          `json:"timeCommitment" validate:"required,timecommitment"`
	ProductionConstraints []string        `json:"productionConstraints" validate:"unique,dive,constraint"`
	ModelCredential       string          `json:"modelCredential,omitempty"`
}

// Redacted returns a copy without the model credential.
func (p ProfileInput) Redacted() ProfileInput {
	p.ModelCredential = ""
	p.ContentStyles = slices.Clone(p.ContentStyles)
	p.ProductionConstraints = slices.Clone(p.ProductionConstraints)
	return p
}

// Normalize trims text fields and collapses the set-valued fields.
func (p *ProfileInput) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Niche = strings.TrimSpace(p.Niche)
	p.PassionBio = strings.TrimSpace(p.PassionBio)
	p.TimeCommitment = strings.TrimSpace(p.TimeCommitment)
	p.ModelCredential = strings.TrimSpace(p.ModelCredential)
	p.ContentStyles = dedupe(p.ContentStyles)
	p.ProductionConstraints = dedupe(p.ProductionConstraints)
}

// Toggle adds value to set when absent and removes it when present.
func Toggle(set []string, value string) []string {
	if i := slices.Index(set, value); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), value)
}

// SortedSet returns a sorted copy of a set-valued field.
func SortedSet(set []string) []string {
	out := slices.Clone(set)
	slices.Sort(out)
	return out
}

func IsContentStyle(id string) bool {
	return slices.ContainsFunc(ContentStyles, func(o Option) bool { return o.ID == id })
}

func IsTimeCommitment(v string) bool {
	return slices.Contains(TimeCommitments, v)
}

func IsProductionConstraint(v string) bool {
	return slices.Contains(ProductionConstraints, v)
}

func dedupe(values []string) []string {
	if values == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
