// Package survey defines the onboarding questionnaire and turns its answers
// into an ordered strategy template recommendation.
package survey

import (
	"fmt"
	"sort"

	"strategy-studio/internal/domain"
	"strategy-studio/internal/templates"
)

// Option is one selectable survey answer.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Question is one survey question. Answers are recorded by option id.
type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options"`
}

// Question ids.
const (
	QuestionExperience = "experience"
	QuestionRisk       = "risk_tolerance"
	QuestionHorizon    = "horizon"
)

// Questions returns the onboarding survey in display order.
func Questions() []Question {
	return []Question{
		{
			ID:     QuestionExperience,
			Prompt: "How much trading experience do you have?",
			Options: []Option{
				{ID: "beginner", Label: "I'm just getting started"},
				{ID: "intermediate", Label: "I've traded for a while"},
				{ID: "advanced", Label: "I trade professionally"},
			},
		},
		{
			ID:     QuestionRisk,
			Prompt: "How much risk are you comfortable with?",
			Options: []Option{
				{ID: "low", Label: "Protect my capital"},
				{ID: "medium", Label: "Balanced growth"},
				{ID: "high", Label: "Maximize returns"},
			},
		},
		{
			ID:     QuestionHorizon,
			Prompt: "How long do you want to hold positions?",
			Options: []Option{
				{ID: "short", Label: "Days"},
				{ID: "medium", Label: "Weeks"},
				{ID: "long", Label: "Months"},
			},
		},
	}
}

// Validate checks that every answered question exists and names a known
// option. Unanswered questions are allowed; the recommender falls back to
// neutral defaults.
func Validate(answers domain.SurveyAnswers) error {
	byID := make(map[string]Question)
	for _, q := range Questions() {
		byID[q.ID] = q
	}

	for questionID, optionID := range answers {
		q, ok := byID[questionID]
		if !ok {
			return fmt.Errorf("unknown survey question %q", questionID)
		}
		found := false
		for _, opt := range q.Options {
			if opt.ID == optionID {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown option %q for question %q", optionID, questionID)
		}
	}
	return nil
}

// Recommend scores the template catalog against the answers and returns it
// best match first. The scoring is deterministic: identical answers always
// produce the identical ordering.
func Recommend(answers domain.SurveyAnswers) []templates.Template {
	catalog := templates.All()

	scores := make(map[string]int, len(catalog))
	for _, tmpl := range catalog {
		scores[tmpl.Slug] = score(tmpl, answers)
	}

	sort.SliceStable(catalog, func(i, j int) bool {
		si, sj := scores[catalog[i].Slug], scores[catalog[j].Slug]
		if si != sj {
			return si > sj
		}
		return catalog[i].Slug < catalog[j].Slug
	})
	return catalog
}

func score(tmpl templates.Template, answers domain.SurveyAnswers) int {
	total := 0

	switch answers[QuestionRisk] {
	case "low":
		if tmpl.Risk == templates.RiskConservative {
			total += 3
		}
		if tmpl.Risk == templates.RiskAggressive {
			total -= 2
		}
	case "medium", "":
		if tmpl.Risk == templates.RiskModerate {
			total += 3
		}
	case "high":
		if tmpl.Risk == templates.RiskAggressive {
			total += 3
		}
		if tmpl.Risk == templates.RiskConservative {
			total -= 1
		}
	}

	experience := experienceRank(domain.ExperienceLevel(answers[QuestionExperience]))
	required := experienceRank(tmpl.Experience)
	if experience >= required {
		total += 1
	} else {
		// Template asks for more experience than the user reports.
		total -= 2
	}

	// Longer horizons favor the slower trend templates.
	if answers[QuestionHorizon] == "long" && tmpl.Slug == "ma-cross" {
		total += 1
	}
	if answers[QuestionHorizon] == "short" && tmpl.Slug == "breakout" {
		total += 1
	}

	return total
}

func experienceRank(level domain.ExperienceLevel) int {
	switch level {
	case domain.ExperienceAdvanced:
		return 2
	case domain.ExperienceIntermediate:
		return 1
	default:
		return 0
	}
}
