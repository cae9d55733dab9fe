package domain

// ExperienceLevel is a coarse self-reported trading experience bucket,
// collected during onboarding.
type ExperienceLevel string

// Experience level constants.
const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// User is an authenticated account.
type User struct {
	UserID     string          `json:"userId"`
	Email      string          `json:"email"`
	Name       string          `json:"name"`
	Experience ExperienceLevel `json:"experience,omitempty"`
	CreatedAt  int64           `json:"createdAt"` // Unix ms
}

// SurveyAnswers holds one user's onboarding survey responses, keyed by
// question id. Answers are option ids, not display text.
type SurveyAnswers map[string]string

// Session is the typed per-user editor state that replaces ad hoc
// browser-local storage: survey progress plus the strategy draft currently
// being edited.
type Session struct {
	SessionID       string        `json:"sessionId"`
	UserID          string        `json:"userId"`
	SurveyAnswers   SurveyAnswers `json:"surveyAnswers,omitempty"`
	DraftStrategyID string        `json:"draftStrategyId,omitempty"`
	CreatedAt       int64         `json:"createdAt"`
	UpdatedAt       int64         `json:"updatedAt"`
}
