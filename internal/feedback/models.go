package feedback

import "time"

type Type string

const (
	TypeBugReport       Type = "Bug Report"
	TypeFeatureRequest  Type = "Feature Request"
	TypeGeneralFeedback Type = "General Feedback"
	TypeCompliment      Type = "Compliment"
)

// Feedback is a message submitted from the public feedback form. Name and
// Email are optional.
type Feedback struct {
	ID        int64     `json:"id" db:"id"`
	Name      *string   `json:"name,omitempty" db:"name"`
	Email     *string   `json:"email,omitempty" db:"email"`
	Type      Type      `json:"type" db:"type"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type FeedbackDTO struct {
	Name    *string
	Email   *string
	Type    Type
	Message string
}
