// Package submission stores the answers of completed surveys.
package submission

import (
	"context"
	"time"

	"github.com/goliatone/go-surveygen/pkg/validation"
)

// Payload is one completed survey.
type Payload struct {
	ID              string            `json:"id"`
	SurveyID        string            `json:"surveyId"`
	SessionID       string            `json:"sessionId,omitempty"`
	Answers         validation.Values `json:"answers"`
	SubmittedAt     time.Time         `json:"submittedAt"`
	DurationSeconds int64             `json:"durationSeconds"`
}

// Sink receives completed surveys.
type Sink interface {
	Store(ctx context.Context, payload Payload) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, payload Payload) error

func (fn SinkFunc) Store(ctx context.Context, payload Payload) error {
	return fn(ctx, payload)
}

// NewPayload builds the payload of a survey started at startedAt and
// submitted at submittedAt. Negative durations clamp to zero.
func NewPayload(surveyID, sessionID string, answers validation.Values, startedAt, submittedAt time.Time) Payload {
	duration := int64(submittedAt.Sub(startedAt).Round(time.Second) / time.Second)
	if startedAt.IsZero() || duration < 0 {
		duration = 0
	}
	return Payload{
		SurveyID:        surveyID,
		SessionID:       sessionID,
		Answers:         answers.Clone(),
		SubmittedAt:     submittedAt.UTC(),
		DurationSeconds: duration,
	}
}
