package feedback

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mentori/core"
)

// Feedback is the mentor's commentary on one day of a mentee. There is at most one per (mentee, date).
type Feedback struct {
	ID             string      `json:"id" db:"id"`
	MenteeID       string      `json:"mentee_id" db:"mentee_id"`
	MentorID       null.String `json:"mentor_id" db:"mentor_id"`
	FeedbackDate   core.Date   `json:"date" db:"feedback_date"`
	GeneralComment string      `json:"general_comment" db:"general_comment"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
	Details        []Detail    `json:"details" db:"-"`
}

// Detail is the per-subject part of a Feedback. There is at most one per (feedback, subject).
type Detail struct {
	ID           string      `json:"id" db:"id"`
	FeedbackID   string      `json:"feedback_id" db:"feedback_id"`
	Subject      string      `json:"subject" db:"subject"`
	Summary      string      `json:"summary" db:"summary"`
	Detail       string      `json:"detail" db:"detail"`
	Important    bool        `json:"important" db:"is_important"`
	AssignmentID null.String `json:"assignment_id" db:"assignment_id"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

type SaveFeedback struct {
	GeneralComment string `json:"general_comment"`
}

func (sf *SaveFeedback) Validate(validate *validator.Validate) error {
	sf.GeneralComment = core.CleanString(sf.GeneralComment)
	return validate.Struct(sf)
}

type SaveDetail struct {
	Subject      string `json:"subject" validate:"required,subject"`
	Summary      string `json:"summary" validate:"required_without=Detail"`
	Detail       string `json:"detail"`
	Important    bool   `json:"important"`
	AssignmentID string `json:"assignment_id" validate:"omitempty,uuid"`
}

func (sd *SaveDetail) Validate(validate *validator.Validate) error {
	sd.Subject = core.CleanString(sd.Subject)
	sd.Summary = core.CleanString(sd.Summary)
	sd.Detail = core.CleanString(sd.Detail)
	sd.AssignmentID = core.CleanString(sd.AssignmentID, true /* lower */)
	return validate.Struct(sd)
}
