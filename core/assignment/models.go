package assignment

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mentori/core"
)

var (
	dateRangeTag  = "daterange"
	dateRangeText = "end_date must not be before start_date"
)

type Assignment struct {
	ID            string      `json:"id" db:"id"`
	MentorID      string      `json:"mentor_id" db:"mentor_id"`
	MenteeID      string      `json:"mentee_id" db:"mentee_id"`
	Subject       string      `json:"subject" db:"subject"`
	Title         string      `json:"title" db:"title"`
	Content       string      `json:"content" db:"content"`
	StartDate     core.Date   `json:"start_date" db:"start_date"`
	EndDate       core.Date   `json:"end_date" db:"end_date"` // inclusive
	Completed     bool        `json:"completed" db:"is_completed"`
	AttachmentURL null.String `json:"attachment_url" db:"attachment_url"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// ActiveOn reports whether start_date <= d <= end_date.
func (a Assignment) ActiveOn(d core.Date) bool {
	return d.Between(a.StartDate, a.EndDate)
}

// Intersects reports whether the assignment interval overlaps [from, to].
func (a Assignment) Intersects(from, to core.Date) bool {
	return a.StartDate <= to && a.EndDate >= from
}

// Verification is a mentee's proof of study for one Assignment.
type Verification struct {
	ID            string      `json:"id" db:"id"`
	AssignmentID  string      `json:"assignment_id" db:"assignment_id"`
	MenteeID      string      `json:"mentee_id" db:"mentee_id"`
	Content       string      `json:"content" db:"content"`
	AttachmentURL null.String `json:"attachment_url" db:"attachment_url"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	Subject       string    `json:"subject" validate:"required,subject"`
	Title         string    `json:"title" validate:"required,max=255"`
	Content       string    `json:"content"`
	StartDate     core.Date `json:"start_date" validate:"required,date"`
	EndDate       core.Date `json:"end_date" validate:"required,date"`
	AttachmentURL string    `json:"attachment_url" validate:"omitempty,url"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Subject = core.CleanString(na.Subject)
	na.Title = core.CleanString(na.Title)
	na.Content = core.CleanString(na.Content)
	na.AttachmentURL = core.CleanString(na.AttachmentURL)
	return validate.Struct(na)
}

// UpdateAssignment defines what information may be provided to modify an existing Assignment.
// Blank fields keep their current value.
type UpdateAssignment struct {
	Subject       string    `json:"subject" validate:"required,subject"`
	Title         string    `json:"title" validate:"required,max=255"`
	Content       *string   `json:"content"`
	StartDate     core.Date `json:"start_date" validate:"required,date"`
	EndDate       core.Date `json:"end_date" validate:"required,date"`
	AttachmentURL *string   `json:"attachment_url" validate:"omitempty"`
}

func (ua *UpdateAssignment) Validate(orig Assignment, validate *validator.Validate) error {
	if s := core.CleanString(ua.Subject); s != "" {
		ua.Subject = s
	} else {
		ua.Subject = orig.Subject
	}
	if title := core.CleanString(ua.Title); title != "" {
		ua.Title = title
	} else {
		ua.Title = orig.Title
	}
	if ua.StartDate == "" {
		ua.StartDate = orig.StartDate
	}
	if ua.EndDate == "" {
		ua.EndDate = orig.EndDate
	}
	if ua.Content != nil {
		content := core.CleanString(*ua.Content)
		ua.Content = &content
	}
	if err := validate.Struct(ua); err != nil {
		return err
	}
	if ua.AttachmentURL != nil && *ua.AttachmentURL != "" {
		return validate.Var(*ua.AttachmentURL, "url")
	}
	return nil
}

// NewVerification contains the proof submitted by a mentee.
type NewVerification struct {
	Content       string `json:"content" validate:"required_without=AttachmentURL"`
	AttachmentURL string `json:"attachment_url" validate:"omitempty,url"`
}

func (nv *NewVerification) Validate(validate *validator.Validate) error {
	nv.Content = core.CleanString(nv.Content)
	nv.AttachmentURL = core.CleanString(nv.AttachmentURL)
	return validate.Struct(nv)
}

type QueryFilter struct {
	MenteeID  string
	ActiveOn  core.Date // start_date <= ActiveOn <= end_date
	From      core.Date // intersects [From, To]
	To        core.Date
	EndingOn  core.Date
	Completed *bool
}

func (qf QueryFilter) Match(a Assignment) bool {
	if qf.MenteeID != "" && a.MenteeID != qf.MenteeID {
		return false
	}
	if qf.ActiveOn != "" && !a.ActiveOn(qf.ActiveOn) {
		return false
	}
	if qf.From != "" && a.EndDate < qf.From {
		return false
	}
	if qf.To != "" && a.StartDate > qf.To {
		return false
	}
	if qf.EndingOn != "" && a.EndDate != qf.EndingOn {
		return false
	}
	if qf.Completed != nil && a.Completed != *qf.Completed {
		return false
	}
	return true
}

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(dateRangeValidation, NewAssignment{}, UpdateAssignment{})
	core.RegisterCustomTranslation(validate, translator, dateRangeTag, dateRangeText)
}

// dateRangeValidation checks that start_date <= end_date once both are valid dates.
func dateRangeValidation(sl validator.StructLevel) {
	var start, end core.Date
	switch a := sl.Current().Interface().(type) {
	case NewAssignment:
		start, end = a.StartDate, a.EndDate
	case UpdateAssignment:
		start, end = a.StartDate, a.EndDate
	default:
		return
	}
	if start.Valid() && end.Valid() && end < start {
		sl.ReportError(end, "end_date", "EndDate", dateRangeTag, "")
	}
}
