package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/feedback"
)

type feedbackRepository struct {
	db *feedbackTable
}

var _ feedback.Repository = (*feedbackRepository)(nil) // interface compliance check

func NewFeedbackRepository(db *DB) *feedbackRepository {
	return &feedbackRepository{db: db.feedback}
}

func (repo *feedbackRepository) find(menteeID string, date core.Date) *feedback.Feedback {
	for _, f := range repo.db.table {
		if f.MenteeID == menteeID && f.FeedbackDate == date {
			return f
		}
	}
	return nil
}

func (repo *feedbackRepository) UpsertFeedback(_ context.Context, f feedback.Feedback) (feedback.Feedback, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	f.Details = nil
	if orig := repo.find(f.MenteeID, f.FeedbackDate); orig != nil {
		orig.MentorID = f.MentorID
		orig.GeneralComment = f.GeneralComment
		orig.UpdatedAt = f.UpdatedAt
		return *orig, nil
	}
	repo.db.table[f.ID] = &f
	return f, nil
}

func (repo *feedbackRepository) EnsureFeedback(_ context.Context, f feedback.Feedback) (feedback.Feedback, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if orig := repo.find(f.MenteeID, f.FeedbackDate); orig != nil {
		return *orig, nil
	}
	f.Details = nil
	repo.db.table[f.ID] = &f
	return f, nil
}

func (repo *feedbackRepository) GetFeedback(_ context.Context, menteeID string, date core.Date) (feedback.Feedback, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if f := repo.find(menteeID, date); f != nil {
		return *f, nil
	}
	return feedback.Feedback{}, feedback.ErrNotFound
}

func (repo *feedbackRepository) QueryDetails(_ context.Context, feedbackID string) ([]feedback.Detail, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	res := make([]feedback.Detail, 0)
	for _, d := range repo.db.details {
		if d.FeedbackID == feedbackID {
			res = append(res, *d)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.Before(res[j].CreatedAt)
		}
		return res[i].Subject < res[j].Subject
	})
	return res, nil
}

func (repo *feedbackRepository) UpsertDetail(_ context.Context, d feedback.Detail) (feedback.Detail, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, orig := range repo.db.details {
		if orig.FeedbackID == d.FeedbackID && orig.Subject == d.Subject {
			orig.Summary = d.Summary
			orig.Detail = d.Detail
			orig.Important = d.Important
			orig.AssignmentID = d.AssignmentID
			orig.UpdatedAt = d.UpdatedAt
			return *orig, nil
		}
	}
	repo.db.details[d.ID] = &d
	return d, nil
}

func (repo *feedbackRepository) DeleteDetail(_ context.Context, feedbackID, subject string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, d := range repo.db.details {
		if d.FeedbackID == feedbackID && d.Subject == subject {
			delete(repo.db.details, id)
			return nil
		}
	}
	return feedback.ErrDetailNotFound
}
