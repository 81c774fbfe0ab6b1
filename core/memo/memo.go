package memo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/events"
)

var ErrNotFound = core.NewNotFoundError("memo")

// Memo is the single free-text note of a user.
type Memo struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type SaveMemo struct {
	Content string `json:"content"`
}

type (
	Repository interface {
		GetMemo(ctx context.Context, userID string) (Memo, error)
		// UpsertMemo inserts or updates the memo keyed by user_id.
		UpsertMemo(ctx context.Context, m Memo) (Memo, error)
	}

	Service struct {
		repo   Repository
		events events.Publisher
	}
)

func NewService(repo Repository, pub events.Publisher) *Service {
	return &Service{repo: repo, events: pub}
}

// Get returns the user's memo, an empty one when never saved.
func (svc *Service) Get(ctx context.Context, userID string) (Memo, error) {
	m, err := svc.repo.GetMemo(ctx, userID)
	if core.IsNotFound(err) {
		return Memo{UserID: userID}, nil
	}
	return m, err
}

func (svc *Service) Save(ctx context.Context, userID string, sm SaveMemo) (Memo, error) {
	m, err := svc.repo.UpsertMemo(ctx, Memo{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   sm.Content,
		UpdatedAt: core.NowFunc().UTC(),
	})
	if err != nil {
		return Memo{}, errors.Wrap(err, "upserting memo")
	}
	svc.events.Publish(events.Event{Entity: events.Memos, Action: events.Updated, UserID: userID, RecordID: m.ID})
	return m, nil
}
