package database

import (
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/mentori/core/assignment"
	"github.com/trezcool/mentori/core/feedback"
	"github.com/trezcool/mentori/core/memo"
	"github.com/trezcool/mentori/core/notification"
	"github.com/trezcool/mentori/core/plan"
	"github.com/trezcool/mentori/core/qna"
	"github.com/trezcool/mentori/core/report"
	"github.com/trezcool/mentori/core/study"
	"github.com/trezcool/mentori/core/todo"
	"github.com/trezcool/mentori/core/user"
	sqlxrepos "github.com/trezcool/mentori/storage/database/sqlx"
)

// Repositories groups one implementation of every domain repository.
type Repositories struct {
	Users         user.Repository
	Assignments   assignment.Repository
	Todos         todo.Repository
	Plans         plan.Repository
	Feedback      feedback.Repository
	QnA           qna.Repository
	Sessions      study.Repository
	Reports       report.Repository
	Memos         memo.Repository
	Notifications notification.Repository
}

// NewSQLRepositories returns the PostgreSQL repositories sharing db.
func NewSQLRepositories(db *sqlx.DB) Repositories {
	return Repositories{
		Users:         sqlxrepos.NewUserRepository(db),
		Assignments:   sqlxrepos.NewAssignmentRepository(db),
		Todos:         sqlxrepos.NewTodoRepository(db),
		Plans:         sqlxrepos.NewPlanRepository(db),
		Feedback:      sqlxrepos.NewFeedbackRepository(db),
		QnA:           sqlxrepos.NewQnARepository(db),
		Sessions:      sqlxrepos.NewSessionRepository(db),
		Reports:       sqlxrepos.NewReportRepository(db),
		Memos:         sqlxrepos.NewMemoRepository(db),
		Notifications: sqlxrepos.NewNotificationRepository(db),
	}
}
