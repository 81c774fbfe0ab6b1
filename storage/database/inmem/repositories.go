package inmemdb

import (
	"github.com/trezcool/mentori/storage/database"
)

// NewRepositories wires every in-memory repository on db.
func NewRepositories(db *DB) database.Repositories {
	return database.Repositories{
		Users:         NewUserRepository(db),
		Assignments:   NewAssignmentRepository(db),
		Todos:         NewTodoRepository(db),
		Plans:         NewPlanRepository(db),
		Feedback:      NewFeedbackRepository(db),
		QnA:           NewQnARepository(db),
		Sessions:      NewSessionRepository(db),
		Reports:       NewReportRepository(db),
		Memos:         NewMemoRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}
