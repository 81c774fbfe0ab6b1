// Package inmemdb implements the domain repositories on in-memory maps, for tests and local demos.
package inmemdb

import (
	"sync"
	"time"

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
)

type (
	DB struct {
		user         *userTable
		assignment   *assignmentTable
		todo         *todoTable
		plan         *planTable
		feedback     *feedbackTable
		qna          *qnaTable
		session      *sessionTable
		report       *reportTable
		memo         *memoTable
		notification *notificationTable
	}

	userTable struct {
		sync.RWMutex
		table   map[string]*user.User
		revoked map[string]time.Time
	}

	assignmentTable struct {
		sync.RWMutex
		table         map[string]*assignment.Assignment
		verifications map[string]*assignment.Verification
	}

	todoTable struct {
		sync.RWMutex
		table map[string]*todo.Todo
	}

	planTable struct {
		sync.RWMutex
		table map[string]*plan.Plan
	}

	feedbackTable struct {
		sync.RWMutex
		table   map[string]*feedback.Feedback
		details map[string]*feedback.Detail
	}

	qnaTable struct {
		sync.RWMutex
		table map[string]*qna.Question
	}

	sessionTable struct {
		sync.RWMutex
		table []study.Session
	}

	reportTable struct {
		sync.RWMutex
		table map[string]*report.LearningReport
	}

	memoTable struct {
		sync.RWMutex
		table map[string]*memo.Memo // by user id
	}

	notificationTable struct {
		sync.RWMutex
		table map[string]*notification.Notification
	}
)

func Open() *DB {
	return &DB{
		user:         &userTable{table: make(map[string]*user.User), revoked: make(map[string]time.Time)},
		assignment:   &assignmentTable{table: make(map[string]*assignment.Assignment), verifications: make(map[string]*assignment.Verification)},
		todo:         &todoTable{table: make(map[string]*todo.Todo)},
		plan:         &planTable{table: make(map[string]*plan.Plan)},
		feedback:     &feedbackTable{table: make(map[string]*feedback.Feedback), details: make(map[string]*feedback.Detail)},
		qna:          &qnaTable{table: make(map[string]*qna.Question)},
		session:      &sessionTable{},
		report:       &reportTable{table: make(map[string]*report.LearningReport)},
		memo:         &memoTable{table: make(map[string]*memo.Memo)},
		notification: &notificationTable{table: make(map[string]*notification.Notification)},
	}
}
