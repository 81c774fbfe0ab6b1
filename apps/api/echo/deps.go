package echoapi

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/assignment"
	"github.com/trezcool/mentori/core/dashboard"
	"github.com/trezcool/mentori/core/events"
	"github.com/trezcool/mentori/core/feedback"
	"github.com/trezcool/mentori/core/memo"
	"github.com/trezcool/mentori/core/notification"
	"github.com/trezcool/mentori/core/plan"
	"github.com/trezcool/mentori/core/qna"
	"github.com/trezcool/mentori/core/report"
	"github.com/trezcool/mentori/core/study"
	"github.com/trezcool/mentori/core/todo"
	"github.com/trezcool/mentori/core/user"
	"github.com/trezcool/mentori/services/objectstore"
	"github.com/trezcool/mentori/storage/database"
)

// NewValidator returns a validator with every custom validation and translation registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	assignment.InitValidators(validate, translator)
	plan.InitValidators(validate, translator)
	report.InitValidators(validate, translator)
	dashboard.InitValidators(validate, translator)
	return validate, translator
}

// NewServerDeps builds every domain service on top of the given repositories.
// Closing the returned Broker and Timers is up to the caller.
func NewServerDeps(
	conf *core.Config,
	logger core.Logger,
	repos database.Repositories,
	mailSvc core.EmailService,
	store core.ObjectStore,
) ServerDeps {
	validate, translator := NewValidator()
	broker := events.NewBroker(events.DefaultBufferSize)

	usrSvc := user.NewService(repos.Users)
	notifSvc := notification.NewService(repos.Notifications, usrSvc, mailSvc, broker)
	assignmentSvc := assignment.NewService(repos.Assignments, notifSvc, broker, logger)
	todoSvc := todo.NewService(repos.Todos, broker)
	studySvc := study.NewService(repos.Sessions, broker)
	reportSvc := report.NewService(repos.Reports, notifSvc, broker, logger)

	return ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		Broker:     broker,

		UserSvc:         usrSvc,
		AssignmentSvc:   assignmentSvc,
		TodoSvc:         todoSvc,
		PlanSvc:         plan.NewService(repos.Plans, broker),
		FeedbackSvc:     feedback.NewService(repos.Feedback, assignmentSvc, notifSvc, broker, logger),
		QnASvc:          qna.NewService(repos.QnA, notifSvc, broker, logger),
		StudySvc:        studySvc,
		Timers:          study.NewTimers(studySvc, conf.Location()),
		ReportSvc:       reportSvc,
		MemoSvc:         memo.NewService(repos.Memos, broker),
		NotificationSvc: notifSvc,
		DashboardSvc:    dashboard.NewService(assignmentSvc, todoSvc, studySvc, reportSvc),
		FileSvc:         objectstore.NewService(store, conf, logger),
	}
}
