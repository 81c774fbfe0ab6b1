// Package testutil holds fixtures shared by the package tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/notification"
	"github.com/trezcool/mentori/core/user"
)

// Config is a test configuration that does not read the environment.
func Config() *core.Config {
	conf := &core.Config{
		Env:             "TEST",
		Build:           "test",
		AppName:         "Mentori",
		TestMode:        true,
		SecretKey:       "test-secret-key",
		TimeZone:        "Asia/Seoul",
		FrontendBaseURL: "http://localhost:5173",
		FromEmail:       "noreply@mentori.test",
	}
	conf.Server.Host = "localhost"
	conf.Server.JWTExpirationDelta = time.Hour
	conf.Server.JWTRefreshExpirationDelta = 24 * time.Hour
	conf.Server.ShutdownTimeout = time.Second
	conf.Server.DisableRequestLogs = true
	conf.Storage.Backend = "local"
	conf.Storage.PublicBaseURL = "http://localhost:8000/uploads"
	conf.Storage.MaxUploadSize = 1 << 20
	conf.Storage.ImageMaxSize = 64
	conf.Storage.WebPQuality = 80
	return conf
}

type LogEntry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// Logger records entries instead of printing them. Fatal does not exit.
type Logger struct {
	mu      sync.Mutex
	entries []LogEntry
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Msg: msg, Args: args})
}

func (l *Logger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LogEntry(nil), l.entries...)
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("error", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.log("fatal", msg, args) }

// Notifier records notifications instead of storing them.
type Notifier struct {
	mu   sync.Mutex
	sent []notification.Notification
	Err  error
}

var _ notification.Notifier = (*Notifier)(nil)

func (n *Notifier) Notify(_ context.Context, recipientID, kind, title, body string) (notification.Notification, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return notification.Notification{}, n.Err
	}
	notif := notification.Notification{
		ID:          fmt.Sprintf("n%d", len(n.sent)+1),
		RecipientID: recipientID,
		Kind:        kind,
		Title:       title,
		Body:        body,
		CreatedAt:   core.NowFunc().UTC(),
	}
	n.sent = append(n.sent, notif)
	return notif, nil
}

func (n *Notifier) Sent() []notification.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification.Notification(nil), n.sent...)
}

// CreateUser stores an active user with a fixed id.
func CreateUser(t *testing.T, repo user.Repository, id, email, nickname, role, pwd string, createdAt ...time.Time) user.User {
	t.Helper()

	tstamp := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        id,
		Email:     email,
		Nickname:  nickname,
		Role:      role,
		IsActive:  true,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// FreezeTime makes core.NowFunc return now for the duration of the test.
func FreezeTime(t *testing.T, now time.Time) {
	t.Helper()
	orig := core.NowFunc
	core.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { core.NowFunc = orig })
}
