package logsvc

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/user"
)

func newTestLogger(buf *bytes.Buffer) *RollbarLogger {
	std := log.NewWithOptions(buf, log.Options{Level: log.DebugLevel, Formatter: log.LogfmtFormatter})
	return NewRollbarLogger(std, &core.Config{Env: "TEST"})
}

func TestRollbarLogger_prepare(t *testing.T) {
	l := newTestLogger(new(bytes.Buffer))
	err := errors.New("boom")
	usr := user.User{ID: "u1", Nickname: "minji", Email: "minji@mentori.kr"}
	other := user.User{ID: "u2"}

	got := l.prepare("msg", []interface{}{err, usr, other, map[string]interface{}{"k": 1}})
	assert.Equal(t, []interface{}{"msg", err, map[string]interface{}{"k": 1}}, got)
}

func TestRollbarLogger_localSink(t *testing.T) {
	buf := new(bytes.Buffer)
	l := newTestLogger(buf)

	l.Error("saving study session", errors.New("db down"), user.User{Email: "minji@mentori.kr"})
	out := buf.String()
	assert.Contains(t, out, "saving study session")
	assert.Contains(t, out, "db down")
	assert.Contains(t, out, "user=minji@mentori.kr")

	buf.Reset()
	l.Info("ready", map[string]interface{}{"addr": ":8000"})
	assert.Contains(t, buf.String(), "addr=:8000")
}
