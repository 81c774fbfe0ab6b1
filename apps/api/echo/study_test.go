package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/study"
	"github.com/trezcool/mentori/core/user"
)

func Test_timerApi(t *testing.T) {
	app := newTestApp(t)
	mentor := app.createUser(t, "mentor-1", "mentor@test.kr", "Mentor", user.RoleMentor)
	mentee := app.createUser(t, "mentee-1", "kim@test.kr", "Kim", user.RoleMentee)
	token := app.token(t, mentee)

	idle := marshallObj(t, study.Status{State: study.StateIdle})
	app.run(t, []httpTest{
		{name: "mentee only", path: "/v1/timer", token: app.token(t, mentor), wantCode: http.StatusForbidden},
		{name: "idle", path: "/v1/timer", token: token, wantCode: http.StatusOK, wantData: idle},
		{name: "pause idle", method: http.MethodPost, path: "/v1/timer/pause", token: token, wantCode: http.StatusConflict},
		{name: "save idle", method: http.MethodPost, path: "/v1/timer/save", token: token, wantCode: http.StatusConflict},
		{
			name: "unknown subject", method: http.MethodPost, path: "/v1/timer/start", token: token,
			body: []byte(`{"subject":"과학"}`), wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"subject": study.ErrInvalidSubject.Error()}),
		},
		{
			name: "start", method: http.MethodPost, path: "/v1/timer/start", token: token, body: []byte(`{"subject":"수학"}`),
			wantCode: http.StatusOK, wantData: marshallObj(t, study.Status{State: study.StateRunning, Subject: core.SubjectMath}),
		},
		{
			name: "start twice", method: http.MethodPost, path: "/v1/timer/start", token: token, body: []byte(`{"subject":"영어"}`),
			wantCode: http.StatusConflict, wantData: marshallObj(t, httpErr{Error: study.ErrTimerActive.Error()}),
		},
		{name: "resume running", method: http.MethodPost, path: "/v1/timer/resume", token: token, wantCode: http.StatusConflict},
		{name: "pause", method: http.MethodPost, path: "/v1/timer/pause", token: token, wantCode: http.StatusOK},
		{name: "pause twice", method: http.MethodPost, path: "/v1/timer/pause", token: token, wantCode: http.StatusConflict},
		{name: "resume", method: http.MethodPost, path: "/v1/timer/resume", token: token, wantCode: http.StatusOK},
		{name: "cancel", method: http.MethodPost, path: "/v1/timer/cancel", token: token, wantCode: http.StatusOK, wantData: idle},
	})

	// save records a session dated today
	rec := app.do(http.MethodPost, "/v1/timer/start", token, []byte(`{"subject":"기타"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = app.do(http.MethodPost, "/v1/timer/save", token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sess study.Session
	unmarshall(t, rec, &sess)
	assert.Equal(t, core.SubjectOther, sess.Subject)
	assert.Equal(t, core.Today(app.conf.Location()), sess.SessionDate)
	assert.GreaterOrEqual(t, sess.DurationSeconds, int64(0))

	rec = app.do(http.MethodGet, "/v1/mentees/mentee-1/study-sessions?from="+sess.SessionDate.String(), app.token(t, mentor))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var sessions []study.Session
	unmarshall(t, rec, &sessions)
	require.Len(t, sessions, 1)
	assert.Equal(t, sess.ID, sessions[0].ID)

	rec = app.do(http.MethodGet, "/v1/timer", token)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: idle}, rec)
}
