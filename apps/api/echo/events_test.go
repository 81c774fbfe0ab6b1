package echoapi_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mentori/core/user"
)

func Test_eventsApi(t *testing.T) {
	app := newTestApp(t)
	mentor := app.createUser(t, "mentor-1", "mentor@test.kr", "Mentor", user.RoleMentor)
	mentee := app.createUser(t, "mentee-1", "kim@test.kr", "Kim", user.RoleMentee)
	app.createUser(t, "mentee-2", "lee@test.kr", "Lee", user.RoleMentee)
	menteeToken := app.token(t, mentee)

	app.run(t, []httpTest{
		{name: "auth required", path: "/v1/events", wantCode: http.StatusUnauthorized},
		{name: "foreign mentee", path: "/v1/events?mentee_id=mentee-2", token: menteeToken, wantCode: http.StatusForbidden},
		{name: "unknown entity", path: "/v1/events?entity=grades", token: menteeToken, wantCode: http.StatusBadRequest},
		{name: "unknown mentee", path: "/v1/events?mentee_id=nobody", token: app.token(t, mentor), wantCode: http.StatusNotFound},
	})

	srv := httptest.NewServer(app)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/events?entity=todos,memos", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+menteeToken)

	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	lines := bufio.NewScanner(res.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, ": connected", lines.Text())

	assert.Eventually(t, func() bool { return app.Broker.Subscribers() == 2 }, time.Second, 10*time.Millisecond)

	// plans are not subscribed to
	rec := app.do(http.MethodPost, "/v1/mentees/mentee-1/plans", menteeToken, []byte(`{"plan_date":"2024-03-11","title":"Math","start_hour":9,"end_hour":10}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = app.do(http.MethodPost, "/v1/mentees/mentee-1/todos", menteeToken, []byte(`{"content":"Vocabulary","target_date":"2024-03-11"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = app.do(http.MethodPut, "/v1/memo", menteeToken, []byte(`{"content":"hi"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got []string
	for len(got) < 2 && lines.Scan() {
		if line := lines.Text(); strings.HasPrefix(line, "event: ") {
			got = append(got, strings.TrimPrefix(line, "event: "))
		}
	}
	assert.Equal(t, []string{"todos", "memos"}, got)
}
