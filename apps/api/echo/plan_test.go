package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mentori/core/plan"
	"github.com/trezcool/mentori/core/todo"
	"github.com/trezcool/mentori/core/user"
)

func Test_planApi(t *testing.T) {
	app := newTestApp(t)
	mentee := app.createUser(t, "mentee-1", "kim@test.kr", "Kim", user.RoleMentee)
	other := app.createUser(t, "mentee-2", "lee@test.kr", "Lee", user.RoleMentee)
	token, otherToken := app.token(t, mentee), app.token(t, other)

	tests := []httpTest{
		{
			name: "start out of range", method: http.MethodPost, path: "/v1/mentees/mentee-1/plans", token: token,
			body:     []byte(`{"plan_date":"2024-03-11","title":"Late","start_hour":24,"end_hour":25}`),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"start_hour": "start_hour must be between 0 and 24 (excluded)"}),
		},
		{
			name: "end before start", method: http.MethodPost, path: "/v1/mentees/mentee-1/plans", token: token,
			body:     []byte(`{"plan_date":"2024-03-11","title":"Backwards","start_hour":10,"end_hour":9}`),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"end_hour": "end_hour must be after start_hour and at most 24 hours later"}),
		},
		{
			name: "other mentee", method: http.MethodPost, path: "/v1/mentees/mentee-1/plans", token: otherToken,
			body:     []byte(`{"plan_date":"2024-03-11","title":"Math","start_hour":9,"end_hour":10}`),
			wantCode: http.StatusForbidden,
		},
	}
	app.run(t, tests)

	// overnight blocks roll past 24
	rec := app.do(http.MethodPost, "/v1/mentees/mentee-1/plans", token, []byte(`{"plan_date":"2024-03-11","title":"Night study","subject":"영어","start_hour":22,"end_hour":26}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var night plan.Plan
	unmarshall(t, rec, &night)
	assert.Equal(t, 22.0, night.StartHour)
	assert.Equal(t, 26.0, night.EndHour)
	assert.True(t, night.Overnight())

	rec = app.do(http.MethodPost, "/v1/mentees/mentee-1/plans", token, []byte(`{"plan_date":"2024-03-11","title":"Morning","start_hour":8.5,"end_hour":10}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var morning plan.Plan
	unmarshall(t, rec, &morning)

	app.run(t, []httpTest{
		{name: "list by start hour", path: "/v1/mentees/mentee-1/plans?date=2024-03-11", token: token, wantCode: http.StatusOK, wantData: marshallObj(t, []plan.Plan{morning, night})},
		{name: "other day", path: "/v1/mentees/mentee-1/plans?date=2024-03-12", token: token, wantCode: http.StatusOK, wantData: []byte(`[]`)},
		{name: "foreign plan", method: http.MethodDelete, path: "/v1/plans/" + night.ID, token: otherToken, wantCode: http.StatusForbidden},
	})

	rec = app.do(http.MethodPut, "/v1/plans/"+morning.ID, token, []byte(`{"plan_date":"2024-03-11","title":"Morning math","subject":"수학","start_hour":7,"end_hour":9}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated plan.Plan
	unmarshall(t, rec, &updated)
	assert.Equal(t, morning.ID, updated.ID)
	assert.Equal(t, "Morning math", updated.Title)
	assert.Equal(t, 7.0, updated.StartHour)

	rec = app.do(http.MethodDelete, "/v1/plans/"+night.ID, token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = app.do(http.MethodGet, "/v1/plans/"+night.ID, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_todoApi(t *testing.T) {
	app := newTestApp(t)
	mentor := app.createUser(t, "mentor-1", "mentor@test.kr", "Mentor", user.RoleMentor)
	mentee := app.createUser(t, "mentee-1", "kim@test.kr", "Kim", user.RoleMentee)
	token := app.token(t, mentee)

	app.run(t, []httpTest{
		{
			name: "content required", method: http.MethodPost, path: "/v1/mentees/mentee-1/todos", token: token,
			body: []byte(`{"target_date":"2024-03-11"}`), wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"content": "this field is required"}),
		},
		{
			name: "mentor cannot create", method: http.MethodPost, path: "/v1/mentees/mentee-1/todos", token: app.token(t, mentor),
			body: []byte(`{"content":"Vocabulary","target_date":"2024-03-11"}`), wantCode: http.StatusForbidden,
		},
	})

	rec := app.do(http.MethodPost, "/v1/mentees/mentee-1/todos", token, []byte(`{"content":"  Vocabulary  ","subject":"영어","target_date":"2024-03-11"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var td todo.Todo
	unmarshall(t, rec, &td)
	assert.Equal(t, "Vocabulary", td.Content)
	assert.False(t, td.Completed)

	app.run(t, []httpTest{
		{name: "list", path: "/v1/mentees/mentee-1/todos?date=2024-03-11", token: token, wantCode: http.StatusOK, wantData: marshallObj(t, []todo.Todo{td})},
		{name: "mentor lists", path: "/v1/mentees/mentee-1/todos?date=2024-03-11", token: app.token(t, mentor), wantCode: http.StatusOK, wantData: marshallObj(t, []todo.Todo{td})},
		{name: "complete", method: http.MethodPatch, path: "/v1/todos/" + td.ID, token: token, body: []byte(`{"completed":true}`), wantCode: http.StatusOK},
		{name: "delete", method: http.MethodDelete, path: "/v1/todos/" + td.ID, token: token, wantCode: http.StatusNoContent},
		{name: "deleted", path: "/v1/mentees/mentee-1/todos?date=2024-03-11", token: token, wantCode: http.StatusOK, wantData: []byte(`[]`)},
	})
}
