package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mentori/core/dashboard"
	"github.com/trezcool/mentori/core/todo"
	"github.com/trezcool/mentori/core/user"
)

func Test_dashboardApi(t *testing.T) {
	app := newTestApp(t)
	mentor := app.createUser(t, "mentor-1", "mentor@test.kr", "Mentor", user.RoleMentor)
	mentee := app.createUser(t, "mentee-1", "kim@test.kr", "Kim", user.RoleMentee)
	app.createUser(t, "mentee-2", "lee@test.kr", "Lee", user.RoleMentee)
	mentorToken, menteeToken := app.token(t, mentor), app.token(t, mentee)

	a := app.createAssignment(t, mentorToken, mentee.ID, newAssignmentBody)
	rec := app.do(http.MethodPost, "/v1/mentees/mentee-1/todos", menteeToken, []byte(`{"content":"Vocabulary","target_date":"2024-03-11"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var td todo.Todo
	unmarshall(t, rec, &td)

	items := func(date string) dashboard.ItemsView {
		rec := app.do(http.MethodGet, "/v1/mentees/mentee-1/items?date="+date, menteeToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var view dashboard.ItemsView
		unmarshall(t, rec, &view)
		return view
	}

	view := items("2024-03-11")
	assert.Equal(t, mentee.ID, view.MenteeID)
	assert.EqualValues(t, "2024-03-11", view.Date)
	require.Len(t, view.Items, 2)
	assert.Equal(t, dashboard.Item{ID: a.ID, Type: dashboard.ItemAssignment, Subject: "수학", Content: "Chapter 3"}, view.Items[0])
	assert.Equal(t, td.ID, view.Items[1].ID)
	assert.Equal(t, 0, view.Progress)

	view = items("2024-03-12")
	require.Len(t, view.Items, 1)
	assert.Equal(t, a.ID, view.Items[0].ID)

	app.run(t, []httpTest{
		{name: "unknown item type", method: http.MethodPatch, path: "/v1/mentees/mentee-1/items/plan/" + td.ID, token: menteeToken, body: []byte(`{"completed":true}`), wantCode: http.StatusBadRequest},
		{name: "item of another mentee", method: http.MethodPatch, path: "/v1/mentees/mentee-2/items/todo/" + td.ID, token: mentorToken, body: []byte(`{"completed":true}`), wantCode: http.StatusNotFound},
		{name: "complete todo", method: http.MethodPatch, path: "/v1/mentees/mentee-1/items/todo/" + td.ID, token: menteeToken, body: []byte(`{"completed":true}`), wantCode: http.StatusOK},
		{
			name: "progress", path: "/v1/mentees/mentee-1/progress?date=2024-03-11", token: mentorToken, wantCode: http.StatusOK,
			wantData: marshallObj(t, dashboard.ProgressView{MenteeID: mentee.ID, Date: "2024-03-11", Progress: 50, Completed: 1, Total: 2}),
		},
		{name: "bad month", path: "/v1/mentees/mentee-1/calendar?month=2024-3", token: menteeToken, wantCode: http.StatusBadRequest},
		{name: "mentee cannot delete assignment", method: http.MethodDelete, path: "/v1/mentees/mentee-1/items/assignment/" + a.ID, token: menteeToken, wantCode: http.StatusForbidden},
		{name: "mentee deletes todo", method: http.MethodDelete, path: "/v1/mentees/mentee-1/items/todo/" + td.ID, token: menteeToken, wantCode: http.StatusNoContent},
	})

	rec = app.do(http.MethodGet, "/v1/mentees/mentee-1/calendar?month=2024-03", menteeToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var cal dashboard.CalendarView
	unmarshall(t, rec, &cal)
	require.Len(t, cal.Weeks, 6)
	assert.EqualValues(t, "2024-02-25", cal.Weeks[0].Start)
	require.Len(t, cal.Weeks[2].Segments, 1)
	seg := cal.Weeks[2].Segments[0]
	assert.Equal(t, a.ID, seg.AssignmentID)
	assert.Equal(t, 1, seg.ColumnStart)
	assert.Equal(t, 4, seg.ColumnEnd)

	rec = app.do(http.MethodGet, "/v1/mentees/mentee-1/study-stats?today=2024-03-11&days=7", menteeToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var stats dashboard.StudyView
	unmarshall(t, rec, &stats)
	assert.Len(t, stats.Days, 7)
	assert.EqualValues(t, "2024-03-05", stats.From)
	assert.Zero(t, stats.TotalSeconds)

	app.run(t, []httpTest{
		{
			name: "days too large", path: "/v1/mentees/mentee-1/study-stats?today=2024-03-11&days=100000000", token: menteeToken,
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"days": "must be between 1 and 366"}),
		},
		{
			name: "days overflowing int", path: "/v1/mentees/mentee-1/study-stats?days=4611686018427387904", token: menteeToken,
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"days": "must be between 1 and 366"}),
		},
		{name: "days zero", path: "/v1/mentees/mentee-1/study-stats?days=0", token: menteeToken, wantCode: http.StatusBadRequest},
		{name: "days not a number", path: "/v1/mentees/mentee-1/study-stats?days=week", token: menteeToken, wantCode: http.StatusBadRequest},
		{name: "days at the limit", path: "/v1/mentees/mentee-1/study-stats?today=2024-03-11&days=366", token: menteeToken, wantCode: http.StatusOK},
	})

	rec = app.do(http.MethodDelete, "/v1/mentees/mentee-1/items/assignment/"+a.ID, mentorToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, items("2024-03-11").Items)
}
