package echoapi_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/mentori/apps/api/echo"
	"github.com/trezcool/mentori/core/user"
)

func Test_userApi_signup(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "mentee-1", "taken@test.kr", "Taken", user.RoleMentee)

	tests := []httpTest{
		{
			name: "required fields", method: http.MethodPost, path: "/v1/users/signup", body: []byte(`{"password":"Sup3r!Secret"}`),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{
				"email":            "this field is required",
				"nickname":         "this field is required",
				"role":             "this field is required",
				"password_confirm": "this field is required",
			}),
		},
		{
			name: "unknown role", method: http.MethodPost, path: "/v1/users/signup",
			body:     []byte(`{"email":"new@test.kr","nickname":"New","role":"admin","password":"Sup3r!Secret","password_confirm":"Sup3r!Secret"}`),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"role": "role must be one of mentor, mentee"}),
		},
		{
			name: "email taken", method: http.MethodPost, path: "/v1/users/signup",
			body:     []byte(`{"email":"TAKEN@test.kr","nickname":"New","role":"mentee","password":"Sup3r!Secret","password_confirm":"Sup3r!Secret"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "created", method: http.MethodPost, path: "/v1/users/signup",
			body:     []byte(`{"email":"new@test.kr","nickname":"New","role":"mentee","password":"Sup3r!Secret","password_confirm":"Sup3r!Secret"}`),
			wantCode: http.StatusCreated,
		},
	}
	app.run(t, tests)

	usr, err := app.UserSvc.GetByEmail(context.Background(), "new@test.kr")
	require.NoError(t, err)
	assert.Equal(t, user.RoleMentee, usr.Role)
	assert.True(t, usr.IsActive)
}

func Test_userApi_login(t *testing.T) {
	app := newTestApp(t)
	mentor := app.createUser(t, "mentor-1", "mentor@test.kr", "Mentor", user.RoleMentor)

	inactive := app.createUser(t, "mentee-2", "inactive@test.kr", "Inactive", user.RoleMentee)
	inactive.IsActive = false
	_, err := app.repos.Users.UpdateUser(context.Background(), inactive)
	require.NoError(t, err)

	tests := []httpTest{
		{
			name: "unknown email", method: http.MethodPost, path: "/v1/users/login",
			body:     []byte(`{"email":"nobody@test.kr","password":"passw0rd"}`),
			wantCode: http.StatusBadRequest, wantData: marshallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/v1/users/login",
			body:     []byte(`{"email":"mentor@test.kr","password":"nope"}`),
			wantCode: http.StatusBadRequest, wantData: marshallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "deactivated", method: http.MethodPost, path: "/v1/users/login",
			body:     []byte(`{"email":"inactive@test.kr","password":"passw0rd"}`),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "account deactivated"}),
		},
	}
	app.run(t, tests)

	rec := app.do(http.MethodPost, "/v1/users/login", "", []byte(`{"email":" MENTOR@test.kr ","password":"passw0rd"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res LoginResponse
	unmarshall(t, rec, &res)
	assert.NotEmpty(t, res.Token)
	require.NotNil(t, res.User)
	assert.Equal(t, mentor.ID, res.User.ID)
	assert.True(t, res.User.LastLogin.Valid)

	rec = app.do(http.MethodGet, "/v1/users/me", res.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func Test_userApi_session(t *testing.T) {
	app := newTestApp(t)
	mentee := app.createUser(t, "mentee-1", "mentee@test.kr", "Mentee", user.RoleMentee)
	token := app.token(t, mentee)

	tests := []httpTest{
		{name: "auth required", path: "/v1/users/me", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{name: "bad token", path: "/v1/users/me", token: "not.a.jwt", wantCode: http.StatusUnauthorized},
		{name: "me", path: "/v1/users/me", token: token, wantCode: http.StatusOK, wantData: marshallObj(t, mentee)},
		{
			name: "mentor required", path: "/v1/mentees", token: token,
			wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "refresh expired", method: http.MethodPost, path: "/v1/users/token-refresh",
			token:    getToken(t, app.conf, mentee, time.Now().Add(-48*time.Hour).Unix()),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "refresh has expired"}),
		},
		{name: "refresh", method: http.MethodPost, path: "/v1/users/token-refresh", token: token, wantCode: http.StatusOK},
		{name: "logout", method: http.MethodPost, path: "/v1/users/logout", token: token, wantCode: http.StatusNoContent},
		{
			name: "revoked after logout", path: "/v1/users/me", token: token,
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, httpErr{Error: "token has been revoked"}),
		},
	}
	app.run(t, tests)

	// other sessions survive the logout
	rec := app.do(http.MethodGet, "/v1/users/me", app.token(t, mentee))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func Test_userApi_mentees(t *testing.T) {
	app := newTestApp(t)
	mentor := app.createUser(t, "mentor-1", "mentor@test.kr", "Mentor", user.RoleMentor)
	m1 := app.createUser(t, "mentee-1", "kim@test.kr", "Kim", user.RoleMentee)
	m2 := app.createUser(t, "mentee-2", "lee@test.kr", "Lee", user.RoleMentee)
	token := app.token(t, mentor)

	tests := []httpTest{
		{name: "ordered by nickname", path: "/v1/mentees?ordering=nickname", token: token, wantCode: http.StatusOK, wantData: marshallObj(t, []user.User{m1, m2})},
		{name: "search", path: "/v1/mentees?search=lee", token: token, wantCode: http.StatusOK, wantData: marshallObj(t, []user.User{m2})},
		{name: "search (unknown)", path: "/v1/mentees?search=park", token: token, wantCode: http.StatusOK, wantData: []byte(`[]`)},
	}
	app.run(t, tests)
}
