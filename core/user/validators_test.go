package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckPassword(t *testing.T) {
	tests := []struct {
		name     string
		pwd      string
		nickname string
		email    string
		want     string
	}{
		{name: "whitespace", pwd: "correct horse", nickname: "jiwoo", email: "jiwoo@mentori.kr", want: pwdNoSpaceTag},
		{name: "valid", pwd: "c0rrectH0rse!", nickname: "jiwoo", email: "jiwoo@mentori.kr"},
		{name: "too short", pwd: "abc12", nickname: "jiwoo", email: "jiwoo@mentori.kr", want: pwdMinLenTag},
		{name: "all numeric", pwd: "12345678", nickname: "jiwoo", email: "jiwoo@mentori.kr", want: pwdNotAllNumTag},
		{name: "like nickname", pwd: "minjunkim1", nickname: "minjunkim", email: "mj@mentori.kr", want: pwdAttrSimTag},
		{name: "like email name", pwd: "seoyeon.park", nickname: "sy", email: "seoyeon.park@mentori.kr", want: pwdAttrSimTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkPassword(tt.pwd, tt.nickname, tt.email))
		})
	}
}
