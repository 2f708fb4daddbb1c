package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "json string body verbatim",
			err:  &HTTPError{StatusCode: 409, Body: []byte(`"Email already registered"`)},
			want: "Email already registered",
		},
		{
			name: "object message field",
			err:  &HTTPError{StatusCode: 422, Body: []byte(`{"message":"Graduation year is required"}`)},
			want: "Graduation year is required",
		},
		{
			name: "plain text body",
			err:  &HTTPError{StatusCode: 500, Body: []byte("upstream exploded")},
			want: "upstream exploded",
		},
		{
			name: "object without message falls back to error text",
			err:  &HTTPError{StatusCode: 500, Body: []byte(`{"code":"INTERNAL"}`), Method: "GET", Path: "/students/profile"},
			want: "GET /students/profile: unexpected status 500",
		},
		{
			name: "empty body falls back to error text",
			err:  &HTTPError{StatusCode: 404, Method: "GET", Path: "/missing"},
			want: "GET /missing: unexpected status 404",
		},
		{
			name: "plain error uses its own text",
			err:  errors.New("connection refused"),
			want: "connection refused",
		},
		{
			name: "nil error uses the fallback",
			err:  nil,
			want: FallbackErrorMessage,
		},
		{
			name: "blank error text uses the fallback",
			err:  errors.New("   "),
			want: FallbackErrorMessage,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, NormalizeMessage(tc.err))
		})
	}
}

func TestIsStatus(t *testing.T) {
	err := &HTTPError{StatusCode: http.StatusUnauthorized}
	require.True(t, IsStatus(err, http.StatusUnauthorized))
	require.False(t, IsStatus(err, http.StatusForbidden))
	require.False(t, IsStatus(errors.New("plain"), http.StatusUnauthorized))
}
