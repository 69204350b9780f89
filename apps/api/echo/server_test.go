package echoapi

import (
	"net/http"
	"testing"
)

func TestServer(t *testing.T) {
	env := setup(t)

	t.Run("home", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/")
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)
		if rec.Body.String() != "Welcome to EduForum API!" {
			t.Errorf("body = %q", rec.Body.String())
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/nope")
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusNotFound)
	})

	t.Run("trailing slashes are stripped", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/courses/")
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)
	})
}
