package echoapi

import (
	"net/http"
	"testing"

	"github.com/dgrijalva/jwt-go"

	"github.com/kitcoek/eduforum/core/profile"
)

func TestLoginAPI(t *testing.T) {
	env := setup(t)

	tests := []httpTest{
		{
			name:     "role is required",
			method:   http.MethodPost,
			path:     "/api/auth/login",
			body:     []byte(`{"email": "aarav.patil@example.com"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown role",
			method:   http.MethodPost,
			path:     "/api/auth/login",
			body:     []byte(`{"role": "admin", "email": "aarav.patil@example.com"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "student needs a prn",
			method:   http.MethodPost,
			path:     "/api/auth/login",
			body:     []byte(`{"role": "student", "email": "aarav.patil@example.com", "name": "Aarav Patil"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"prn": "PRN must be 8 digits"}`),
		},
		{
			name:     "student prn must be 8 digits",
			method:   http.MethodPost,
			path:     "/api/auth/login",
			body:     []byte(`{"role": "student", "email": "aarav.patil@example.com", "prn": "220100"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"prn": "PRN must be 8 digits"}`),
		},
		{
			name:     "faculty needs an institutional email",
			method:   http.MethodPost,
			path:     "/api/auth/login",
			body:     []byte(`{"role": "faculty", "email": "priya.deshmukh@gmail.com"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"email": "not an institutional faculty address"}`),
		},
		{
			name:     "malformed email",
			method:   http.MethodPost,
			path:     "/api/auth/login",
			body:     []byte(`{"role": "student", "email": "not-an-email", "prn": "22010001"}`),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("student login issues a signed token", func(t *testing.T) {
		body := []byte(`{"role": "student", "email": "Aarav.Patil@example.com", "name": "Aarav Patil", "prn": "22010001"}`)
		req, rec := newRequest(http.MethodPost, "/api/auth/login", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var data struct {
			Token string                 `json:"token"`
			User  map[string]interface{} `json:"user"`
		}
		unmarshallBody(t, rec, &data)
		if data.Token == "" {
			t.Fatal("expected a token")
		}

		claims := new(Claims)
		_, err := jwt.ParseWithClaims(data.Token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(env.conf.SecretKey), nil
		})
		if err != nil {
			t.Fatalf("parsing token: %v", err)
		}
		if !claims.IsStudent || claims.IsFaculty {
			t.Errorf("claims = %+v; want a student", claims)
		}
		if claims.Email != "aarav.patil@example.com" || claims.PRN != "22010001" {
			t.Errorf("claims = %+v", claims)
		}

		// no stored profile yet: the echo of the submitted identity is returned
		if data.User["role"] != "student" || data.User["email"] != "aarav.patil@example.com" {
			t.Errorf("user = %+v", data.User)
		}
	})

	t.Run("login returns the stored profile when one exists", func(t *testing.T) {
		body := []byte(`{"name": "Priya Deshmukh", "email": "priya.deshmukh@kitcoek.in", "department": "Computer Science", "designation": "Professor"}`)
		req, rec := newRequest(http.MethodPost, "/api/profile/faculty", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusCreated)
		var fac profile.Faculty
		unmarshallBody(t, rec, &fac)

		req, rec = newRequest(http.MethodPost, "/api/auth/login", []byte(`{"role": "faculty", "email": "priya.deshmukh@kitcoek.in"}`))
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var data struct {
			Token string          `json:"token"`
			User  profile.Faculty `json:"user"`
		}
		unmarshallBody(t, rec, &data)
		if data.User.ID != fac.ID || data.User.Name != "Priya Deshmukh" {
			t.Errorf("user = %+v; want the stored profile", data.User)
		}

		claims := new(Claims)
		if _, err := jwt.ParseWithClaims(data.Token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(env.conf.SecretKey), nil
		}); err != nil {
			t.Fatalf("parsing token: %v", err)
		}
		if !claims.IsFaculty {
			t.Errorf("claims = %+v; want faculty", claims)
		}
	})
}
