package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/prasetyadi/survey-kiosk/api"
	"github.com/prasetyadi/survey-kiosk/internal/models"
	"github.com/prasetyadi/survey-kiosk/internal/token"
	"github.com/prasetyadi/survey-kiosk/pkg/repository/mock"
)

func TestLoginHandler(t *testing.T) {
	secret := "testsecret"
	tokenDur := 1 * time.Hour

	storedAdmin := func(password string, active bool) *models.AdminUser {
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return &models.AdminUser{ID: 1, Username: "admin", Name: "Admin", PasswordHash: string(hash), Active: active}
	}

	tests := []struct {
		name       string
		body       any
		prepare    func(m *mock.Mocks)
		wantStatus int
		checkBody  func(t *testing.T, body []byte)
	}{
		{
			name:       "InvalidRequest",
			body:       "not a json",
			prepare:    func(m *mock.Mocks) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "MissingFields_Username",
			body:       map[string]string{"password": "pw"},
			prepare:    func(m *mock.Mocks) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "MissingFields_Password",
			body:       map[string]string{"username": "admin"},
			prepare:    func(m *mock.Mocks) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "UnknownUser",
			body:       map[string]string{"username": "ghost", "password": "pw"},
			prepare:    func(m *mock.Mocks) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "InactiveUser",
			body: map[string]string{"username": "admin", "password": "hunter2"},
			prepare: func(m *mock.Mocks) {
				m.Admins.Stored = storedAdmin("hunter2", false)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "WrongPassword",
			body: map[string]string{"username": "admin", "password": "wrongpw"},
			prepare: func(m *mock.Mocks) {
				m.Admins.Stored = storedAdmin("rightpw", true)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "Success",
			body: map[string]string{"username": "admin", "password": "hunter2"},
			prepare: func(m *mock.Mocks) {
				m.Admins.Stored = storedAdmin("hunter2", true)
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				var ar struct {
					Token string `json:"token"`
					User  struct {
						Username string `json:"username"`
					} `json:"user"`
				}
				if err := json.Unmarshal(b, &ar); err != nil {
					t.Fatalf("unmarshal response: %v", err)
				}
				if ar.Token == "" {
					t.Fatalf("empty token")
				}
				if ar.User.Username != "admin" {
					t.Fatalf("unexpected user: %+v", ar.User)
				}
				tok, err := jwt.Parse(ar.Token, func(token *jwt.Token) (any, error) { return []byte(secret), nil })
				if err != nil {
					t.Fatalf("invalid token: %v", err)
				}
				claims, ok := tok.Claims.(jwt.MapClaims)
				if !ok {
					t.Fatalf("unexpected claims type")
				}
				if claims["purpose"] != "admin" {
					t.Fatalf("wrong purpose claim: %v", claims["purpose"])
				}
				if expF, ok := claims["exp"].(float64); !ok || int64(expF) < time.Now().Unix() {
					t.Fatalf("invalid exp claim")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := mock.NewMocks()
			if tt.prepare != nil {
				tt.prepare(mocks)
			}
			handler := api.NewAuthHandler(mocks.Admins, token.NewSigner(secret), tokenDur)

			b, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader(b))
			w := httptest.NewRecorder()

			handler.Login(w, req)

			res := w.Result()
			defer res.Body.Close()
			data, _ := io.ReadAll(res.Body)
			if res.StatusCode != tt.wantStatus {
				t.Fatalf("expected status %d got %d body=%s", tt.wantStatus, res.StatusCode, string(data))
			}
			if tt.checkBody != nil {
				tt.checkBody(t, data)
			}
		})
	}
}

// Failed attempts must not lock out a subsequent correct login.
func TestLoginRecoversAfterFailedAttempts(t *testing.T) {
	mocks := mock.NewMocks()
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.DefaultCost)
	mocks.Admins.Stored = &models.AdminUser{ID: 1, Username: "admin", PasswordHash: string(hash), Active: true}
	handler := api.NewAuthHandler(mocks.Admins, token.NewSigner("testsecret"), time.Hour)

	attempt := func(password string) int {
		b, _ := json.Marshal(map[string]string{"username": "admin", "password": password})
		req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader(b))
		w := httptest.NewRecorder()
		handler.Login(w, req)
		return w.Result().StatusCode
	}

	if got := attempt("bad1"); got != http.StatusUnauthorized {
		t.Fatalf("first bad attempt: expected 401 got %d", got)
	}
	if got := attempt("bad2"); got != http.StatusUnauthorized {
		t.Fatalf("second bad attempt: expected 401 got %d", got)
	}
	if got := attempt("hunter2"); got != http.StatusOK {
		t.Fatalf("correct password after failures: expected 200 got %d", got)
	}
}
