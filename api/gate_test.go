package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prasetyadi/survey-kiosk/api"
	"github.com/prasetyadi/survey-kiosk/internal/gate"
	"github.com/prasetyadi/survey-kiosk/internal/token"
)

const gateSecret = "gatesecret"

func newTestGate(now func() time.Time) (*api.Gate, *token.Signer) {
	signer := token.NewSignerAt(gateSecret, now)
	limiter := gate.NewLimiterAt(5, 10*time.Minute, now)
	return api.NewGate(limiter, signer, 10*time.Minute, false), signer
}

func sessionCookie(t *testing.T, signer *token.Signer, ttl time.Duration) *http.Cookie {
	t.Helper()
	tok, err := signer.Sign(token.Claims{Purpose: token.PurposeSurveySession}, ttl)
	if err != nil {
		t.Fatalf("sign session token: %v", err)
	}
	return &http.Cookie{Name: api.SessionCookie, Value: tok}
}

func gateRequest(referer string, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "http://kiosk.example.com/api/survey", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.5")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func TestGateStartSessionSetsCookie(t *testing.T) {
	g, signer := newTestGate(time.Now)

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	w := httptest.NewRecorder()
	g.StartSession(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	res := w.Result()
	defer res.Body.Close()

	var c *http.Cookie
	for _, got := range res.Cookies() {
		if got.Name == api.SessionCookie {
			c = got
		}
	}
	if c == nil {
		t.Fatalf("session cookie not set")
	}
	if !c.HttpOnly || c.SameSite != http.SameSiteStrictMode {
		t.Fatalf("cookie not hardened: %+v", c)
	}
	if _, err := signer.Parse(c.Value, token.PurposeSurveySession); err != nil {
		t.Fatalf("cookie token does not verify: %v", err)
	}
}

func TestGateProtect(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	t.Run("HappyPath", func(t *testing.T) {
		g, signer := newTestGate(clock)
		req := gateRequest("http://kiosk.example.com/survey", sessionCookie(t, signer, 10*time.Minute))
		w := httptest.NewRecorder()
		g.Protect(okHandler).ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("ForeignReferer", func(t *testing.T) {
		g, signer := newTestGate(clock)
		req := gateRequest("https://evil-site.com/attack", sessionCookie(t, signer, 10*time.Minute))
		w := httptest.NewRecorder()
		g.Protect(okHandler).ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403 got %d", w.Code)
		}
	})

	t.Run("NoOriginNoReferer", func(t *testing.T) {
		g, signer := newTestGate(clock)
		req := gateRequest("", sessionCookie(t, signer, 10*time.Minute))
		w := httptest.NewRecorder()
		g.Protect(okHandler).ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403 got %d", w.Code)
		}
	})

	t.Run("MissingCookie", func(t *testing.T) {
		g, _ := newTestGate(clock)
		req := gateRequest("http://kiosk.example.com/survey", nil)
		w := httptest.NewRecorder()
		g.Protect(okHandler).ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 got %d", w.Code)
		}
	})

	t.Run("ExpiredSession", func(t *testing.T) {
		g, _ := newTestGate(clock)
		// signed 20 minutes in the past with a 10 minute ttl
		past := func() time.Time { return now.Add(-20 * time.Minute) }
		expired := sessionCookie(t, token.NewSignerAt(gateSecret, past), 10*time.Minute)
		req := gateRequest("http://kiosk.example.com/survey", expired)
		w := httptest.NewRecorder()
		g.Protect(okHandler).ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 got %d", w.Code)
		}
		// the stale cookie must be cleared
		res := w.Result()
		defer res.Body.Close()
		cleared := false
		for _, c := range res.Cookies() {
			if c.Name == api.SessionCookie && c.MaxAge < 0 {
				cleared = true
			}
		}
		if !cleared {
			t.Fatalf("stale cookie not cleared")
		}
	})

	t.Run("AdminTokenRejected", func(t *testing.T) {
		g, signer := newTestGate(clock)
		tok, err := signer.Sign(token.Claims{UID: 1, Purpose: token.PurposeAdmin}, time.Hour)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		req := gateRequest("http://kiosk.example.com/survey", &http.Cookie{Name: api.SessionCookie, Value: tok})
		w := httptest.NewRecorder()
		g.Protect(okHandler).ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for admin-purpose cookie, got %d", w.Code)
		}
	})
}

// The 6th accepted submission within the window trips the limiter, and a
// rejected request surfaces retry_after.
func TestGateRateLimit(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	g, signer := newTestGate(clock)

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	protected := g.Protect(okHandler)

	for i := 0; i < 5; i++ {
		req := gateRequest("http://kiosk.example.com/survey", sessionCookie(t, signer, 10*time.Minute))
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("submission %d: expected 201 got %d", i+1, w.Code)
		}
	}

	req := gateRequest("http://kiosk.example.com/survey", sessionCookie(t, signer, 10*time.Minute))
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("missing Retry-After header")
	}
	var resp struct {
		RetryAfter int `json:"retry_after"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.RetryAfter <= 0 || resp.RetryAfter > 601 {
		t.Fatalf("unexpected retry_after: %d", resp.RetryAfter)
	}
}

// A request blocked by the origin check must not consume a rate-limit slot.
func TestGateRejectionsDoNotConsumeBudget(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	g, signer := newTestGate(clock)

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	protected := g.Protect(okHandler)

	for i := 0; i < 10; i++ {
		req := gateRequest("https://evil-site.com/attack", sessionCookie(t, signer, 10*time.Minute))
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403 got %d", w.Code)
		}
	}

	// the full budget is still available
	for i := 0; i < 5; i++ {
		req := gateRequest("http://kiosk.example.com/survey", sessionCookie(t, signer, 10*time.Minute))
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("submission %d after rejections: expected 201 got %d", i+1, w.Code)
		}
	}
}
