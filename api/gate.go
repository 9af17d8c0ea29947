package api

import (
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/prasetyadi/survey-kiosk/internal/gate"
	"github.com/prasetyadi/survey-kiosk/internal/token"
)

// SessionCookie carries the short-lived survey-session token. HTTP-only so
// kiosk page scripts never see the raw credential.
const SessionCookie = "survey_session"

// Gate applies the protective chain on the public submission endpoint, in
// order: rate-limit peek, origin/referer heuristic, session-token
// verification. Only after all three pass is a rate-limit slot consumed.
type Gate struct {
	limiter    *gate.Limiter
	signer     *token.Signer
	sessionTTL time.Duration
	secure     bool
}

func NewGate(limiter *gate.Limiter, signer *token.Signer, sessionTTL time.Duration, secure bool) *Gate {
	return &Gate{limiter: limiter, signer: signer, sessionTTL: sessionTTL, secure: secure}
}

// StartSession issues the session cookie that a subsequent submission must
// present.
func (g *Gate) StartSession(w http.ResponseWriter, r *http.Request) {
	claims := token.Claims{Purpose: token.PurposeSurveySession}
	tok, err := g.signer.Sign(claims, g.sessionTTL)
	if err != nil {
		logger.Error("sign session token", slog.Any("err", err))
		writeError(w, "failed to start session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(g.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteStrictMode,
	})

	logger.Info("survey session issued",
		slog.String("ip", clientIP(r)),
		slog.Time("at", time.Now()),
	)

	writeJSON(w, map[string]any{"ok": true, "expires_in": int(g.sessionTTL.Seconds())}, http.StatusOK)
}

// Protect wraps the submission handler with the full gate chain.
func (g *Gate) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		// 1. rate limit: peek only, so rejections by later layers don't
		// burn a slot
		retryAfter, ok := g.limiter.Check(ip)
		if !ok {
			secs := int(retryAfter.Seconds()) + 1
			w.Header().Set("Retry-After", fmt.Sprintf("%d", secs))
			writeJSON(w, map[string]any{
				"error":       "too many requests",
				"retry_after": secs,
			}, http.StatusTooManyRequests)
			return
		}

		// 2. origin heuristic
		if !gate.FromBrowser(r.Header.Get("Origin"), r.Header.Get("Referer"), r.Host) {
			writeError(w, "submissions must come from the survey page", http.StatusForbidden)
			return
		}

		// 3. session token
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			g.rejectSession(w)
			return
		}
		if _, err := g.signer.Parse(cookie.Value, token.PurposeSurveySession); err != nil {
			g.rejectSession(w)
			return
		}

		g.limiter.Record(ip)
		next.ServeHTTP(w, r)
	})
}

// rejectSession clears the cookie so the kiosk restarts the flow cleanly.
func (g *Gate) rejectSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteStrictMode,
	})
	writeError(w, "session expired, restart survey", http.StatusUnauthorized)
}
