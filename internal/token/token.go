// Package token signs and verifies the short-lived credentials used by the
// service: 24h admin bearer tokens and 10m kiosk survey-session tokens. A
// purpose claim keeps the two from being interchangeable.
package token

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	PurposeAdmin         = "admin"
	PurposeSurveySession = "survey_session"
)

var ErrWrongPurpose = errors.New("token purpose mismatch")

type Claims struct {
	UID      int64  `json:"uid,omitempty"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
	Purpose  string `json:"purpose"`
	jwt.RegisteredClaims
}

type Signer struct {
	secret []byte
	now    func() time.Time
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret), now: time.Now}
}

// NewSignerAt is like NewSigner with an injectable clock, for tests.
func NewSignerAt(secret string, now func() time.Time) *Signer {
	return &Signer{secret: []byte(secret), now: now}
}

func (s *Signer) Sign(c Claims, ttl time.Duration) (string, error) {
	nowT := s.now()
	c.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(nowT),
		ExpiresAt: jwt.NewNumericDate(nowT.Add(ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return tok.SignedString(s.secret)
}

// Parse verifies signature and expiry and checks the embedded purpose claim.
func (s *Signer) Parse(tokenString, purpose string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, errors.New("invalid token")
	}
	if c.Purpose != purpose {
		return nil, ErrWrongPurpose
	}
	return c, nil
}
