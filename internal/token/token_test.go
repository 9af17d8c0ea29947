package token

import (
	"errors"
	"testing"
	"time"
)

func TestSignAndParse(t *testing.T) {
	s := NewSigner("secret")

	tok, err := s.Sign(Claims{UID: 7, Username: "admin", Purpose: PurposeAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	c, err := s.Parse(tok, PurposeAdmin)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.UID != 7 || c.Username != "admin" {
		t.Fatalf("claims not carried: %+v", c)
	}
	if c.ID == "" {
		t.Fatalf("missing jti")
	}
}

func TestParseRejectsWrongPurpose(t *testing.T) {
	s := NewSigner("secret")

	tok, err := s.Sign(Claims{Purpose: PurposeSurveySession}, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := s.Parse(tok, PurposeAdmin); !errors.Is(err, ErrWrongPurpose) {
		t.Fatalf("expected ErrWrongPurpose, got %v", err)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := NewSigner("secret-a").Sign(Claims{Purpose: PurposeAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewSigner("secret-b").Parse(tok, PurposeAdmin); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	base := time.Now()
	signer := NewSignerAt("secret", func() time.Time { return base })

	tok, err := signer.Sign(Claims{Purpose: PurposeSurveySession}, 10*time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	// still valid just before expiry
	verifier := NewSignerAt("secret", func() time.Time { return base.Add(9 * time.Minute) })
	if _, err := verifier.Parse(tok, PurposeSurveySession); err != nil {
		t.Fatalf("token rejected before expiry: %v", err)
	}

	// rejected after expiry
	verifier = NewSignerAt("secret", func() time.Time { return base.Add(11 * time.Minute) })
	if _, err := verifier.Parse(tok, PurposeSurveySession); err == nil {
		t.Fatalf("expected expiry error")
	}
}

func TestJTIUnique(t *testing.T) {
	s := NewSigner("secret")
	a, _ := s.Sign(Claims{Purpose: PurposeAdmin}, time.Hour)
	b, _ := s.Sign(Claims{Purpose: PurposeAdmin}, time.Hour)

	ca, err := s.Parse(a, PurposeAdmin)
	if err != nil {
		t.Fatalf("parse a: %v", err)
	}
	cb, err := s.Parse(b, PurposeAdmin)
	if err != nil {
		t.Fatalf("parse b: %v", err)
	}
	if ca.ID == cb.ID {
		t.Fatalf("token ids collide: %s", ca.ID)
	}
}
