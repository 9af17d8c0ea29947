package models

import "testing"

func TestDefaultOptionSetCoversAllSentiments(t *testing.T) {
	opts := DefaultOptionSet()
	if len(opts) != len(Sentiments) {
		t.Fatalf("expected %d options, got %d", len(Sentiments), len(opts))
	}
	seen := map[Sentiment]bool{}
	values := map[string]bool{}
	for _, o := range opts {
		if seen[o.Sentiment] {
			t.Fatalf("duplicate sentiment %s", o.Sentiment)
		}
		seen[o.Sentiment] = true
		if values[o.Value] {
			t.Fatalf("duplicate value code %s", o.Value)
		}
		values[o.Value] = true
		if o.Label == "" {
			t.Fatalf("option %s has empty label", o.Value)
		}
	}
}

func TestDefaultQuestions(t *testing.T) {
	questions := DefaultQuestions()
	if len(questions) != 5 {
		t.Fatalf("expected 5 default questions, got %d", len(questions))
	}
	for i, q := range questions {
		if q.Position != i+1 {
			t.Fatalf("question %d has position %d", i, q.Position)
		}
		if !q.Active {
			t.Fatalf("default question %d not active", i)
		}
		if len(q.Options) != 3 {
			t.Fatalf("question %d has %d options", i, len(q.Options))
		}
	}
}
