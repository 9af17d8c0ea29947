package models

// DefaultOptionSet returns the three canonical sentiment options with their
// default labels and value codes, positions 1..3.
func DefaultOptionSet() []AnswerOption {
	return []AnswerOption{
		{Value: "sangat_baik", Label: "Sangat Baik", Position: 1, Sentiment: SentimentPositive},
		{Value: "cukup_baik", Label: "Cukup Baik", Position: 2, Sentiment: SentimentNeutral},
		{Value: "kurang_baik", Label: "Kurang Baik", Position: 3, Sentiment: SentimentNegative},
	}
}

// DefaultQuestions is the fixed seed set of 5 questions shown on a fresh
// kiosk. ResetToDefaults restores these texts and labels while preserving
// question identities.
func DefaultQuestions() []Question {
	texts := []struct {
		text     string
		subtitle string
	}{
		{"Bagaimana penilaian Anda terhadap keramahan petugas?", "Sikap dan keramahan petugas saat melayani"},
		{"Bagaimana penilaian Anda terhadap kecepatan pelayanan?", "Waktu tunggu hingga selesai dilayani"},
		{"Bagaimana penilaian Anda terhadap kejelasan informasi?", "Kejelasan informasi dan persyaratan layanan"},
		{"Bagaimana penilaian Anda terhadap kenyamanan ruang pelayanan?", "Kebersihan dan kenyamanan ruang tunggu"},
		{"Bagaimana penilaian Anda terhadap pelayanan secara keseluruhan?", "Kepuasan Anda secara keseluruhan"},
	}
	out := make([]Question, 0, len(texts))
	for i, t := range texts {
		out = append(out, Question{
			Position: i + 1,
			Text:     t.text,
			Subtitle: t.subtitle,
			Active:   true,
			Options:  DefaultOptionSet(),
		})
	}
	return out
}
