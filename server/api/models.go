package api

type Scan struct {
	ID string `json:"id"`

	Soal    string `json:"soal"`
	Jawaban string `json:"jawaban"`

	Fallback  bool `json:"fallback"`
	Truncated bool `json:"truncated,omitempty"`

	// set when section counts were given, empty groups included
	PGSoal    *[]string `json:"pgSoal,omitempty"`
	EssaySoal *[]string `json:"essaySoal,omitempty"`

	PGJawaban    *[]string `json:"pgJawaban,omitempty"`
	EssayJawaban *[]string `json:"essayJawaban,omitempty"`

	Images int `json:"images"`
	Failed int `json:"failed"`

	Download  string `json:"download"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

type ErrorResponse struct {
	Error Error `json:"error"`
}

type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`

	Retryable bool `json:"retryable"`
}
