package api

import (
	"time"
)

type SuggestionResponse struct {
	Suggestions []string `json:"suggestions"`
}

// SummaryResponse carries a null summary when nothing matched.
type SummaryResponse struct {
	Summary *string `json:"summary"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Trials    int       `json:"trials"`
}
