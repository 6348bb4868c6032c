package model

import (
	"context"
	"time"
)

// DefaultDisclaimer is attached to identifications that arrive without one.
const DefaultDisclaimer = "AI identification may not be accurate. Always verify details independently."

// Confidence is the coarse confidence bucket reported by the inference service.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ParseConfidence returns nil for anything outside the known buckets.
func ParseConfidence(s string) *Confidence {
	switch c := Confidence(s); c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return &c
	default:
		return nil
	}
}

// CarIdentification is the output of one identification request.
type CarIdentification struct {
	Make            *string     `json:"make"`
	Model           *string     `json:"model"`
	Year            *int        `json:"year"`
	SpotScore       *int        `json:"spotScore"`
	ConfidenceScore *float64    `json:"confidenceScore"`
	Confidence      *Confidence `json:"confidence"`
	Disclaimer      string      `json:"disclaimer"`
	IdentifiedAt    time.Time   `json:"identifiedAt"`
}

// Identifier sends one image to the remote inference endpoint.
type Identifier interface {
	Identify(ctx context.Context, imageBase64 string) Result[CarIdentification]
}
