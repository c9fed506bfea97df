package generation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/flashdeck/backend/internal/models"
	"github.com/flashdeck/backend/internal/validation"
)

// ErrInvalidResponse is returned when the LLM reply does not conform to the pairs schema
var ErrInvalidResponse = errors.New("generation response does not match schema")

type pairsEnvelope struct {
	Pairs []models.PairInput `json:"pairs" validate:"required,dive"`
}

// ParsePairsResponse decodes an LLM reply and checks it against the schema of BuildPairsSchema(count).
// Unknown fields, a wrong number of pairs or an invalid item fail the whole reply.
func ParsePairsResponse(raw string, count int) ([]models.PairInput, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()

	var envelope pairsEnvelope
	if err := dec.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrInvalidResponse)
	}

	if envelope.Pairs == nil {
		return nil, fmt.Errorf("%w: missing pairs", ErrInvalidResponse)
	}
	if len(envelope.Pairs) != count {
		return nil, fmt.Errorf("%w: expected %d pairs, got %d", ErrInvalidResponse, count, len(envelope.Pairs))
	}
	if err := validation.Struct(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return envelope.Pairs, nil
}
