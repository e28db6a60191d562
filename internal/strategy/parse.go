package strategy

import (
	"strings"

	"github.com/goccy/go-json"

	"github.com/BerylCAtieno/tubearchitect/internal/apperr"
	"github.com/BerylCAtieno/tubearchitect/internal/models"
	"github.com/BerylCAtieno/tubearchitect/internal/validation"
)

// Parse decodes a model completion into a ChannelAnalysis. The whole object
// must match the schema: every key present with a value of the right kind.
// There is no field-level recovery.
func Parse(raw string) (*models.ChannelAnalysis, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, apperr.NewMalformedStrategy("response is empty")
	}

	var analysis models.ChannelAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return nil, apperr.NewMalformedStrategy("response is not a valid strategy object").WithCause(err)
	}

	if err := validation.RequirePresent([]byte(text), &analysis); err != nil {
		return nil, apperr.NewMalformedStrategy(err.Error())
	}
	if err := validation.Struct(&analysis); err != nil {
		return nil, apperr.NewMalformedStrategy(err.Error())
	}

	return &analysis, nil
}
