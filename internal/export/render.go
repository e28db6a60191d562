package export

import (
	"bytes"

	"github.com/BerylCAtieno/tubearchitect/internal/apperr"
	"github.com/BerylCAtieno/tubearchitect/internal/models"
)

// File is a rendered download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Render lays out and serializes the report for a channel.
func Render(analysis *models.ChannelAnalysis, stats *models.ChannelStats) (*File, error) {
	if analysis == nil {
		return nil, apperr.NewInvalidInput("analysis", "There is no strategy to export yet")
	}
	if !stats.Resolved() {
		return nil, apperr.NewInvalidInput("channel", "A channel is required to export a strategy")
	}

	var buf bytes.Buffer
	if err := WriteDOCX(&buf, BuildDocument(analysis, stats)); err != nil {
		return nil, err
	}
	return &File{
		Name:        Filename(stats),
		ContentType: ContentType,
		Data:        buf.Bytes(),
	}, nil
}
