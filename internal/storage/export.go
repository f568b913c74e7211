package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/sortlab/internal/trace"
)

type ExportData struct {
	RunMetadata
	Trace []trace.Event `json:"trace"`
}

func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	events, err := s.LoadEvents(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{RunMetadata: *meta, Trace: events})
}
