package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/wxmsg/internal"
)

// JSONLExporter exports transcripts in JSONL format (one record per line)
type JSONLExporter struct{}

// Export exports a transcript to JSONL format
func (e *JSONLExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for _, rec := range transcript.Messages {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to encode message %d: %w", rec.RowIndex, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
