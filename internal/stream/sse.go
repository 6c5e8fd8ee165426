package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// WriteSSE renders one frame in server-sent-event wire format:
//
//	event: <type>
//	data: <json>
//
// followed by a blank line. The writer is flushed after every frame when it
// supports flushing, so tokens reach the client as they are produced.
func WriteSSE(w io.Writer, f Frame) error {
	body, err := json.Marshal(f.Data)
	if err != nil {
		return fmt.Errorf("marshal %s frame: %w", f.Type, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", f.Type, body); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

// WriteAll renders frames in order, stopping at the first write error.
func WriteAll(w io.Writer, frames []Frame) error {
	for _, f := range frames {
		if err := WriteSSE(w, f); err != nil {
			return err
		}
	}
	return nil
}
