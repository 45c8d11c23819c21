package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pep299/webcrawl-agent/internal/service"
	"github.com/pep299/webcrawl-agent/internal/transport/response"
)

const streamPollInterval = 200 * time.Millisecond

// Stream handles GET /api/stream: run the pipeline in the background and
// relay its progress as server-sent events, ending with exactly one
// terminal summary or error event.
type Stream struct {
	agent *service.Agent
}

func NewStream(agent *service.Agent) *Stream {
	return &Stream{agent: agent}
}

func (h *Stream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if !validHTTPURL(rawURL) {
		response.WriteBadRequest(w, "A valid http(s) url query parameter is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.WriteInternalError(w, "Streaming is not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	stream := h.agent.StartStream(r.Context(), rawURL)

	// Poll with a short timeout so a finished producer is noticed even
	// when no events arrive; disconnects cancel the run cooperatively.
producing:
	for {
		select {
		case <-r.Context().Done():
			stream.Cancel()
			return
		case event := <-stream.Events():
			writeEvent(w, flusher, event)
		case <-time.After(streamPollInterval):
			select {
			case <-stream.Done():
				break producing
			default:
			}
		}
	}

	// The producer is done; flush whatever it left buffered before the
	// terminal event.
	for drained := false; !drained; {
		select {
		case event := <-stream.Events():
			writeEvent(w, flusher, event)
		default:
			drained = true
		}
	}

	result, err := stream.Result()
	if err != nil {
		writeEvent(w, flusher, service.Event{Type: service.EventError, Message: err.Error()})
		return
	}
	writeEvent(w, flusher, struct {
		Type service.EventType `json:"type"`
		analyzeResponse
	}{service.EventSummary, newAnalyzeResponse(result)})
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: message\ndata: %s\n\n", data)
	flusher.Flush()
}
