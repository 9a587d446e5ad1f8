package goodfire

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/germanamz/steerlab/pkg/chats/message"
)

const completionsPath = apiPrefix + "/chat/completions"

// CompletionRequest describes one chat completion call.
type CompletionRequest struct {
	Messages            []message.Message `json:"messages"`
	Model               Variant           `json:"model"`
	Stream              bool              `json:"stream"`
	MaxCompletionTokens int               `json:"max_completion_tokens,omitempty"`
}

// StreamChunk is one server-sent event of a streamed completion.
type StreamChunk struct {
	Choices []StreamChoice `json:"choices"`
}

// StreamChoice carries the incremental delta for one choice.
type StreamChoice struct {
	Delta        StreamDelta `json:"delta"`
	FinishReason string      `json:"finish_reason"`
}

// StreamDelta is the text fragment added by this chunk.
type StreamDelta struct {
	Content string `json:"content"`
}

// Content returns the text fragment of the first choice, or an empty string
// for chunks with no choices.
func (c StreamChunk) Content() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Delta.Content
}

// Stream is a lazy, finite, non-restartable sequence of completion chunks.
// Chunks arrive in generation order; consume with Next/Current and check Err
// after Next returns false. Close releases the connection and is safe to
// call at any point, including after full consumption.
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	current StreamChunk
	err     error
	done    bool
}

// Next advances to the following chunk. It returns false when the stream is
// exhausted or an error occurred; distinguish via Err.
func (s *Stream) Next() bool {
	if s.done || s.err != nil {
		return false
	}

	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			continue
		}

		payload, ok := strings.CutPrefix(line, "data:")
		if !ok {
			// Comment or unknown SSE field; skip.
			continue
		}

		payload = strings.TrimSpace(payload)
		if payload == "[DONE]" {
			s.done = true
			return false
		}

		var chunk StreamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			s.err = fmt.Errorf("goodfire: decode stream chunk: %w", err)
			return false
		}

		s.current = chunk

		return true
	}

	if err := s.scanner.Err(); err != nil {
		s.err = fmt.Errorf("goodfire: read stream: %w", err)
	}

	s.done = true

	return false
}

// Current returns the chunk produced by the last successful Next call.
func (s *Stream) Current() StreamChunk {
	return s.current
}

// Err returns the first error encountered while reading the stream.
func (s *Stream) Err() error {
	return s.err
}

// Close releases the underlying connection.
func (s *Stream) Close() error {
	return s.body.Close()
}

// Text consumes the remainder of the stream and returns the concatenation of
// all fragments in arrival order. The stream is closed on return. It is a
// convenience for consumers that do not need per-fragment handling; callers
// that display fragments as they arrive iterate with Next/Current instead.
func (s *Stream) Text() (string, error) {
	defer func() { _ = s.Close() }()

	var b strings.Builder
	for s.Next() {
		b.WriteString(s.Current().Content())
	}

	if err := s.Err(); err != nil {
		return "", err
	}

	return b.String(), nil
}

// maxEventSize bounds a single SSE data line. The default bufio.Scanner
// limit of 64KiB is too small for a full logits-sized payload on one line.
const maxEventSize = 1 << 20

// NewStream wraps a raw SSE body in a Stream. CreateStream uses it
// internally; it is exported so alternate transports and test doubles can
// produce streams from canned bodies.
func NewStream(body io.ReadCloser) *Stream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)

	return &Stream{
		body:    body,
		scanner: scanner,
	}
}

// CreateStream starts a streamed chat completion. The request's Stream flag
// is forced on. The caller owns the returned Stream and must consume or
// close it.
func (c *Client) CreateStream(ctx context.Context, req CompletionRequest) (*Stream, error) {
	if err := validateRoles(req.Messages); err != nil {
		return nil, err
	}

	req.Stream = true

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("goodfire: marshal completion request: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, completionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("goodfire: build request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("goodfire: do request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		return nil, &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}

	return NewStream(resp.Body), nil
}
