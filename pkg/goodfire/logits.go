package goodfire

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/germanamz/steerlab/pkg/chats/message"
)

const logitsPath = apiPrefix + "/chat/logits"

// LogitsResponse holds the top-k pre-softmax token scores for the next
// generation step of a conversation. Raw preserves the provider payload
// byte-for-byte so artifacts can be written verbatim.
type LogitsResponse struct {
	Logits map[string]float64 `json:"logits"`
	Raw    json.RawMessage    `json:"-"`
}

type logitsRequest struct {
	Messages []message.Message `json:"messages"`
	Model    Variant           `json:"model"`
	TopK     int               `json:"top_k"`
}

// Logits requests the top-k token logits for the given conversation and
// variant.
func (c *Client) Logits(ctx context.Context, msgs []message.Message, v Variant, topK int) (*LogitsResponse, error) {
	if err := validateRoles(msgs); err != nil {
		return nil, err
	}

	raw, err := c.postJSON(ctx, logitsPath, logitsRequest{
		Messages: msgs,
		Model:    v,
		TopK:     topK,
	})
	if err != nil {
		return nil, err
	}

	var resp LogitsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("goodfire: decode logits response: %w", err)
	}

	resp.Raw = raw

	return &resp, nil
}
