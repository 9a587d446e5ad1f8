package goodfire

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/germanamz/steerlab/pkg/chats/message"
)

const (
	inspectPath   = apiPrefix + "/features/inspect"
	searchPath    = apiPrefix + "/features/search"
	autoSteerPath = apiPrefix + "/features/auto-steer"
)

// FeatureActivation pairs a feature with how strongly it fired.
type FeatureActivation struct {
	Feature    Feature `json:"feature"`
	Activation float64 `json:"activation"`
}

// ContextInspection holds the feature activations for one conversation.
type ContextInspection struct {
	Activations []FeatureActivation
}

// Top returns the k strongest activations in descending order. The sort is
// stable, so activations with equal scores keep the order the service
// returned them in.
func (ci *ContextInspection) Top(k int) []FeatureActivation {
	sorted := make([]FeatureActivation, len(ci.Activations))
	copy(sorted, ci.Activations)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Activation > sorted[j].Activation
	})

	if k > len(sorted) {
		k = len(sorted)
	}

	return sorted[:k]
}

type inspectRequest struct {
	Messages []message.Message `json:"messages"`
	Model    Variant           `json:"model"`
}

type inspectResponse struct {
	Activations []FeatureActivation `json:"activations"`
}

// Inspect computes feature activations for the given conversation and
// variant.
func (c *Client) Inspect(ctx context.Context, msgs []message.Message, v Variant) (*ContextInspection, error) {
	if err := validateRoles(msgs); err != nil {
		return nil, err
	}

	raw, err := c.postJSON(ctx, inspectPath, inspectRequest{Messages: msgs, Model: v})
	if err != nil {
		return nil, err
	}

	var resp inspectResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("goodfire: decode inspect response: %w", err)
	}

	return &ContextInspection{Activations: resp.Activations}, nil
}

type searchRequest struct {
	Query string  `json:"query"`
	Model Variant `json:"model"`
	TopK  int     `json:"top_k"`
}

type searchResponse struct {
	Features []Feature `json:"features"`
}

// Search finds features matching a natural-language query, strongest match
// first as ranked by the service.
func (c *Client) Search(ctx context.Context, query string, v Variant, topK int) ([]Feature, error) {
	raw, err := c.postJSON(ctx, searchPath, searchRequest{Query: query, Model: v, TopK: topK})
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("goodfire: decode search response: %w", err)
	}

	return resp.Features, nil
}

type autoSteerRequest struct {
	Specification string  `json:"specification"`
	Model         Variant `json:"model"`
}

type autoSteerResponse struct {
	Edits []Edit `json:"edits"`
}

// AutoSteer derives steering edits from a natural-language behaviour
// specification. Apply the result with Variant.WithEdits.
func (c *Client) AutoSteer(ctx context.Context, specification string, v Variant) ([]Edit, error) {
	raw, err := c.postJSON(ctx, autoSteerPath, autoSteerRequest{Specification: specification, Model: v})
	if err != nil {
		return nil, err
	}

	var resp autoSteerResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("goodfire: decode auto-steer response: %w", err)
	}

	return resp.Edits, nil
}
