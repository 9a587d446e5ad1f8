package playground

import (
	"context"
	"fmt"
	"strings"

	"github.com/germanamz/steerlab/pkg/chats/chat"
	"github.com/germanamz/steerlab/pkg/chats/message"
	"github.com/germanamz/steerlab/pkg/goodfire"
)

// Example is one scenario in the playground sequence. Run receives the
// variant left behind by the previous example and returns the variant it
// leaves for the next one.
type Example struct {
	Name  string // artifact naming key
	Title string // terminal banner
	Run   func(ctx context.Context, r *Runner, v goodfire.Variant) (goodfire.Variant, error)
}

// Examples returns the fixed playground sequence.
func Examples() []Example {
	return []Example{
		{Name: "basic_chat", Title: "Basic Chat Completion", Run: runBasicChat},
		{Name: "auto_steer_humor", Title: "Auto Steering for Humor", Run: runAutoSteerHumor},
		{Name: "manual_feature_edit", Title: "Feature Search and Manual Editing", Run: runManualFeatureEdit},
		{Name: "feature_inspection", Title: "Feature Inspection", Run: runFeatureInspection},
	}
}

// runBasicChat streams a plain completion on the unedited variant, recording
// logits before generation and feature activations after.
func runBasicChat(ctx context.Context, r *Runner, v goodfire.Variant) (goodfire.Variant, error) {
	conv := chat.New(message.User("Hi, how are you?")).Messages()

	logits, err := r.recordLogits(ctx, "basic_chat_logits", conv, v)
	if err != nil {
		return v, err
	}

	response, err := r.streamCompletion(ctx, conv, v, 100)
	if err != nil {
		return v, err
	}

	features, err := r.recordFeatures(ctx, "basic_chat_features", conv, v)
	if err != nil {
		return v, err
	}

	_, err = r.Store.SaveResponse("basic_chat", response, map[string]any{
		"run_id":       r.RunID,
		"model":        v.BaseModel,
		"max_tokens":   100,
		"top_features": featureLabels(features),
		"top_logits":   logits.Logits,
	})

	return v, err
}

// runAutoSteerHumor resets the variant, derives steering edits from a
// natural-language specification, and generates with them applied.
func runAutoSteerHumor(ctx context.Context, r *Runner, v goodfire.Variant) (goodfire.Variant, error) {
	v = v.Reset()

	edits, err := r.Client.AutoSteer(ctx, "be funny", v)
	if err != nil {
		return v, fmt.Errorf("auto-steer: %w", err)
	}

	v = v.WithEdits(edits)
	r.debug().Debug("applied edits", "edits", formatEdits(edits))
	fmt.Fprintf(r.out(), "Applied edits: %s\n", formatEdits(edits))

	conv := chat.New(message.User("Tell me about pirates")).Messages()

	logits, err := r.recordLogits(ctx, "auto_steer_logits", conv, v)
	if err != nil {
		return v, err
	}

	response, err := r.streamCompletion(ctx, conv, v, 120)
	if err != nil {
		return v, err
	}

	features, err := r.recordFeatures(ctx, "auto_steer_features", conv, v)
	if err != nil {
		return v, err
	}

	_, err = r.Store.SaveResponse("auto_steer_humor", response, map[string]any{
		"run_id":       r.RunID,
		"model":        v.BaseModel,
		"max_tokens":   120,
		"edits":        formatEdits(edits),
		"top_features": featureLabels(features),
		"top_logits":   logits.Logits,
	})

	return v, err
}

// runManualFeatureEdit resets the variant, searches for a feature by query,
// and sets an explicit weight on the strongest match before generating.
func runManualFeatureEdit(ctx context.Context, r *Runner, v goodfire.Variant) (goodfire.Variant, error) {
	v = v.Reset()

	found, err := r.Client.Search(ctx, "funny", v, 3)
	if err != nil {
		return v, fmt.Errorf("search: %w", err)
	}
	if len(found) == 0 {
		return v, fmt.Errorf("search: no features matched %q", "funny")
	}

	r.debug().Debug("found features", "count", len(found), "first", found[0].String())
	fmt.Fprintf(r.out(), "Found features: %s\n", formatFeatures(found))

	const weight = 0.6
	v = v.WithFeature(found[0], weight)

	conv := chat.New(message.User("tell me about foxes")).Messages()

	logits, err := r.recordLogits(ctx, "manual_feature_logits", conv, v)
	if err != nil {
		return v, err
	}

	response, err := r.streamCompletion(ctx, conv, v, 100)
	if err != nil {
		return v, err
	}

	features, err := r.recordFeatures(ctx, "manual_feature_features", conv, v)
	if err != nil {
		return v, err
	}

	_, err = r.Store.SaveResponse("manual_feature_edit", response, map[string]any{
		"run_id":       r.RunID,
		"model":        v.BaseModel,
		"max_tokens":   100,
		"features":     found[0].String(),
		"weight":       weight,
		"top_features": featureLabels(features),
		"top_logits":   logits.Logits,
	})

	return v, err
}

// runFeatureInspection resets the variant and inspects which features fire
// on a fixed two-turn joke conversation. No generation happens here; the
// response artifact is the formatted activation list.
func runFeatureInspection(ctx context.Context, r *Runner, v goodfire.Variant) (goodfire.Variant, error) {
	v = v.Reset()

	joke := chat.New(message.User("Hello how are you?"))
	joke.Append(message.Assistant("What do you call an alligator in a vest? An investigator!"))
	conv := joke.Messages()

	logits, err := r.recordLogits(ctx, "feature_inspection_logits", conv, v)
	if err != nil {
		return v, err
	}

	ci, err := r.Client.Inspect(ctx, conv, v)
	if err != nil {
		return v, fmt.Errorf("inspect: %w", err)
	}

	top := ci.Top(5)
	r.debug().Debug("top activating features", "count", len(top))
	fmt.Fprintf(r.out(), "Top activating features:\n%s\n", formatActivations(top))

	_, err = r.Store.SaveResponse("feature_inspection", formatActivations(top), map[string]any{
		"run_id":     r.RunID,
		"model":      v.BaseModel,
		"context":    "joke conversation",
		"top_logits": logits.Logits,
	})

	return v, err
}

// formatFeatures renders a feature list as comma-separated labels.
func formatFeatures(features []goodfire.Feature) string {
	parts := make([]string, len(features))
	for i, f := range features {
		parts[i] = f.String()
	}
	return strings.Join(parts, ", ")
}
