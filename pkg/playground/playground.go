// Package playground runs a fixed, ordered sequence of examples against the
// Goodfire API, streaming completions to the terminal and recording logits,
// feature activations, and responses as artifacts.
//
// Examples are not independent: each one receives the variant left behind by
// its predecessor and returns the variant it produces, so steering state
// flows explicitly from example to example. A failure aborts the run;
// downstream examples do not execute.
package playground

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/germanamz/steerlab/pkg/artifacts"
	"github.com/germanamz/steerlab/pkg/chats/message"
	"github.com/germanamz/steerlab/pkg/goodfire"
	"github.com/google/uuid"
)

// defaultTopK bounds logit and feature-activation retrieval.
const defaultTopK = 10

// Client is the slice of the Goodfire API the playground exercises.
// *goodfire.Client satisfies it; tests substitute doubles.
type Client interface {
	CreateStream(ctx context.Context, req goodfire.CompletionRequest) (*goodfire.Stream, error)
	Logits(ctx context.Context, msgs []message.Message, v goodfire.Variant, topK int) (*goodfire.LogitsResponse, error)
	Inspect(ctx context.Context, msgs []message.Message, v goodfire.Variant) (*goodfire.ContextInspection, error)
	Search(ctx context.Context, query string, v goodfire.Variant, topK int) ([]goodfire.Feature, error)
	AutoSteer(ctx context.Context, specification string, v goodfire.Variant) ([]goodfire.Edit, error)
}

var _ Client = (*goodfire.Client)(nil)

// Runner executes examples against a shared client and artifact store.
type Runner struct {
	Client Client
	Store  *artifacts.Store
	Log    *slog.Logger // run-level events; nil falls back to slog.Default.
	Debug  *slog.Logger // verbose payload logging; nil falls back to Log.
	Out    io.Writer    // streamed fragments and banners; nil falls back to os.Stdout.
	RunID  string       // stamped into metadata and log records.
	TopK   int          // logit/feature top-k; zero means defaultTopK.

	// Banner renders an example heading for the terminal. Nil leaves the
	// heading unstyled.
	Banner func(string) string
}

// NewRunner creates a Runner with a fresh run ID.
func NewRunner(client Client, store *artifacts.Store) *Runner {
	return &Runner{
		Client: client,
		Store:  store,
		RunID:  uuid.NewString(),
	}
}

// Run executes the given examples strictly in order, threading the variant
// value through them. The first error is logged at ERROR with the example
// name and returned; remaining examples are skipped.
func (r *Runner) Run(ctx context.Context, v goodfire.Variant, examples []Example) error {
	for i, ex := range examples {
		r.log().Info("running example", "example", ex.Name, "run_id", r.RunID)
		fmt.Fprintf(r.out(), "\n%s\n", r.banner(fmt.Sprintf("=== Example %d: %s ===", i+1, ex.Title)))

		next, err := ex.Run(ctx, r, v)
		if err != nil {
			r.log().Error("example failed", "example", ex.Name, "run_id", r.RunID, "error", err)
			return fmt.Errorf("playground: example %s: %w", ex.Name, err)
		}

		v = next
	}

	r.log().Info("playground completed", "run_id", r.RunID, "examples", len(examples))

	return nil
}

func (r *Runner) log() *slog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return slog.Default()
}

func (r *Runner) debug() *slog.Logger {
	if r.Debug != nil {
		return r.Debug
	}
	return r.log()
}

func (r *Runner) out() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return os.Stdout
}

func (r *Runner) topK() int {
	if r.TopK > 0 {
		return r.TopK
	}
	return defaultTopK
}

func (r *Runner) banner(s string) string {
	if r.Banner != nil {
		return r.Banner(s)
	}
	return s
}

// recordLogits requests top-k token logits for the conversation and persists
// the provider payload verbatim under the given artifact name.
func (r *Runner) recordLogits(ctx context.Context, name string, msgs []message.Message, v goodfire.Variant) (*goodfire.LogitsResponse, error) {
	resp, err := r.Client.Logits(ctx, msgs, v, r.topK())
	if err != nil {
		return nil, fmt.Errorf("logits: %w", err)
	}

	path, err := r.Store.SaveLogits(name, resp.Raw)
	if err != nil {
		return nil, err
	}

	r.debug().Debug("logits recorded", "example", name, "path", path)

	return resp, nil
}

// streamCompletion runs one streamed completion, printing each fragment as
// it arrives and returning the concatenation in arrival order.
func (r *Runner) streamCompletion(ctx context.Context, msgs []message.Message, v goodfire.Variant, maxTokens int) (string, error) {
	stream, err := r.Client.CreateStream(ctx, goodfire.CompletionRequest{
		Messages:            msgs,
		Model:               v,
		MaxCompletionTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("completion: %w", err)
	}
	defer func() { _ = stream.Close() }()

	var b strings.Builder
	for stream.Next() {
		fragment := stream.Current().Content()
		fmt.Fprint(r.out(), fragment)
		b.WriteString(fragment)
	}

	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("completion: %w", err)
	}

	fmt.Fprintln(r.out())

	return b.String(), nil
}

// recordFeatures inspects feature activations for the conversation and
// persists the top-k under the given artifact name.
func (r *Runner) recordFeatures(ctx context.Context, name string, msgs []message.Message, v goodfire.Variant) ([]goodfire.FeatureActivation, error) {
	ci, err := r.Client.Inspect(ctx, msgs, v)
	if err != nil {
		return nil, fmt.Errorf("inspect: %w", err)
	}

	top := ci.Top(r.topK())

	path, err := r.Store.SaveFeatures(name, top)
	if err != nil {
		return nil, err
	}

	r.debug().Debug("features recorded", "example", name, "path", path, "count", len(top))

	return top, nil
}

// featureLabels extracts the label of each activation, for metadata.
func featureLabels(top []goodfire.FeatureActivation) []string {
	labels := make([]string, len(top))
	for i, fa := range top {
		labels[i] = fa.Feature.String()
	}
	return labels
}

// formatEdits renders steering edits as "label=weight" pairs.
func formatEdits(edits []goodfire.Edit) string {
	parts := make([]string, len(edits))
	for i, e := range edits {
		parts[i] = fmt.Sprintf("%s=%.2f", e.Feature, e.Weight)
	}
	return strings.Join(parts, ", ")
}

// formatActivations renders activations one per line as "label: score".
func formatActivations(top []goodfire.FeatureActivation) string {
	lines := make([]string, len(top))
	for i, fa := range top {
		lines[i] = fmt.Sprintf("%s: %.4f", fa.Feature, fa.Activation)
	}
	return strings.Join(lines, "\n")
}
