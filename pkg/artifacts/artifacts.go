// Package artifacts persists playground outputs — responses, metadata,
// feature activations, and logits — as timestamped files in an output
// directory. Files are append-only across runs: names carry a timestamp and
// a collision counter, so nothing is ever overwritten.
package artifacts

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/germanamz/steerlab/pkg/goodfire"
	json "github.com/goccy/go-json"
)

const timestampLayout = "20060102_150405"

// Store writes artifacts into a single output directory.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates a Store rooted at dir. The directory is created lazily on
// first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	return s.dir
}

// SaveResponse writes the response text to "<example>_<timestamp>.txt" and,
// when metadata is non-nil, a matching "..._metadata.json" beside it. The
// metadata file is written only after the response file exists. It returns
// the response file path.
func (s *Store) SaveResponse(example, text string, metadata map[string]any) (string, error) {
	base, err := s.uniqueBase(example, ".txt")
	if err != nil {
		return "", err
	}

	respPath := base + ".txt"
	if err := os.WriteFile(respPath, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("artifacts: write response: %w", err)
	}

	if metadata != nil {
		if err := s.writeJSON(base+"_metadata.json", metadata); err != nil {
			return "", err
		}
	}

	return respPath, nil
}

// topFeature is the persisted form of one feature activation.
type topFeature struct {
	Feature    string  `json:"feature"`
	Activation float64 `json:"activation"`
}

// SaveFeatures writes feature activations, in the order given, to
// "<example>_<timestamp>_features.json" and returns the path.
func (s *Store) SaveFeatures(example string, top []goodfire.FeatureActivation) (string, error) {
	base, err := s.uniqueBase(example, "_features.json")
	if err != nil {
		return "", err
	}

	features := make([]topFeature, len(top))
	for i, fa := range top {
		features[i] = topFeature{
			Feature:    fa.Feature.String(),
			Activation: fa.Activation,
		}
	}

	path := base + "_features.json"
	if err := s.writeJSON(path, map[string]any{"top_features": features}); err != nil {
		return "", err
	}

	return path, nil
}

// SaveLogits writes the provider logits payload verbatim (re-indented) to
// "<example>_<timestamp>_logits.json" and returns the path.
func (s *Store) SaveLogits(example string, raw []byte) (string, error) {
	base, err := s.uniqueBase(example, "_logits.json")
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", fmt.Errorf("artifacts: indent logits: %w", err)
	}

	path := base + "_logits.json"
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("artifacts: write logits: %w", err)
	}

	return path, nil
}

// uniqueBase ensures the output directory exists and returns
// "<dir>/<example>_<timestamp>" such that base+suffix does not exist yet.
// Same-second saves get a "_2", "_3", … counter instead of overwriting.
func (s *Store) uniqueBase(example, suffix string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("artifacts: create output dir: %w", err)
	}

	stamp := fmt.Sprintf("%s_%s", example, s.now().Format(timestampLayout))
	base := filepath.Join(s.dir, stamp)

	candidate := base
	for n := 2; ; n++ {
		if _, err := os.Stat(candidate + suffix); os.IsNotExist(err) {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d", base, n)
	}
}

func (s *Store) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("artifacts: marshal %s: %w", filepath.Base(path), err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("artifacts: write %s: %w", filepath.Base(path), err)
	}

	return nil
}
