package goodfire

import (
	"encoding/json"
	"fmt"
)

// Feature identifies an internal model feature discovered by the service.
type Feature struct {
	UUID  string `json:"uuid,omitempty"`
	Label string `json:"label"`
}

// String returns the feature label, falling back to the UUID when the
// service provided no label.
func (f Feature) String() string {
	if f.Label != "" {
		return f.Label
	}
	return f.UUID
}

// Edit is a steering adjustment: a feature and the weight to apply to it.
type Edit struct {
	Feature Feature `json:"feature"`
	Weight  float64 `json:"weight"`
}

// Variant is a base model plus a set of accumulated steering edits.
// It is a value type: Reset, WithFeature, and WithEdits return new values
// and never alias the receiver's edits, so state flow between playground
// examples stays explicit.
type Variant struct {
	BaseModel string
	edits     []Edit
}

// NewVariant creates a Variant for the given base model with no edits.
func NewVariant(baseModel string) Variant {
	return Variant{BaseModel: baseModel}
}

// Reset returns a Variant with the same base model and no edits.
func (v Variant) Reset() Variant {
	return Variant{BaseModel: v.BaseModel}
}

// WithFeature returns a Variant with an additional edit setting the given
// feature to the given weight.
func (v Variant) WithFeature(f Feature, weight float64) Variant {
	return v.WithEdits([]Edit{{Feature: f, Weight: weight}})
}

// WithEdits returns a Variant with the given edits appended.
func (v Variant) WithEdits(edits []Edit) Variant {
	merged := make([]Edit, 0, len(v.edits)+len(edits))
	merged = append(merged, v.edits...)
	merged = append(merged, edits...)

	return Variant{BaseModel: v.BaseModel, edits: merged}
}

// Edits returns a copy of the active edits.
func (v Variant) Edits() []Edit {
	cp := make([]Edit, len(v.edits))
	copy(cp, v.edits)
	return cp
}

// String renders the variant for logs and metadata.
func (v Variant) String() string {
	if len(v.edits) == 0 {
		return v.BaseModel
	}
	return fmt.Sprintf("%s (%d edits)", v.BaseModel, len(v.edits))
}

// variantWire is the request form every API call embeds under "model".
type variantWire struct {
	BaseModel string `json:"base_model"`
	Edits     []Edit `json:"edits"`
}

// MarshalJSON emits the wire form {"base_model": ..., "edits": [...]}.
func (v Variant) MarshalJSON() ([]byte, error) {
	edits := v.edits
	if edits == nil {
		edits = []Edit{}
	}
	return json.Marshal(variantWire{BaseModel: v.BaseModel, Edits: edits})
}

// UnmarshalJSON accepts the wire form produced by MarshalJSON.
func (v *Variant) UnmarshalJSON(data []byte) error {
	var w variantWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	v.BaseModel = w.BaseModel
	v.edits = w.Edits

	return nil
}
