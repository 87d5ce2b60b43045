package generation

import (
	"encoding/json"

	"github.com/BaSui01/genstudio/types"
	"github.com/shopspring/decimal"
)

// Capability is a generation mode supported by a model.
type Capability string

const (
	CapabilityTextToImage  Capability = "text-to-image"
	CapabilityImageToImage Capability = "image-to-image"
	CapabilityTextToVideo  Capability = "text-to-video"
	CapabilityImageToVideo Capability = "image-to-video"
)

// PricingType describes how a model is billed.
type PricingType string

const (
	PricingPerRun       PricingType = "per-run"
	PricingPerSecond    PricingType = "per-second"
	PricingPerMegapixel PricingType = "per-megapixel"
)

// Pricing is the advertised cost of one unit of work.
type Pricing struct {
	Type     PricingType     `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// ProviderModel describes one model exposed by a provider.
type ProviderModel struct {
	ID           string       `json:"id"` // vendor-qualified, e.g. "wavespeed-ai/flux-dev"
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Provider     string       `json:"provider"`
	Capabilities []Capability `json:"capabilities"`
	Pricing      *Pricing     `json:"pricing,omitempty"`
}

// HasCapability reports whether the model supports c.
func (m ProviderModel) HasCapability(c Capability) bool {
	for _, have := range m.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}

func (m ProviderModel) clone() ProviderModel {
	out := m
	if m.Capabilities != nil {
		out.Capabilities = append([]Capability(nil), m.Capabilities...)
	}
	if m.Pricing != nil {
		p := *m.Pricing
		out.Pricing = &p
	}
	return out
}

// GenerationInput is the normalized generation request.
type GenerationInput struct {
	Model         string         `json:"model"`
	Prompt        string         `json:"prompt"`
	Images        []string       `json:"images,omitempty"`
	Parameters    map[string]any `json:"parameters,omitempty"`
	DynamicInputs map[string]any `json:"dynamicInputs,omitempty"`
}

// GenerationOutput is a tagged result: either Success with Data, or a failure
// with Error (and Code). A successful output decoded from the generation
// endpoint keeps the original body and marshals it back unchanged.
type GenerationOutput struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Code    types.ErrorCode `json:"code,omitempty"`

	raw json.RawMessage
}

// Succeeded builds a success output carrying data.
func Succeeded(data json.RawMessage) *GenerationOutput {
	return &GenerationOutput{Success: true, Data: data}
}

// Failed builds a failure output.
func Failed(code types.ErrorCode, message string) *GenerationOutput {
	return &GenerationOutput{Success: false, Error: message, Code: code}
}

// Raw returns the verbatim endpoint body for outputs decoded from it.
func (o *GenerationOutput) Raw() json.RawMessage {
	return o.raw
}

// MarshalJSON emits the verbatim endpoint body when one was captured.
func (o GenerationOutput) MarshalJSON() ([]byte, error) {
	if o.Success && len(o.raw) > 0 {
		return o.raw, nil
	}
	type plain GenerationOutput
	return json.Marshal(plain(o))
}
