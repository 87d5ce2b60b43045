package wavespeed

import (
	"github.com/BaSui01/genstudio/generation"
	"github.com/shopspring/decimal"
)

// paramKind is the JSON type a known parameter must carry.
type paramKind int

const (
	kindNumber paramKind = iota
	kindString
	kindBool
)

func (k paramKind) String() string {
	switch k {
	case kindNumber:
		return "number"
	case kindString:
		return "string"
	case kindBool:
		return "boolean"
	}
	return "unknown"
}

// imageParams 图像模型共享的参数类型表
var imageParams = map[string]paramKind{
	"seed":                  kindNumber,
	"num_inference_steps":   kindNumber,
	"guidance_scale":        kindNumber,
	"num_images":            kindNumber,
	"size":                  kindString,
	"strength":              kindNumber,
	"enable_safety_checker": kindBool,
}

// videoParams 视频模型共享的参数类型表
var videoParams = map[string]paramKind{
	"seed":                  kindNumber,
	"num_inference_steps":   kindNumber,
	"guidance_scale":        kindNumber,
	"duration":              kindNumber,
	"size":                  kindString,
	"negative_prompt":       kindString,
	"enable_safety_checker": kindBool,
}

func usd(amount string) *generation.Pricing {
	return &generation.Pricing{
		Type:     generation.PricingPerRun,
		Amount:   decimal.RequireFromString(amount),
		Currency: "USD",
	}
}

// models WaveSpeed 静态模型目录（不访问网络）
var models = []generation.ProviderModel{
	{
		ID:           "wavespeed-ai/flux-dev",
		Name:         "FLUX Dev",
		Description:  "FLUX.1 [dev] 12B parameter text-to-image model with high prompt fidelity",
		Capabilities: []generation.Capability{generation.CapabilityTextToImage, generation.CapabilityImageToImage},
		Pricing:      usd("0.025"),
	},
	{
		ID:           "wavespeed-ai/flux-schnell",
		Name:         "FLUX Schnell",
		Description:  "FLUX.1 [schnell] distilled for 1-4 step image generation",
		Capabilities: []generation.Capability{generation.CapabilityTextToImage},
		Pricing:      usd("0.003"),
	},
	{
		ID:           "stability-ai/sd3",
		Name:         "Stable Diffusion 3",
		Description:  "Stability AI multimodal diffusion transformer for text-to-image",
		Capabilities: []generation.Capability{generation.CapabilityTextToImage},
		Pricing:      usd("0.035"),
	},
	{
		ID:           "wavespeed-ai/wan-2.1/t2v-480p",
		Name:         "WAN 2.1 Text-to-Video",
		Description:  "Alibaba WAN 2.1 480p video generation from a text prompt",
		Capabilities: []generation.Capability{generation.CapabilityTextToVideo},
		Pricing:      usd("0.3"),
	},
	{
		ID:           "wavespeed-ai/wan-2.1/i2v-480p",
		Name:         "WAN 2.1 Image-to-Video",
		Description:  "Alibaba WAN 2.1 480p video generation animating a source image",
		Capabilities: []generation.Capability{generation.CapabilityImageToVideo},
		Pricing:      usd("0.3"),
	},
}

// paramsFor returns the parameter type table for a catalog model.
func paramsFor(m *generation.ProviderModel) map[string]paramKind {
	if m.HasCapability(generation.CapabilityTextToVideo) || m.HasCapability(generation.CapabilityImageToVideo) {
		return videoParams
	}
	return imageParams
}
