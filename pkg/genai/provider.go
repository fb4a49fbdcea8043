package genai

import (
	"context"
	"errors"
)

// Sentinel errors used by callers to classify backend failures into
// user-facing codes. Anything else is treated as a transport fault.
var (
	ErrAPIKeyMissing = errors.New("genai: api key missing")
	ErrModelNotFound = errors.New("genai: model not found or key rejected")
)

// InlineImage is a base64 payload plus MIME type, as sent to and received
// from the multimodal endpoints.
type InlineImage struct {
	Data     string `json:"data"`
	MimeType string `json:"mime_type"`
}

// Message is one turn of a conversation in provider-agnostic form.
type Message struct {
	Role  string // "user" or "model"
	Text  string
	Image *InlineImage
}

// ChatRequest describes a streaming chat call. The caller picks the model
// and system instruction; the provider only does the wire work.
type ChatRequest struct {
	Model             string
	SystemInstruction string
	History           []Message
	Prompt            string
	Image             *InlineImage
}

// SpecimenResult is the outcome of a non-streaming multimodal generation.
type SpecimenResult struct {
	Text  string
	Image *InlineImage
}

// Citation is one grounding source attached to a research answer.
type Citation struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// ResearchResult is the outcome of a grounded one-shot query.
type ResearchResult struct {
	Text      string
	Citations []Citation
}

// LatLng carries device coordinates for maps-grounded research.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ChunkFunc receives incremental text fragments of a streaming response.
// Returning an error stops consumption.
type ChunkFunc func(text string) error

// Provider defines the contract for the generative backend.
type Provider interface {
	// ChatStream opens a streaming generation and feeds fragments to onChunk
	// in arrival order. It returns once the stream is drained, cancelled via
	// ctx, or onChunk reports an error.
	ChatStream(ctx context.Context, req *ChatRequest, onChunk ChunkFunc) error

	// GenerateSpecimen issues a single multimodal call returning text plus a
	// rendered image.
	GenerateSpecimen(ctx context.Context, prompt string, image *InlineImage) (*SpecimenResult, error)

	// Research issues a grounded one-shot query, optionally maps-grounded at
	// the given coordinates, and returns the answer with its raw citation
	// list (callers deduplicate).
	Research(ctx context.Context, query string, useMaps bool, latLng *LatLng) (*ResearchResult, error)

	// Synthesize converts text to raw 16-bit 24kHz PCM audio frames.
	Synthesize(ctx context.Context, text string) ([]byte, error)

	// Summarize produces a short clinical summary for a catalog article.
	Summarize(ctx context.Context, title, description, content string) (string, error)
}
