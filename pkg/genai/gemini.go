package genai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

	// Model routing mirrors the portal's tuning: the flash model for general
	// work, the pro tier for trajectory math and research, dedicated models
	// for image rendering and speech.
	ModelFlash      = "gemini-3-flash-preview"
	ModelPro        = "gemini-3-pro-preview"
	ModelBallistics = "gemini-3.1-pro-preview"
	ModelImaging    = "gemini-2.5-flash-image"
	ModelMaps       = "gemini-2.5-flash" // maps grounding only works on the 2.5 series
	ModelSpeech     = "gemini-2.5-flash-preview-tts"
)

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Parts []*geminiPart `json:"parts"`
	Role  string        `json:"role,omitempty"`
}

type geminiTool struct {
	GoogleSearch *struct{} `json:"googleSearch,omitempty"`
	GoogleMaps   *struct{} `json:"googleMaps,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature        *float64           `json:"temperature,omitempty"`
	ResponseModalities []string           `json:"responseModalities,omitempty"`
	SpeechConfig       *geminiSpeechCfg   `json:"speechConfig,omitempty"`
	ImageConfig        *geminiImageConfig `json:"imageConfig,omitempty"`
}

type geminiSpeechCfg struct {
	VoiceConfig struct {
		PrebuiltVoiceConfig struct {
			VoiceName string `json:"voiceName"`
		} `json:"prebuiltVoiceConfig"`
	} `json:"voiceConfig"`
}

type geminiImageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type geminiToolConfig struct {
	RetrievalConfig *geminiRetrievalConfig `json:"retrievalConfig,omitempty"`
}

type geminiRetrievalConfig struct {
	LatLng *LatLng `json:"latLng,omitempty"`
}

type geminiRequest struct {
	Contents          []*geminiContent        `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Tools             []geminiTool            `json:"tools,omitempty"`
	ToolConfig        *geminiToolConfig       `json:"toolConfig,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiGroundingChunk struct {
	Web *struct {
		Title string `json:"title"`
		URI   string `json:"uri"`
	} `json:"web,omitempty"`
	Maps *struct {
		Title string `json:"title"`
		URI   string `json:"uri"`
	} `json:"maps,omitempty"`
}

type geminiCandidate struct {
	Content           *geminiContent `json:"content"`
	GroundingMetadata *struct {
		GroundingChunks []geminiGroundingChunk `json:"groundingChunks"`
	} `json:"groundingMetadata,omitempty"`
}

type geminiResponse struct {
	Candidates []*geminiCandidate `json:"candidates"`
}

// GeminiProvider talks to the Google Generative Language API over plain
// HTTP, the same way the rest of the backend consumes external services.
type GeminiProvider struct {
	apiKey string
	client *http.Client
}

func NewGeminiProvider(apiKey string) *GeminiProvider {
	return &GeminiProvider{
		apiKey: apiKey,
		client: &http.Client{},
	}
}

func (p *GeminiProvider) newRequest(ctx context.Context, model, method string, payload *geminiRequest) (*http.Request, error) {
	if p.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s:%s", geminiBaseURL, model, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func classifyStatus(status int, body []byte) error {
	switch status {
	case http.StatusNotFound:
		return ErrModelNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAPIKeyMissing
	}
	return fmt.Errorf("status error, got status %d. with response body %s", status, string(body))
}

func buildContents(history []Message, prompt string, image *InlineImage) []*geminiContent {
	contents := make([]*geminiContent, 0, len(history)+1)
	for _, msg := range history {
		parts := make([]*geminiPart, 0, 2)
		if msg.Image != nil {
			parts = append(parts, &geminiPart{InlineData: &geminiInlineData{
				MimeType: msg.Image.MimeType,
				Data:     msg.Image.Data,
			}})
		}
		parts = append(parts, &geminiPart{Text: msg.Text})
		contents = append(contents, &geminiContent{Parts: parts, Role: msg.Role})
	}

	current := make([]*geminiPart, 0, 2)
	if image != nil {
		current = append(current, &geminiPart{InlineData: &geminiInlineData{
			MimeType: image.MimeType,
			Data:     image.Data,
		}})
	}
	current = append(current, &geminiPart{Text: prompt})
	return append(contents, &geminiContent{Parts: current, Role: "user"})
}

// ChatStream consumes the SSE form of streamGenerateContent. Each "data:"
// line carries one response fragment.
func (p *GeminiProvider) ChatStream(ctx context.Context, req *ChatRequest, onChunk ChunkFunc) error {
	temp := 0.1
	payload := &geminiRequest{
		Contents:         buildContents(req.History, req.Prompt, req.Image),
		GenerationConfig: &geminiGenerationConfig{Temperature: &temp},
	}
	if req.SystemInstruction != "" {
		payload.SystemInstruction = &geminiContent{
			Parts: []*geminiPart{{Text: req.SystemInstruction}},
		}
	}

	httpReq, err := p.newRequest(ctx, req.Model, "streamGenerateContent?alt=sse", payload)
	if err != nil {
		return err
	}

	res, err := p.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return classifyStatus(res.StatusCode, body)
	}

	scanner := bufio.NewScanner(res.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		raw := strings.TrimPrefix(line, "data: ")
		if raw == "[DONE]" {
			break
		}

		var chunk geminiResponse
		if err := json.Unmarshal([]byte(raw), &chunk); err != nil {
			continue
		}
		text := firstText(&chunk)
		if text == "" {
			continue
		}
		if err := onChunk(text); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// GenerateSpecimen performs the anatomical reconstruction call: a single
// generateContent against the image model, returning the rendered frame.
func (p *GeminiProvider) GenerateSpecimen(ctx context.Context, prompt string, image *InlineImage) (*SpecimenResult, error) {
	parts := make([]*geminiPart, 0, 2)
	if image != nil {
		parts = append(parts, &geminiPart{InlineData: &geminiInlineData{
			MimeType: image.MimeType,
			Data:     image.Data,
		}})
	}

	renderPrompt := fmt.Sprintf(
		"PRECISION FORENSIC RECONSTRUCTION.\nSUBJECT: %s.\nREQUIREMENTS: High-fidelity medical anatomical rendering, photorealistic biological textures, clinical studio lighting, 4K detail.",
		prompt,
	)
	parts = append(parts, &geminiPart{Text: renderPrompt})

	payload := &geminiRequest{
		Contents: []*geminiContent{{Parts: parts}},
		GenerationConfig: &geminiGenerationConfig{
			ImageConfig: &geminiImageConfig{AspectRatio: "1:1"},
		},
	}

	resp, err := p.generate(ctx, ModelImaging, payload)
	if err != nil {
		return nil, err
	}

	result := &SpecimenResult{Text: firstText(resp)}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil {
				result.Image = &InlineImage{
					Data:     part.InlineData.Data,
					MimeType: part.InlineData.MimeType,
				}
				return result, nil
			}
		}
	}
	return nil, fmt.Errorf("specimen render returned no image data")
}

// Research issues the grounded one-shot query. Maps grounding rides on the
// 2.5 series model and carries coordinates through toolConfig when known.
func (p *GeminiProvider) Research(ctx context.Context, query string, useMaps bool, latLng *LatLng) (*ResearchResult, error) {
	model := ModelPro
	tools := []geminiTool{{GoogleSearch: &struct{}{}}}
	var toolCfg *geminiToolConfig
	if useMaps {
		model = ModelMaps
		tools = []geminiTool{{GoogleMaps: &struct{}{}}, {GoogleSearch: &struct{}{}}}
		if latLng != nil {
			toolCfg = &geminiToolConfig{RetrievalConfig: &geminiRetrievalConfig{LatLng: latLng}}
		}
	}

	payload := &geminiRequest{
		Contents:          []*geminiContent{{Parts: []*geminiPart{{Text: query}}, Role: "user"}},
		SystemInstruction: &geminiContent{Parts: []*geminiPart{{Text: researchSystemInstruction}}},
		Tools:             tools,
		ToolConfig:        toolCfg,
	}

	resp, err := p.generate(ctx, model, payload)
	if err != nil {
		return nil, err
	}

	result := &ResearchResult{Text: firstText(resp)}
	if result.Text == "" {
		result.Text = "INTEL_ACTIVE: Response packets received."
	}

	for _, cand := range resp.Candidates {
		if cand.GroundingMetadata == nil {
			continue
		}
		for _, chunk := range cand.GroundingMetadata.GroundingChunks {
			switch {
			case chunk.Web != nil:
				title := chunk.Web.Title
				if title == "" {
					title = "Institutional Source"
				}
				result.Citations = append(result.Citations, Citation{Title: title, URI: chunk.Web.URI})
			case chunk.Maps != nil:
				title := chunk.Maps.Title
				if title == "" {
					title = "Facility Record"
				}
				result.Citations = append(result.Citations, Citation{Title: title, URI: chunk.Maps.URI})
			}
		}
	}
	return result, nil
}

// Synthesize returns raw PCM frames (16-bit little-endian, 24kHz mono).
func (p *GeminiProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	speech := &geminiSpeechCfg{}
	speech.VoiceConfig.PrebuiltVoiceConfig.VoiceName = "Kore"

	payload := &geminiRequest{
		Contents: []*geminiContent{{Parts: []*geminiPart{{Text: text}}}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig:       speech,
		},
	}

	resp, err := p.generate(ctx, ModelSpeech, payload)
	if err != nil {
		return nil, err
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil {
				return base64.StdEncoding.DecodeString(part.InlineData.Data)
			}
		}
	}
	return nil, fmt.Errorf("speech synthesis returned no audio data")
}

// Summarize produces the two-sentence clinical article summary.
func (p *GeminiProvider) Summarize(ctx context.Context, title, description, content string) (string, error) {
	if len(content) > 5000 {
		content = content[:5000]
	}
	prompt := fmt.Sprintf(
		"Generate a concise, authoritative forensic summary for the following academic article.\nTITLE: %s\nDESCRIPTION: %s\n%s\nREQUIREMENTS:\n- Max 2 sentences.\n- Use professional, clinical forensic terminology.\n- Focus on the core investigative or scientific value.\n- No pre-amble.",
		title, description, contentLine(content),
	)

	temp := 0.1
	payload := &geminiRequest{
		Contents:         []*geminiContent{{Parts: []*geminiPart{{Text: prompt}}}},
		GenerationConfig: &geminiGenerationConfig{Temperature: &temp},
	}

	resp, err := p.generate(ctx, ModelFlash, payload)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(firstText(resp))
	if text == "" {
		return "", fmt.Errorf("summary generation returned empty response")
	}
	return text, nil
}

func contentLine(content string) string {
	if content == "" {
		return ""
	}
	return "CONTENT: " + content
}

func (p *GeminiProvider) generate(ctx context.Context, model string, payload *geminiRequest) (*geminiResponse, error) {
	// Image rendering and grounded research can run long; give slow calls
	// headroom while still bounding them.
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	httpReq, err := p.newRequest(ctx, model, "generateContent", payload)
	if err != nil {
		return nil, err
	}

	res, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, classifyStatus(res.StatusCode, body)
	}

	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func firstText(resp *geminiResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
		break
	}
	return sb.String()
}

const researchSystemInstruction = `You are the ForensicHub Strategic Research Node.
TASK: High-fidelity intelligence gathering, facility triangulation, and legal/evidentiary research.
GEOGRAPHIC FOCUS: Nigeria (Federal and State jurisdictions).

GROUNDING PROTOCOLS:
1. FACILITY TRIANGULATION: When 'Facility Map' mode is active, use Google Maps grounding to locate professional forensic facilities (e.g., Lagos State DNA & Forensic Centre, EFCC Forensic Lab, NPF Forensic Lab, private accredited labs).
2. LEGAL & REGULATORY: For legal queries, prioritize Nigerian legal databases including the Laws of the Federation of Nigeria (LFN), Nigerian Weekly Law Reports (NWLR), Evidence Act 2011, and the Administration of Criminal Justice Act (ACJA).
3. CASE ARCHIVES: Reference archived Nigerian criminal cases, EFCC/ICPC public records, and judicial precedents involving forensic evidence.
4. INSTITUTIONAL DATA: Provide full addresses, contact capabilities, and institutional accreditation status for all facilities.
5. CITATIONS: Provide direct URLs to official government gazettes, judicial portals, or peer-reviewed forensic journals.
6. SCIENTIFIC RIGOR: Maintain absolute accuracy in forensic terminology and legal citations.`
