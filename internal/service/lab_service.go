package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"forensichub-be/internal/constant"
	"forensichub-be/internal/dto"
	"forensichub-be/internal/pkg/logger"
	"forensichub-be/internal/repository/memory"
	"forensichub-be/pkg/catalog"
	"forensichub-be/pkg/genai"
	"forensichub-be/pkg/lab"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("lab session not found")
	ErrCaseNotFound    = errors.New("case file not found")
)

// LabEvent is one frame of a submission's progress, consumed by the SSE
// adapter in the controller.
type LabEvent struct {
	Kind  string // "chunk", "image", "done", "error"
	Text  string
	Image *genai.InlineImage
	Err   error
}

type ILabService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, mode string) (*lab.Session, error)
	GetSession(userId uuid.UUID, sessionId string) (*lab.Session, error)
	Transcript(userId uuid.UUID, sessionId string) (*dto.LabTranscriptResponse, error)
	SwitchMode(userId uuid.UUID, sessionId, mode string) error
	AttachImage(userId uuid.UUID, sessionId string, req *dto.AttachImageRequest) error
	AttachCase(ctx context.Context, userId uuid.UUID, sessionId, caseId string) (<-chan LabEvent, error)
	DetachCase(userId uuid.UUID, sessionId string) error
	Submit(ctx context.Context, userId uuid.UUID, sessionId, prompt string) (<-chan LabEvent, error)
	Cancel(userId uuid.UUID, sessionId string) (bool, error)
}

type labService struct {
	sessions *memory.LabSessionRepository
	provider genai.Provider
	log      logger.ILogger
}

func NewLabService(sessions *memory.LabSessionRepository, provider genai.Provider, log logger.ILogger) ILabService {
	return &labService{
		sessions: sessions,
		provider: provider,
		log:      log,
	}
}

func (s *labService) CreateSession(ctx context.Context, userId uuid.UUID, mode string) (*lab.Session, error) {
	session := lab.NewSession(userId)
	if mode != "" {
		m, err := lab.ParseMode(mode)
		if err != nil {
			return nil, err
		}
		session.SetMode(m)
	}
	s.sessions.Save(session)
	return session, nil
}

func (s *labService) GetSession(userId uuid.UUID, sessionId string) (*lab.Session, error) {
	session, found := s.sessions.Get(sessionId)
	if !found || session.UserID != userId {
		return nil, ErrSessionNotFound
	}
	s.sessions.Touch(sessionId)
	return session, nil
}

func (s *labService) Transcript(userId uuid.UUID, sessionId string) (*dto.LabTranscriptResponse, error) {
	session, err := s.GetSession(userId, sessionId)
	if err != nil {
		return nil, err
	}

	messages := session.Messages()
	out := make([]dto.LabMessageResponse, 0, len(messages))
	for _, m := range messages {
		resp := dto.LabMessageResponse{Role: m.Role, Text: m.Text}
		if m.Image != nil {
			resp.ImageData = m.Image.Data
		}
		out = append(out, resp)
	}

	resp := &dto.LabTranscriptResponse{
		Id:       session.ID,
		Mode:     string(session.Mode()),
		Busy:     session.Busy(),
		Messages: out,
	}
	if c := session.Case(); c != nil {
		resp.CaseId = c.ID
	}
	return resp, nil
}

func (s *labService) SwitchMode(userId uuid.UUID, sessionId, mode string) error {
	session, err := s.GetSession(userId, sessionId)
	if err != nil {
		return err
	}
	m, err := lab.ParseMode(mode)
	if err != nil {
		return err
	}
	session.SetMode(m)
	return nil
}

func (s *labService) AttachImage(userId uuid.UUID, sessionId string, req *dto.AttachImageRequest) error {
	session, err := s.GetSession(userId, sessionId)
	if err != nil {
		return err
	}
	session.SetPendingImage(&lab.CapturedImage{
		Data:     req.Data,
		MimeType: req.MimeType,
		Preview:  fmt.Sprintf("data:%s;base64,%s", req.MimeType, req.Data),
		FileName: req.FileName,
	})
	return nil
}

// AttachCase binds a case file to the session. On a fresh idle session it
// also fires the automatic tactical briefing; the returned channel is nil
// when no briefing runs.
func (s *labService) AttachCase(ctx context.Context, userId uuid.UUID, sessionId, caseId string) (<-chan LabEvent, error) {
	session, err := s.GetSession(userId, sessionId)
	if err != nil {
		return nil, err
	}

	c, ok := catalog.FindCase(caseId)
	if !ok {
		return nil, ErrCaseNotFound
	}

	shouldBrief := session.AttachCase(&lab.CaseContext{
		ID:       c.ID,
		Title:    c.Title,
		Location: c.Location,
		Summary:  c.Summary,
		Evidence: c.Evidence,
	})
	if !shouldBrief {
		return nil, nil
	}

	prompt := fmt.Sprintf(constant.LabCaseBriefingRequest, c.ID, c.Title)
	return s.Submit(ctx, userId, sessionId, prompt)
}

func (s *labService) DetachCase(userId uuid.UUID, sessionId string) error {
	session, err := s.GetSession(userId, sessionId)
	if err != nil {
		return err
	}
	session.ClearCase()
	return nil
}

// Submit runs one lab turn. It claims the session's single in-flight slot,
// appends the user turn plus a placeholder model turn, then streams or
// renders depending on the active mode. Events flow on the returned
// channel until a terminal "done" or "error" frame.
func (s *labService) Submit(ctx context.Context, userId uuid.UUID, sessionId, prompt string) (<-chan LabEvent, error) {
	session, err := s.GetSession(userId, sessionId)
	if err != nil {
		return nil, err
	}

	pending := session.TakePendingImage()
	prompt = strings.TrimSpace(prompt)
	if prompt == "" && pending == nil {
		return nil, lab.ErrEmptySubmission
	}
	if prompt == "" {
		if pending.FileName != "" {
			prompt = constant.LabFilePromptPrefix + pending.FileName
		} else {
			prompt = constant.LabDefaultImagePrompt
		}
	}

	genCtx, err := session.Begin(ctx)
	if err != nil {
		// Put the staged image back so the retry does not lose it.
		if pending != nil {
			session.SetPendingImage(pending)
		}
		return nil, err
	}

	mode := session.Mode()

	var image *genai.InlineImage
	userMsg := lab.ChatMessage{Role: constant.ChatMessageRoleUser, Text: prompt}
	if pending != nil {
		image = &genai.InlineImage{Data: pending.Data, MimeType: pending.MimeType}
		userMsg.Image = image
	}

	history := toGenaiHistory(session.Messages())
	session.AppendMessage(userMsg)

	placeholder := constant.LabStreamPlaceholder
	if mode == lab.ModeImaging {
		placeholder = constant.LabImagingPlaceholder
	}
	session.AppendMessage(lab.ChatMessage{Role: constant.ChatMessageRoleModel, Text: placeholder})

	events := make(chan LabEvent, 16)

	go func() {
		defer close(events)
		defer session.End()

		var err error
		if mode == lab.ModeImaging {
			err = s.runImaging(genCtx, session, prompt, image, events)
		} else {
			err = s.runStreaming(genCtx, session, mode, history, prompt, image, events)
		}

		// Terminal frames must never block: the consumer may already have
		// walked away, in which case its cancelled context is the way out.
		if err != nil {
			if genCtx.Err() != nil {
				// Cancelled by the operator; the transcript marker was
				// already stamped by Cancel.
				select {
				case events <- LabEvent{Kind: "done"}:
				default:
				}
				return
			}
			s.log.Error("lab", "submission failed", map[string]interface{}{
				"session_id": sessionId,
				"mode":       string(mode),
				"error":      err.Error(),
			})
			select {
			case events <- LabEvent{Kind: "error", Err: err}:
			case <-genCtx.Done():
			}
			return
		}
		select {
		case events <- LabEvent{Kind: "done"}:
		case <-genCtx.Done():
		}
	}()

	return events, nil
}

func (s *labService) runStreaming(genCtx context.Context, session *lab.Session, mode lab.Mode, history []genai.Message, prompt string, image *genai.InlineImage, events chan<- LabEvent) error {
	req := &genai.ChatRequest{
		Model:             modelForMode(mode),
		SystemInstruction: systemInstruction(mode, session.Case()),
		History:           history,
		Prompt:            prompt,
		Image:             image,
	}

	var acc strings.Builder
	first := true
	err := s.provider.ChatStream(genCtx, req, func(text string) error {
		if first {
			first = false
			acc.Reset()
		}
		acc.WriteString(text)
		if !session.SetTailText(genCtx, acc.String()) {
			return context.Canceled
		}
		select {
		case events <- LabEvent{Kind: "chunk", Text: text}:
		case <-genCtx.Done():
			return genCtx.Err()
		}
		return nil
	})
	if err != nil {
		return err
	}
	if first {
		// Stream closed without a single chunk.
		session.SetTailText(genCtx, "")
	}
	return nil
}

func (s *labService) runImaging(genCtx context.Context, session *lab.Session, prompt string, image *genai.InlineImage, events chan<- LabEvent) error {
	result, err := s.provider.GenerateSpecimen(genCtx, prompt, image)
	if err != nil {
		return err
	}

	text := result.Text
	if text == "" {
		text = constant.LabImagingComplete
	}
	if !session.ReplaceTail(genCtx, text, result.Image) {
		return context.Canceled
	}

	select {
	case events <- LabEvent{Kind: "image", Text: text, Image: result.Image}:
	case <-genCtx.Done():
		return genCtx.Err()
	}
	return nil
}

// Cancel aborts the in-flight submission, stamping the interruption marker
// onto whatever partial output already landed.
func (s *labService) Cancel(userId uuid.UUID, sessionId string) (bool, error) {
	session, err := s.GetSession(userId, sessionId)
	if err != nil {
		return false, err
	}
	return session.Cancel(), nil
}

// modelForMode is the single routing point between lab modes and backend
// models.
func modelForMode(mode lab.Mode) string {
	switch mode {
	case lab.ModeBallistics:
		return genai.ModelBallistics
	case lab.ModeImaging:
		return genai.ModelImaging
	case lab.ModeAnalysis, lab.ModeImageAnalysis:
		return genai.ModelFlash
	default:
		return genai.ModelFlash
	}
}

func systemInstruction(mode lab.Mode, c *lab.CaseContext) string {
	injection := ""
	if c != nil {
		injection = fmt.Sprintf(constant.LabCaseContextInjection,
			c.ID, c.Title, c.Location, c.Summary, strings.Join(c.Evidence, "; "))
	}

	switch mode {
	case lab.ModeImageAnalysis:
		return fmt.Sprintf(constant.LabSystemImageAnalysis, injection)
	case lab.ModeImaging:
		return constant.LabSystemImaging
	case lab.ModeBallistics:
		return fmt.Sprintf(constant.LabSystemBallistics, injection)
	default:
		return fmt.Sprintf(constant.LabSystemAnalysis, injection)
	}
}

func toGenaiHistory(messages []lab.ChatMessage) []genai.Message {
	out := make([]genai.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, genai.Message{Role: m.Role, Text: m.Text, Image: m.Image})
	}
	return out
}
