package lab

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"forensichub-be/internal/constant"
	"forensichub-be/pkg/genai"

	"github.com/google/uuid"
)

var (
	// ErrSessionBusy rejects a second submission while one is in flight.
	ErrSessionBusy = errors.New("lab: a submission is already in flight")

	// ErrEmptySubmission rejects a submit with neither prompt nor image.
	ErrEmptySubmission = errors.New("lab: prompt text or attached image required")
)

// ChatMessage is one turn of a lab conversation. The sequence is append-only
// within a session; only the trailing model message is ever rewritten, and
// only while its submission is in flight.
type ChatMessage struct {
	Role  string             `json:"role"`
	Text  string             `json:"text"`
	Image *genai.InlineImage `json:"image,omitempty"`
}

// CapturedImage is a camera frame or uploaded file staged for the next
// submission. It is consumed exactly once.
type CapturedImage struct {
	Data     string `json:"data"`
	MimeType string `json:"mime_type"`
	Preview  string `json:"preview"`
	FileName string `json:"file_name,omitempty"`
}

// CaseContext carries the attached case file injected into the system
// instruction and used to synthesize the automatic briefing prompt.
type CaseContext struct {
	ID       string
	Title    string
	Location string
	Summary  string
	Evidence []string
}

// Session is one open lab conversation. All mutation goes through the
// mutex; the embedded cancel func is the cooperative cancellation handle
// for the in-flight submission.
type Session struct {
	mu sync.Mutex

	ID        uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time

	mode         Mode
	messages     []ChatMessage
	caseCtx      *CaseContext
	caseBriefed  bool
	pendingImage *CapturedImage

	busy   bool
	cancel context.CancelFunc
}

// NewSession seeds a fresh conversation with the greeting turn.
func NewSession(userID uuid.UUID) *Session {
	return &Session{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: time.Now(),
		mode:      ModeAnalysis,
		messages: []ChatMessage{{
			Role: constant.ChatMessageRoleModel,
			Text: constant.LabGreeting,
		}},
	}
}

// Begin claims the single in-flight slot and returns the cancellable
// context the streaming consumer must check on every chunk.
func (s *Session) Begin(parent context.Context) (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return nil, ErrSessionBusy
	}
	ctx, cancel := context.WithCancel(parent)
	s.busy = true
	s.cancel = cancel
	return ctx, nil
}

// End releases the in-flight slot.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.busy = false
}

// Busy reports whether a submission is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Cancel signals the active cancellation handle and stamps the trailing
// model message with the interruption marker. Partial text already streamed
// is kept, never silently truncated. A cancel with nothing in flight is a
// no-op.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return false
	}
	s.cancel()
	s.cancel = nil

	if n := len(s.messages); n > 0 {
		tail := &s.messages[n-1]
		if tail.Role == constant.ChatMessageRoleModel {
			if strings.Contains(tail.Text, "ESTABLISHING") || strings.Contains(tail.Text, "RECONSTRUCTION...") {
				tail.Text = constant.LabAbortedPlaceholder
			} else {
				tail.Text += constant.LabInterruptedMarker
			}
		}
	}
	return true
}

// AppendMessage appends a turn in submission order.
func (s *Session) AppendMessage(msg ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// SetTailText replaces the trailing message's text with the accumulated
// stream. It refuses to act once genCtx is cancelled, which is how buffered
// chunks arriving after a cancel are discarded.
func (s *Session) SetTailText(genCtx context.Context, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if genCtx.Err() != nil {
		return false
	}
	if n := len(s.messages); n > 0 {
		s.messages[n-1].Text = text
		return true
	}
	return false
}

// ReplaceTail swaps the trailing placeholder for a finished non-streaming
// result.
func (s *Session) ReplaceTail(genCtx context.Context, text string, image *genai.InlineImage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if genCtx.Err() != nil {
		return false
	}
	if n := len(s.messages); n > 0 {
		s.messages[n-1] = ChatMessage{
			Role:  constant.ChatMessageRoleModel,
			Text:  text,
			Image: image,
		}
		return true
	}
	return false
}

// Messages returns a copy of the conversation.
func (s *Session) Messages() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the current number of turns.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// SetMode changes which behavior the next submission uses. In-flight
// requests are unaffected.
func (s *Session) SetMode(mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
}

// Mode returns the currently selected mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetPendingImage stages an image for the next submission, replacing any
// previously staged one.
func (s *Session) SetPendingImage(img *CapturedImage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingImage = img
}

// TakePendingImage consumes the staged image.
func (s *Session) TakePendingImage() *CapturedImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	img := s.pendingImage
	s.pendingImage = nil
	return img
}

// AttachCase sets the case context. It reports whether the automatic
// briefing should fire: only for a fresh conversation (greeting only), only
// while idle, and at most once per attachment.
func (s *Session) AttachCase(c *CaseContext) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caseCtx = c
	s.caseBriefed = false
	if len(s.messages) <= 1 && !s.busy {
		s.caseBriefed = true
		return true
	}
	return false
}

// ClearCase detaches the case context.
func (s *Session) ClearCase() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caseCtx = nil
	s.caseBriefed = false
}

// Case returns the attached case context, if any.
func (s *Session) Case() *CaseContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.caseCtx
}
