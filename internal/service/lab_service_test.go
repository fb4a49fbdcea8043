package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"forensichub-be/internal/constant"
	"forensichub-be/internal/dto"
	"forensichub-be/internal/repository/memory"
	"forensichub-be/pkg/genai"
	"forensichub-be/pkg/lab"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

// fakeGenai scripts the backend for lab flows. Chunks are emitted in order;
// gate, when set, blocks the stream until released so tests can cancel
// mid-flight.
type fakeGenai struct {
	chunks    []string
	streamErr error
	gate      chan struct{}

	specimen    *genai.SpecimenResult
	specimenErr error

	lastReq *genai.ChatRequest
}

func (f *fakeGenai) ChatStream(ctx context.Context, req *genai.ChatRequest, onChunk genai.ChunkFunc) error {
	f.lastReq = req
	if f.streamErr != nil {
		return f.streamErr
	}
	for i, chunk := range f.chunks {
		if f.gate != nil && i > 0 {
			select {
			case <-f.gate:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := onChunk(chunk); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeGenai) GenerateSpecimen(ctx context.Context, prompt string, image *genai.InlineImage) (*genai.SpecimenResult, error) {
	if f.specimenErr != nil {
		return nil, f.specimenErr
	}
	if f.specimen != nil {
		return f.specimen, nil
	}
	return &genai.SpecimenResult{Text: "render complete", Image: &genai.InlineImage{Data: "aW1n", MimeType: "image/png"}}, nil
}

func (f *fakeGenai) Research(ctx context.Context, query string, useMaps bool, latLng *genai.LatLng) (*genai.ResearchResult, error) {
	return &genai.ResearchResult{}, nil
}

func (f *fakeGenai) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return []byte("pcm"), nil
}

func (f *fakeGenai) Summarize(ctx context.Context, title, description, content string) (string, error) {
	return "summary", nil
}

func newLabFixture(provider genai.Provider) (ILabService, *memory.LabSessionRepository) {
	sessions := memory.NewLabSessionRepository(time.Hour)
	return NewLabService(sessions, provider, noopLogger{}), sessions
}

func drain(t *testing.T, events <-chan LabEvent) []LabEvent {
	t.Helper()
	var out []LabEvent
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("event stream did not terminate")
		}
	}
}

func TestSubmitStreamsChunksAndAccumulatesTranscript(t *testing.T) {
	provider := &fakeGenai{chunks: []string{"The fiber ", "is nylon."}}
	svc, _ := newLabFixture(provider)
	userId := uuid.New()

	session, err := svc.CreateSession(context.Background(), userId, "")
	require.NoError(t, err)

	events, err := svc.Submit(context.Background(), userId, session.ID.String(), "identify this fiber")
	require.NoError(t, err)

	got := drain(t, events)
	require.Len(t, got, 3)
	assert.Equal(t, "chunk", got[0].Kind)
	assert.Equal(t, "The fiber ", got[0].Text)
	assert.Equal(t, "chunk", got[1].Kind)
	assert.Equal(t, "done", got[2].Kind)

	msgs := session.Messages()
	require.Len(t, msgs, 3) // greeting, user, model
	assert.Equal(t, "identify this fiber", msgs[1].Text)
	assert.Equal(t, "The fiber is nylon.", msgs[2].Text)
	assert.False(t, session.Busy())
}

func TestSubmitEmptyPromptWithoutImage(t *testing.T) {
	svc, _ := newLabFixture(&fakeGenai{})
	userId := uuid.New()
	session, _ := svc.CreateSession(context.Background(), userId, "")

	_, err := svc.Submit(context.Background(), userId, session.ID.String(), "   ")
	assert.ErrorIs(t, err, lab.ErrEmptySubmission)
}

func TestSubmitDefaultsPromptForAttachedImage(t *testing.T) {
	provider := &fakeGenai{chunks: []string{"ok"}}
	svc, _ := newLabFixture(provider)
	userId := uuid.New()
	session, _ := svc.CreateSession(context.Background(), userId, "")

	require.NoError(t, svc.AttachImage(userId, session.ID.String(), &dto.AttachImageRequest{
		Data:     "aGVsbG8=",
		MimeType: "image/jpeg",
		FileName: "slide-4.jpg",
	}))

	events, err := svc.Submit(context.Background(), userId, session.ID.String(), "")
	require.NoError(t, err)
	drain(t, events)

	msgs := session.Messages()
	assert.Equal(t, constant.LabFilePromptPrefix+"slide-4.jpg", msgs[1].Text)
	require.NotNil(t, msgs[1].Image)
	assert.Equal(t, "aGVsbG8=", msgs[1].Image.Data)

	// The staged image is consumed exactly once.
	assert.Nil(t, session.TakePendingImage())
}

func TestSubmitWhileBusyRestoresPendingImage(t *testing.T) {
	provider := &fakeGenai{chunks: []string{"a", "b"}, gate: make(chan struct{})}
	svc, _ := newLabFixture(provider)
	userId := uuid.New()
	session, _ := svc.CreateSession(context.Background(), userId, "")

	events, err := svc.Submit(context.Background(), userId, session.ID.String(), "first")
	require.NoError(t, err)

	require.NoError(t, svc.AttachImage(userId, session.ID.String(), &dto.AttachImageRequest{
		Data: "cGVuZGluZw==", MimeType: "image/png",
	}))

	_, err = svc.Submit(context.Background(), userId, session.ID.String(), "second")
	assert.ErrorIs(t, err, lab.ErrSessionBusy)

	// The rejected submission must not have eaten the staged image.
	assert.NotNil(t, session.TakePendingImage())

	close(provider.gate)
	drain(t, events)
}

func TestCancelStampsInterruptionMarker(t *testing.T) {
	provider := &fakeGenai{chunks: []string{"Partial analysis", " never arrives"}, gate: make(chan struct{})}
	svc, _ := newLabFixture(provider)
	userId := uuid.New()
	session, _ := svc.CreateSession(context.Background(), userId, "")

	events, err := svc.Submit(context.Background(), userId, session.ID.String(), "go")
	require.NoError(t, err)

	// Wait for the first chunk, then interrupt.
	first := <-events
	require.Equal(t, "chunk", first.Kind)

	cancelled, err := svc.Cancel(userId, session.ID.String())
	require.NoError(t, err)
	assert.True(t, cancelled)

	got := drain(t, events)
	require.NotEmpty(t, got)
	assert.Equal(t, "done", got[len(got)-1].Kind)

	msgs := session.Messages()
	tail := msgs[len(msgs)-1].Text
	assert.True(t, strings.HasPrefix(tail, "Partial analysis"))
	assert.True(t, strings.HasSuffix(tail, constant.LabInterruptedMarker))
	assert.False(t, session.Busy())
}

func TestSubmitReleasesSlotWhenConsumerDisconnects(t *testing.T) {
	chunks := make([]string, 40)
	for i := range chunks {
		chunks[i] = "fragment "
	}
	provider := &fakeGenai{chunks: chunks}
	svc, _ := newLabFixture(provider)
	userId := uuid.New()
	session, _ := svc.CreateSession(context.Background(), userId, "")

	// The SSE adapter cancels this context when its writer returns.
	streamCtx, stop := context.WithCancel(context.Background())
	_, err := svc.Submit(streamCtx, userId, session.ID.String(), "long analysis")
	require.NoError(t, err)

	// Nobody reads the events: the client dropped the connection. Once the
	// adapter signals that, the producer must drain out and free the slot.
	stop()

	assert.Eventually(t, func() bool { return !session.Busy() },
		2*time.Second, 10*time.Millisecond, "abandoned stream left the session busy")

	// The freed slot accepts the next submission.
	events, err := svc.Submit(context.Background(), userId, session.ID.String(), "again")
	require.NoError(t, err)
	drain(t, events)
}

func TestSubmitImagingReplacesPlaceholderWithRender(t *testing.T) {
	provider := &fakeGenai{specimen: &genai.SpecimenResult{
		Text:  "Reconstruction notes",
		Image: &genai.InlineImage{Data: "cmVuZGVy", MimeType: "image/png"},
	}}
	svc, _ := newLabFixture(provider)
	userId := uuid.New()
	session, _ := svc.CreateSession(context.Background(), userId, "imaging")

	events, err := svc.Submit(context.Background(), userId, session.ID.String(), "render the entry wound")
	require.NoError(t, err)

	got := drain(t, events)
	require.Len(t, got, 2)
	assert.Equal(t, "image", got[0].Kind)
	require.NotNil(t, got[0].Image)
	assert.Equal(t, "cmVuZGVy", got[0].Image.Data)
	assert.Equal(t, "done", got[1].Kind)

	msgs := session.Messages()
	tail := msgs[len(msgs)-1]
	assert.Equal(t, "Reconstruction notes", tail.Text)
	require.NotNil(t, tail.Image)
}

func TestSubmitBackendFailureEmitsError(t *testing.T) {
	provider := &fakeGenai{streamErr: errors.New("upstream 500")}
	svc, _ := newLabFixture(provider)
	userId := uuid.New()
	session, _ := svc.CreateSession(context.Background(), userId, "")

	events, err := svc.Submit(context.Background(), userId, session.ID.String(), "go")
	require.NoError(t, err)

	got := drain(t, events)
	require.Len(t, got, 1)
	assert.Equal(t, "error", got[0].Kind)
	assert.Error(t, got[0].Err)
	assert.False(t, session.Busy())
}

func TestModeRoutingSelectsModelAndInstruction(t *testing.T) {
	provider := &fakeGenai{chunks: []string{"ok"}}
	svc, _ := newLabFixture(provider)
	userId := uuid.New()
	session, _ := svc.CreateSession(context.Background(), userId, "")

	require.NoError(t, svc.SwitchMode(userId, session.ID.String(), "ballistics"))

	events, err := svc.Submit(context.Background(), userId, session.ID.String(), "caliber?")
	require.NoError(t, err)
	drain(t, events)

	require.NotNil(t, provider.lastReq)
	assert.Equal(t, genai.ModelBallistics, provider.lastReq.Model)
	assert.Contains(t, provider.lastReq.SystemInstruction, "ballistics")
}

func TestSwitchModeRejectsUnknown(t *testing.T) {
	svc, _ := newLabFixture(&fakeGenai{})
	userId := uuid.New()
	session, _ := svc.CreateSession(context.Background(), userId, "")

	assert.Error(t, svc.SwitchMode(userId, session.ID.String(), "astrology"))
}

func TestAttachCaseBriefsFreshSession(t *testing.T) {
	provider := &fakeGenai{chunks: []string{"Briefing loaded."}}
	svc, _ := newLabFixture(provider)
	userId := uuid.New()
	session, _ := svc.CreateSession(context.Background(), userId, "")

	events, err := svc.AttachCase(context.Background(), userId, session.ID.String(), "case-NG-2024-001")
	require.NoError(t, err)
	require.NotNil(t, events)
	drain(t, events)

	// Case facts must reach the system instruction.
	require.NotNil(t, provider.lastReq)
	assert.Contains(t, provider.lastReq.SystemInstruction, "case-NG-2024-001")

	msgs := session.Messages()
	assert.Equal(t, "Briefing loaded.", msgs[len(msgs)-1].Text)
}

func TestAttachCaseOnUsedSessionSkipsBriefing(t *testing.T) {
	provider := &fakeGenai{chunks: []string{"ok"}}
	svc, _ := newLabFixture(provider)
	userId := uuid.New()
	session, _ := svc.CreateSession(context.Background(), userId, "")

	events, err := svc.Submit(context.Background(), userId, session.ID.String(), "hello")
	require.NoError(t, err)
	drain(t, events)

	briefing, err := svc.AttachCase(context.Background(), userId, session.ID.String(), "case-NG-2024-001")
	require.NoError(t, err)
	assert.Nil(t, briefing)
	require.NotNil(t, session.Case())
}

func TestAttachCaseUnknownID(t *testing.T) {
	svc, _ := newLabFixture(&fakeGenai{})
	userId := uuid.New()
	session, _ := svc.CreateSession(context.Background(), userId, "")

	_, err := svc.AttachCase(context.Background(), userId, session.ID.String(), "case-unknown")
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestGetSessionEnforcesOwnership(t *testing.T) {
	svc, _ := newLabFixture(&fakeGenai{})
	owner := uuid.New()
	session, _ := svc.CreateSession(context.Background(), owner, "")

	_, err := svc.GetSession(uuid.New(), session.ID.String())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.GetSession(owner, session.ID.String())
	assert.NoError(t, err)
}

func TestTranscript(t *testing.T) {
	provider := &fakeGenai{chunks: []string{"reply"}}
	svc, _ := newLabFixture(provider)
	userId := uuid.New()
	session, _ := svc.CreateSession(context.Background(), userId, "")

	events, err := svc.Submit(context.Background(), userId, session.ID.String(), "question")
	require.NoError(t, err)
	drain(t, events)

	transcript, err := svc.Transcript(userId, session.ID.String())
	require.NoError(t, err)
	assert.Equal(t, session.ID, transcript.Id)
	assert.Equal(t, "analysis", transcript.Mode)
	require.Len(t, transcript.Messages, 3)
	assert.Equal(t, constant.LabGreeting, transcript.Messages[0].Text)
}
