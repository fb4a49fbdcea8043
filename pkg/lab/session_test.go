package lab

import (
	"context"
	"strings"
	"testing"

	"forensichub-be/internal/constant"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewSessionSeedsGreeting(t *testing.T) {
	s := NewSession(uuid.New())

	msgs := s.Messages()
	assert.Len(t, msgs, 1)
	assert.Equal(t, constant.ChatMessageRoleModel, msgs[0].Role)
	assert.Equal(t, constant.LabGreeting, msgs[0].Text)
	assert.Equal(t, ModeAnalysis, s.Mode())
}

func TestBeginRejectsSecondSubmission(t *testing.T) {
	s := NewSession(uuid.New())

	_, err := s.Begin(context.Background())
	assert.NoError(t, err)

	_, err = s.Begin(context.Background())
	assert.ErrorIs(t, err, ErrSessionBusy)

	s.End()
	_, err = s.Begin(context.Background())
	assert.NoError(t, err)
}

func TestCancelReplacesPlaceholder(t *testing.T) {
	s := NewSession(uuid.New())

	genCtx, err := s.Begin(context.Background())
	assert.NoError(t, err)

	s.AppendMessage(ChatMessage{Role: constant.ChatMessageRoleUser, Text: "analyze this"})
	s.AppendMessage(ChatMessage{Role: constant.ChatMessageRoleModel, Text: constant.LabStreamPlaceholder})

	assert.True(t, s.Cancel())
	assert.Error(t, genCtx.Err())

	msgs := s.Messages()
	tail := msgs[len(msgs)-1]
	assert.Equal(t, constant.LabAbortedPlaceholder, tail.Text)
}

func TestCancelAppendsInterruptionMarkerToPartialText(t *testing.T) {
	s := NewSession(uuid.New())

	genCtx, err := s.Begin(context.Background())
	assert.NoError(t, err)

	s.AppendMessage(ChatMessage{Role: constant.ChatMessageRoleUser, Text: "analyze this"})
	s.AppendMessage(ChatMessage{Role: constant.ChatMessageRoleModel, Text: constant.LabStreamPlaceholder})

	// First chunks have already streamed in.
	assert.True(t, s.SetTailText(genCtx, "The sample shows"))

	assert.True(t, s.Cancel())

	msgs := s.Messages()
	tail := msgs[len(msgs)-1]
	assert.True(t, strings.HasPrefix(tail.Text, "The sample shows"))
	assert.True(t, strings.HasSuffix(tail.Text, constant.LabInterruptedMarker))
}

func TestCancelWithNothingInFlightIsNoop(t *testing.T) {
	s := NewSession(uuid.New())
	assert.False(t, s.Cancel())
	assert.Len(t, s.Messages(), 1)
}

func TestSetTailTextRefusesAfterCancel(t *testing.T) {
	s := NewSession(uuid.New())

	genCtx, err := s.Begin(context.Background())
	assert.NoError(t, err)

	s.AppendMessage(ChatMessage{Role: constant.ChatMessageRoleModel, Text: constant.LabStreamPlaceholder})
	s.Cancel()

	// A buffered chunk arriving after the cancel must not overwrite the
	// interruption marker.
	assert.False(t, s.SetTailText(genCtx, "late chunk"))
	msgs := s.Messages()
	assert.Equal(t, constant.LabAbortedPlaceholder, msgs[len(msgs)-1].Text)
}

func TestAttachCaseBriefsOnlyFreshIdleSession(t *testing.T) {
	c := &CaseContext{ID: "CF-001", Title: "The Riverside Incident"}

	fresh := NewSession(uuid.New())
	assert.True(t, fresh.AttachCase(c))

	// Once the briefing exchange has grown the conversation, re-attaching
	// must not fire another one.
	fresh.AppendMessage(ChatMessage{Role: constant.ChatMessageRoleUser, Text: "brief me"})
	assert.False(t, fresh.AttachCase(c))

	used := NewSession(uuid.New())
	used.AppendMessage(ChatMessage{Role: constant.ChatMessageRoleUser, Text: "hello"})
	assert.False(t, used.AttachCase(c))

	busy := NewSession(uuid.New())
	_, err := busy.Begin(context.Background())
	assert.NoError(t, err)
	assert.False(t, busy.AttachCase(c))
	busy.End()
}

func TestClearCase(t *testing.T) {
	s := NewSession(uuid.New())
	s.AttachCase(&CaseContext{ID: "CF-002"})
	assert.NotNil(t, s.Case())

	s.ClearCase()
	assert.Nil(t, s.Case())
}

func TestPendingImageConsumedOnce(t *testing.T) {
	s := NewSession(uuid.New())
	s.SetPendingImage(&CapturedImage{Data: "aGk=", MimeType: "image/jpeg"})

	img := s.TakePendingImage()
	assert.NotNil(t, img)
	assert.Nil(t, s.TakePendingImage())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		raw     string
		want    Mode
		wantErr bool
	}{
		{raw: "analysis", want: ModeAnalysis},
		{raw: "image_analysis", want: ModeImageAnalysis},
		{raw: "imaging", want: ModeImaging},
		{raw: "ballistics", want: ModeBallistics},
		{raw: "forensics", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, tt.raw)
			continue
		}
		assert.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got)
	}
}
