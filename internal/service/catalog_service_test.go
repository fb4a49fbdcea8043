package service

import (
	"context"
	"errors"
	"testing"

	"forensichub-be/internal/dto"
	"forensichub-be/internal/entity"
	"forensichub-be/pkg/genai"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summarizeGenai struct {
	fakeGenai
	calls        int
	summarizeErr error
}

func (f *summarizeGenai) Summarize(ctx context.Context, title, description, content string) (string, error) {
	f.calls++
	if f.summarizeErr != nil {
		return "", f.summarizeErr
	}
	return "digest of " + title, nil
}

func newCatalogFixture(provider genai.Provider) (ICatalogService, *memStore, uuid.UUID) {
	store := newMemStore()
	userId := uuid.New()
	store.users[userId] = &entity.User{Id: userId, Email: "student@unilag.edu.ng"}
	return NewCatalogService(&memFactory{store: store}, provider), store, userId
}

func TestListArticlesOmitsContent(t *testing.T) {
	svc, _, userId := newCatalogFixture(&fakeGenai{})

	articles, err := svc.ListArticles(context.Background(), userId, &dto.ListArticlesRequest{})
	require.NoError(t, err)
	require.Len(t, articles, 4)
	for _, a := range articles {
		assert.Empty(t, a.Content, a.Id)
	}
}

func TestGetArticleLocksPremiumContent(t *testing.T) {
	svc, store, userId := newCatalogFixture(&fakeGenai{})
	ctx := context.Background()

	locked, err := svc.GetArticle(ctx, userId, "art-203")
	require.NoError(t, err)
	assert.True(t, locked.IsPremium)
	assert.True(t, locked.Locked)
	assert.Empty(t, locked.Content)

	// Premium access unlocks the body.
	store.users[userId].Premium = true
	open, err := svc.GetArticle(ctx, userId, "art-203")
	require.NoError(t, err)
	assert.False(t, open.Locked)
	assert.NotEmpty(t, open.Content)
}

func TestGetArticleFreeContentAlwaysOpen(t *testing.T) {
	svc, _, userId := newCatalogFixture(&fakeGenai{})

	a, err := svc.GetArticle(context.Background(), userId, "art-101")
	require.NoError(t, err)
	assert.False(t, a.Locked)
	assert.NotEmpty(t, a.Content)
}

func TestGetNoteGatedByPurchase(t *testing.T) {
	svc, store, userId := newCatalogFixture(&fakeGenai{})
	ctx := context.Background()

	unowned, err := svc.GetNote(ctx, userId, "note-001")
	require.NoError(t, err)
	assert.False(t, unowned.Purchased)
	assert.Empty(t, unowned.Content)

	store.profiles[userId] = &entity.Profile{UserId: userId, PurchasedNotes: []string{"note-001"}}
	owned, err := svc.GetNote(ctx, userId, "note-001")
	require.NoError(t, err)
	assert.True(t, owned.Purchased)
	assert.NotEmpty(t, owned.Content)
}

func TestGetNoteFreeNoteShipsContent(t *testing.T) {
	svc, _, userId := newCatalogFixture(&fakeGenai{})

	n, err := svc.GetNote(context.Background(), userId, "note-002")
	require.NoError(t, err)
	assert.False(t, n.Purchased)
	assert.NotEmpty(t, n.Content)
}

func TestSummarizePremiumGate(t *testing.T) {
	provider := &summarizeGenai{}
	svc, store, userId := newCatalogFixture(provider)
	ctx := context.Background()

	_, err := svc.Summarize(ctx, userId, "art-203")
	assert.ErrorIs(t, err, ErrPremiumLocked)
	assert.Zero(t, provider.calls)

	store.users[userId].Premium = true
	resp, err := svc.Summarize(ctx, userId, "art-203")
	require.NoError(t, err)
	assert.False(t, resp.Cached)
	assert.Contains(t, resp.Summary, "digest of")
}

func TestSummarizeReplaysFromCache(t *testing.T) {
	provider := &summarizeGenai{}
	svc, _, userId := newCatalogFixture(provider)
	ctx := context.Background()

	first, err := svc.Summarize(ctx, userId, "art-101")
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.Summarize(ctx, userId, "art-101")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, 1, provider.calls)
}

func TestSummarizeUnknownArticle(t *testing.T) {
	svc, _, userId := newCatalogFixture(&fakeGenai{})
	_, err := svc.Summarize(context.Background(), userId, "art-999")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestSummarizeBackendFailureNotCached(t *testing.T) {
	provider := &summarizeGenai{summarizeErr: errors.New("quota")}
	svc, _, userId := newCatalogFixture(provider)
	ctx := context.Background()

	_, err := svc.Summarize(ctx, userId, "art-101")
	require.Error(t, err)

	provider.summarizeErr = nil
	resp, err := svc.Summarize(ctx, userId, "art-101")
	require.NoError(t, err)
	assert.False(t, resp.Cached)
	assert.Equal(t, 2, provider.calls)
}

func TestSynthesizeReturnsAudioForEntitledReader(t *testing.T) {
	svc, _, userId := newCatalogFixture(&fakeGenai{})

	audio, err := svc.Synthesize(context.Background(), userId, "art-101")
	require.NoError(t, err)
	assert.Equal(t, []byte("pcm"), audio)
}

func TestSynthesizePremiumGate(t *testing.T) {
	svc, _, userId := newCatalogFixture(&fakeGenai{})

	_, err := svc.Synthesize(context.Background(), userId, "art-411")
	assert.ErrorIs(t, err, ErrPremiumLocked)
}

func TestListCases(t *testing.T) {
	svc, _, _ := newCatalogFixture(&fakeGenai{})

	cases := svc.ListCases(context.Background())
	assert.Len(t, cases, 3)

	c, err := svc.GetCase(context.Background(), cases[0].Id)
	require.NoError(t, err)
	assert.NotEmpty(t, c.Evidence)

	_, err = svc.GetCase(context.Background(), "case-XX")
	assert.ErrorIs(t, err, ErrItemNotFound)
}
