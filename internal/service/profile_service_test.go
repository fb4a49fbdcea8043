package service

import (
	"context"
	"testing"

	"forensichub-be/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileFixture() (IProfileService, *memStore) {
	store := newMemStore()
	return NewProfileService(&memFactory{store: store}), store
}

func TestGetSynthesizesEmptyProfile(t *testing.T) {
	svc, _ := newProfileFixture()

	resp, err := svc.Get(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Empty(t, resp.Institution)
	assert.NotNil(t, resp.CompletedArticles)
	assert.Empty(t, resp.CompletedArticles)
	assert.NotNil(t, resp.Bookmarks)
}

func TestSyncMergesGrowOnlySets(t *testing.T) {
	svc, _ := newProfileFixture()
	userId := uuid.New()
	ctx := context.Background()

	first, err := svc.Sync(ctx, userId, &dto.SyncProfileRequest{
		Institution:       "University of Lagos",
		Discipline:        "Forensic Biology",
		CompletedArticles: []string{"art-101", "art-203"},
		Bookmarks:         []string{"note-001"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"art-101", "art-203"}, first.CompletedArticles)

	// A client that lost local state cannot shrink earned progress.
	second, err := svc.Sync(ctx, userId, &dto.SyncProfileRequest{
		CompletedArticles: []string{"art-311"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"art-101", "art-203", "art-311"}, second.CompletedArticles)
	assert.Equal(t, "University of Lagos", second.Institution)
	assert.Equal(t, []string{"note-001"}, second.Bookmarks)
}

func TestSyncDeduplicatesIncoming(t *testing.T) {
	svc, _ := newProfileFixture()
	userId := uuid.New()

	resp, err := svc.Sync(context.Background(), userId, &dto.SyncProfileRequest{
		CompletedCases: []string{"case-NG-2024-001", "case-NG-2024-001", "case-NG-2023-088"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"case-NG-2024-001", "case-NG-2023-088"}, resp.CompletedCases)
}

func TestSyncOverwritesScalarFieldsOnlyWhenProvided(t *testing.T) {
	svc, _ := newProfileFixture()
	userId := uuid.New()
	ctx := context.Background()

	_, err := svc.Sync(ctx, userId, &dto.SyncProfileRequest{Institution: "UNILAG", Discipline: "Toxicology"})
	require.NoError(t, err)

	resp, err := svc.Sync(ctx, userId, &dto.SyncProfileRequest{Discipline: "Ballistics"})
	require.NoError(t, err)
	assert.Equal(t, "UNILAG", resp.Institution)
	assert.Equal(t, "Ballistics", resp.Discipline)
}

func TestToggleBookmark(t *testing.T) {
	svc, _ := newProfileFixture()
	userId := uuid.New()
	ctx := context.Background()

	on, err := svc.ToggleBookmark(ctx, userId, "art-411")
	require.NoError(t, err)
	assert.True(t, on.Bookmarked)
	assert.Equal(t, []string{"art-411"}, on.Bookmarks)

	off, err := svc.ToggleBookmark(ctx, userId, "art-411")
	require.NoError(t, err)
	assert.False(t, off.Bookmarked)
	assert.Empty(t, off.Bookmarks)
}

func TestRecordPurchaseIsIdempotent(t *testing.T) {
	svc, store := newProfileFixture()
	userId := uuid.New()
	ctx := context.Background()

	require.NoError(t, svc.RecordPurchase(ctx, userId, "note-002"))
	require.NoError(t, svc.RecordPurchase(ctx, userId, "note-002"))

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, []string{"note-002"}, store.profiles[userId].PurchasedNotes)
}
