package service

import (
	"context"
	"time"

	"forensichub-be/internal/dto"
	"forensichub-be/internal/entity"
	"forensichub-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IProfileService interface {
	Get(ctx context.Context, userId uuid.UUID) (*dto.ProfileResponse, error)
	Sync(ctx context.Context, userId uuid.UUID, req *dto.SyncProfileRequest) (*dto.ProfileResponse, error)
	ToggleBookmark(ctx context.Context, userId uuid.UUID, itemId string) (*dto.ToggleBookmarkResponse, error)
	RecordPurchase(ctx context.Context, userId uuid.UUID, noteId string) error
}

type profileService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewProfileService(uowFactory unitofwork.RepositoryFactory) IProfileService {
	return &profileService{uowFactory: uowFactory}
}

func (s *profileService) Get(ctx context.Context, userId uuid.UUID) (*dto.ProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := uow.ProfileRepository().FindByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &entity.Profile{UserId: userId, UpdatedAt: time.Now()}
	}
	return toProfileResponse(profile), nil
}

// Sync merges the submitted progress into the stored row. Completion
// and purchase sets only ever grow; a client that lost local state can
// never erase entitlements it already earned.
func (s *profileService) Sync(ctx context.Context, userId uuid.UUID, req *dto.SyncProfileRequest) (*dto.ProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := uow.ProfileRepository().FindByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &entity.Profile{UserId: userId}
	}

	if req.Institution != "" {
		profile.Institution = req.Institution
	}
	if req.Discipline != "" {
		profile.Discipline = req.Discipline
	}
	profile.CompletedArticles = mergeSet(profile.CompletedArticles, req.CompletedArticles)
	profile.CompletedCases = mergeSet(profile.CompletedCases, req.CompletedCases)
	profile.PurchasedNotes = mergeSet(profile.PurchasedNotes, req.PurchasedNotes)
	profile.Bookmarks = mergeSet(profile.Bookmarks, req.Bookmarks)
	profile.UpdatedAt = time.Now()

	if err := uow.ProfileRepository().Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return toProfileResponse(profile), nil
}

func (s *profileService) ToggleBookmark(ctx context.Context, userId uuid.UUID, itemId string) (*dto.ToggleBookmarkResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := uow.ProfileRepository().FindByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &entity.Profile{UserId: userId}
	}

	bookmarked := false
	next := make([]string, 0, len(profile.Bookmarks)+1)
	for _, id := range profile.Bookmarks {
		if id == itemId {
			continue
		}
		next = append(next, id)
	}
	if len(next) == len(profile.Bookmarks) {
		next = append(next, itemId)
		bookmarked = true
	}
	profile.Bookmarks = next
	profile.UpdatedAt = time.Now()

	if err := uow.ProfileRepository().Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return &dto.ToggleBookmarkResponse{
		Bookmarked: bookmarked,
		Bookmarks:  profile.Bookmarks,
	}, nil
}

func (s *profileService) RecordPurchase(ctx context.Context, userId uuid.UUID, noteId string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := uow.ProfileRepository().FindByUserId(ctx, userId)
	if err != nil {
		return err
	}
	if profile == nil {
		profile = &entity.Profile{UserId: userId}
	}
	profile.PurchasedNotes = mergeSet(profile.PurchasedNotes, []string{noteId})
	profile.UpdatedAt = time.Now()
	return uow.ProfileRepository().Upsert(ctx, profile)
}

// mergeSet unions incoming into base preserving first-seen order.
func mergeSet(base, incoming []string) []string {
	seen := make(map[string]struct{}, len(base))
	out := make([]string, 0, len(base)+len(incoming))
	for _, id := range base {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, id := range incoming {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func toProfileResponse(p *entity.Profile) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		Institution:       p.Institution,
		Discipline:        p.Discipline,
		CompletedArticles: emptyIfNil(p.CompletedArticles),
		CompletedCases:    emptyIfNil(p.CompletedCases),
		PurchasedNotes:    emptyIfNil(p.PurchasedNotes),
		Bookmarks:         emptyIfNil(p.Bookmarks),
		UpdatedAt:         p.UpdatedAt,
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
