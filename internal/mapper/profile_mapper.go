package mapper

import (
	"forensichub-be/internal/entity"
	"forensichub-be/internal/model"

	"gorm.io/datatypes"
)

type ProfileMapper struct{}

func NewProfileMapper() *ProfileMapper {
	return &ProfileMapper{}
}

func (m *ProfileMapper) ToEntity(p *model.Profile) *entity.Profile {
	if p == nil {
		return nil
	}
	return &entity.Profile{
		UserId:            p.UserId,
		Institution:       p.Institution,
		Discipline:        p.Discipline,
		CompletedArticles: []string(p.CompletedArticles),
		CompletedCases:    []string(p.CompletedCases),
		PurchasedNotes:    []string(p.PurchasedNotes),
		Bookmarks:         []string(p.Bookmarks),
		UpdatedAt:         p.UpdatedAt,
	}
}

func (m *ProfileMapper) ToModel(p *entity.Profile) *model.Profile {
	if p == nil {
		return nil
	}
	return &model.Profile{
		UserId:            p.UserId,
		Institution:       p.Institution,
		Discipline:        p.Discipline,
		CompletedArticles: datatypes.JSONSlice[string](p.CompletedArticles),
		CompletedCases:    datatypes.JSONSlice[string](p.CompletedCases),
		PurchasedNotes:    datatypes.JSONSlice[string](p.PurchasedNotes),
		Bookmarks:         datatypes.JSONSlice[string](p.Bookmarks),
		UpdatedAt:         p.UpdatedAt,
	}
}
