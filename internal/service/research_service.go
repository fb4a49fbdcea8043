package service

import (
	"context"

	"forensichub-be/internal/dto"
	"forensichub-be/internal/pkg/logger"
	"forensichub-be/pkg/genai"
	"forensichub-be/pkg/geo"
)

type IResearchService interface {
	Dispatch(ctx context.Context, req *dto.ResearchRequest) (*dto.ResearchResponse, error)
}

type researchService struct {
	provider genai.Provider
	watcher  *geo.Watcher
	locator  geo.Locator
	log      logger.ILogger
}

func NewResearchService(provider genai.Provider, watcher *geo.Watcher, locator geo.Locator, log logger.ILogger) IResearchService {
	return &researchService{
		provider: provider,
		watcher:  watcher,
		locator:  locator,
		log:      log,
	}
}

// Dispatch runs a grounded research query. Maps grounding rides on the
// last known device fix; with no fix cached, one inline lookup is tried
// and failure falls back to search grounding rather than aborting.
func (s *researchService) Dispatch(ctx context.Context, req *dto.ResearchRequest) (*dto.ResearchResponse, error) {
	var latLng *genai.LatLng
	usedFix := false

	if req.UseMaps {
		if pos, ok := s.watcher.Last(); ok {
			latLng = &genai.LatLng{Latitude: pos.Latitude, Longitude: pos.Longitude}
			usedFix = true
		} else if s.locator != nil {
			if pos, err := s.locator.Locate(ctx); err == nil {
				s.watcher.Update(pos)
				latLng = &genai.LatLng{Latitude: pos.Latitude, Longitude: pos.Longitude}
				usedFix = true
			} else {
				s.log.Warn("research", "no position fix, degrading to search grounding", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}

	useMaps := req.UseMaps && latLng != nil
	result, err := s.provider.Research(ctx, req.Query, useMaps, latLng)
	if err != nil {
		return nil, err
	}

	return &dto.ResearchResponse{
		Text:      result.Text,
		Citations: dedupCitations(result.Citations),
		UsedFix:   usedFix,
	}, nil
}

// dedupCitations collapses duplicate grounding sources by URI, first
// occurrence wins.
func dedupCitations(in []genai.Citation) []dto.CitationResponse {
	seen := make(map[string]struct{}, len(in))
	out := make([]dto.CitationResponse, 0, len(in))
	for _, c := range in {
		if c.URI == "" {
			continue
		}
		if _, ok := seen[c.URI]; ok {
			continue
		}
		seen[c.URI] = struct{}{}
		title := c.Title
		if title == "" {
			title = c.URI
		}
		out = append(out, dto.CitationResponse{Title: title, URI: c.URI})
	}
	return out
}
