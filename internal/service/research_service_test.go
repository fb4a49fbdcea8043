package service

import (
	"context"
	"testing"
	"time"

	"forensichub-be/internal/dto"
	"forensichub-be/pkg/genai"
	"forensichub-be/pkg/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// researchGenai records the Research call it receives.
type researchGenai struct {
	fakeGenai
	result      *genai.ResearchResult
	researchErr error

	gotQuery   string
	gotUseMaps bool
	gotLatLng  *genai.LatLng
}

func (f *researchGenai) Research(ctx context.Context, query string, useMaps bool, latLng *genai.LatLng) (*genai.ResearchResult, error) {
	f.gotQuery = query
	f.gotUseMaps = useMaps
	f.gotLatLng = latLng
	if f.researchErr != nil {
		return nil, f.researchErr
	}
	if f.result != nil {
		return f.result, nil
	}
	return &genai.ResearchResult{Text: "answer"}, nil
}

type fixedLocator struct {
	pos *geo.Position
	err error
}

func (l *fixedLocator) Locate(ctx context.Context) (*geo.Position, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.pos, nil
}

func TestDispatchSearchOnly(t *testing.T) {
	provider := &researchGenai{}
	watcher := geo.NewWatcher(&fixedLocator{err: geo.ErrNoFix}, time.Hour)
	svc := NewResearchService(provider, watcher, &fixedLocator{err: geo.ErrNoFix}, noopLogger{})

	resp, err := svc.Dispatch(context.Background(), &dto.ResearchRequest{Query: "luminol sensitivity"})
	require.NoError(t, err)

	assert.Equal(t, "luminol sensitivity", provider.gotQuery)
	assert.False(t, provider.gotUseMaps)
	assert.Nil(t, provider.gotLatLng)
	assert.False(t, resp.UsedFix)
}

func TestDispatchMapsUsesCachedFix(t *testing.T) {
	provider := &researchGenai{}
	watcher := geo.NewWatcher(&fixedLocator{err: geo.ErrNoFix}, time.Hour)
	watcher.Update(&geo.Position{Latitude: 6.5244, Longitude: 3.3792})
	svc := NewResearchService(provider, watcher, &fixedLocator{err: geo.ErrNoFix}, noopLogger{})

	resp, err := svc.Dispatch(context.Background(), &dto.ResearchRequest{Query: "labs near me", UseMaps: true})
	require.NoError(t, err)

	assert.True(t, provider.gotUseMaps)
	require.NotNil(t, provider.gotLatLng)
	assert.Equal(t, 6.5244, provider.gotLatLng.Latitude)
	assert.True(t, resp.UsedFix)
}

func TestDispatchMapsAcquiresInlineFix(t *testing.T) {
	provider := &researchGenai{}
	watcher := geo.NewWatcher(&fixedLocator{err: geo.ErrNoFix}, time.Hour)
	locator := &fixedLocator{pos: &geo.Position{Latitude: 9.0765, Longitude: 7.3986}}
	svc := NewResearchService(provider, watcher, locator, noopLogger{})

	resp, err := svc.Dispatch(context.Background(), &dto.ResearchRequest{Query: "q", UseMaps: true})
	require.NoError(t, err)
	assert.True(t, resp.UsedFix)

	// The inline fix must seed the watcher for the next query.
	pos, ok := watcher.Last()
	require.True(t, ok)
	assert.Equal(t, 9.0765, pos.Latitude)
}

func TestDispatchMapsDegradesWithoutFix(t *testing.T) {
	provider := &researchGenai{}
	watcher := geo.NewWatcher(&fixedLocator{err: geo.ErrNoFix}, time.Hour)
	svc := NewResearchService(provider, watcher, &fixedLocator{err: geo.ErrNoFix}, noopLogger{})

	resp, err := svc.Dispatch(context.Background(), &dto.ResearchRequest{Query: "q", UseMaps: true})
	require.NoError(t, err)

	// No fix: the query still runs, grounded on search only.
	assert.False(t, provider.gotUseMaps)
	assert.Nil(t, provider.gotLatLng)
	assert.False(t, resp.UsedFix)
}

func TestDispatchPropagatesProviderError(t *testing.T) {
	provider := &researchGenai{researchErr: genai.ErrModelNotFound}
	watcher := geo.NewWatcher(&fixedLocator{err: geo.ErrNoFix}, time.Hour)
	svc := NewResearchService(provider, watcher, nil, noopLogger{})

	_, err := svc.Dispatch(context.Background(), &dto.ResearchRequest{Query: "q"})
	assert.ErrorIs(t, err, genai.ErrModelNotFound)
}

func TestDedupCitations(t *testing.T) {
	in := []genai.Citation{
		{Title: "NIST Guide", URI: "https://nist.gov/guide"},
		{Title: "", URI: ""},
		{Title: "NIST Guide (dup)", URI: "https://nist.gov/guide"},
		{Title: "", URI: "https://interpol.int/df"},
		{Title: "FBI Handbook", URI: "https://fbi.gov/handbook"},
	}

	out := dedupCitations(in)
	require.Len(t, out, 3)

	// First occurrence wins.
	assert.Equal(t, "NIST Guide", out[0].Title)
	assert.Equal(t, "https://nist.gov/guide", out[0].URI)

	// Missing titles fall back to the URI.
	assert.Equal(t, "https://interpol.int/df", out[1].Title)
	assert.Equal(t, "FBI Handbook", out[2].Title)
}
