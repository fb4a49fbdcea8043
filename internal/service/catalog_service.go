package service

import (
	"context"
	"errors"
	"time"

	"forensichub-be/internal/dto"
	"forensichub-be/internal/repository/specification"
	"forensichub-be/internal/repository/unitofwork"
	"forensichub-be/pkg/catalog"
	"forensichub-be/pkg/genai"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var (
	ErrItemNotFound  = errors.New("catalog item not found")
	ErrPremiumLocked = errors.New("premium access required")
	ErrNotPurchased  = errors.New("note not purchased")
)

type ICatalogService interface {
	ListArticles(ctx context.Context, userId uuid.UUID, req *dto.ListArticlesRequest) ([]dto.ArticleResponse, error)
	GetArticle(ctx context.Context, userId uuid.UUID, articleId string) (*dto.ArticleResponse, error)
	ListNotes(ctx context.Context, userId uuid.UUID, level int) ([]dto.NoteResponse, error)
	GetNote(ctx context.Context, userId uuid.UUID, noteId string) (*dto.NoteResponse, error)
	ListCases(ctx context.Context) []dto.CaseFileResponse
	GetCase(ctx context.Context, caseId string) (*dto.CaseFileResponse, error)
	Summarize(ctx context.Context, userId uuid.UUID, itemId string) (*dto.SummarizeResponse, error)
	Synthesize(ctx context.Context, userId uuid.UUID, itemId string) ([]byte, error)
}

type catalogService struct {
	uowFactory unitofwork.RepositoryFactory
	provider   genai.Provider
	summaries  *cache.Cache
}

func NewCatalogService(uowFactory unitofwork.RepositoryFactory, provider genai.Provider) ICatalogService {
	return &catalogService{
		uowFactory: uowFactory,
		provider:   provider,
		// Summaries are transient by design: they survive repeat views
		// within a session window but are never persisted.
		summaries: cache.New(30*time.Minute, 10*time.Minute),
	}
}

func (s *catalogService) entitlements(ctx context.Context, userId uuid.UUID) (premium bool, purchased map[string]struct{}) {
	purchased = map[string]struct{}{}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err == nil && user != nil {
		premium = user.Premium
	}

	profile, err := uow.ProfileRepository().FindByUserId(ctx, userId)
	if err == nil && profile != nil {
		for _, id := range profile.PurchasedNotes {
			purchased[id] = struct{}{}
		}
	}
	return premium, purchased
}

func (s *catalogService) ListArticles(ctx context.Context, userId uuid.UUID, req *dto.ListArticlesRequest) ([]dto.ArticleResponse, error) {
	premium, _ := s.entitlements(ctx, userId)

	articles := catalog.ListArticles(catalog.ArticleFilter{
		Level:    catalog.Level(req.Level),
		Category: req.Category,
	})

	out := make([]dto.ArticleResponse, 0, len(articles))
	for _, a := range articles {
		resp := toArticleResponse(a, premium)
		// Listings carry metadata only; the body ships on detail fetch.
		resp.Content = ""
		out = append(out, resp)
	}
	return out, nil
}

func (s *catalogService) GetArticle(ctx context.Context, userId uuid.UUID, articleId string) (*dto.ArticleResponse, error) {
	a, ok := catalog.FindArticle(articleId)
	if !ok {
		return nil, ErrItemNotFound
	}
	premium, _ := s.entitlements(ctx, userId)
	resp := toArticleResponse(a, premium)
	return &resp, nil
}

func (s *catalogService) ListNotes(ctx context.Context, userId uuid.UUID, level int) ([]dto.NoteResponse, error) {
	_, purchased := s.entitlements(ctx, userId)

	notes := catalog.ListNotes(catalog.Level(level))
	out := make([]dto.NoteResponse, 0, len(notes))
	for _, n := range notes {
		resp := toNoteResponse(n, purchased)
		resp.Content = ""
		out = append(out, resp)
	}
	return out, nil
}

func (s *catalogService) GetNote(ctx context.Context, userId uuid.UUID, noteId string) (*dto.NoteResponse, error) {
	n, ok := catalog.FindNote(noteId)
	if !ok {
		return nil, ErrItemNotFound
	}
	_, purchased := s.entitlements(ctx, userId)
	resp := toNoteResponse(n, purchased)
	return &resp, nil
}

func (s *catalogService) ListCases(ctx context.Context) []dto.CaseFileResponse {
	cases := catalog.ListCases()
	out := make([]dto.CaseFileResponse, 0, len(cases))
	for _, c := range cases {
		out = append(out, toCaseResponse(c))
	}
	return out
}

func (s *catalogService) GetCase(ctx context.Context, caseId string) (*dto.CaseFileResponse, error) {
	c, ok := catalog.FindCase(caseId)
	if !ok {
		return nil, ErrItemNotFound
	}
	resp := toCaseResponse(c)
	return &resp, nil
}

// Summarize produces (or replays) the AI digest of an article the
// caller is entitled to read.
func (s *catalogService) Summarize(ctx context.Context, userId uuid.UUID, itemId string) (*dto.SummarizeResponse, error) {
	a, ok := catalog.FindArticle(itemId)
	if !ok {
		return nil, ErrItemNotFound
	}

	premium, _ := s.entitlements(ctx, userId)
	if a.IsPremium && !premium {
		return nil, ErrPremiumLocked
	}

	if cached, found := s.summaries.Get(itemId); found {
		return &dto.SummarizeResponse{ItemId: itemId, Summary: cached.(string), Cached: true}, nil
	}

	summary, err := s.provider.Summarize(ctx, a.Title, a.Description, a.Content)
	if err != nil {
		return nil, err
	}
	s.summaries.Set(itemId, summary, cache.DefaultExpiration)

	return &dto.SummarizeResponse{ItemId: itemId, Summary: summary, Cached: false}, nil
}

// Synthesize returns raw PCM audio for an article the caller can read.
func (s *catalogService) Synthesize(ctx context.Context, userId uuid.UUID, itemId string) ([]byte, error) {
	a, ok := catalog.FindArticle(itemId)
	if !ok {
		return nil, ErrItemNotFound
	}

	premium, _ := s.entitlements(ctx, userId)
	if a.IsPremium && !premium {
		return nil, ErrPremiumLocked
	}

	text := a.Content
	if text == "" {
		text = a.Description
	}
	return s.provider.Synthesize(ctx, text)
}

func toArticleResponse(a catalog.Article, premium bool) dto.ArticleResponse {
	locked := a.IsPremium && !premium
	resp := dto.ArticleResponse{
		Id:          a.ID,
		Title:       a.Title,
		Category:    a.Category,
		Description: a.Description,
		Content:     a.Content,
		IsPremium:   a.IsPremium,
		Author:      a.Author,
		ReadTime:    a.ReadTime,
		Image:       a.Image,
		Level:       int(a.Level),
		Semester:    a.Semester,
		Locked:      locked,
	}
	if locked {
		resp.Content = ""
	}
	return resp
}

func toNoteResponse(n catalog.Note, purchased map[string]struct{}) dto.NoteResponse {
	_, owned := purchased[n.ID]
	resp := dto.NoteResponse{
		Id:          n.ID,
		Title:       n.Title,
		Lecturer:    n.Lecturer,
		Level:       int(n.Level),
		Description: n.Description,
		Content:     n.Content,
		Price:       n.Price,
		IsVerified:  n.IsVerified,
		CourseCode:  n.CourseCode,
		Purchased:   owned,
	}
	if !owned && n.Price > 0 {
		resp.Content = ""
	}
	return resp
}

func toCaseResponse(c catalog.Case) dto.CaseFileResponse {
	return dto.CaseFileResponse{
		Id:         c.ID,
		Title:      c.Title,
		Difficulty: c.Difficulty,
		Summary:    c.Summary,
		Evidence:   c.Evidence,
		Location:   c.Location,
		Date:       c.Date,
	}
}
