package controller

import (
	"errors"

	"forensichub-be/internal/dto"
	"forensichub-be/internal/pkg/serverutils"
	"forensichub-be/internal/service"
	"forensichub-be/pkg/genai"

	"github.com/gofiber/fiber/v2"
)

type ICatalogController interface {
	RegisterRoutes(r fiber.Router)
}

type catalogController struct {
	service service.ICatalogService
}

func NewCatalogController(service service.ICatalogService) ICatalogController {
	return &catalogController{service: service}
}

func (c *catalogController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/catalog")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/articles", c.ListArticles)
	h.Get("/articles/:id", c.GetArticle)
	h.Post("/articles/:id/summarize", c.Summarize)
	h.Get("/articles/:id/audio", c.Synthesize)
	h.Get("/notes", c.ListNotes)
	h.Get("/notes/:id", c.GetNote)
	h.Get("/cases", c.ListCases)
	h.Get("/cases/:id", c.GetCase)
}

func (c *catalogController) ListArticles(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}

	req := dto.ListArticlesRequest{
		Level:    ctx.QueryInt("level", 0),
		Category: ctx.Query("category"),
	}

	res, err := c.service.ListArticles(ctx.Context(), userId, &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", res))
}

func (c *catalogController) GetArticle(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetArticle(ctx.Context(), userId, ctx.Params("id"))
	if err != nil {
		return catalogError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", res))
}

func (c *catalogController) ListNotes(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListNotes(ctx.Context(), userId, ctx.QueryInt("level", 0))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", res))
}

func (c *catalogController) GetNote(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetNote(ctx.Context(), userId, ctx.Params("id"))
	if err != nil {
		return catalogError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", res))
}

func (c *catalogController) ListCases(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("OK", c.service.ListCases(ctx.Context())))
}

func (c *catalogController) GetCase(ctx *fiber.Ctx) error {
	res, err := c.service.GetCase(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return catalogError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", res))
}

func (c *catalogController) Summarize(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Summarize(ctx.UserContext(), userId, ctx.Params("id"))
	if err != nil {
		return catalogError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Summary generated", res))
}

// Synthesize streams the article narration as raw PCM. The content type
// mirrors the synthesis output: 16-bit little-endian, 24kHz, mono.
func (c *catalogController) Synthesize(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}

	audio, err := c.service.Synthesize(ctx.UserContext(), userId, ctx.Params("id"))
	if err != nil {
		return catalogError(ctx, err)
	}

	ctx.Set(fiber.HeaderContentType, "audio/L16; rate=24000; channels=1")
	return ctx.Send(audio)
}

func catalogError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(
			serverutils.ErrorWithCode(fiber.StatusNotFound, serverutils.CodeNotFound, err.Error()))
	case errors.Is(err, service.ErrPremiumLocked), errors.Is(err, service.ErrNotPurchased):
		return ctx.Status(fiber.StatusForbidden).JSON(
			serverutils.ErrorWithCode(fiber.StatusForbidden, serverutils.CodeAuthorizationRequired, err.Error()))
	case errors.Is(err, genai.ErrAPIKeyMissing), errors.Is(err, genai.ErrModelNotFound):
		return ctx.Status(fiber.StatusBadGateway).JSON(
			serverutils.ErrorWithCode(fiber.StatusBadGateway, serverutils.CodeKeyInvalid, err.Error()))
	default:
		return ctx.Status(fiber.StatusBadGateway).JSON(
			serverutils.ErrorWithCode(fiber.StatusBadGateway, serverutils.CodeTransportFault, err.Error()))
	}
}
