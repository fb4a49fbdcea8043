package controller

import (
	"errors"

	"forensichub-be/internal/dto"
	"forensichub-be/internal/pkg/serverutils"
	"forensichub-be/internal/service"
	"forensichub-be/pkg/genai"

	"github.com/gofiber/fiber/v2"
)

type IResearchController interface {
	RegisterRoutes(r fiber.Router)
	Dispatch(ctx *fiber.Ctx) error
}

type researchController struct {
	service service.IResearchService
}

func NewResearchController(service service.IResearchService) IResearchController {
	return &researchController{service: service}
}

func (c *researchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/research")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/dispatch", c.Dispatch)
}

func (c *researchController) Dispatch(ctx *fiber.Ctx) error {
	var req dto.ResearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.Dispatch(ctx.UserContext(), &req)
	if err != nil {
		switch {
		case errors.Is(err, genai.ErrAPIKeyMissing), errors.Is(err, genai.ErrModelNotFound):
			return ctx.Status(fiber.StatusBadGateway).JSON(
				serverutils.ErrorWithCode(fiber.StatusBadGateway, serverutils.CodeKeyInvalid, err.Error()))
		default:
			return ctx.Status(fiber.StatusBadGateway).JSON(
				serverutils.ErrorWithCode(fiber.StatusBadGateway, serverutils.CodeTransportFault, err.Error()))
		}
	}
	return ctx.JSON(serverutils.SuccessResponse("Research complete", res))
}
