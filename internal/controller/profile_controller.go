package controller

import (
	"forensichub-be/internal/dto"
	"forensichub-be/internal/pkg/serverutils"
	"forensichub-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProfileController interface {
	RegisterRoutes(r fiber.Router)
	Get(ctx *fiber.Ctx) error
	Sync(ctx *fiber.Ctx) error
	ToggleBookmark(ctx *fiber.Ctx) error
}

type profileController struct {
	service service.IProfileService
}

func NewProfileController(service service.IProfileService) IProfileController {
	return &profileController{service: service}
}

func (c *profileController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/profile")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/", c.Get)
	h.Put("/sync", c.Sync)
	h.Post("/bookmarks/toggle", c.ToggleBookmark)
}

func (c *profileController) Get(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", res))
}

func (c *profileController) Sync(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.SyncProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.Sync(ctx.Context(), userId, &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile synced", res))
}

func (c *profileController) ToggleBookmark(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.ToggleBookmarkRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.ToggleBookmark(ctx.Context(), userId, req.ItemId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Bookmark toggled", res))
}
