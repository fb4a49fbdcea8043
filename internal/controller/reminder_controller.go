package controller

import (
	"errors"

	"forensichub-be/internal/dto"
	"forensichub-be/internal/pkg/serverutils"
	"forensichub-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReminderController interface {
	RegisterRoutes(r fiber.Router)
}

type reminderController struct {
	service service.IReminderService
}

func NewReminderController(service service.IReminderService) IReminderController {
	return &reminderController{service: service}
}

func (c *reminderController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/reminders")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/", c.List)
	h.Post("/", c.Create)
	h.Delete("/:id", c.Delete)
}

func (c *reminderController) List(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.List(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", res))
}

func (c *reminderController) Create(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateReminderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), userId, &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Reminder scheduled", res))
}

func (c *reminderController) Delete(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.Context(), userId, ctx.Params("id")); err != nil {
		if errors.Is(err, service.ErrReminderNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(
				serverutils.ErrorWithCode(fiber.StatusNotFound, serverutils.CodeNotFound, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Reminder removed", nil))
}
