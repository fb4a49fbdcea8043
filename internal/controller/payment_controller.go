package controller

import (
	"errors"
	"io"

	"forensichub-be/internal/dto"
	"forensichub-be/internal/pkg/serverutils"
	"forensichub-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
}

type paymentController struct {
	service service.IPaymentService
}

func NewPaymentController(service service.IPaymentService) IPaymentController {
	return &paymentController{service: service}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payments")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/", c.Start)
	h.Get("/:id", c.Get)
	h.Post("/:id/bank-details", c.BankDetails)
	h.Post("/:id/receipt", c.AttachReceipt)
	h.Post("/:id/confirm", c.ConfirmTransfer)
	h.Post("/:id/back", c.StepBack)
}

func (c *paymentController) Start(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.StartPaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.Start(ctx.Context(), userId, &req)
	if err != nil {
		return paymentError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Payment started", res))
}

func (c *paymentController) Get(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}
	intentId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid intent id")
	}

	res, err := c.service.Get(ctx.Context(), userId, intentId)
	if err != nil {
		return paymentError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", res))
}

func (c *paymentController) BankDetails(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}
	intentId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid intent id")
	}

	res, err := c.service.BankDetails(ctx.Context(), userId, intentId)
	if err != nil {
		return paymentError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", res))
}

// AttachReceipt accepts the receipt as a multipart upload under the
// "receipt" field.
func (c *paymentController) AttachReceipt(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}
	intentId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid intent id")
	}

	fileHeader, err := ctx.FormFile("receipt")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(
			serverutils.ErrorWithCode(fiber.StatusBadRequest, serverutils.CodeIngestionFailed, "transfer receipt required"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()
	receipt, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	res, err := c.service.AttachReceipt(ctx.Context(), userId, intentId, fileHeader.Filename, receipt)
	if err != nil {
		return paymentError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Receipt attached", res))
}

func (c *paymentController) ConfirmTransfer(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}
	intentId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid intent id")
	}

	res, err := c.service.ConfirmTransfer(ctx.Context(), userId, intentId)
	if err != nil {
		return paymentError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Transfer submitted, verification in progress", res))
}

func (c *paymentController) StepBack(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}
	intentId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid intent id")
	}

	res, err := c.service.StepBack(ctx.Context(), userId, intentId)
	if err != nil {
		return paymentError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", res))
}

func paymentError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrIntentNotFound), errors.Is(err, service.ErrItemNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(
			serverutils.ErrorWithCode(fiber.StatusNotFound, serverutils.CodeNotFound, err.Error()))
	case errors.Is(err, service.ErrReceiptRequired):
		return ctx.Status(fiber.StatusBadRequest).JSON(
			serverutils.ErrorWithCode(fiber.StatusBadRequest, serverutils.CodeIngestionFailed, err.Error()))
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrAlreadyEntitled):
		return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(fiber.StatusConflict, err.Error()))
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
}
