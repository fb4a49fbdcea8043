package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"forensichub-be/internal/dto"
	"forensichub-be/internal/pkg/serverutils"
	"forensichub-be/internal/service"
	"forensichub-be/pkg/genai"
	"forensichub-be/pkg/lab"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type ILabController interface {
	RegisterRoutes(r fiber.Router)
}

type labController struct {
	service service.ILabService
}

func NewLabController(service service.ILabService) ILabController {
	return &labController{service: service}
}

func (c *labController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/lab")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/sessions", c.CreateSession)
	h.Get("/sessions/:id", c.Transcript)
	h.Post("/sessions/:id/submit", c.Submit)
	h.Post("/sessions/:id/cancel", c.Cancel)
	h.Post("/sessions/:id/mode", c.SwitchMode)
	h.Post("/sessions/:id/image", c.AttachImage)
	h.Post("/sessions/:id/case", c.AttachCase)
	h.Delete("/sessions/:id/case", c.DetachCase)
}

func (c *labController) CreateSession(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateLabSessionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}

	session, err := c.service.CreateSession(ctx.Context(), userId, req.Mode)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, err.Error()))
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Session opened", dto.CreateLabSessionResponse{
		Id:   session.ID,
		Mode: string(session.Mode()),
	}))
}

func (c *labController) Transcript(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Transcript(userId, ctx.Params("id"))
	if err != nil {
		return labError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", res))
}

// Submit runs one lab turn and streams progress as server-sent events.
func (c *labController) Submit(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.LabSubmitRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}

	streamCtx, stop := context.WithCancel(ctx.UserContext())
	events, err := c.service.Submit(streamCtx, userId, ctx.Params("id"), req.Prompt)
	if err != nil {
		stop()
		return labError(ctx, err)
	}

	return streamLabEvents(ctx, events, stop)
}

func (c *labController) Cancel(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}

	cancelled, err := c.service.Cancel(userId, ctx.Params("id"))
	if err != nil {
		return labError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", fiber.Map{"cancelled": cancelled}))
}

func (c *labController) SwitchMode(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.SwitchModeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	if err := c.service.SwitchMode(userId, ctx.Params("id"), req.Mode); err != nil {
		return labError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Mode switched", fiber.Map{"mode": req.Mode}))
}

func (c *labController) AttachImage(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.AttachImageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	if err := c.service.AttachImage(userId, ctx.Params("id"), &req); err != nil {
		return labError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Payload staged", nil))
}

// AttachCase binds a case file. When the automatic briefing fires the
// response switches to the SSE stream of the briefing turn.
func (c *labController) AttachCase(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.AttachCaseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	streamCtx, stop := context.WithCancel(ctx.UserContext())
	events, err := c.service.AttachCase(streamCtx, userId, ctx.Params("id"), req.CaseId)
	if err != nil {
		stop()
		return labError(ctx, err)
	}
	if events == nil {
		stop()
		return ctx.JSON(serverutils.SuccessResponse("Case attached", nil))
	}
	return streamLabEvents(ctx, events, stop)
}

func (c *labController) DetachCase(ctx *fiber.Ctx) error {
	userId, err := requestUserID(ctx)
	if err != nil {
		return err
	}

	if err := c.service.DetachCase(userId, ctx.Params("id")); err != nil {
		return labError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Case detached", nil))
}

// streamLabEvents adapts the service event channel onto an SSE response.
// stop is invoked when the writer returns, so a consumer that walks away
// mid-stream cancels the submission instead of leaving the producer
// blocked on an undrained channel.
func streamLabEvents(ctx *fiber.Ctx, events <-chan service.LabEvent, stop context.CancelFunc) error {
	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer stop()
		for ev := range events {
			frame := dto.LabStreamEvent{Kind: ev.Kind, Text: ev.Text}
			if ev.Image != nil {
				frame.Image = ev.Image.Data
			}
			if ev.Err != nil {
				frame.Code = classifyLabError(ev.Err)
				frame.Text = ev.Err.Error()
			}

			payload, err := json.Marshal(frame)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))
	return nil
}

func classifyLabError(err error) string {
	switch {
	case errors.Is(err, genai.ErrAPIKeyMissing):
		return serverutils.CodeAuthorizationRequired
	case errors.Is(err, genai.ErrModelNotFound):
		return serverutils.CodeKeyInvalid
	default:
		return serverutils.CodeTransportFault
	}
}

func labError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrCaseNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(
			serverutils.ErrorWithCode(fiber.StatusNotFound, serverutils.CodeNotFound, err.Error()))
	case errors.Is(err, lab.ErrSessionBusy):
		return ctx.Status(fiber.StatusConflict).JSON(
			serverutils.ErrorWithCode(fiber.StatusConflict, serverutils.CodeRateLimited, err.Error()))
	case errors.Is(err, lab.ErrEmptySubmission):
		return ctx.Status(fiber.StatusBadRequest).JSON(
			serverutils.ErrorWithCode(fiber.StatusBadRequest, serverutils.CodeIngestionFailed, err.Error()))
	default:
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, err.Error()))
	}
}
