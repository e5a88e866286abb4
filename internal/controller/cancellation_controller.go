// FILE: internal/controller/cancellation_controller.go
package controller

import (
	"errors"

	"cancel-flow-be/internal/dto"
	"cancel-flow-be/internal/pkg/serverutils"
	"cancel-flow-be/internal/service"
	"cancel-flow-be/pkg/cancelflow"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICancellationController interface {
	RegisterRoutes(r fiber.Router)
}

type cancellationController struct {
	service  service.ICancellationFlowService
	auth     fiber.Handler
	csrf     fiber.Handler
	basePath string
}

// NewCancellationController serves the wizard under basePath + "/cancel".
// basePath is used to build redirect locations.
func NewCancellationController(
	service service.ICancellationFlowService,
	auth fiber.Handler,
	csrf fiber.Handler,
	basePath string,
) ICancellationController {
	return &cancellationController{
		service:  service,
		auth:     auth,
		csrf:     csrf,
		basePath: basePath,
	}
}

func (c *cancellationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/cancel", c.auth, c.csrf)

	h.Get("", c.GetEntry)
	h.Post("", c.SubmitEntry)

	h.Get("/job", c.GetJobQuestions)
	h.Post("/job", c.SubmitJobQuestions)
	h.Get("/job/feedback", c.GetFeedback)
	h.Post("/job/feedback", c.SubmitFeedback)

	h.Get("/reason", c.RouteVisa)
	h.Get("/reason/mm", c.visaView(true))
	h.Post("/reason/mm", c.visaSubmit(true))
	h.Get("/reason/nomm", c.visaView(false))
	h.Post("/reason/nomm", c.visaSubmit(false))

	h.Get("/downsell", c.GetDownsell)
	h.Post("/downsell", c.SubmitDownsell)
	h.Get("/usage", c.GetUsage)
	h.Post("/usage", c.SubmitUsage)

	h.Get("/confirm", c.GetConfirm)
	h.Post("/confirm", c.SubmitConfirm)
	h.Get("/accepted", c.GetAccepted)

	h.Get("/final/help", c.finalView(cancelflow.ScreenHelp))
	h.Get("/final/none", c.finalView(cancelflow.ScreenDone))
}

// --- helpers ---

func (c *cancellationController) redirect(ctx *fiber.Ctx, screen cancelflow.Screen) error {
	location := c.basePath + screen.Path()
	ctx.Set(fiber.HeaderLocation, location)
	return ctx.Status(fiber.StatusSeeOther).JSON(serverutils.SuccessResponse("Redirect", dto.RedirectResponse{
		Screen:   string(screen),
		Location: location,
	}))
}

type csrfCarrier interface {
	SetCsrfToken(token string)
}

func render[T any](c *cancellationController, ctx *fiber.Ctx, message string, res *dto.ScreenResponse[T]) error {
	if res.Redirect != "" {
		return c.redirect(ctx, res.Redirect)
	}
	if carrier, ok := any(res.View).(csrfCarrier); ok {
		carrier.SetCsrfToken(serverutils.CsrfToken(ctx))
	}
	return ctx.JSON(serverutils.SuccessResponse(message, res.View))
}

func (c *cancellationController) step(ctx *fiber.Ctx, res *dto.StepResult, err error) error {
	if err != nil {
		return c.handleError(ctx, err)
	}
	return c.redirect(ctx, res.Next)
}

func parseRequest[T any](ctx *fiber.Ctx) (*T, error) {
	var req T
	if err := ctx.BodyParser(&req); err != nil {
		return nil, serverutils.NewValidationError("body", "could not be parsed")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (c *cancellationController) handleError(ctx *fiber.Ctx, err error) error {
	var verr *serverutils.ValidationError
	switch {
	case errors.As(err, &verr):
		return err
	case errors.Is(err, service.ErrInvalidInput):
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, err.Error()))
	case errors.Is(err, service.ErrSubscriptionNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, err.Error()))
	case errors.Is(err, service.ErrSubscriptionCancelled), errors.Is(err, service.ErrIllegalTransition):
		return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(fiber.StatusConflict, err.Error()))
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
	}
}

func (c *cancellationController) userId(ctx *fiber.Ctx) (uuid.UUID, error) {
	userId, err := serverutils.UserIdFromCtx(ctx)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid claims")
	}
	return userId, nil
}

// --- Entry ---

func (c *cancellationController) GetEntry(ctx *fiber.Ctx) error {
	userId, err := c.userId(ctx)
	if err != nil {
		return err
	}

	view, err := c.service.GetEntry(ctx.UserContext(), userId)
	if err != nil {
		return c.handleError(ctx, err)
	}
	view.SetCsrfToken(serverutils.CsrfToken(ctx))
	return ctx.JSON(serverutils.SuccessResponse("Cancellation entry", view))
}

func (c *cancellationController) SubmitEntry(ctx *fiber.Ctx) error {
	userId, err := c.userId(ctx)
	if err != nil {
		return err
	}
	req, err := parseRequest[dto.EntryRequest](ctx)
	if err != nil {
		return err
	}

	res, err := c.service.SubmitEntry(ctx.UserContext(), userId, req)
	return c.step(ctx, res, err)
}

// --- Job path ---

func (c *cancellationController) GetJobQuestions(ctx *fiber.Ctx) error {
	userId, err := c.userId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetJobQuestions(ctx.UserContext(), userId)
	if err != nil {
		return c.handleError(ctx, err)
	}
	return render(c, ctx, "Job questions", res)
}

func (c *cancellationController) SubmitJobQuestions(ctx *fiber.Ctx) error {
	userId, err := c.userId(ctx)
	if err != nil {
		return err
	}
	req, err := parseRequest[dto.JobQuestionsRequest](ctx)
	if err != nil {
		return err
	}

	res, err := c.service.SubmitJobQuestions(ctx.UserContext(), userId, req)
	return c.step(ctx, res, err)
}

func (c *cancellationController) GetFeedback(ctx *fiber.Ctx) error {
	userId, err := c.userId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetFeedback(ctx.UserContext(), userId)
	if err != nil {
		return c.handleError(ctx, err)
	}
	return render(c, ctx, "Job feedback", res)
}

func (c *cancellationController) SubmitFeedback(ctx *fiber.Ctx) error {
	userId, err := c.userId(ctx)
	if err != nil {
		return err
	}
	req, err := parseRequest[dto.FeedbackRequest](ctx)
	if err != nil {
		return err
	}

	res, err := c.service.SubmitFeedback(ctx.UserContext(), userId, req)
	return c.step(ctx, res, err)
}

func (c *cancellationController) RouteVisa(ctx *fiber.Ctx) error {
	userId, err := c.userId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.RouteVisa(ctx.UserContext(), userId)
	return c.step(ctx, res, err)
}

func (c *cancellationController) visaView(withMM bool) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userId, err := c.userId(ctx)
		if err != nil {
			return err
		}

		res, err := c.service.GetVisa(ctx.UserContext(), userId, withMM)
		if err != nil {
			return c.handleError(ctx, err)
		}
		return render(c, ctx, "Visa questions", res)
	}
}

func (c *cancellationController) visaSubmit(withMM bool) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userId, err := c.userId(ctx)
		if err != nil {
			return err
		}
		req, err := parseRequest[dto.VisaRequest](ctx)
		if err != nil {
			return err
		}

		res, err := c.service.SubmitVisa(ctx.UserContext(), userId, withMM, req)
		return c.step(ctx, res, err)
	}
}

// --- Downsell path ---

func (c *cancellationController) GetDownsell(ctx *fiber.Ctx) error {
	userId, err := c.userId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetDownsell(ctx.UserContext(), userId)
	if err != nil {
		return c.handleError(ctx, err)
	}
	return render(c, ctx, "Downsell offer", res)
}

func (c *cancellationController) SubmitDownsell(ctx *fiber.Ctx) error {
	userId, err := c.userId(ctx)
	if err != nil {
		return err
	}
	req, err := parseRequest[dto.DownsellRequest](ctx)
	if err != nil {
		return err
	}

	res, err := c.service.SubmitDownsell(ctx.UserContext(), userId, req)
	return c.step(ctx, res, err)
}

func (c *cancellationController) GetUsage(ctx *fiber.Ctx) error {
	userId, err := c.userId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetUsage(ctx.UserContext(), userId)
	if err != nil {
		return c.handleError(ctx, err)
	}
	return render(c, ctx, "Usage reason", res)
}

func (c *cancellationController) SubmitUsage(ctx *fiber.Ctx) error {
	userId, err := c.userId(ctx)
	if err != nil {
		return err
	}
	req, err := parseRequest[dto.UsageRequest](ctx)
	if err != nil {
		return err
	}

	res, err := c.service.SubmitUsage(ctx.UserContext(), userId, req)
	return c.step(ctx, res, err)
}

// --- Terminal screens ---

func (c *cancellationController) GetConfirm(ctx *fiber.Ctx) error {
	userId, err := c.userId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetConfirm(ctx.UserContext(), userId)
	if err != nil {
		return c.handleError(ctx, err)
	}
	return render(c, ctx, "Confirm cancellation", res)
}

func (c *cancellationController) SubmitConfirm(ctx *fiber.Ctx) error {
	userId, err := c.userId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.SubmitConfirm(ctx.UserContext(), userId)
	return c.step(ctx, res, err)
}

func (c *cancellationController) GetAccepted(ctx *fiber.Ctx) error {
	userId, err := c.userId(ctx)
	if err != nil {
		return err
	}

	view, err := c.service.GetAccepted(ctx.UserContext(), userId)
	if err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Downsell accepted", view))
}

func (c *cancellationController) finalView(screen cancelflow.Screen) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userId, err := c.userId(ctx)
		if err != nil {
			return err
		}

		res, err := c.service.GetFinal(ctx.UserContext(), userId, screen)
		if err != nil {
			return c.handleError(ctx, err)
		}
		return render(c, ctx, "Cancellation complete", res)
	}
}
