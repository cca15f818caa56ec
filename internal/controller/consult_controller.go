package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"radiology-consult-be/internal/dto"
	"radiology-consult-be/internal/pkg/serverutils"
	"radiology-consult-be/internal/service"
)

type IConsultController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	Capabilities(ctx *fiber.Ctx) error
}

type consultController struct {
	service service.IConsultService
}

func NewConsultController(service service.IConsultService) IConsultController {
	return &consultController{service: service}
}

func (c *consultController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/consult/v1")
	h.Post("", c.Start)
	h.Get("capabilities", c.Capabilities)
	h.Get(":session_id", c.Show)
	h.Delete(":session_id", c.Cancel)
}

func (c *consultController) Start(ctx *fiber.Ctx) error {
	var req dto.StartConsultRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.StartConsultation(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Consultation started", res))
}

func (c *consultController) Show(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("session_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.service.GetConsultation(sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get consultation", res))
}

func (c *consultController) Cancel(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("session_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.service.CancelConsultation(sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Consultation cancelled", res))
}

func (c *consultController) Capabilities(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get capabilities", c.service.Capabilities()))
}
