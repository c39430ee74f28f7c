package controller

import (
	"ai-tablechat-be/internal/dto"
	"ai-tablechat-be/internal/pkg/serverutils"
	"ai-tablechat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITableController interface {
	RegisterRoutes(r fiber.Router, protected fiber.Handler)
	GetAll(ctx *fiber.Ctx) error
	Recover(ctx *fiber.Ctx) error
}

type tableController struct {
	service service.ITableService
}

func NewTableController(service service.ITableService) ITableController {
	return &tableController{service: service}
}

func (c *tableController) RegisterRoutes(r fiber.Router, protected fiber.Handler) {
	h := r.Group("/tables/v1")
	h.Use(protected)
	h.Get("", c.GetAll)

	rec := r.Group("/recovery/v1")
	rec.Use(protected)
	rec.Post("", c.Recover)
}

func (c *tableController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetAll(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all tables", res))
}

func (c *tableController) Recover(ctx *fiber.Ctx) error {
	var req dto.RecoveryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Recover(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success recover table data", res))
}
