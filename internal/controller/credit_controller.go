// FILE: internal/controller/credit_controller.go
package controller

import (
	"errors"

	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/pkg/serverutils"
	"ai-imagestudio-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICreditController interface {
	RegisterRoutes(r fiber.Router)
	GetBalance(ctx *fiber.Ctx) error
	GetTransactions(ctx *fiber.Ctx) error
	RedeemPromo(ctx *fiber.Ctx) error
}

type creditController struct {
	creditService service.ICreditService
}

func NewCreditController(creditService service.ICreditService) ICreditController {
	return &creditController{
		creditService: creditService,
	}
}

func (c *creditController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/credits")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.GetBalance)
	h.Get("/transactions", c.GetTransactions)

	p := r.Group("/promo")
	p.Use(serverutils.JwtMiddleware)
	p.Post("/redeem", c.RedeemPromo)
}

func (c *creditController) GetBalance(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.creditService.GetBalance(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching balance", res))
}

func (c *creditController) GetTransactions(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.creditService.GetTransactions(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching transactions", res))
}

func (c *creditController) RedeemPromo(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.RedeemPromoRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.creditService.RedeemPromo(ctx.Context(), userId, &req)
	if err != nil {
		if errors.Is(err, service.ErrPromoNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		if errors.Is(err, service.ErrPromoAlreadyUsed) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Promo code redeemed", res))
}
