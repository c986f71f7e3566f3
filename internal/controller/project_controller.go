// FILE: internal/controller/project_controller.go
package controller

import (
	"errors"

	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/pkg/serverutils"
	"ai-imagestudio-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IProjectController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Generate(ctx *fiber.Ctx) error
}

type projectController struct {
	projectService    service.IProjectService
	generationService service.IGenerationService
}

func NewProjectController(projectService service.IProjectService, generationService service.IGenerationService) IProjectController {
	return &projectController{
		projectService:    projectService,
		generationService: generationService,
	}
}

func (c *projectController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/projects")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
	h.Post(":id/generate", c.Generate)
}

// Create makes a credit-funded project: one credit is debited atomically
// before anything is stored.
func (c *projectController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateProjectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "multipart form required"))
	}
	files := form.File["images"]

	res, err := c.projectService.CreateWithCredits(ctx.Context(), userId, &req, files)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientCredits) {
			return ctx.Status(fiber.StatusPaymentRequired).JSON(serverutils.ErrorResponse(402, err.Error()))
		}
		if errors.Is(err, service.ErrNoInputImages) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create project", res))
}

func (c *projectController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.projectService.List(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list projects", res))
}

func (c *projectController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	projectId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid project id"))
	}

	res, err := c.projectService.Get(ctx.Context(), userId, projectId)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show project", res))
}

func (c *projectController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	projectId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid project id"))
	}

	if err := c.projectService.Delete(ctx.Context(), userId, projectId); err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete project", nil))
}

func (c *projectController) Generate(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	projectId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid project id"))
	}

	res, err := c.generationService.Generate(ctx.Context(), userId, projectId)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProjectNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		case errors.Is(err, service.ErrPaymentRequired):
			return ctx.Status(fiber.StatusPaymentRequired).JSON(serverutils.ErrorResponse(402, err.Error()))
		case errors.Is(err, service.ErrAlreadyCompleted):
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		case errors.Is(err, service.ErrGenerationInProgress):
			return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Generation complete", res))
}
