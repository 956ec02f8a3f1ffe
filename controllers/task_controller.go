package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskhive/models"
	"taskhive/services"
	"taskhive/utils"
)

type TaskController struct {
	Tasks  *services.TaskService
	Logger *logrus.Entry
}

func NewTaskController(db *gorm.DB, logger *logrus.Entry) *TaskController {
	lists := services.NewListService(db, logger)
	return &TaskController{
		Tasks:  services.NewTaskService(db, logger, lists),
		Logger: logger,
	}
}

// CreateTask adds a task to a list
func (tc *TaskController) CreateTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Title       string `json:"title" validate:"required,max=500"`
		Description string `json:"description" validate:"omitempty,max=5000"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	task, err := tc.Tasks.Create(user, c.Params("id"), input.Title, input.Description)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(task))
}

// GetTasks returns all tasks of a list
func (tc *TaskController) GetTasks(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	tasks, err := tc.Tasks.ForList(user, c.Params("id"))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(utils.SuccessResponse(tasks))
}

// UpdateTask applies a partial update to a task. Viewers may only toggle
// completion.
func (tc *TaskController) UpdateTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Title       *string `json:"title" validate:"omitempty,max=500"`
		Description *string `json:"description" validate:"omitempty,max=5000"`
		Completed   *bool   `json:"completed"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	task, err := tc.Tasks.Update(user, c.Params("id"), services.TaskUpdate{
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
	})
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(utils.SuccessResponse(task))
}

// DeleteTask removes a task
func (tc *TaskController) DeleteTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	if err := tc.Tasks.Delete(user, c.Params("id")); err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Task deleted"})
}
