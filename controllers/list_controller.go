package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskhive/models"
	"taskhive/services"
	"taskhive/utils"
)

type ListController struct {
	Lists  *services.ListService
	Logger *logrus.Entry
}

func NewListController(db *gorm.DB, logger *logrus.Entry) *ListController {
	return &ListController{
		Lists:  services.NewListService(db, logger),
		Logger: logger,
	}
}

// CreateList creates a new list owned by the caller
func (lc *ListController) CreateList(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Name string `json:"name" validate:"required,max=200"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	list, err := lc.Lists.Create(user, input.Name)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(list))
}

// GetLists returns every list the caller owns or participates in
func (lc *ListController) GetLists(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	lists, err := lc.Lists.ForUser(user)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(utils.SuccessResponse(lists))
}

// GetList returns a single list with its participants
func (lc *ListController) GetList(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	list, err := lc.Lists.Get(user, c.Params("id"))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(utils.SuccessResponse(list))
}

// RenameList changes a list's name
func (lc *ListController) RenameList(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Name string `json:"name" validate:"required,max=200"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if err := lc.Lists.Rename(user, c.Params("id"), input.Name); err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "List renamed"})
}

// DeleteList deletes a list and everything that references it
func (lc *ListController) DeleteList(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	if err := lc.Lists.Delete(user, c.Params("id")); err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "List deleted"})
}
