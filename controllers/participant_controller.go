package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskhive/models"
	"taskhive/services"
	"taskhive/utils"
)

type ParticipantController struct {
	Participants *services.ParticipantService
	Logger       *logrus.Entry
}

func NewParticipantController(db *gorm.DB, logger *logrus.Entry) *ParticipantController {
	lists := services.NewListService(db, logger)
	svc := services.NewParticipantService(db, logger, lists)
	svc.SendInvite = utils.SendListInviteEmail
	return &ParticipantController{
		Participants: svc,
		Logger:       logger,
	}
}

// GetParticipants lists who has access to a list
func (pc *ParticipantController) GetParticipants(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	participants, err := pc.Participants.List(user, c.Params("id"))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(utils.SuccessResponse(participants))
}

// AddParticipant grants a registered user access to a list by email
func (pc *ParticipantController) AddParticipant(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Email string `json:"email" validate:"required,email"`
		Role  string `json:"role" validate:"required,oneof=admin viewer"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	participant, err := pc.Participants.Add(user, c.Params("id"), input.Email, input.Role)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(participant))
}

// RemoveParticipant revokes a participant's access
func (pc *ParticipantController) RemoveParticipant(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	if err := pc.Participants.Remove(user, c.Params("id"), c.Params("uid")); err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Participant removed"})
}

// ChangeParticipantRole switches a participant between admin and viewer
func (pc *ParticipantController) ChangeParticipantRole(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Role string `json:"role" validate:"required,oneof=admin viewer"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if err := pc.Participants.ChangeRole(user, c.Params("id"), c.Params("uid"), input.Role); err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Role updated"})
}
