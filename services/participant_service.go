package services

import (
	"errors"
	"strings"

	"github.com/badoux/checkmail"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskhive/apperrors"
	"taskhive/models"
)

// ParticipantService manages who can see a list and with which role.
type ParticipantService struct {
	DB     *gorm.DB
	Logger *logrus.Entry
	Lists  *ListService

	// SendInvite is called after a successful add. Failures are logged,
	// never returned: mail delivery must not fail the grant.
	SendInvite func(to, listName, inviterName, role string) error
}

func NewParticipantService(db *gorm.DB, logger *logrus.Entry, lists *ListService) *ParticipantService {
	return &ParticipantService{DB: db, Logger: logger, Lists: lists}
}

// List returns the participants of a list. Viewer access suffices.
func (s *ParticipantService) List(caller *models.User, listID string) ([]models.Participant, error) {
	list, err := s.Lists.Get(caller, listID)
	if err != nil {
		return nil, err
	}
	return list.Participants, nil
}

// Add grants a registered user access to a list by email. The email must
// resolve to an existing account; unknown addresses fail with not-found
// and leave no row behind.
func (s *ParticipantService) Add(caller *models.User, listID, email, role string) (*models.Participant, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := checkmail.ValidateFormat(email); err != nil {
		return nil, apperrors.Validation("email", "must be a valid email address")
	}
	if !models.ValidParticipantRole(role) {
		return nil, apperrors.Validation("role", "must be admin or viewer")
	}

	list, err := s.Lists.byPublicID(listID)
	if err != nil {
		return nil, err
	}
	if !models.CanManageParticipants(models.EffectiveRole(caller, list, list.Participants)) {
		return nil, apperrors.Forbidden("manage participants of this list")
	}

	var target models.User
	err = s.DB.Where("email = ?", email).First(&target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user")
	}
	if err != nil {
		return nil, apperrors.Backend("lookup user", err)
	}

	if target.ID == list.OwnerID {
		return nil, apperrors.Conflict("user already owns this list")
	}
	for _, p := range list.Participants {
		if p.UserID == target.ID {
			return nil, apperrors.Conflict("user is already a participant")
		}
	}

	participant := models.Participant{
		ListID:  list.ID,
		UserID:  target.ID,
		UserUID: target.UID,
		Email:   email,
		Role:    role,
	}
	if err := s.DB.Create(&participant).Error; err != nil {
		// Two concurrent grants can both pass the scan above; the unique
		// index decides the loser
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("user is already a participant")
		}
		return nil, apperrors.Backend("add participant", err)
	}

	s.Logger.WithFields(logrus.Fields{
		"list_id": list.PublicID,
		"uid":     target.UID,
		"role":    role,
	}).Info("participant added")

	sendInvite := s.SendInvite
	if sendInvite != nil {
		if err := sendInvite(email, list.Name, caller.Name, role); err != nil {
			s.Logger.WithError(err).WithField("email", email).Warn("invite email failed")
		}
	}
	return &participant, nil
}

// Remove revokes a participant's access. The owner is not a participant
// row and cannot be removed through this path.
func (s *ParticipantService) Remove(caller *models.User, listID, uid string) error {
	list, err := s.Lists.byPublicID(listID)
	if err != nil {
		return err
	}
	if !models.CanManageParticipants(models.EffectiveRole(caller, list, list.Participants)) {
		return apperrors.Forbidden("manage participants of this list")
	}
	if uid == list.OwnerUID {
		return apperrors.Forbidden("remove the list owner")
	}

	participant, err := s.byListAndUID(list, uid)
	if err != nil {
		return err
	}
	// Hard delete: a revoked grant keeps no history, and the composite
	// unique index must not block a later re-grant.
	if err := s.DB.Unscoped().Delete(participant).Error; err != nil {
		return apperrors.Backend("remove participant", err)
	}
	return nil
}

// ChangeRole switches a participant between admin and viewer.
func (s *ParticipantService) ChangeRole(caller *models.User, listID, uid, role string) error {
	if !models.ValidParticipantRole(role) {
		return apperrors.Validation("role", "must be admin or viewer")
	}

	list, err := s.Lists.byPublicID(listID)
	if err != nil {
		return err
	}
	if !models.CanManageParticipants(models.EffectiveRole(caller, list, list.Participants)) {
		return apperrors.Forbidden("manage participants of this list")
	}

	participant, err := s.byListAndUID(list, uid)
	if err != nil {
		return err
	}
	if err := s.DB.Model(participant).Update("role", role).Error; err != nil {
		return apperrors.Backend("change participant role", err)
	}
	return nil
}

func (s *ParticipantService) byListAndUID(list *models.TodoList, uid string) (*models.Participant, error) {
	for i := range list.Participants {
		if list.Participants[i].UserUID == uid {
			return &list.Participants[i], nil
		}
	}
	return nil, apperrors.NotFound("participant")
}
