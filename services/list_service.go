package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskhive/apperrors"
	"taskhive/models"
)

// ListService owns all reads and writes of to-do lists. Every mutating
// method derives the caller's effective role first and rejects before any
// row is touched; HTTP handlers never carry their own permission logic.
type ListService struct {
	DB     *gorm.DB
	Logger *logrus.Entry
}

func NewListService(db *gorm.DB, logger *logrus.Entry) *ListService {
	return &ListService{DB: db, Logger: logger}
}

// Create makes caller the owner of a new list. The owner is never stored
// as a participant row.
func (s *ListService) Create(caller *models.User, name string) (*models.TodoList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("name", "must not be empty")
	}

	list := models.TodoList{
		PublicID: uuid.New().String(),
		Name:     name,
		OwnerID:  caller.ID,
		OwnerUID: caller.UID,
	}
	if err := s.DB.Create(&list).Error; err != nil {
		return nil, apperrors.Backend("create list", err)
	}

	s.Logger.WithFields(logrus.Fields{
		"list_id": list.PublicID,
		"owner":   caller.UID,
	}).Info("list created")
	return &list, nil
}

// ForUser returns every list the user can read: the ones they own plus the
// ones they participate in.
func (s *ListService) ForUser(caller *models.User) ([]models.TodoList, error) {
	memberOf := s.DB.Model(&models.Participant{}).
		Select("list_id").
		Where("user_id = ?", caller.ID)

	var lists []models.TodoList
	if err := s.DB.Preload("Participants").
		Where("owner_id = ? OR id IN (?)", caller.ID, memberOf).
		Order("created_at").
		Find(&lists).Error; err != nil {
		return nil, apperrors.Backend("fetch lists", err)
	}
	return lists, nil
}

// Get returns one list with its participants, provided the caller has at
// least viewer access.
func (s *ListService) Get(caller *models.User, listID string) (*models.TodoList, error) {
	list, err := s.byPublicID(listID)
	if err != nil {
		return nil, err
	}
	if !models.CanReadList(models.EffectiveRole(caller, list, list.Participants)) {
		return nil, apperrors.Forbidden("read this list")
	}
	return list, nil
}

// Rename changes the list name. Owner or admin participant only.
func (s *ListService) Rename(caller *models.User, listID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.Validation("name", "must not be empty")
	}

	list, err := s.byPublicID(listID)
	if err != nil {
		return err
	}
	if !models.CanMutateTasks(models.EffectiveRole(caller, list, list.Participants)) {
		return apperrors.Forbidden("rename this list")
	}

	if err := s.DB.Model(list).Update("name", name).Error; err != nil {
		return apperrors.Backend("rename list", err)
	}
	return nil
}

// Delete removes the list together with every task and participant row
// that references it, in one transaction. A partial cascade is never left
// behind: any failure rolls the whole delete back and surfaces.
func (s *ListService) Delete(caller *models.User, listID string) error {
	list, err := s.byPublicID(listID)
	if err != nil {
		return err
	}
	if !models.CanMutateTasks(models.EffectiveRole(caller, list, list.Participants)) {
		return apperrors.Forbidden("delete this list")
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", list.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("list_id = ?", list.ID).Delete(&models.Participant{}).Error; err != nil {
			return err
		}
		return tx.Delete(list).Error
	})
	if err != nil {
		return apperrors.Backend("delete list", err)
	}

	s.Logger.WithFields(logrus.Fields{
		"list_id": list.PublicID,
		"caller":  caller.UID,
	}).Info("list deleted")
	return nil
}

func (s *ListService) byPublicID(listID string) (*models.TodoList, error) {
	var list models.TodoList
	err := s.DB.Preload("Participants").Where("public_id = ?", listID).First(&list).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("list")
	}
	if err != nil {
		return nil, apperrors.Backend("fetch list", err)
	}
	return &list, nil
}
