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

// TaskUpdate carries a partial task update. Nil fields are untouched.
// Completion toggling is open to viewers; everything else needs
// admin-level access.
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
}

// TaskService owns all reads and writes of tasks, scoped by list.
type TaskService struct {
	DB     *gorm.DB
	Logger *logrus.Entry
	Lists  *ListService
}

func NewTaskService(db *gorm.DB, logger *logrus.Entry, lists *ListService) *TaskService {
	return &TaskService{DB: db, Logger: logger, Lists: lists}
}

// Create adds a task to a list. Owner or admin participant only.
func (s *TaskService) Create(caller *models.User, listID, title, description string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.Validation("title", "must not be empty")
	}

	list, err := s.Lists.byPublicID(listID)
	if err != nil {
		return nil, err
	}
	if !models.CanMutateTasks(models.EffectiveRole(caller, list, list.Participants)) {
		return nil, apperrors.Forbidden("create tasks in this list")
	}

	task := models.Task{
		PublicID:     uuid.New().String(),
		ListID:       list.ID,
		ListPublicID: list.PublicID,
		Title:        title,
		Description:  description,
		CreatedByID:  caller.ID,
		CreatedByUID: caller.UID,
	}
	if err := s.DB.Create(&task).Error; err != nil {
		return nil, apperrors.Backend("create task", err)
	}

	s.Logger.WithFields(logrus.Fields{
		"task_id": task.PublicID,
		"list_id": list.PublicID,
		"caller":  caller.UID,
	}).Info("task created")
	return &task, nil
}

// ForList returns all tasks of a list. Viewer access suffices.
func (s *TaskService) ForList(caller *models.User, listID string) ([]models.Task, error) {
	list, err := s.Lists.byPublicID(listID)
	if err != nil {
		return nil, err
	}
	if !models.CanReadList(models.EffectiveRole(caller, list, list.Participants)) {
		return nil, apperrors.Forbidden("read this list")
	}

	var tasks []models.Task
	if err := s.DB.Where("list_id = ?", list.ID).Order("created_at").Find(&tasks).Error; err != nil {
		return nil, apperrors.Backend("fetch tasks", err)
	}
	return tasks, nil
}

// Update applies a partial update. Viewers may only flip Completed; a
// title or description change at viewer level fails with Forbidden even
// when bundled with a completion toggle.
func (s *TaskService) Update(caller *models.User, taskID string, update TaskUpdate) (*models.Task, error) {
	task, list, err := s.byPublicID(taskID)
	if err != nil {
		return nil, err
	}
	role := models.EffectiveRole(caller, list, list.Participants)

	fields := map[string]interface{}{}
	if update.Title != nil || update.Description != nil {
		if !models.CanMutateTasks(role) {
			return nil, apperrors.Forbidden("edit tasks in this list")
		}
		if update.Title != nil {
			title := strings.TrimSpace(*update.Title)
			if title == "" {
				return nil, apperrors.Validation("title", "must not be empty")
			}
			fields["title"] = title
		}
		if update.Description != nil {
			fields["description"] = *update.Description
		}
	}
	if update.Completed != nil {
		if !models.CanToggleCompletion(role) {
			return nil, apperrors.Forbidden("toggle tasks in this list")
		}
		fields["completed"] = *update.Completed
	}
	if len(fields) == 0 {
		return task, nil
	}

	if err := s.DB.Model(task).Updates(fields).Error; err != nil {
		return nil, apperrors.Backend("update task", err)
	}
	return task, nil
}

// Delete removes a task. Owner or admin participant only.
func (s *TaskService) Delete(caller *models.User, taskID string) error {
	task, list, err := s.byPublicID(taskID)
	if err != nil {
		return err
	}
	if !models.CanMutateTasks(models.EffectiveRole(caller, list, list.Participants)) {
		return apperrors.Forbidden("delete tasks in this list")
	}

	if err := s.DB.Delete(task).Error; err != nil {
		return apperrors.Backend("delete task", err)
	}
	return nil
}

func (s *TaskService) byPublicID(taskID string) (*models.Task, *models.TodoList, error) {
	var task models.Task
	err := s.DB.Where("public_id = ?", taskID).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, apperrors.NotFound("task")
	}
	if err != nil {
		return nil, nil, apperrors.Backend("fetch task", err)
	}

	var list models.TodoList
	if err := s.DB.Preload("Participants").First(&list, task.ListID).Error; err != nil {
		return nil, nil, apperrors.Backend("fetch task list", err)
	}
	return &task, &list, nil
}
