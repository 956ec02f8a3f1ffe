package models

// Task belongs to exactly one list. ListID never changes after creation.
type Task struct {
	Base

	PublicID string `gorm:"uniqueIndex;not null;size:36" json:"id"`

	ListID       uint   `gorm:"not null;index" json:"-"`
	ListPublicID string `gorm:"not null;size:36" json:"list_id"`
	Title        string `gorm:"not null" json:"title"`
	Description  string `json:"description"`
	Completed    bool   `gorm:"default:false" json:"completed"`
	CreatedByID  uint   `gorm:"not null" json:"-"`
	CreatedByUID string `gorm:"not null;size:36" json:"created_by"`

	// Relations
	List TodoList `json:"-"`
}
