package models

// Participant roles scoped to a single list.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// ValidParticipantRole reports whether role is one of the grantable
// per-list roles. Owner is implicit and never stored as a participant row.
func ValidParticipantRole(role string) bool {
	return role == RoleAdmin || role == RoleViewer
}

// TodoList is a shared task list. The owner has irrevocable admin-level
// access; everyone else goes through the participants table.
type TodoList struct {
	Base

	PublicID string `gorm:"uniqueIndex;not null;size:36" json:"id"`
	Name     string `gorm:"not null" json:"name"`

	OwnerID  uint   `gorm:"not null;index" json:"-"`
	OwnerUID string `gorm:"not null;size:36" json:"owner_id"`

	// Relations
	Owner        User          `json:"-"`
	Participants []Participant `gorm:"foreignKey:ListID" json:"participants,omitempty"`
}

// Participant grants one user access to one list. The composite unique
// index keeps a user from being granted access twice; rows are keyed by
// user id rather than email because emails can change and uids cannot.
type Participant struct {
	Base

	ListID uint `gorm:"not null;uniqueIndex:idx_participants_list_user" json:"-"`
	UserID uint `gorm:"not null;uniqueIndex:idx_participants_list_user" json:"-"`

	UserUID string `gorm:"not null;size:36" json:"uid"`
	Email   string `gorm:"not null" json:"email"` // email used at grant time, informational once resolved
	Role    string `gorm:"not null;default:'viewer'" json:"role"`

	// Relations
	List TodoList `json:"-"`
	User User     `json:"-"`
}
