package models

// ListRole is the effective role of a user with respect to one list.
type ListRole string

const (
	ListRoleOwner  ListRole = "owner"
	ListRoleAdmin  ListRole = "admin"
	ListRoleViewer ListRole = "viewer"
	ListRoleNone   ListRole = "none"
)

// EffectiveRole derives what a user may do with a list. Ownership wins
// regardless of participant rows; otherwise the participant row decides;
// otherwise the user has no access at all. Pure function, no database
// access: callers load the participant set themselves.
func EffectiveRole(user *User, list *TodoList, participants []Participant) ListRole {
	if user == nil || list == nil {
		return ListRoleNone
	}
	if user.ID == list.OwnerID {
		return ListRoleOwner
	}
	for _, p := range participants {
		if p.UserID == user.ID {
			if p.Role == RoleAdmin {
				return ListRoleAdmin
			}
			return ListRoleViewer
		}
	}
	return ListRoleNone
}

// CanManageParticipants reports whether role may add, remove, or re-role
// participants.
func CanManageParticipants(role ListRole) bool {
	return role == ListRoleOwner || role == ListRoleAdmin
}

// CanMutateTasks reports whether role may create or delete tasks and edit
// task fields other than completion. It also gates list rename and delete.
func CanMutateTasks(role ListRole) bool {
	return role == ListRoleOwner || role == ListRoleAdmin
}

// CanToggleCompletion reports whether role may flip a task's completed
// flag. Viewers can.
func CanToggleCompletion(role ListRole) bool {
	return role != ListRoleNone
}

// CanReadList reports whether role may see the list and its tasks.
func CanReadList(role ListRole) bool {
	return role != ListRoleNone
}
