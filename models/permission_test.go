package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func base(id uint) Base {
	return Base{ID: id}
}

func TestEffectiveRole(t *testing.T) {
	owner := &User{Base: base(1), UID: "owner-uid"}
	admin := &User{Base: base(2), UID: "admin-uid"}
	viewer := &User{Base: base(3), UID: "viewer-uid"}
	stranger := &User{Base: base(4), UID: "stranger-uid"}

	list := &TodoList{Base: base(10), PublicID: "list-1", OwnerID: owner.ID, OwnerUID: owner.UID}
	participants := []Participant{
		{ListID: list.ID, UserID: admin.ID, UserUID: admin.UID, Role: RoleAdmin},
		{ListID: list.ID, UserID: viewer.ID, UserUID: viewer.UID, Role: RoleViewer},
	}

	tests := []struct {
		name string
		user *User
		want ListRole
	}{
		{"owner", owner, ListRoleOwner},
		{"admin participant", admin, ListRoleAdmin},
		{"viewer participant", viewer, ListRoleViewer},
		{"stranger", stranger, ListRoleNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveRole(tt.user, list, participants))
		})
	}
}

func TestEffectiveRoleOwnerIgnoresParticipantRows(t *testing.T) {
	owner := &User{Base: base(1), UID: "owner-uid"}
	list := &TodoList{Base: base(10), OwnerID: owner.ID, OwnerUID: owner.UID}

	// A stray participant row for the owner must not demote them
	participants := []Participant{
		{ListID: list.ID, UserID: owner.ID, UserUID: owner.UID, Role: RoleViewer},
	}
	assert.Equal(t, ListRoleOwner, EffectiveRole(owner, list, participants))

	// And ownership holds with no participants at all
	assert.Equal(t, ListRoleOwner, EffectiveRole(owner, list, nil))
}

func TestEffectiveRoleNilInputs(t *testing.T) {
	list := &TodoList{Base: base(10), OwnerID: 1}
	assert.Equal(t, ListRoleNone, EffectiveRole(nil, list, nil))
	assert.Equal(t, ListRoleNone, EffectiveRole(&User{Base: base(2)}, nil, nil))
}

func TestCapabilityPredicates(t *testing.T) {
	tests := []struct {
		role               ListRole
		manageParticipants bool
		mutateTasks        bool
		toggleCompletion   bool
		readList           bool
	}{
		{ListRoleOwner, true, true, true, true},
		{ListRoleAdmin, true, true, true, true},
		{ListRoleViewer, false, false, true, true},
		{ListRoleNone, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.manageParticipants, CanManageParticipants(tt.role))
			assert.Equal(t, tt.mutateTasks, CanMutateTasks(tt.role))
			assert.Equal(t, tt.toggleCompletion, CanToggleCompletion(tt.role))
			assert.Equal(t, tt.readList, CanReadList(tt.role))
		})
	}
}

func TestValidParticipantRole(t *testing.T) {
	assert.True(t, ValidParticipantRole(RoleAdmin))
	assert.True(t, ValidParticipantRole(RoleViewer))
	assert.False(t, ValidParticipantRole("owner"))
	assert.False(t, ValidParticipantRole(""))
}
