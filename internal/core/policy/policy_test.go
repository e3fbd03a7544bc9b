package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
)

func TestCan(t *testing.T) {
	creator := domain.Principal{UserID: uuid.New(), Username: "creator"}
	member := domain.Principal{UserID: uuid.New(), Username: "member"}
	admin := domain.Principal{UserID: uuid.New(), Username: "admin", IsAdmin: true}
	anonymous := domain.Principal{}

	poll := &domain.Poll{ID: uuid.New(), CreatorID: creator.UserID}

	tests := []struct {
		name      string
		principal domain.Principal
		poll      *domain.Poll
		action    Action
		want      bool
	}{
		{"member creates poll", member, nil, CreatePoll, true},
		{"anonymous cannot create poll", anonymous, nil, CreatePoll, false},
		{"member votes", member, poll, Vote, true},
		{"anonymous cannot vote", anonymous, poll, Vote, false},
		{"member views poll", member, poll, ViewPoll, true},

		{"creator adds option", creator, poll, AddOption, true},
		{"admin adds option", admin, poll, AddOption, true},
		{"member cannot add option", member, poll, AddOption, false},

		{"creator removes option", creator, poll, RemoveOption, true},
		{"admin removes option", admin, poll, RemoveOption, true},
		{"member cannot remove option", member, poll, RemoveOption, false},

		{"creator deletes poll", creator, poll, DeletePoll, true},
		{"admin deletes poll", admin, poll, DeletePoll, true},
		{"member cannot delete poll", member, poll, DeletePoll, false},

		{"creator views voters", creator, poll, ViewVoters, true},
		{"admin views voters", admin, poll, ViewVoters, true},
		{"member cannot view voters", member, poll, ViewVoters, false},
		{"poll action without poll", admin, nil, DeletePoll, false},

		{"admin manages users", admin, nil, ManageUsers, true},
		{"creator cannot manage users", creator, nil, ManageUsers, false},
		{"member cannot manage users", member, nil, ManageUsers, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Can(tt.principal, tt.poll, tt.action))
		})
	}
}

func TestCan_RoleChangeTakesEffectImmediately(t *testing.T) {
	p := domain.Principal{UserID: uuid.New()}
	poll := &domain.Poll{CreatorID: uuid.New()}

	assert.False(t, Can(p, poll, DeletePoll))

	p.IsAdmin = true
	assert.True(t, Can(p, poll, DeletePoll))
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "remove_option", RemoveOption.String())
	assert.Equal(t, "manage_users", ManageUsers.String())
	assert.Equal(t, "unknown", Action(99).String())
}
