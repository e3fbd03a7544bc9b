// Package policy decides whether a principal may perform an action on a poll.
//
// Decisions are pure: they depend only on the principal and poll passed in,
// which callers load fresh for every request.
package policy

import "github.com/vncsmyrnk/gamenight/internal/core/domain"

type Action int

const (
	CreatePoll Action = iota
	ViewPoll
	Vote
	AddOption
	RemoveOption
	DeletePoll
	ViewVoters
	ManageUsers
)

func (a Action) String() string {
	switch a {
	case CreatePoll:
		return "create_poll"
	case ViewPoll:
		return "view_poll"
	case Vote:
		return "vote"
	case AddOption:
		return "add_option"
	case RemoveOption:
		return "remove_option"
	case DeletePoll:
		return "delete_poll"
	case ViewVoters:
		return "view_voters"
	case ManageUsers:
		return "manage_users"
	}
	return "unknown"
}

// Can reports whether p may perform action on poll. poll may be nil for
// actions that are not tied to a poll (CreatePoll, ManageUsers).
//
// Whether the poll is still active is not checked here; expired polls are a
// state precondition reported as domain.ErrPollExpired by the services.
func Can(p domain.Principal, poll *domain.Poll, action Action) bool {
	if !p.Authenticated() {
		return false
	}

	switch action {
	case CreatePoll, ViewPoll, Vote:
		return true
	case AddOption, RemoveOption, DeletePoll, ViewVoters:
		if poll == nil {
			return false
		}
		return p.IsAdmin || p.UserID == poll.CreatorID
	case ManageUsers:
		return p.IsAdmin
	}
	return false
}
