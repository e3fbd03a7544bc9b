package http

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/gamenight/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type voteRequest struct {
	OptionID uuid.UUID `json:"option_id" validate:"required"`
}

// VoteOnPoll godoc
// @Summary      Votes for one option of an active poll
// @Description  Voting twice for the same option returns the existing vote with 200.
// @Tags         votes
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Poll ID"
// @Success      201  {object}  domain.Vote
// @Success      200  {object}  domain.Vote
// @Failure      404
// @Failure      409
// @Router       /api/polls/{id}/votes [post]
func (h *VoteHandler) VoteOnPoll(w http.ResponseWriter, r *http.Request) {
	pollID, err := pollIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req voteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	input := ports.VoteInput{
		PollID:   pollID,
		OptionID: req.OptionID,
	}

	vote, created, err := h.service.Vote(r.Context(), PrincipalFrom(r.Context()), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, vote)
}
