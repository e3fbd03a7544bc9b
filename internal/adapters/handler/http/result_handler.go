package http

import (
	"net/http"

	"github.com/vncsmyrnk/gamenight/internal/core/ports"
)

type ResultHandler struct {
	service ports.ResultService
}

func NewResultHandler(service ports.ResultService) *ResultHandler {
	return &ResultHandler{
		service: service,
	}
}

// GetResults godoc
// @Summary      Current tally of a poll
// @Description  Per-option counts and percentages, the leading option and the caller's votes.
// @Tags         results
// @Produce      json
// @Param        id  path  string  true  "Poll ID"
// @Success      200  {object}  domain.PollResults
// @Failure      404
// @Router       /api/polls/{id}/results [get]
func (h *ResultHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	pollID, err := pollIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	results, err := h.service.Results(r.Context(), PrincipalFrom(r.Context()), pollID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// GetVoters godoc
// @Summary      Who voted for each option
// @Description  Restricted to the poll creator and admins.
// @Tags         results
// @Produce      json
// @Param        id  path  string  true  "Poll ID"
// @Success      200  {array}  domain.OptionVoters
// @Failure      403
// @Failure      404
// @Router       /api/polls/{id}/voters [get]
func (h *ResultHandler) GetVoters(w http.ResponseWriter, r *http.Request) {
	pollID, err := pollIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	voters, err := h.service.Voters(r.Context(), PrincipalFrom(r.Context()), pollID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, voters)
}
