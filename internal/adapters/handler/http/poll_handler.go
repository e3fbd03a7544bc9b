package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
	"github.com/vncsmyrnk/gamenight/internal/core/ports"
)

type PollHandler struct {
	service ports.PollService
}

func NewPollHandler(service ports.PollService) *PollHandler {
	return &PollHandler{
		service: service,
	}
}

// optionRequest accepts either a bare string, whose kind is inferred, or an
// object such as {"kind":"datetime","date_time":"2026-05-08T19:30"}.
type optionRequest struct {
	Kind  string `json:"kind" validate:"omitempty,oneof=text datetime"`
	Value string `json:"value"`
}

func (o *optionRequest) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		o.Value = s
		return nil
	}

	var obj struct {
		Kind     string `json:"kind"`
		Value    string `json:"value"`
		Text     string `json:"text"`
		DateTime string `json:"date_time"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}

	o.Kind = obj.Kind
	switch {
	case obj.Value != "":
		o.Value = obj.Value
	case obj.DateTime != "":
		o.Value = obj.DateTime
		if o.Kind == "" {
			o.Kind = string(domain.OptionDateTime)
		}
	default:
		o.Value = obj.Text
		if o.Kind == "" && obj.Text != "" {
			o.Kind = string(domain.OptionText)
		}
	}
	return nil
}

func rawOptions(in []optionRequest) []ports.RawOption {
	out := make([]ports.RawOption, len(in))
	for i, o := range in {
		out[i] = ports.RawOption{Kind: domain.OptionKind(o.Kind), Value: o.Value}
	}
	return out
}

type createPollRequest struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	ExpiresAt   *time.Time      `json:"expires_at"`
	Options     []optionRequest `json:"options" validate:"required,min=2,dive"`
}

type addOptionsRequest struct {
	Options []optionRequest `json:"options" validate:"required,min=1,dive"`
}

type createPollResponse struct {
	ID   uuid.UUID    `json:"id"`
	Poll *domain.Poll `json:"poll"`
}

// ListPolls godoc
// @Summary      Lists polls
// @Description  Newest first. status is one of active (default), expired or all.
// @Tags         polls
// @Produce      json
// @Param        status  query  string  false  "active | expired | all"
// @Success      200  {array}  domain.Poll
// @Failure      400
// @Router       /api/polls [get]
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	input := ports.ListPollsInput{Filter: domain.ListFilter(r.URL.Query().Get("status"))}

	polls, err := h.service.ListPolls(r.Context(), PrincipalFrom(r.Context()), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, polls)
}

// CreatePoll godoc
// @Summary      Creates a poll
// @Tags         polls
// @Accept       json
// @Produce      json
// @Success      201  {object}  createPollResponse
// @Failure      400
// @Router       /api/polls [post]
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	input := ports.CreatePollInput{
		Title:       req.Title,
		Description: req.Description,
		ExpiresAt:   req.ExpiresAt,
		Options:     rawOptions(req.Options),
	}

	poll, err := h.service.Create(r.Context(), PrincipalFrom(r.Context()), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createPollResponse{ID: poll.ID, Poll: poll})
}

// GetPoll godoc
// @Summary      Gets a poll with its options and the caller's votes
// @Tags         polls
// @Produce      json
// @Param        id  path  string  true  "Poll ID"
// @Success      200  {object}  domain.PollView
// @Failure      404
// @Router       /api/polls/{id} [get]
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID, err := pollIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := h.service.GetPoll(r.Context(), PrincipalFrom(r.Context()), pollID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// AddOptions godoc
// @Summary      Appends options to an active poll
// @Description  Only the poll creator or an admin may add options.
// @Tags         polls
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Poll ID"
// @Success      201  {array}  domain.Option
// @Failure      403
// @Failure      409
// @Router       /api/polls/{id}/options [post]
func (h *PollHandler) AddOptions(w http.ResponseWriter, r *http.Request) {
	pollID, err := pollIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req addOptionsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	options, err := h.service.AddOptions(r.Context(), PrincipalFrom(r.Context()), pollID, rawOptions(req.Options))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, options)
}

// RemoveOption godoc
// @Summary      Removes an option and its votes
// @Description  A poll always keeps at least two options.
// @Tags         polls
// @Param        id        path  string  true  "Poll ID"
// @Param        optionID  path  string  true  "Option ID"
// @Success      204
// @Failure      403
// @Failure      409
// @Router       /api/polls/{id}/options/{optionID} [delete]
func (h *PollHandler) RemoveOption(w http.ResponseWriter, r *http.Request) {
	pollID, err := pollIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	optionID, err := uuid.Parse(chi.URLParam(r, "optionID"))
	if err != nil {
		writeError(w, r, domain.NewValidationError("option_id", "invalid option id"))
		return
	}

	if err := h.service.RemoveOption(r.Context(), PrincipalFrom(r.Context()), pollID, optionID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeletePoll godoc
// @Summary      Deletes a poll with its options and votes
// @Tags         polls
// @Param        id  path  string  true  "Poll ID"
// @Success      204
// @Failure      403
// @Failure      404
// @Router       /api/polls/{id} [delete]
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	pollID, err := pollIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), PrincipalFrom(r.Context()), pollID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func pollIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, domain.ErrInvalidPollID
	}
	return id, nil
}
