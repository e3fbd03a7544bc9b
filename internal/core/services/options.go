package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
	"github.com/vncsmyrnk/gamenight/internal/core/ports"
)

const (
	minPollOptions = 2
	maxTitleLength = 200
)

// Accepted date/time option formats. Values without a zone are UTC.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

func parseDateTime(value string) (time.Time, bool) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// looksLikeDateTime mirrors the form heuristic used for options submitted
// without an explicit kind.
func looksLikeDateTime(value string) bool {
	return strings.Contains(value, "T") && len(value) >= 16
}

// parseOptions trims raw options, drops empty ones and normalizes the rest.
// Positions start at 1 and are reassigned by the repository when options are
// appended to an existing poll.
func parseOptions(raw []ports.RawOption, now time.Time) ([]domain.Option, *domain.ValidationError) {
	var verr *domain.ValidationError
	fail := func(i int, msg string) {
		if verr == nil {
			verr = &domain.ValidationError{}
		}
		verr.Add(fmt.Sprintf("options[%d]", i), msg)
	}

	options := make([]domain.Option, 0, len(raw))
	for i, r := range raw {
		value := strings.TrimSpace(r.Value)
		if value == "" {
			continue
		}

		opt := domain.Option{
			ID:        uuid.New(),
			Position:  len(options) + 1,
			CreatedAt: now,
		}

		switch r.Kind {
		case domain.OptionText:
			opt.Kind = domain.OptionText
			opt.Text = value
		case domain.OptionDateTime:
			t, ok := parseDateTime(value)
			if !ok {
				fail(i, fmt.Sprintf("%q is not a valid date/time (use YYYY-MM-DDTHH:MM)", value))
				continue
			}
			opt.Kind = domain.OptionDateTime
			opt.DateTime = &t
		case "":
			if t, ok := parseDateTime(value); ok && looksLikeDateTime(value) {
				opt.Kind = domain.OptionDateTime
				opt.DateTime = &t
			} else {
				opt.Kind = domain.OptionText
				opt.Text = value
			}
		default:
			fail(i, fmt.Sprintf("unknown option kind %q", r.Kind))
			continue
		}

		options = append(options, opt)
	}

	return options, verr
}
