package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
	"github.com/vncsmyrnk/gamenight/internal/core/ports"
)

func TestParseOptions(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("infers kinds", func(t *testing.T) {
		options, verr := parseOptions([]ports.RawOption{
			{Value: "2026-05-08T19:30"},
			{Value: "2026-05-09T20:00:00+02:00"},
			{Value: "Tuesday"},
			{Value: "2026-13-45T99:99"},
		}, now)
		require.Nil(t, verr)
		require.Len(t, options, 4)

		assert.Equal(t, domain.OptionDateTime, options[0].Kind)
		assert.True(t, options[0].DateTime.Equal(time.Date(2026, 5, 8, 19, 30, 0, 0, time.UTC)))
		assert.Empty(t, options[0].Text)

		assert.Equal(t, domain.OptionDateTime, options[1].Kind)
		assert.Equal(t, time.UTC, options[1].DateTime.Location())
		assert.Equal(t, 18, options[1].DateTime.Hour())

		assert.Equal(t, domain.OptionText, options[2].Kind)
		assert.Equal(t, "2026-13-45T99:99", options[3].Text)

		for i, opt := range options {
			assert.Equal(t, i+1, opt.Position)
			assert.Equal(t, now, opt.CreatedAt)
		}
	})

	t.Run("short date-like text stays text", func(t *testing.T) {
		options, verr := parseOptions([]ports.RawOption{{Value: "2026-05-08"}}, now)
		require.Nil(t, verr)
		assert.Equal(t, domain.OptionText, options[0].Kind)
	})

	t.Run("explicit kinds are honored", func(t *testing.T) {
		options, verr := parseOptions([]ports.RawOption{
			{Kind: domain.OptionText, Value: "2026-05-08T19:30"},
			{Kind: domain.OptionDateTime, Value: "2026-05-08 19:30"},
		}, now)
		require.Nil(t, verr)
		assert.Equal(t, domain.OptionText, options[0].Kind)
		assert.Equal(t, domain.OptionDateTime, options[1].Kind)
	})

	t.Run("reports every bad entry", func(t *testing.T) {
		_, verr := parseOptions([]ports.RawOption{
			{Kind: domain.OptionDateTime, Value: "soon"},
			{Value: "fine"},
			{Kind: "emoji", Value: "x"},
		}, now)
		require.NotNil(t, verr)
		assert.Len(t, verr.Fields, 2)
		assert.Contains(t, verr.Fields, "options[0]")
		assert.Contains(t, verr.Fields, "options[2]")
	})

	t.Run("blank values are skipped", func(t *testing.T) {
		options, verr := parseOptions([]ports.RawOption{{Value: " "}, {Value: "a"}, {Value: ""}}, now)
		require.Nil(t, verr)
		require.Len(t, options, 1)
		assert.Equal(t, 1, options[0].Position)
	})
}
