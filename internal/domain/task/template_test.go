package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTemplate() *Template {
	return &Template{
		Code:            "tpl_evidence",
		Name:            "Evidence",
		Type:            TypeEvidenceDeadline,
		OffsetDays:      15,
		OffsetDirection: OffsetBefore,
		TitleTemplate:   "Evidence for {procedureNumber}",
		IsActive:        true,
	}
}

func TestTemplate_Validate(t *testing.T) {
	require.NoError(t, validTemplate().Validate())

	cases := []struct {
		name   string
		mutate func(*Template)
	}{
		{"empty code", func(tpl *Template) { tpl.Code = "" }},
		{"invalid type", func(tpl *Template) { tpl.Type = "BOGUS" }},
		{"negative offset", func(tpl *Template) { tpl.OffsetDays = -1 }},
		{"invalid direction", func(tpl *Template) { tpl.OffsetDirection = "sideways" }},
		{"empty title", func(tpl *Template) { tpl.TitleTemplate = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tpl := validTemplate()
			tc.mutate(tpl)
			assert.Error(t, tpl.Validate())
		})
	}
}

func TestTemplate_DueDate(t *testing.T) {
	hearing := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	before := validTemplate()
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), before.DueDate(hearing))

	after := validTemplate()
	after.OffsetDirection = OffsetAfter
	after.OffsetDays = 10
	assert.Equal(t, time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC), after.DueDate(hearing))

	same := validTemplate()
	same.OffsetDays = 0
	assert.Equal(t, hearing, same.DueDate(hearing))
}

func TestDefaultChain_Shape(t *testing.T) {
	chain := DefaultChain()
	require.Len(t, chain, 4)

	hearing := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	wantDates := []time.Time{
		time.Date(2025, 5, 16, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		hearing,
	}
	wantTypes := []Type{TypePreparation, TypeClientMeeting, TypeEvidenceDeadline, TypeHearing}

	for i, tpl := range chain {
		require.NoError(t, tpl.Validate())
		assert.Equal(t, wantTypes[i], tpl.Type)
		assert.Equal(t, wantDates[i], tpl.DueDate(hearing))
	}
}
