package task

import (
	"fmt"
	"time"

	"github.com/lexwatch/lexwatch/pkg/errors"
	"github.com/lexwatch/lexwatch/pkg/types/common"
)

// OffsetDirection states which side of the hearing date a template's due date
// falls on.
type OffsetDirection string

const (
	OffsetBefore OffsetDirection = "before"
	OffsetAfter  OffsetDirection = "after"
)

// Template is an office-configurable override of the default hearing-task
// chain.  When any active templates exist for an office they entirely replace
// the built-in chain; there is no merging.
type Template struct {
	ID       common.ID `json:"id"`
	OfficeID string    `json:"office_id"`

	// Code is the office-local identifier of the chain entry.
	Code string `json:"code"`
	Name string `json:"name"`

	Type Type `json:"task_type"`

	// OffsetDays is the non-negative calendar-day distance from the hearing
	// date; OffsetDirection selects before or after.
	OffsetDays      int             `json:"offset_days"`
	OffsetDirection OffsetDirection `json:"offset_direction"`

	// TitleTemplate and DescriptionTemplate may contain {placeholder} tokens
	// ({clientName}, {opposingParty}, {procedureNumber}, {court}).  Unresolved
	// tokens are rendered verbatim.
	TitleTemplate       string `json:"title_template"`
	DescriptionTemplate string `json:"description_template"`

	IsActive bool `json:"is_active"`
}

// Validate checks the template's structural invariants.  A malformed template
// surfaces to the caller of the hearing generator before any task is created.
func (t *Template) Validate() error {
	if t.Code == "" {
		return errors.New(errors.ErrCodeTemplateInvalid, "template code must not be empty")
	}
	if !t.Type.IsValid() {
		return errors.New(errors.ErrCodeTemplateInvalid,
			fmt.Sprintf("template %s has invalid task_type %q", t.Code, t.Type))
	}
	if t.OffsetDays < 0 {
		return errors.New(errors.ErrCodeTemplateInvalid,
			fmt.Sprintf("template %s has negative offset_days %d", t.Code, t.OffsetDays))
	}
	switch t.OffsetDirection {
	case OffsetBefore, OffsetAfter:
	default:
		return errors.New(errors.ErrCodeTemplateInvalid,
			fmt.Sprintf("template %s has invalid offset_direction %q", t.Code, t.OffsetDirection))
	}
	if t.TitleTemplate == "" {
		return errors.New(errors.ErrCodeTemplateInvalid,
			fmt.Sprintf("template %s has empty title_template", t.Code))
	}
	return nil
}

// DueDate computes the template's due date relative to a hearing date using
// plain calendar days, per the chain definition.
func (t *Template) DueDate(hearingDate time.Time) time.Time {
	days := t.OffsetDays
	if t.OffsetDirection == OffsetBefore {
		days = -days
	}
	return hearingDate.AddDate(0, 0, days)
}

// DefaultChain returns the built-in four-step hearing chain used when an
// office has no active templates: preparation at hearing−45 calendar days,
// client meeting at −30, evidence deadline at −15, and the hearing day itself.
func DefaultChain() []*Template {
	return []*Template{
		{
			Code:                "default_preparation",
			Name:                "Preparación del juicio",
			Type:                TypePreparation,
			OffsetDays:          45,
			OffsetDirection:     OffsetBefore,
			TitleTemplate:       "Preparar juicio {procedureNumber}",
			DescriptionTemplate: "Iniciar la preparación del juicio de {clientName} contra {opposingParty} ante {court}.",
			IsActive:            true,
		},
		{
			Code:                "default_client_meeting",
			Name:                "Reunión con el cliente",
			Type:                TypeClientMeeting,
			OffsetDays:          30,
			OffsetDirection:     OffsetBefore,
			TitleTemplate:       "Reunión con {clientName} — juicio {procedureNumber}",
			DescriptionTemplate: "Reunión preparatoria con {clientName} para el procedimiento {procedureNumber}.",
			IsActive:            true,
		},
		{
			Code:                "default_evidence",
			Name:                "Límite de proposición de prueba",
			Type:                TypeEvidenceDeadline,
			OffsetDays:          15,
			OffsetDirection:     OffsetBefore,
			TitleTemplate:       "Presentar pruebas — {procedureNumber}",
			DescriptionTemplate: "Último día para la proposición de prueba en {procedureNumber} ante {court}.",
			IsActive:            true,
		},
		{
			Code:                "default_hearing",
			Name:                "Día del juicio",
			Type:                TypeHearing,
			OffsetDays:          0,
			OffsetDirection:     OffsetBefore,
			TitleTemplate:       "Juicio {procedureNumber} en {court}",
			DescriptionTemplate: "Vista del procedimiento {procedureNumber}: {clientName} contra {opposingParty}.",
			IsActive:            true,
		},
	}
}
