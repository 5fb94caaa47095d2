package deadline

import (
	"fmt"
	"regexp"
	"time"
)

// GraceCitation is the statutory grace-period citation embedded verbatim in
// every alert body.
const GraceCitation = "De conformidad con el art. 135.1 LEC, la presentación de escritos y documentos podrá efectuarse hasta las quince horas del día hábil siguiente al del vencimiento del plazo."

// tokenPattern matches {placeholder} tokens in title and description
// templates.
var tokenPattern = regexp.MustCompile(`\{[a-zA-Z][a-zA-Z0-9]*\}`)

// RenderTemplate substitutes {token} placeholders using the supplied mapping.
// Unresolved tokens are left verbatim in the output; malformed templates stay
// visible instead of silently blanking.
func RenderTemplate(tpl string, tokens map[string]string) string {
	return tokenPattern.ReplaceAllStringFunc(tpl, func(match string) string {
		name := match[1 : len(match)-1]
		if val, ok := tokens[name]; ok {
			return val
		}
		return match
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Email rendering
// ─────────────────────────────────────────────────────────────────────────────

// EmailContent is the rendered subject/HTML/text triple handed to the mail
// collaborator.
type EmailContent struct {
	Subject  string
	HTMLBody string
	TextBody string
}

// urgencyBand maps the alert's hours-before-deadline onto a fixed subject
// prefix and accent color, mirroring the 6h/24h/48h tiering.
func urgencyBand(hoursBeforeDeadline float64) (prefix, color string) {
	switch {
	case hoursBeforeDeadline <= 6:
		return "[CRÍTICO]", "#dc2626"
	case hoursBeforeDeadline <= 24:
		return "[URGENTE]", "#ea580c"
	default:
		return "[AVISO]", "#d97706"
	}
}

// GenerateAlertEmailContent renders a deterministic email for an alert.  The
// output is a pure function of the alert's fields.
func GenerateAlertEmailContent(a *PendingAlert) *EmailContent {
	prefix, color := urgencyBand(a.HoursBeforeDeadline)

	deadline := a.DeadlineDate.Format("02/01/2006")
	subject := fmt.Sprintf("%s Plazo procesal %s — vence el %s", prefix, a.ProcedureNumber, deadline)

	grace := ""
	graceText := ""
	if a.GracePeriodEnd != nil {
		grace = fmt.Sprintf("<p><strong>Fin del plazo de gracia:</strong> %s</p>",
			a.GracePeriodEnd.Format("02/01/2006"))
		graceText = fmt.Sprintf("Fin del plazo de gracia: %s\n", a.GracePeriodEnd.Format("02/01/2006"))
	}

	htmlBody := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif;">
<div style="border-left: 4px solid %s; padding: 12px 16px;">
<h2 style="color: %s; margin-top: 0;">%s Plazo procesal próximo a vencer</h2>
<p><strong>Asunto:</strong> %s</p>
<p><strong>Procedimiento:</strong> %s</p>
<p><strong>Órgano judicial:</strong> %s</p>
<p><strong>Fecha límite:</strong> %s</p>
%s<p style="font-size: 12px; color: #6b7280;">%s</p>
</div>
</body></html>`,
		color, color, prefix, a.Title, a.ProcedureNumber, a.Court, deadline, grace, GraceCitation)

	textBody := fmt.Sprintf(`%s Plazo procesal próximo a vencer

Asunto: %s
Procedimiento: %s
Órgano judicial: %s
Fecha límite: %s
%s
%s`,
		prefix, a.Title, a.ProcedureNumber, a.Court, deadline, graceText, GraceCitation)

	return &EmailContent{
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	}
}

// scheduledAtHour places a date at the given local hour, preserving the
// calendar date in loc.
func scheduledAtHour(d time.Time, hour int, loc *time.Location) time.Time {
	local := d.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)
}
