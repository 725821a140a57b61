package view

import (
	"bytes"
	"html/template"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Valid reports whether s is one of the four known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// NotificationModel is a toast ready to render.
type NotificationModel struct {
	Message  string
	Severity Severity
}

// Classes unknown severities fall back to the info styling.
func (n NotificationModel) Classes() string {
	switch n.Severity {
	case SeveritySuccess:
		return "bg-green-500 text-white"
	case SeverityError:
		return "bg-red-500 text-white"
	case SeverityWarning:
		return "bg-yellow-500 text-white"
	default:
		return "bg-blue-500 text-white"
	}
}

func (n NotificationModel) Icon() string {
	switch n.Severity {
	case SeveritySuccess:
		return "fa-check-circle"
	case SeverityError:
		return "fa-exclamation-circle"
	case SeverityWarning:
		return "fa-exclamation-triangle"
	default:
		return "fa-info-circle"
	}
}

var notificationTmpl = template.Must(template.New("notification").Parse(notificationHTML))

// Notification renders a toast. The message is HTML-escaped.
func Notification(n NotificationModel) (template.HTML, error) {
	var buf bytes.Buffer
	if err := notificationTmpl.Execute(&buf, n); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}
