package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Render returns the subject and HTML body of the email for ev.
func Render(ev Event) (string, string, error) {
	var (
		name    string
		subject string
	)
	switch ev.Kind {
	case KindStatus:
		name = "status.html"
		subject = fmt.Sprintf("Parcel #%d is now %s", ev.ParcelID, ev.Status)
	case KindLocation:
		name = "location.html"
		subject = fmt.Sprintf("Parcel #%d location update", ev.ParcelID)
	default:
		return "", "", Permanent(fmt.Errorf("unknown notification kind %q", ev.Kind))
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, ev); err != nil {
		return "", "", Permanent(fmt.Errorf("render %s: %w", name, err))
	}
	return subject, buf.String(), nil
}
