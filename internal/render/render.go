// Package render turns the normalized report dataset into an output document.
// The pipeline treats everything it hands over as a read-only snapshot.
package render

import (
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"

	"github.com/oscar-hpc/groupreport/internal/accounting"
	"github.com/oscar-hpc/groupreport/internal/report"
)

// Document is the full, ordered dataset a renderer consumes.
type Document struct {
	Group       string
	Window      accounting.Window
	GeneratedAt time.Time
	RunID       string

	Summary    report.GroupSummary
	Tiers      []report.Tier
	Partitions []string

	TopStorage []report.RankedEntry
	TopUsage   map[string][]report.RankedEntry

	Pages [][]report.Row
}

// Renderer writes a Document to the given writer.
type Renderer interface {
	Render(w io.Writer, doc Document) error
}

// Text renders the document as a paginated plain-text report.
type Text struct {
	tmpl *template.Template
}

// NewText builds the plain-text renderer.
func NewText() (*Text, error) {
	funcs := sprig.TxtFuncMap()
	funcs["tiers"] = func(r *report.UserRecord) string {
		if len(r.AccountTiers) == 0 {
			return report.NoTiersPlaceholder
		}
		return strings.Join(r.AccountTiers, ",")
	}

	tmpl, err := template.New("report").Funcs(funcs).Parse(textTemplate)
	if err != nil {
		return nil, errors.Wrap(err, "parsing report template")
	}
	return &Text{tmpl: tmpl}, nil
}

// Render implements Renderer.
func (t *Text) Render(w io.Writer, doc Document) error {
	return errors.Wrap(t.tmpl.Execute(w, doc), "rendering report")
}

const textTemplate = `{{ repeat 72 "=" }}
OSCAR RESOURCE USAGE REPORT: {{ .Group }}
Period: {{ .Window }}
Generated: {{ .GeneratedAt.Format "2006-01-02 15:04:05" }} (run {{ .RunID }})
{{ repeat 72 "=" }}

SUMMARY
  Primary members:    {{ .Summary.PrimaryMembers }}
  Secondary members:  {{ .Summary.SecondaryMembers }}
{{- if .Summary.UnknownMembers }}
  Unknown members:    {{ .Summary.UnknownMembers }}
{{- end }}
  Total members:      {{ .Summary.TotalMembers }}
{{- range .Tiers }}
  {{ printf "%-20s" (printf "%s:" .Tag) }}{{ index $.Summary.TierCounts .Tag }}
{{- end }}
  Storage allocation: {{ .Summary.AllocationGB }} GB
  Storage used:       {{ .Summary.UsedGB }} GB
  Storage available:  {{ .Summary.AvailableGB }} GB

TOP STORAGE CONSUMERS (GB)
{{- range .TopStorage }}
  {{ printf "%-24s %12.0f" .Label .Value }}
{{- else }}
  (no storage consumed)
{{- end }}
{{ range $partition := .Partitions }}
TOP USAGE ON {{ upper $partition }} (core-hours)
{{- range index $.TopUsage $partition }}
  {{ printf "%-24s %12.1f" .Label .Value }}
{{- else }}
  (no primary members)
{{- end }}
{{ end }}
{{- range $i, $page := .Pages }}
{{ repeat 72 "-" }}
MEMBERS (page {{ add $i 1 }} of {{ len $.Pages }})
{{ repeat 72 "-" }}
{{ printf "%-12s %-22s %-26s %-20s %6s" "USER" "NAME" "EMAIL" "TIERS" "GB" }}
{{- range $page }}
{{- if .IsHeader }}
[{{ .Label }}]
{{- else }}
{{ printf "%-12s %-22s %-26s %-20s %6d" .Record.Username .Record.Name .Record.Email (tiers .Record) .Record.StorageGB }}
{{- end }}
{{- end }}
{{ end }}`
