package pipeline

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/convention.html templates/convention.css
var templateFS embed.FS

// ErrConventionRender indicates the convention template failed to render.
var ErrConventionRender = errors.New("convention template rendering failed")

// PartyData identifies one contracting party.
type PartyData struct {
	Name           string
	Address        string
	Representative string
}

// ScheduleRow is one calendar line of the engagement.
type ScheduleRow struct {
	Date  string
	Start string
	End   string
}

// ParticipantRow is one participant line.
type ParticipantRow struct {
	LastName  string
	FirstName string
	Company   string
}

// PricingRow is one pricing line.
type PricingRow struct {
	Label  string
	Amount string
}

// ConventionData is the fully formatted input for the convention template.
// All dates arrive as display strings; formatting belongs to the caller.
type ConventionData struct {
	SessionID     string
	Provider      PartyData
	Company       PartyData
	CourseName    string
	StartDate     string
	EndDate       string
	Duration      string
	Location      string
	Schedule      []ScheduleRow
	Participants  []ParticipantRow
	Pricing       []PricingRow
	ClausesHTML   template.HTML
	SignatureDate string
}

// ConventionBuilder renders the embedded convention template set.
type ConventionBuilder struct {
	tmpl *template.Template
	css  string
}

// NewConventionBuilder parses the embedded template set. The embedded
// assets are covered by tests, so a parse failure is a build defect.
func NewConventionBuilder() (*ConventionBuilder, error) {
	raw, err := templateFS.ReadFile("templates/convention.html")
	if err != nil {
		return nil, fmt.Errorf("reading embedded convention template: %w", err)
	}
	tmpl, err := template.New("convention").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing convention template: %w", err)
	}
	css, err := templateFS.ReadFile("templates/convention.css")
	if err != nil {
		return nil, fmt.Errorf("reading embedded convention styles: %w", err)
	}
	return &ConventionBuilder{tmpl: tmpl, css: string(css)}, nil
}

// Build renders the convention document with its stylesheet injected.
func (b *ConventionBuilder) Build(ctx context.Context, data ConventionData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrConventionRender, err)
	}
	return InjectCSS(buf.String(), b.css), nil
}

// InjectCSS inserts a <style> block into HTML content. Tries </head> first,
// then after <body>, then prepends. CSS is sanitized so it cannot close the
// style tag early.
func InjectCSS(htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
