package formadoc

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/yleroy/go-formadoc/internal/pipeline"
)

// Party identifies one contracting party of a convention.
type Party struct {
	Name           string
	Address        string
	Representative string
}

// ScheduleEntry is one calendar line of a training engagement.
type ScheduleEntry struct {
	Date  string // ISO date
	Start string // "09:00"
	End   string // "17:00"
}

// PricingRow is one line of the pricing table.
type PricingRow struct {
	Label  string
	Amount string
}

// Convention describes one training engagement between the provider and a
// beneficiary company. Clauses hold the free-text legal sections as
// Markdown.
type Convention struct {
	SessionID     string         `json:"sessionId"`
	Provider      Party          `json:"provider"`
	Company       Party          `json:"company"`
	CourseName    string         `json:"courseName"`
	StartDate     string         `json:"startDate"` // ISO date
	EndDate       string         `json:"endDate"`   // ISO date
	DurationHours float64        `json:"durationHours"`
	Location      string         `json:"location"`
	Schedule      []ScheduleEntry `json:"schedule"`
	Participants  []Recipient    `json:"participants"`
	Pricing       []PricingRow   `json:"pricing"`
	Clauses       string         `json:"clauses"`
	SignatureDate string         `json:"signatureDate"` // ISO date
}

// Validate rejects a convention with no identifiable parties or course.
func (c Convention) Validate() error {
	if c.Company.Name == "" && c.CourseName == "" {
		return ErrEmptyConvention
	}
	return nil
}

// FileName derives the artifact name:
// Convention_{company}_{course}_{dd-mm-yyyy}.pdf.
func (c Convention) FileName() string {
	date := c.SignatureDate
	if date == "" {
		date = c.StartDate
	}
	return ConventionFileName(c.Company.Name, c.CourseName, date)
}

// ConventionOption configures a ConventionRenderer.
type ConventionOption func(*ConventionRenderer)

// WithRenderTimeout sets the per-render timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithRenderTimeout(d time.Duration) ConventionOption {
	if d <= 0 {
		panic("formadoc: WithRenderTimeout duration must be positive")
	}
	return func(r *ConventionRenderer) { r.timeout = d }
}

// defaultRenderTimeout bounds a single Chrome render.
const defaultRenderTimeout = 30 * time.Second

// ConventionRenderer turns a Convention into a paginated PDF: structured
// sections through the embedded HTML template set, clauses through
// Markdown conversion, and the assembled document through headless Chrome.
// Create with NewConventionRenderer and Close when done.
type ConventionRenderer struct {
	timeout   time.Duration
	builder   *pipeline.ConventionBuilder
	clauses   pipeline.ClauseConverter
	converter pdfConverter
}

// NewConventionRenderer creates a ConventionRenderer with default
// configuration.
func NewConventionRenderer(opts ...ConventionOption) (*ConventionRenderer, error) {
	builder, err := pipeline.NewConventionBuilder()
	if err != nil {
		return nil, fmt.Errorf("initializing convention builder: %w", err)
	}

	r := &ConventionRenderer{
		timeout: defaultRenderTimeout,
		builder: builder,
		clauses: pipeline.NewGoldmarkClauses(),
	}
	for _, opt := range opts {
		opt(r)
	}

	// Created late so tests can inject a fake converter.
	if r.converter == nil {
		r.converter = newRodConverter(r.timeout)
	}
	return r, nil
}

// Render builds the convention HTML and renders it to a paginated PDF.
// The context is used for cancellation and timeout.
func (r *ConventionRenderer) Render(ctx context.Context, conv Convention) ([]byte, error) {
	html, err := r.BuildHTML(ctx, conv)
	if err != nil {
		return nil, err
	}

	pdf, err := r.converter.ToPDF(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("rendering convention: %w", err)
	}
	return pdf, nil
}

// BuildHTML assembles the full convention document without rendering it,
// for debugging and tests.
func (r *ConventionRenderer) BuildHTML(ctx context.Context, conv Convention) (string, error) {
	if err := conv.Validate(); err != nil {
		return "", err
	}

	clausesHTML, err := r.clauses.ToHTML(ctx, conv.Clauses)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConventionHTML, err)
	}

	html, err := r.builder.Build(ctx, toConventionData(conv, clausesHTML))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConventionHTML, err)
	}
	return html, nil
}

// Close releases resources (headless Chrome browser).
func (r *ConventionRenderer) Close() error {
	if r.converter != nil {
		return r.converter.Close()
	}
	return nil
}

// toConventionData formats the public Convention into template input.
func toConventionData(conv Convention, clausesHTML string) pipeline.ConventionData {
	schedule := make([]pipeline.ScheduleRow, len(conv.Schedule))
	for i, s := range conv.Schedule {
		schedule[i] = pipeline.ScheduleRow{
			Date:  FormatDate(s.Date),
			Start: s.Start,
			End:   s.End,
		}
	}
	participants := make([]pipeline.ParticipantRow, len(conv.Participants))
	for i, p := range conv.Participants {
		participants[i] = pipeline.ParticipantRow{
			LastName:  p.LastName,
			FirstName: p.FirstName,
			Company:   p.Company,
		}
	}
	pricing := make([]pipeline.PricingRow, len(conv.Pricing))
	for i, p := range conv.Pricing {
		pricing[i] = pipeline.PricingRow(p)
	}

	return pipeline.ConventionData{
		SessionID:     conv.SessionID,
		Provider:      pipeline.PartyData(conv.Provider),
		Company:       pipeline.PartyData(conv.Company),
		CourseName:    conv.CourseName,
		StartDate:     FormatDate(conv.StartDate),
		EndDate:       FormatDate(conv.EndDate),
		Duration:      FormatHours(conv.DurationHours),
		Location:      conv.Location,
		Schedule:      schedule,
		Participants:  participants,
		Pricing:       pricing,
		ClausesHTML:   template.HTML(clausesHTML), // #nosec G203 -- produced by goldmark from trusted clause input
		SignatureDate: FormatDate(conv.SignatureDate),
	}
}
