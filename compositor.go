package formadoc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"
	"github.com/phpdave11/gofpdf/contrib/gofpdi"
)

// Leading-byte signatures used to select the image embedding path.
var (
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
)

// detectImageFormat inspects the leading bytes of a signature asset and
// returns the gofpdf image type for it. The PNG signature is checked first;
// on mismatch the JPEG path is attempted. Anything else is unsupported and
// the recipient's document is abandoned.
func detectImageFormat(data []byte) (string, error) {
	if bytes.HasPrefix(data, pngMagic) {
		return "PNG", nil
	}
	if bytes.HasPrefix(data, jpegMagic) {
		return "JPG", nil
	}
	return "", ErrUnsupportedImageFormat
}

// Compositor overlays formatted session data and a signature image onto a
// fixed-layout attestation template. The template bytes are read-only master
// data: every recipient's document is drawn onto an independently imported
// copy, so no drawn state ever carries over between recipients.
type Compositor struct {
	layout *Layout
}

// NewCompositor creates a Compositor over a validated layout schema.
func NewCompositor(layout *Layout) *Compositor {
	return &Compositor{layout: layout}
}

// Compose produces the attestation artifact for one recipient.
//
// Signature image errors are recoverable: the caller skips this recipient
// and continues the batch. Template import problems surface as
// ErrComposition; the batch orchestrator treats a template that fails for
// every recipient identically to a failed fetch. Recovers internal gofpdi
// panics into errors so a malformed template cannot crash a batch.
func (c *Compositor) Compose(fields CommonFields, recipient Recipient, template, signature []byte) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w: importing template: %v", ErrComposition, r)
		}
	}()

	imageType, err := detectImageFormat(signature)
	if err != nil {
		return nil, fmt.Errorf("%w: recipient %s", err, recipient.FullName())
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.AddPage()

	// Fresh import per call keeps the master template untouched.
	var rs io.ReadSeeker = bytes.NewReader(template)
	tplID := gofpdi.ImportPageFromStream(pdf, &rs, 1, "/MediaBox")

	pageW, pageH := pdf.GetPageSize()
	gofpdi.UseImportedTemplate(pdf, tplID, 0, 0, pageW, pageH)

	font := c.layout.Font
	pdf.SetFont(font.Family, "", font.Size)
	pdf.SetTextColor(font.Color.R, font.Color.G, font.Color.B)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Fixed iteration order keeps output bytes deterministic for one input.
	values := c.fieldValues(fields, recipient)
	for _, name := range requiredLayoutFields {
		pos, ok := c.layout.Fields[name]
		if !ok {
			continue
		}
		pdf.Text(pos.X, pos.Y, tr(values[name]))
	}

	// Exactly one checkbox, chosen by exact match. An unrecognized nature
	// value marks none.
	if pos, ok := c.layout.Checkboxes[fields.ActionNature]; ok {
		pdf.Text(pos.X, pos.Y, c.layout.CheckboxMark)
	}

	c.drawSignature(pdf, signature, imageType, pageW, pageH)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrComposition, err)
	}
	return buf.Bytes(), nil
}

// fieldValues maps layout field names to their formatted display strings.
// Every absent optional value renders as an empty string.
func (c *Compositor) fieldValues(fields CommonFields, recipient Recipient) map[string]string {
	organization := recipient.Company
	if organization == "" {
		organization = fields.OrganizationName
	}

	return map[string]string{
		"representative": fields.RepresentativeName,
		"beneficiary":    recipient.FullName(),
		"organization":   organization,
		"dispenser":      fields.DispenserName,
		"action_title":   fields.ActionTitle,
		"start_date":     FormatDate(fields.StartDate),
		"end_date":       FormatDate(fields.EndDate),
		"duration":       FormatHours(fields.DurationHours),
		"place":          fields.Location,
		"signature_date": FormatDate(fields.SignatureDate),
		"signatory_name": fields.SignatoryName,
		"signatory_role": fields.SignatoryRole,
	}
}

// drawSignature embeds the signature image in its fixed-size box, anchored
// to the measured page width and a fixed distance from the page bottom.
func (c *Compositor) drawSignature(pdf *gofpdf.Fpdf, signature []byte, imageType string, pageW, pageH float64) {
	box := c.layout.Signature
	opts := gofpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader("signature", opts, bytes.NewReader(signature))
	x := pageW - box.OffsetRight
	y := pageH - box.OffsetBottom
	pdf.ImageOptions("signature", x, y, box.Width, box.Height, false, opts, 0, "")
}
