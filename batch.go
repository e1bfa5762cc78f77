package formadoc

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"
)

// documentComposer abstracts per-recipient composition to allow fakes in
// tests.
type documentComposer interface {
	Compose(fields CommonFields, recipient Recipient, template, signature []byte) ([]byte, error)
}

// Compile-time interface implementation checks.
var _ documentComposer = (*Compositor)(nil)

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithLayout replaces the embedded default layout schema.
func WithLayout(layout *Layout) GeneratorOption {
	return func(g *Generator) { g.layout = layout }
}

// WithUploader enables remote delivery of each generated artifact.
func WithUploader(u Uploader) GeneratorOption {
	return func(g *Generator) { g.uploader = u }
}

// WithLocalSaver enables the save-to-disk delivery effect.
func WithLocalSaver(s *LocalSaver) GeneratorOption {
	return func(g *Generator) { g.saver = s }
}

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) { g.logger = logger }
}

// Generator orchestrates attestation batches: fetch master assets once,
// compose sequentially per recipient, archive, then deliver. Composition is
// sequential because every recipient reuses the template import pipeline;
// there is no concurrency contract for parallel draws.
type Generator struct {
	layout     *Layout
	source     AssetSource
	compositor documentComposer
	uploader   Uploader
	saver      *LocalSaver
	logger     *slog.Logger
	now        func() time.Time
}

// NewGenerator creates a Generator reading master assets from source.
func NewGenerator(source AssetSource, opts ...GeneratorOption) *Generator {
	g := &Generator{
		layout: DefaultLayout(),
		source: source,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	// Created late so WithLayout applies (tests inject their own composer).
	if g.compositor == nil {
		g.compositor = NewCompositor(g.layout)
	}
	return g
}

// BatchInput carries one generation request: a shared field set and the
// ordered recipients it applies to.
type BatchInput struct {
	Fields     CommonFields
	Recipients []Recipient
}

// SkippedRecipient records one recipient whose composition failed. The
// failure is recoverable: the batch continued without them.
type SkippedRecipient struct {
	Recipient Recipient
	Err       error
}

// BatchResult is the outcome of one generation batch. The invariant
// len(Artifacts) + len(Skipped) == len(input.Recipients) always holds on a
// non-error return.
type BatchResult struct {
	Artifacts  []Artifact
	Skipped    []SkippedRecipient
	Archive    []byte
	Deliveries []DeliveryReport
	LocalPath  string // where the archive was saved, if a saver is set
}

// GenerateOne composes, and then delivers, a single recipient's
// attestation. The artifact is returned directly for immediate download;
// the delivery report carries the independent upload and save outcomes.
func (g *Generator) GenerateOne(ctx context.Context, fields CommonFields, recipient Recipient) (*Artifact, *DeliveryReport, error) {
	if err := fields.Validate(); err != nil {
		return nil, nil, err
	}

	template, signature, err := g.fetchAssets(ctx)
	if err != nil {
		return nil, nil, err
	}

	data, err := g.compositor.Compose(fields, recipient, template, signature)
	if err != nil {
		g.logger.Error("attestation composition failed",
			"recipient", recipient.FullName(), "error", err)
		return nil, nil, err
	}

	artifact := Artifact{
		Name:      AttestationFileName(recipient),
		SessionID: fields.SessionID,
		Generated: g.now(),
		Data:      data,
	}
	report := g.deliver(ctx, artifact)
	return &artifact, &report, nil
}

// GenerateBatch runs the full pipeline for a recipient list: compose each
// recipient onto a fresh template copy, collect per-recipient results, zip
// the successes, and only then deliver. Cancellation is honored between
// recipients and abandons the batch before any delivery happens.
func (g *Generator) GenerateBatch(ctx context.Context, input BatchInput) (*BatchResult, error) {
	if err := input.Fields.Validate(); err != nil {
		return nil, err
	}
	if len(input.Recipients) == 0 {
		return nil, ErrNoRecipients
	}

	template, signature, err := g.fetchAssets(ctx)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{}

	// Phase 1: compose. Recipients are independent; one failure skips that
	// recipient only.
	for _, recipient := range input.Recipients {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := g.compositor.Compose(input.Fields, recipient, template, signature)
		if err != nil {
			g.logger.Warn("recipient skipped",
				"recipient", recipient.FullName(), "error", err)
			result.Skipped = append(result.Skipped, SkippedRecipient{Recipient: recipient, Err: err})
			continue
		}

		result.Artifacts = append(result.Artifacts, Artifact{
			Name:      AttestationFileName(recipient),
			SessionID: input.Fields.SessionID,
			Generated: g.now(),
			Data:      data,
		})
	}

	// Phase 2: archive one named entry per successful recipient.
	archive, err := buildArchive(result.Artifacts)
	if err != nil {
		return nil, err
	}
	result.Archive = archive

	// Phase 3: deliver. Remote upload per artifact; the archive is offered
	// as a single local download. Delivery failures are reported, never
	// retried, and never undo earlier effects.
	for _, artifact := range result.Artifacts {
		if g.uploader == nil {
			continue
		}
		report := DeliveryReport{Name: artifact.Name}
		if err := g.uploader.Upload(ctx, artifact); err != nil {
			g.logger.Error("artifact upload failed",
				"artifact", artifact.Name, "error", err)
			report.UploadErr = err
		}
		result.Deliveries = append(result.Deliveries, report)
	}

	if g.saver != nil {
		archiveArtifact := Artifact{
			Name:      ArchiveFileName,
			SessionID: input.Fields.SessionID,
			Generated: g.now(),
			Data:      result.Archive,
		}
		path, err := g.saver.Save(archiveArtifact)
		if err != nil {
			g.logger.Error("archive save failed", "error", err)
			result.Deliveries = append(result.Deliveries, DeliveryReport{
				Name:    ArchiveFileName,
				SaveErr: err,
			})
		} else {
			result.LocalPath = path
		}
	}

	return result, nil
}

// fetchAssets loads the template and signature master data. Any failure
// here is fatal to the batch: it cannot be recovered per recipient.
func (g *Generator) fetchAssets(ctx context.Context) (template, signature []byte, err error) {
	template, err = g.source.Template(ctx)
	if err != nil {
		return nil, nil, err
	}
	signature, err = g.source.Signature(ctx)
	if err != nil {
		return nil, nil, err
	}
	return template, signature, nil
}

// deliver applies the two independent delivery effects for one artifact.
func (g *Generator) deliver(ctx context.Context, artifact Artifact) DeliveryReport {
	report := DeliveryReport{Name: artifact.Name}

	if g.uploader != nil {
		if err := g.uploader.Upload(ctx, artifact); err != nil {
			g.logger.Error("artifact upload failed",
				"artifact", artifact.Name, "error", err)
			report.UploadErr = err
		}
	}

	if g.saver != nil {
		if _, err := g.saver.Save(artifact); err != nil {
			g.logger.Error("artifact save failed",
				"artifact", artifact.Name, "error", err)
			report.SaveErr = err
		}
	}

	return report
}

// buildArchive zips artifacts into a single archive with one entry each.
func buildArchive(artifacts []Artifact) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, artifact := range artifacts {
		entry, err := w.Create(artifact.Name)
		if err != nil {
			return nil, fmt.Errorf("creating archive entry %s: %w", artifact.Name, err)
		}
		if _, err := entry.Write(artifact.Data); err != nil {
			return nil, fmt.Errorf("writing archive entry %s: %w", artifact.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}
	return buf.Bytes(), nil
}
