package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	formadoc "github.com/yleroy/go-formadoc"
	"github.com/yleroy/go-formadoc/internal/store"
	"github.com/yleroy/go-formadoc/internal/yamlutil"
)

// attestFlags holds flags for the attest command.
type attestFlags struct {
	config  string
	session string
	input   string
	out     string
	single  string
	notify  string
}

// batchFile is the offline input format: one field set plus recipients.
type batchFile struct {
	Fields struct {
		SessionID          string  `yaml:"sessionId"`
		OrganizationName   string  `yaml:"organizationName"`
		DispenserName      string  `yaml:"dispenserName"`
		RepresentativeName string  `yaml:"representativeName"`
		ActionTitle        string  `yaml:"actionTitle"`
		ActionNature       string  `yaml:"actionNature"`
		StartDate          string  `yaml:"startDate"`
		EndDate            string  `yaml:"endDate"`
		DurationHours      float64 `yaml:"durationHours"`
		Location           string  `yaml:"location"`
		SignatureDate      string  `yaml:"signatureDate"`
		SignatoryName      string  `yaml:"signatoryName"`
		SignatoryRole      string  `yaml:"signatoryRole"`
	} `yaml:"fields"`
	Recipients []struct {
		LastName  string `yaml:"lastName"`
		FirstName string `yaml:"firstName"`
		Company   string `yaml:"company"`
	} `yaml:"recipients"`
}

func parseAttestFlags(args []string) (*attestFlags, error) {
	fs := flag.NewFlagSet("attest", flag.ContinueOnError)
	f := &attestFlags{}
	fs.StringVarP(&f.config, "config", "c", "", "config file path or name")
	fs.StringVarP(&f.session, "session", "s", "", "session identifier for backend prefill")
	fs.StringVarP(&f.input, "input", "i", "", "YAML file with fields and recipients (offline mode)")
	fs.StringVarP(&f.out, "out", "o", "", "output directory (overrides config)")
	fs.StringVar(&f.single, "single", "", `generate for one recipient only: "Last,First[,Company]"`)
	fs.StringVar(&f.notify, "notify", "", "email address to notify when the batch completes")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	if f.session == "" && f.input == "" {
		return nil, fmt.Errorf("%w: attest requires --session or --input", errUsage)
	}
	return f, nil
}

func runAttest(ctx context.Context, args []string, logger *slog.Logger) error {
	f, err := parseAttestFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(f.config)
	if err != nil {
		return err
	}
	if f.out != "" {
		cfg.Output.Dir = f.out
	}

	input, client, err := resolveBatchInput(ctx, cfg.Backend.BaseURL, f)
	if err != nil {
		return err
	}

	source, err := buildAssetSource(cfg)
	if err != nil {
		return err
	}
	layout, err := buildLayout(cfg)
	if err != nil {
		return err
	}

	opts := []formadoc.GeneratorOption{
		formadoc.WithLayout(layout),
		formadoc.WithLogger(logger),
		formadoc.WithLocalSaver(formadoc.NewLocalSaver(cfg.Output.Dir)),
	}
	if cfg.Backend.UploadURL != "" {
		opts = append(opts, formadoc.WithUploader(formadoc.NewHTTPUploader(cfg.Backend.UploadURL)))
	}
	gen := formadoc.NewGenerator(source, opts...)

	if f.single != "" {
		recipient, err := parseSingleRecipient(f.single)
		if err != nil {
			return err
		}
		return attestOne(ctx, gen, cfg.Store.Path, input.Fields, recipient)
	}

	result, err := gen.GenerateBatch(ctx, input)
	if err != nil {
		return err
	}

	if err := recordArtifacts(ctx, cfg.Store.Path, result.Artifacts); err != nil {
		logger.Warn("recording generated documents failed", "error", err)
	}

	fmt.Printf("Generated %d attestation(s), skipped %d\n", len(result.Artifacts), len(result.Skipped))
	if result.LocalPath != "" {
		fmt.Printf("Archive: %s\n", result.LocalPath)
	}
	for _, skipped := range result.Skipped {
		fmt.Fprintf(os.Stderr, "skipped %s: %v\n", skipped.Recipient.FullName(), skipped.Err)
	}
	for _, delivery := range result.Deliveries {
		if delivery.UploadErr != nil {
			fmt.Fprintf(os.Stderr, "upload failed for %s: %v\n", delivery.Name, delivery.UploadErr)
		}
	}

	if f.notify != "" && client != nil {
		notifyErr := client.SendNotification(ctx, formadoc.Notification{
			To:      f.notify,
			Subject: "Attestations generated",
			Message: fmt.Sprintf("Session %s: %d attestation(s) generated, %d skipped.", input.Fields.SessionID, len(result.Artifacts), len(result.Skipped)),
		})
		if notifyErr != nil {
			logger.Warn("notification failed", "error", notifyErr)
		}
	}
	return nil
}

// attestOne runs the single-recipient path: the artifact is produced and
// delivered immediately.
func attestOne(ctx context.Context, gen *formadoc.Generator, storePath string, fields formadoc.CommonFields, recipient formadoc.Recipient) error {
	artifact, report, err := gen.GenerateOne(ctx, fields, recipient)
	if err != nil {
		return err
	}
	if err := recordArtifacts(ctx, storePath, []formadoc.Artifact{*artifact}); err != nil {
		slog.Warn("recording generated document failed", "error", err)
	}
	fmt.Printf("Generated %s\n", artifact.Name)
	if report.UploadErr != nil {
		fmt.Fprintf(os.Stderr, "upload failed: %v\n", report.UploadErr)
	}
	if report.SaveErr != nil {
		fmt.Fprintf(os.Stderr, "save failed: %v\n", report.SaveErr)
	}
	return nil
}

// resolveBatchInput prefers backend prefill when a session and backend are
// configured, falling back to the offline input file. The backend client is
// returned for follow-up notification calls, nil in offline mode.
func resolveBatchInput(ctx context.Context, baseURL string, f *attestFlags) (formadoc.BatchInput, *formadoc.Client, error) {
	if f.session != "" && baseURL != "" {
		client := formadoc.NewClient(baseURL, nil)
		prefill, err := client.FetchAttestationPrefill(ctx, f.session)
		if err != nil {
			return formadoc.BatchInput{}, nil, err
		}
		input := formadoc.BatchInput{Fields: prefill.Fields, Recipients: prefill.Participants}
		if input.Fields.SessionID == "" {
			input.Fields.SessionID = f.session
		}
		return input, client, nil
	}

	if f.input == "" {
		return formadoc.BatchInput{}, nil, fmt.Errorf("%w: no backend configured; use --input", errUsage)
	}

	data, err := os.ReadFile(f.input) // #nosec G304 -- input path is user-provided
	if err != nil {
		return formadoc.BatchInput{}, nil, fmt.Errorf("reading input file: %w", err)
	}
	var file batchFile
	if err := yamlutil.UnmarshalStrict(data, &file); err != nil {
		return formadoc.BatchInput{}, nil, fmt.Errorf("%w: %v", errUsage, err)
	}

	input := formadoc.BatchInput{
		Fields: formadoc.CommonFields{
			SessionID:          file.Fields.SessionID,
			OrganizationName:   file.Fields.OrganizationName,
			DispenserName:      file.Fields.DispenserName,
			RepresentativeName: file.Fields.RepresentativeName,
			ActionTitle:        file.Fields.ActionTitle,
			ActionNature:       file.Fields.ActionNature,
			StartDate:          file.Fields.StartDate,
			EndDate:            file.Fields.EndDate,
			DurationHours:      file.Fields.DurationHours,
			Location:           file.Fields.Location,
			SignatureDate:      file.Fields.SignatureDate,
			SignatoryName:      file.Fields.SignatoryName,
			SignatoryRole:      file.Fields.SignatoryRole,
		},
	}
	for _, r := range file.Recipients {
		input.Recipients = append(input.Recipients, formadoc.Recipient{
			LastName:  r.LastName,
			FirstName: r.FirstName,
			Company:   r.Company,
		})
	}
	if input.Fields.SessionID == "" {
		input.Fields.SessionID = f.session
	}
	return input, nil, nil
}

// parseSingleRecipient parses "Last,First[,Company]".
func parseSingleRecipient(s string) (formadoc.Recipient, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" {
		return formadoc.Recipient{}, fmt.Errorf("%w: --single expects \"Last,First[,Company]\"", errUsage)
	}
	r := formadoc.Recipient{
		LastName:  strings.TrimSpace(parts[0]),
		FirstName: strings.TrimSpace(parts[1]),
	}
	if len(parts) > 2 {
		r.Company = strings.TrimSpace(parts[2])
	}
	return r, nil
}

// recordArtifacts indexes generated artifacts in the local store, if one is
// configured.
func recordArtifacts(ctx context.Context, storePath string, artifacts []formadoc.Artifact) error {
	if storePath == "" || len(artifacts) == 0 {
		return nil
	}
	db, err := store.Open(storePath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	for _, artifact := range artifacts {
		_, err := db.RecordDocument(ctx, store.Document{
			SessionID:   artifact.SessionID,
			Category:    store.CategoryAttestation,
			FileName:    artifact.Name,
			GeneratedAt: artifact.Generated,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
