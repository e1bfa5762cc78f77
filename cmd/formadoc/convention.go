package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	flag "github.com/spf13/pflag"

	formadoc "github.com/yleroy/go-formadoc"
	"github.com/yleroy/go-formadoc/internal/store"
	"github.com/yleroy/go-formadoc/internal/yamlutil"
)

// conventionFlags holds flags for the convention command.
type conventionFlags struct {
	config  string
	session string
	input   string
	out     string
	workers int
}

func parseConventionFlags(args []string) (*conventionFlags, error) {
	fs := flag.NewFlagSet("convention", flag.ContinueOnError)
	f := &conventionFlags{}
	fs.StringVarP(&f.config, "config", "c", "", "config file path or name")
	fs.StringVarP(&f.session, "session", "s", "", "session identifier for backend prefill (repeatable via comma)")
	fs.StringVarP(&f.input, "input", "i", "", "YAML file describing the convention (offline mode)")
	fs.StringVarP(&f.out, "out", "o", "", "output directory (overrides config)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "browser instances for multi-session generation (0 = auto)")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	if f.session == "" && f.input == "" {
		return nil, fmt.Errorf("%w: convention requires --session or --input", errUsage)
	}
	return f, nil
}

func runConvention(ctx context.Context, args []string, logger *slog.Logger) error {
	f, err := parseConventionFlags(args)
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

	conventions, err := resolveConventions(ctx, cfg.Backend.BaseURL, f)
	if err != nil {
		return err
	}

	saver := formadoc.NewLocalSaver(cfg.Output.Dir)
	var uploader formadoc.Uploader
	if cfg.Backend.UploadURL != "" {
		uploader = formadoc.NewHTTPUploader(cfg.Backend.UploadURL)
	}

	pool := formadoc.NewRendererPool(formadoc.ResolvePoolSize(f.workers))
	defer func() { _ = pool.Close() }()

	return renderAll(ctx, libraryPool{pool}, conventions, saver, uploader, cfg.Store.Path, logger)
}

// sessionRenderer abstracts convention rendering for testability.
type sessionRenderer interface {
	Render(ctx context.Context, conv formadoc.Convention) ([]byte, error)
}

// Compile-time interface implementation check.
var _ sessionRenderer = (*formadoc.ConventionRenderer)(nil)

// rendererPool abstracts pool operations for testability.
type rendererPool interface {
	Acquire() (sessionRenderer, error)
	Release(sessionRenderer)
	Size() int
}

// libraryPool adapts formadoc.RendererPool to the rendererPool interface.
type libraryPool struct {
	p *formadoc.RendererPool
}

func (l libraryPool) Acquire() (sessionRenderer, error) { return l.p.Acquire() }

func (l libraryPool) Release(r sessionRenderer) {
	if cr, ok := r.(*formadoc.ConventionRenderer); ok {
		l.p.Release(cr)
	}
}

func (l libraryPool) Size() int { return l.p.Size() }

// renderAll fans the conventions out across the renderer pool. Each worker
// holds one renderer for all its jobs, so --workers bounds the number of
// concurrent browser instances.
func renderAll(ctx context.Context, pool rendererPool, conventions []formadoc.Convention, saver *formadoc.LocalSaver, uploader formadoc.Uploader, storePath string, logger *slog.Logger) error {
	concurrency := min(pool.Size(), len(conventions))

	results := make([]error, len(conventions))
	jobs := make(chan int, len(conventions))
	var wg sync.WaitGroup

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			renderer, err := pool.Acquire()
			if err != nil {
				// Renderer creation failed, mark this worker's jobs as failed
				for idx := range jobs {
					results[idx] = err
				}
				return
			}
			defer pool.Release(renderer)

			for idx := range jobs {
				if cerr := ctx.Err(); cerr != nil {
					results[idx] = cerr
					continue
				}
				results[idx] = renderConvention(ctx, renderer, conventions[idx], saver, uploader, storePath, logger)
			}
		}()
	}

	for i := range conventions {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return errors.Join(results...)
}

func renderConvention(ctx context.Context, renderer sessionRenderer, conv formadoc.Convention, saver *formadoc.LocalSaver, uploader formadoc.Uploader, storePath string, logger *slog.Logger) error {
	pdf, err := renderer.Render(ctx, conv)
	if err != nil {
		return err
	}

	artifact := formadoc.Artifact{
		Name:      conv.FileName(),
		SessionID: conv.SessionID,
		Generated: time.Now(),
		Data:      pdf,
	}

	path, err := saver.Save(artifact)
	if err != nil {
		return err
	}
	fmt.Printf("Generated %s\n", path)

	// Upload failure is reported distinctly and never retracts the local file.
	if uploader != nil {
		if err := uploader.Upload(ctx, artifact); err != nil {
			logger.Error("convention upload failed", "artifact", artifact.Name, "error", err)
			fmt.Fprintf(os.Stderr, "upload failed for %s: %v\n", artifact.Name, err)
		}
	}

	if storePath != "" {
		db, err := store.Open(storePath)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		if _, err := db.RecordDocument(ctx, store.Document{
			SessionID:   conv.SessionID,
			Category:    store.CategoryConvention,
			FileName:    artifact.Name,
			GeneratedAt: artifact.Generated,
		}); err != nil {
			logger.Warn("recording convention failed", "error", err)
		}
	}
	return nil
}

// conventionYAML is the offline input format for one convention.
type conventionYAML struct {
	SessionID string `yaml:"sessionId"`
	Provider  struct {
		Name           string `yaml:"name"`
		Address        string `yaml:"address"`
		Representative string `yaml:"representative"`
	} `yaml:"provider"`
	Company struct {
		Name           string `yaml:"name"`
		Address        string `yaml:"address"`
		Representative string `yaml:"representative"`
	} `yaml:"company"`
	CourseName    string  `yaml:"courseName"`
	StartDate     string  `yaml:"startDate"`
	EndDate       string  `yaml:"endDate"`
	DurationHours float64 `yaml:"durationHours"`
	Location      string  `yaml:"location"`
	Schedule      []struct {
		Date  string `yaml:"date"`
		Start string `yaml:"start"`
		End   string `yaml:"end"`
	} `yaml:"schedule"`
	Participants []struct {
		LastName  string `yaml:"lastName"`
		FirstName string `yaml:"firstName"`
		Company   string `yaml:"company"`
	} `yaml:"participants"`
	Pricing []struct {
		Label  string `yaml:"label"`
		Amount string `yaml:"amount"`
	} `yaml:"pricing"`
	Clauses       string `yaml:"clauses"`
	SignatureDate string `yaml:"signatureDate"`
}

// resolveConventions fetches prefill data per session, or reads the offline
// input file.
func resolveConventions(ctx context.Context, baseURL string, f *conventionFlags) ([]formadoc.Convention, error) {
	if f.session != "" && baseURL != "" {
		client := formadoc.NewClient(baseURL, nil)
		var out []formadoc.Convention
		for _, session := range splitSessions(f.session) {
			prefill, err := client.FetchConventionPrefill(ctx, session)
			if err != nil {
				return nil, err
			}
			conv := prefill.Convention
			if conv.SessionID == "" {
				conv.SessionID = session
			}
			out = append(out, conv)
		}
		return out, nil
	}

	if f.input == "" {
		return nil, fmt.Errorf("%w: no backend configured; use --input", errUsage)
	}

	data, err := os.ReadFile(f.input) // #nosec G304 -- input path is user-provided
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}
	var file conventionYAML
	if err := yamlutil.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	return []formadoc.Convention{toConvention(file)}, nil
}

// splitSessions parses the repeatable --session value.
func splitSessions(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func toConvention(file conventionYAML) formadoc.Convention {
	conv := formadoc.Convention{
		SessionID:     file.SessionID,
		Provider:      formadoc.Party(file.Provider),
		Company:       formadoc.Party(file.Company),
		CourseName:    file.CourseName,
		StartDate:     file.StartDate,
		EndDate:       file.EndDate,
		DurationHours: file.DurationHours,
		Location:      file.Location,
		Clauses:       file.Clauses,
		SignatureDate: file.SignatureDate,
	}
	for _, s := range file.Schedule {
		conv.Schedule = append(conv.Schedule, formadoc.ScheduleEntry(s))
	}
	for _, p := range file.Participants {
		conv.Participants = append(conv.Participants, formadoc.Recipient(p))
	}
	for _, p := range file.Pricing {
		conv.Pricing = append(conv.Pricing, formadoc.PricingRow(p))
	}
	return conv
}
