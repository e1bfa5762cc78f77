package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	flag "github.com/spf13/pflag"

	formadoc "github.com/yleroy/go-formadoc"
	"github.com/yleroy/go-formadoc/internal/store"
)

// docsFlags holds flags for the docs command.
type docsFlags struct {
	config   string
	session  string
	category string
	remove   string
}

func parseDocsFlags(args []string) (*docsFlags, error) {
	fs := flag.NewFlagSet("docs", flag.ContinueOnError)
	f := &docsFlags{}
	fs.StringVarP(&f.config, "config", "c", "", "config file path or name")
	fs.StringVarP(&f.session, "session", "s", "", "session identifier")
	fs.StringVar(&f.category, "category", store.CategoryAttestation, "document category: attestation or convention")
	fs.StringVar(&f.remove, "delete", "", "delete the document with this identifier")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	if f.session == "" && f.remove == "" {
		return nil, fmt.Errorf("%w: docs requires --session or --delete", errUsage)
	}
	return f, nil
}

// runDocs lists or deletes generated documents. With a backend configured
// the backend is authoritative; otherwise the local store index is used.
func runDocs(ctx context.Context, args []string, logger *slog.Logger) error {
	f, err := parseDocsFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(f.config)
	if err != nil {
		return err
	}

	if cfg.Backend.BaseURL != "" {
		return docsViaBackend(ctx, cfg.Backend.BaseURL, f)
	}
	if cfg.Store.Path == "" {
		return fmt.Errorf("%w: docs requires a backend or a store path", errUsage)
	}
	return docsViaStore(ctx, cfg.Store.Path, f)
}

func docsViaBackend(ctx context.Context, baseURL string, f *docsFlags) error {
	client := formadoc.NewClient(baseURL, nil)

	if f.remove != "" {
		if err := client.DeleteDocument(ctx, f.remove, f.category); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", f.remove)
		return nil
	}

	refs, err := client.ListDocuments(ctx, f.session, f.category)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFILE\tGENERATED")
	for _, ref := range refs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ref.ID, ref.FileName, ref.DateGeneration)
	}
	return w.Flush()
}

func docsViaStore(ctx context.Context, storePath string, f *docsFlags) error {
	db, err := store.Open(storePath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if f.remove != "" {
		if err := db.DeleteDocument(ctx, f.remove); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", f.remove)
		return nil
	}

	docs, err := db.ListDocuments(ctx, f.session, f.category)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFILE\tGENERATED")
	for _, doc := range docs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", doc.ID, doc.FileName, doc.GeneratedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
