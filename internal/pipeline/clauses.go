package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrClauseConversion indicates the legal clauses could not be converted.
var ErrClauseConversion = errors.New("clause conversion failed")

// ClauseConverter abstracts Markdown-to-HTML conversion of legal clauses.
type ClauseConverter interface {
	ToHTML(ctx context.Context, markdown string) (string, error)
}

// GoldmarkClauses converts clause Markdown to an HTML fragment using
// goldmark (pure Go).
type GoldmarkClauses struct {
	md goldmark.Markdown
}

// NewGoldmarkClauses creates a GoldmarkClauses converter. GFM tables are
// enabled because clause text occasionally embeds small tables (payment
// schedules, penalty grids).
func NewGoldmarkClauses() *GoldmarkClauses {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithXHTML()),
	)
	return &GoldmarkClauses{md: md}
}

// ToHTML converts clause Markdown to an HTML fragment. Supports context
// cancellation via goroutine + select since goldmark has no native context
// support.
func (c *GoldmarkClauses) ToHTML(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if markdown == "" {
		return "", nil
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(markdown), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrClauseConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
