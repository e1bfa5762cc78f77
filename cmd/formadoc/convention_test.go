package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	formadoc "github.com/yleroy/go-formadoc"
)

// fakeSessionRenderer records rendered sessions and can fail one of them.
type fakeSessionRenderer struct {
	mu      sync.Mutex
	renders []string
	failFor string
	err     error
}

func (f *fakeSessionRenderer) Render(_ context.Context, conv formadoc.Convention) ([]byte, error) {
	f.mu.Lock()
	f.renders = append(f.renders, conv.SessionID)
	f.mu.Unlock()
	if f.failFor != "" && conv.SessionID == f.failFor {
		return nil, f.err
	}
	return []byte("%PDF-fake"), nil
}

func (f *fakeSessionRenderer) renderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.renders)
}

// fakeRendererPool hands out one shared fake renderer and counts traffic.
type fakeRendererPool struct {
	size       int
	renderer   *fakeSessionRenderer
	acquireErr error

	mu       sync.Mutex
	acquired int
	released int
}

func (f *fakeRendererPool) Acquire() (sessionRenderer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.acquireErr != nil {
		return nil, f.acquireErr
	}
	f.acquired++
	return f.renderer, nil
}

func (f *fakeRendererPool) Release(sessionRenderer) {
	f.mu.Lock()
	f.released++
	f.mu.Unlock()
}

func (f *fakeRendererPool) Size() int { return f.size }

func testConventions(n int) []formadoc.Convention {
	out := make([]formadoc.Convention, n)
	for i := range out {
		out[i] = formadoc.Convention{
			SessionID:  fmt.Sprintf("sess-%d", i),
			Provider:   formadoc.Party{Name: "FormaPro"},
			Company:    formadoc.Party{Name: fmt.Sprintf("Acme %d", i)},
			CourseName: "Go avance",
			StartDate:  "2024-03-01",
			EndDate:    "2024-03-05",
		}
	}
	return out
}

func TestRenderAll(t *testing.T) {
	t.Parallel()

	discard := slog.New(slog.DiscardHandler)

	t.Run("renders every session across pool workers", func(t *testing.T) {
		t.Parallel()

		renderer := &fakeSessionRenderer{}
		pool := &fakeRendererPool{size: 2, renderer: renderer}
		dir := t.TempDir()

		err := renderAll(context.Background(), pool, testConventions(3),
			formadoc.NewLocalSaver(dir), nil, "", discard)
		if err != nil {
			t.Fatalf("renderAll() error = %v", err)
		}
		if got := renderer.renderCount(); got != 3 {
			t.Errorf("renders = %d, want 3", got)
		}
		entries, readErr := os.ReadDir(dir)
		if readErr != nil {
			t.Fatal(readErr)
		}
		if len(entries) != 3 {
			t.Errorf("saved files = %d, want 3", len(entries))
		}
		if pool.acquired != 2 || pool.released != 2 {
			t.Errorf("acquired = %d, released = %d, want 2 and 2", pool.acquired, pool.released)
		}
	})

	t.Run("single convention acquires a single renderer", func(t *testing.T) {
		t.Parallel()

		pool := &fakeRendererPool{size: 4, renderer: &fakeSessionRenderer{}}
		err := renderAll(context.Background(), pool, testConventions(1),
			formadoc.NewLocalSaver(t.TempDir()), nil, "", discard)
		if err != nil {
			t.Fatalf("renderAll() error = %v", err)
		}
		if pool.acquired != 1 {
			t.Errorf("acquired = %d, want 1", pool.acquired)
		}
	})

	t.Run("acquire failure fails the batch", func(t *testing.T) {
		t.Parallel()

		acquireErr := errors.New("browser launch failed")
		pool := &fakeRendererPool{size: 1, acquireErr: acquireErr}
		err := renderAll(context.Background(), pool, testConventions(2),
			formadoc.NewLocalSaver(t.TempDir()), nil, "", discard)
		if !errors.Is(err, acquireErr) {
			t.Fatalf("renderAll() error = %v, want %v", err, acquireErr)
		}
	})

	t.Run("one failing session does not stop the others", func(t *testing.T) {
		t.Parallel()

		renderErr := errors.New("page load failed")
		renderer := &fakeSessionRenderer{failFor: "sess-1", err: renderErr}
		pool := &fakeRendererPool{size: 1, renderer: renderer}
		dir := t.TempDir()

		err := renderAll(context.Background(), pool, testConventions(3),
			formadoc.NewLocalSaver(dir), nil, "", discard)
		if !errors.Is(err, renderErr) {
			t.Fatalf("renderAll() error = %v, want %v", err, renderErr)
		}
		if got := renderer.renderCount(); got != 3 {
			t.Errorf("renders = %d, want 3", got)
		}
		entries, readErr := os.ReadDir(dir)
		if readErr != nil {
			t.Fatal(readErr)
		}
		if len(entries) != 2 {
			t.Errorf("saved files = %d, want 2", len(entries))
		}
	})

	t.Run("cancelled context marks remaining sessions", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		renderer := &fakeSessionRenderer{}
		pool := &fakeRendererPool{size: 1, renderer: renderer}
		err := renderAll(ctx, pool, testConventions(2),
			formadoc.NewLocalSaver(t.TempDir()), nil, "", discard)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("renderAll() error = %v, want %v", err, context.Canceled)
		}
		if got := renderer.renderCount(); got != 0 {
			t.Errorf("renders = %d, want 0", got)
		}
	})
}
