package formadoc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientFetchAttestationPrefill(t *testing.T) {
	t.Parallel()

	t.Run("decodes prefill payload", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/sessions/sess-42/attestation" {
				t.Errorf("path = %q", r.URL.Path)
			}
			_ = json.NewEncoder(w).Encode(AttestationPrefill{
				Fields: CommonFields{
					SessionID:     "sess-42",
					ActionTitle:   "Go avancé",
					SignatureDate: "2024-03-05",
				},
				Participants: []Recipient{
					{LastName: "Dupont", FirstName: "Marie"},
				},
			})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, nil)
		prefill, err := c.FetchAttestationPrefill(context.Background(), "sess-42")
		if err != nil {
			t.Fatalf("FetchAttestationPrefill() error = %v", err)
		}
		if prefill.Fields.ActionTitle != "Go avancé" {
			t.Errorf("ActionTitle = %q", prefill.Fields.ActionTitle)
		}
		if len(prefill.Participants) != 1 || prefill.Participants[0].LastName != "Dupont" {
			t.Errorf("Participants = %+v", prefill.Participants)
		}
	})

	t.Run("empty session", func(t *testing.T) {
		t.Parallel()

		c := NewClient("http://backend.invalid", nil)
		_, err := c.FetchAttestationPrefill(context.Background(), "  ")
		if !errors.Is(err, ErrEmptySession) {
			t.Fatalf("error = %v, want %v", err, ErrEmptySession)
		}
	})

	t.Run("backend failure carries status and body snippet", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "session not found", http.StatusNotFound)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, nil)
		_, err := c.FetchAttestationPrefill(context.Background(), "missing")
		if !errors.Is(err, ErrBackendStatus) {
			t.Fatalf("error = %v, want %v", err, ErrBackendStatus)
		}
		if !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "session not found") {
			t.Errorf("error %q missing status or body snippet", err)
		}
	})
}

func TestClientFetchConventionPrefill(t *testing.T) {
	t.Parallel()

	t.Run("decodes convention payload", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/sessions/sess-42/convention" {
				t.Errorf("path = %q", r.URL.Path)
			}
			_ = json.NewEncoder(w).Encode(ConventionPrefill{
				Convention: Convention{
					SessionID:  "sess-42",
					CourseName: "Go avancé",
					Company:    Party{Name: "Acme SARL"},
				},
			})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, nil)
		prefill, err := c.FetchConventionPrefill(context.Background(), "sess-42")
		if err != nil {
			t.Fatalf("FetchConventionPrefill() error = %v", err)
		}
		if prefill.Convention.Company.Name != "Acme SARL" {
			t.Errorf("Company = %+v", prefill.Convention.Company)
		}
	})

	t.Run("empty session", func(t *testing.T) {
		t.Parallel()

		c := NewClient("http://backend.invalid", nil)
		_, err := c.FetchConventionPrefill(context.Background(), "")
		if !errors.Is(err, ErrEmptySession) {
			t.Fatalf("error = %v, want %v", err, ErrEmptySession)
		}
	})
}

func TestClientSendNotification(t *testing.T) {
	t.Parallel()

	var got Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/notifications/email" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	n := Notification{
		To:      "marie.dupont@example.com",
		Subject: "Votre attestation est disponible",
		Message: "Bonjour, votre attestation est prête.",
	}
	if err := c.SendNotification(context.Background(), n); err != nil {
		t.Fatalf("SendNotification() error = %v", err)
	}
	if got != n {
		t.Errorf("backend received %+v, want %+v", got, n)
	}
}

func TestClientListDocuments(t *testing.T) {
	t.Parallel()

	t.Run("lists by session and category", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/documents" {
				t.Errorf("path = %q", r.URL.Path)
			}
			q := r.URL.Query()
			if q.Get("sessionId") != "sess-42" || q.Get("category") != "attestation" {
				t.Errorf("query = %v", q)
			}
			_ = json.NewEncoder(w).Encode([]DocumentRef{
				{ID: "doc-1", SessionID: "sess-42", Category: "attestation", FileName: "Dupont_Marie_attestation.pdf"},
			})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, nil)
		refs, err := c.ListDocuments(context.Background(), "sess-42", "attestation")
		if err != nil {
			t.Fatalf("ListDocuments() error = %v", err)
		}
		if len(refs) != 1 || refs[0].ID != "doc-1" {
			t.Errorf("refs = %+v", refs)
		}
	})

	t.Run("empty session", func(t *testing.T) {
		t.Parallel()

		c := NewClient("http://backend.invalid", nil)
		_, err := c.ListDocuments(context.Background(), "", "attestation")
		if !errors.Is(err, ErrEmptySession) {
			t.Fatalf("error = %v, want %v", err, ErrEmptySession)
		}
	})
}

func TestClientDeleteDocument(t *testing.T) {
	t.Parallel()

	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		if r.URL.Path != "/api/documents/doc-1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("category") != "convention" {
			t.Errorf("category = %q", r.URL.Query().Get("category"))
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	if err := c.DeleteDocument(context.Background(), "doc-1", "convention"); err != nil {
		t.Fatalf("DeleteDocument() error = %v", err)
	}
	if !called {
		t.Error("backend was never called")
	}
}
