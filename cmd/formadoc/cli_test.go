package main

import (
	"errors"
	"os"
	"testing"

	formadoc "github.com/yleroy/go-formadoc"
	"github.com/yleroy/go-formadoc/internal/config"
)

func TestParseAttestFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr bool
		check   func(*testing.T, *attestFlags)
	}{
		{
			name: "session mode",
			args: []string{"--session", "sess-42", "--out", "/tmp/out"},
			check: func(t *testing.T, f *attestFlags) {
				if f.session != "sess-42" || f.out != "/tmp/out" {
					t.Errorf("flags = %+v", f)
				}
			},
		},
		{
			name: "offline mode with single recipient",
			args: []string{"-i", "batch.yaml", "--single", "Dupont,Marie"},
			check: func(t *testing.T, f *attestFlags) {
				if f.input != "batch.yaml" || f.single != "Dupont,Marie" {
					t.Errorf("flags = %+v", f)
				}
			},
		},
		{
			name: "notify address",
			args: []string{"-s", "sess-42", "--notify", "admin@example.com"},
			check: func(t *testing.T, f *attestFlags) {
				if f.notify != "admin@example.com" {
					t.Errorf("notify = %q", f.notify)
				}
			},
		},
		{
			name:    "neither session nor input",
			args:    []string{"--out", "/tmp/out"},
			wantErr: true,
		},
		{
			name:    "unknown flag",
			args:    []string{"--session", "s", "--bogus"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := parseAttestFlags(tt.args)
			if tt.wantErr {
				if !errors.Is(err, errUsage) {
					t.Fatalf("parseAttestFlags() error = %v, want %v", err, errUsage)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAttestFlags() error = %v", err)
			}
			tt.check(t, f)
		})
	}
}

func TestParseConventionFlags(t *testing.T) {
	t.Parallel()

	t.Run("sessions and workers", func(t *testing.T) {
		t.Parallel()

		f, err := parseConventionFlags([]string{"-s", "a,b", "-w", "2"})
		if err != nil {
			t.Fatalf("parseConventionFlags() error = %v", err)
		}
		if f.session != "a,b" || f.workers != 2 {
			t.Errorf("flags = %+v", f)
		}
	})

	t.Run("missing session and input", func(t *testing.T) {
		t.Parallel()

		if _, err := parseConventionFlags(nil); !errors.Is(err, errUsage) {
			t.Fatalf("parseConventionFlags() error = %v, want %v", err, errUsage)
		}
	})
}

func TestParseDocsFlags(t *testing.T) {
	t.Parallel()

	t.Run("list by session", func(t *testing.T) {
		t.Parallel()

		f, err := parseDocsFlags([]string{"-s", "sess-42", "--category", "convention"})
		if err != nil {
			t.Fatalf("parseDocsFlags() error = %v", err)
		}
		if f.session != "sess-42" || f.category != "convention" {
			t.Errorf("flags = %+v", f)
		}
	})

	t.Run("delete by id", func(t *testing.T) {
		t.Parallel()

		f, err := parseDocsFlags([]string{"--delete", "doc-1"})
		if err != nil {
			t.Fatalf("parseDocsFlags() error = %v", err)
		}
		if f.remove != "doc-1" {
			t.Errorf("remove = %q", f.remove)
		}
	})

	t.Run("neither session nor delete", func(t *testing.T) {
		t.Parallel()

		if _, err := parseDocsFlags(nil); !errors.Is(err, errUsage) {
			t.Fatalf("parseDocsFlags() error = %v, want %v", err, errUsage)
		}
	})
}

func TestParseSingleRecipient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    formadoc.Recipient
		wantErr bool
	}{
		{
			name:  "last and first",
			input: "Dupont,Marie",
			want:  formadoc.Recipient{LastName: "Dupont", FirstName: "Marie"},
		},
		{
			name:  "with company",
			input: "Dupont, Marie, Acme SARL",
			want:  formadoc.Recipient{LastName: "Dupont", FirstName: "Marie", Company: "Acme SARL"},
		},
		{
			name:    "missing first name",
			input:   "Dupont",
			wantErr: true,
		},
		{
			name:    "empty last name",
			input:   ",Marie",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseSingleRecipient(tt.input)
			if tt.wantErr {
				if !errors.Is(err, errUsage) {
					t.Fatalf("parseSingleRecipient(%q) error = %v, want %v", tt.input, err, errUsage)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSingleRecipient(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseSingleRecipient(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitSessions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "single session",
			input: "sess-42",
			want:  []string{"sess-42"},
		},
		{
			name:  "comma separated with spaces",
			input: "a, b ,c",
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "empty parts dropped",
			input: "a,,b,",
			want:  []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := splitSessions(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("splitSessions(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("splitSessions(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "nil error",
			err:  nil,
			want: ExitSuccess,
		},
		{
			name: "usage error",
			err:  errUsage,
			want: ExitUsage,
		},
		{
			name: "missing signature date",
			err:  formadoc.ErrMissingSignatureDate,
			want: ExitUsage,
		},
		{
			name: "config not found",
			err:  config.ErrConfigNotFound,
			want: ExitUsage,
		},
		{
			name: "template fetch failure",
			err:  formadoc.ErrTemplateFetch,
			want: ExitIO,
		},
		{
			name: "missing file",
			err:  os.ErrNotExist,
			want: ExitIO,
		},
		{
			name: "browser connect failure",
			err:  formadoc.ErrBrowserConnect,
			want: ExitBrowser,
		},
		{
			name: "pdf generation failure",
			err:  formadoc.ErrPDFGeneration,
			want: ExitBrowser,
		},
		{
			name: "unexpected error",
			err:  errors.New("boom"),
			want: ExitGeneral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestToConvention(t *testing.T) {
	t.Parallel()

	var file conventionYAML
	file.SessionID = "sess-42"
	file.Provider.Name = "FormaPro"
	file.Company.Name = "Acme SARL"
	file.CourseName = "Go avancé"
	file.Schedule = append(file.Schedule, struct {
		Date  string `yaml:"date"`
		Start string `yaml:"start"`
		End   string `yaml:"end"`
	}{Date: "2024-03-01", Start: "09:00", End: "17:00"})
	file.Participants = append(file.Participants, struct {
		LastName  string `yaml:"lastName"`
		FirstName string `yaml:"firstName"`
		Company   string `yaml:"company"`
	}{LastName: "Dupont", FirstName: "Marie"})

	conv := toConvention(file)
	if conv.SessionID != "sess-42" || conv.Provider.Name != "FormaPro" || conv.Company.Name != "Acme SARL" {
		t.Errorf("toConvention() = %+v", conv)
	}
	if len(conv.Schedule) != 1 || conv.Schedule[0].Date != "2024-03-01" {
		t.Errorf("Schedule = %+v", conv.Schedule)
	}
	if len(conv.Participants) != 1 || conv.Participants[0].LastName != "Dupont" {
		t.Errorf("Participants = %+v", conv.Participants)
	}
}
