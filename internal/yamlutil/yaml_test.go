package yamlutil

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{
			name: "valid document",
			data: "name: hello\ncount: 3\n",
		},
		{
			name: "unknown field tolerated",
			data: "name: hello\nextra: true\n",
		},
		{
			name:    "empty data",
			data:    "",
			wantErr: ErrNilData,
		},
		{
			name:    "malformed yaml",
			data:    "name: [unclosed",
			wantErr: nil, // wrapped parse error, checked separately
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out sample
			err := Unmarshal([]byte(tt.data), &out)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Unmarshal() error = %v, want %v", err, tt.wantErr)
				}
			case tt.name == "malformed yaml":
				if err == nil {
					t.Fatal("Unmarshal() expected parse error")
				}
			default:
				if err != nil {
					t.Fatalf("Unmarshal() error = %v", err)
				}
			}
		})
	}

	t.Run("nil destination", func(t *testing.T) {
		t.Parallel()

		if err := Unmarshal([]byte("name: x"), nil); !errors.Is(err, ErrNilDestination) {
			t.Fatalf("Unmarshal() error = %v, want %v", err, ErrNilDestination)
		}
	})

	t.Run("oversized input", func(t *testing.T) {
		t.Parallel()

		big := "name: " + strings.Repeat("a", MaxInputSize)
		var out sample
		if err := Unmarshal([]byte(big), &out); !errors.Is(err, ErrInputTooLarge) {
			t.Fatalf("Unmarshal() error = %v, want %v", err, ErrInputTooLarge)
		}
	})
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	t.Run("valid document", func(t *testing.T) {
		t.Parallel()

		var out sample
		if err := UnmarshalStrict([]byte("name: hello\ncount: 3\n"), &out); err != nil {
			t.Fatalf("UnmarshalStrict() error = %v", err)
		}
		if out.Name != "hello" || out.Count != 3 {
			t.Errorf("decoded %+v", out)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()

		var out sample
		if err := UnmarshalStrict([]byte("name: hello\nextra: true\n"), &out); err == nil {
			t.Fatal("UnmarshalStrict() expected error for unknown field")
		}
	})
}
