package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func parseEnvFixture(t *testing.T, content string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open env file: %v", err)
	}
	defer file.Close()

	if err := parseEnvFile(log.New(io.Discard, "", 0), file); err != nil {
		t.Fatalf("parse env file: %v", err)
	}
}

func TestParseEnvFile_StripsByteOrderMark(t *testing.T) {
	t.Setenv("STOREFRONT_TEST_BOM", "")
	_ = os.Unsetenv("STOREFRONT_TEST_BOM")

	parseEnvFixture(t, "\uFEFFSTOREFRONT_TEST_BOM=first\n")

	if got := os.Getenv("STOREFRONT_TEST_BOM"); got != "first" {
		t.Fatalf("expected BOM-prefixed key to parse, got %q", got)
	}
}

func TestParseEnvFile_QuotesCommentsAndExport(t *testing.T) {
	for _, key := range []string{"STOREFRONT_TEST_QUOTED", "STOREFRONT_TEST_EXPORTED"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}

	parseEnvFixture(t, `# local overrides
STOREFRONT_TEST_QUOTED="hello world"
export STOREFRONT_TEST_EXPORTED=plain
not-an-assignment
`)

	if got := os.Getenv("STOREFRONT_TEST_QUOTED"); got != "hello world" {
		t.Fatalf("expected quotes trimmed, got %q", got)
	}
	if got := os.Getenv("STOREFRONT_TEST_EXPORTED"); got != "plain" {
		t.Fatalf("expected export prefix handled, got %q", got)
	}
}

func TestParseEnvFile_ExistingEnvWins(t *testing.T) {
	t.Setenv("STOREFRONT_TEST_EXISTING", "from-shell")

	parseEnvFixture(t, "STOREFRONT_TEST_EXISTING=from-file\n")

	if got := os.Getenv("STOREFRONT_TEST_EXISTING"); got != "from-shell" {
		t.Fatalf("expected shell value to win, got %q", got)
	}
}

func TestParseCSV(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "single", input: "http://localhost:5173", want: []string{"http://localhost:5173"}},
		{name: "spaced", input: " a , b ,, c ", want: []string{"a", "b", "c"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := parseCSV(tc.input); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("parseCSV(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}
