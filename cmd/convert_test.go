package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearCSVEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CSV_DELIMITER", "CSV_NEWLINE", "CSV_ENCODING", "CSV_BOM"} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
}

func TestConvertYAML(t *testing.T) {
	clearCSVEnv(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "items.yaml")
	out := filepath.Join(dir, "items.csv")

	yamlDoc := `- id: 1
  name: Widget
- id: 2
  name: "Gadget; large"
`
	if err := os.WriteFile(in, []byte(yamlDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	rootCmd.SetArgs([]string{"convert", in, "-o", out, "-D", "semicolon", "--newline", "lf", "-q"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("convert error = %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "id;name\n1;Widget\n2;\"Gadget; large\"\n"
	if string(got) != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestConvertRejectsUnknownInput(t *testing.T) {
	clearCSVEnv(t)
	dir := t.TempDir()

	rootCmd.SetArgs([]string{"convert", filepath.Join(dir, "data.txt"), "-o", filepath.Join(dir, "out.csv"), "-q"})
	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "unsupported input") {
		t.Errorf("convert error = %v, want unsupported input", err)
	}
}

func TestDownloadName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "export.csv"},
		{"report.csv", "report.csv"},
		{"../../etc/passwd", "passwd"},
		{"  ", "export.csv"},
		{"/", "export.csv"},
		{"reports/q1/", "q1"},
	}

	for _, tt := range tests {
		if got := downloadName(tt.in); got != tt.want {
			t.Errorf("downloadName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
