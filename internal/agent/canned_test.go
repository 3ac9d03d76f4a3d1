package agent

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCanned_MissingFileUsesBuiltin(t *testing.T) {
	table, err := LoadCanned("/nonexistent/fallback.yaml")
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if table.Default == "" {
		t.Error("built-in table should have a default answer")
	}
	if len(table.Responses) == 0 {
		t.Error("built-in table should have keyword responses")
	}
}

func TestLoadCanned_FromFile(t *testing.T) {
	dir, err := os.MkdirTemp("", "nf-canned-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "fallback.yaml")
	content := `default: "Resposta padrão de teste."
responses:
  - keywords: ["imposto"]
    answer: "Sobre impostos, consulte a coluna de tributos."
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fallback file: %v", err)
	}

	table, err := LoadCanned(path)
	if err != nil {
		t.Fatalf("LoadCanned() returned error: %v", err)
	}
	if got := table.Match("qual o imposto pago?"); !strings.Contains(got, "tributos") {
		t.Errorf("expected keyword match, got %q", got)
	}
	if got := table.Match("pergunta sem relação"); got != "Resposta padrão de teste." {
		t.Errorf("expected default answer, got %q", got)
	}
}

func TestLoadCanned_InvalidYAML(t *testing.T) {
	dir, err := os.MkdirTemp("", "nf-canned-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "fallback.yaml")
	if err := os.WriteFile(path, []byte("default: [broken"), 0644); err != nil {
		t.Fatalf("Failed to write fallback file: %v", err)
	}

	if _, err := LoadCanned(path); err == nil {
		t.Error("expected error for invalid YAML, got nil")
	}
}

func TestCannedMatch_AllKeywordsRequired(t *testing.T) {
	table := &CannedTable{
		Default: "padrão",
		Responses: []CannedResponse{
			{Keywords: []string{"quantas", "notas"}, Answer: "contagem"},
		},
	}

	if got := table.Match("QUANTAS notas temos?"); got != "contagem" {
		t.Errorf("expected case-insensitive match, got %q", got)
	}
	if got := table.Match("quantas linhas temos?"); got != "padrão" {
		t.Errorf("partial keyword match should fall to default, got %q", got)
	}
}
