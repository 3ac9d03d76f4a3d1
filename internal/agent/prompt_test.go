package agent

import (
	"strings"
	"testing"

	"nfagent/internal/dataset"
)

func TestBuildPrompt(t *testing.T) {
	sample := &dataset.Table{
		Columns: []string{"fornecedor", "valor"},
		Rows:    [][]string{{"ACME LTDA", "100,00"}},
	}

	prompt := BuildPrompt(sample, "Qual o maior gasto?")

	if !strings.Contains(prompt, "fornecedor | valor") {
		t.Error("prompt should contain the rendered header")
	}
	if !strings.Contains(prompt, "ACME LTDA | 100,00") {
		t.Error("prompt should contain the rendered rows")
	}
	if !strings.Contains(prompt, "Pergunta: Qual o maior gasto?") {
		t.Error("prompt should contain the question")
	}
	if !strings.Contains(prompt, "Conformidade com legislação brasileira") {
		t.Error("prompt should contain the insight checklist")
	}
}
