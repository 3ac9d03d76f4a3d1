package agent

import (
	"fmt"
	"strings"

	"nfagent/internal/dataset"
)

// SystemPrompt frames the model as an NF-e specialist.
const SystemPrompt = "Você é um analista especialista em NF-e brasileiras."

// BuildPrompt assembles the user prompt: the rendered data sample, the
// question, and the fixed insight checklist.
func BuildPrompt(sample *dataset.Table, question string) string {
	var sb strings.Builder
	sb.WriteString("Você é um especialista em notas fiscais brasileiras (NF-e). ")
	sb.WriteString("Analise os dados e responda de forma técnica e precisa.\n\n")
	fmt.Fprintf(&sb, "Dados (amostra representativa):\n%s\n\n", renderTable(sample))
	fmt.Fprintf(&sb, "Pergunta: %s\n\n", question)
	sb.WriteString("Inclua insights relevantes sobre:")
	sb.WriteString("\n- Relação entre fornecedores e valores")
	sb.WriteString("\n- Padrões temporais")
	sb.WriteString("\n- Anomalias potenciais")
	sb.WriteString("\n- Conformidade com legislação brasileira")
	return sb.String()
}

// renderTable writes a table as pipe-separated text, the plain form the
// completion API digests best.
func renderTable(t *dataset.Table) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(t.Columns, " | "))
	sb.WriteByte('\n')
	for _, row := range t.Rows {
		sb.WriteString(strings.Join(row, " | "))
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}
