package agent

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// CannedResponse is one predefined local answer, selected when every
// keyword appears in the question.
type CannedResponse struct {
	Keywords []string `yaml:"keywords"`
	Answer   string   `yaml:"answer"`
}

// CannedTable is the local response table used when the API quota is
// exhausted.
type CannedTable struct {
	Default   string           `yaml:"default"`
	Responses []CannedResponse `yaml:"responses"`
}

// LoadCanned reads the canned-responses YAML file. A missing file is not
// fatal: the built-in table is used so the quota fallback always works.
func LoadCanned(path string) (*CannedTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.Debugf("No canned-responses file at '%s', using built-in table", path)
			return builtinCanned(), nil
		}
		return nil, fmt.Errorf("erro ao ler respostas locais '%s': %w", path, err)
	}

	var table CannedTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("erro ao interpretar respostas locais '%s': %w", path, err)
	}
	if table.Default == "" {
		table.Default = builtinCanned().Default
	}
	return &table, nil
}

// Match returns the canned answer for a question: the first response
// whose keywords all appear (case-insensitive), or the default text.
func (c *CannedTable) Match(question string) string {
	normalized := strings.ToLower(question)
	for _, resp := range c.Responses {
		if len(resp.Keywords) == 0 {
			continue
		}
		all := true
		for _, kw := range resp.Keywords {
			if !strings.Contains(normalized, strings.ToLower(kw)) {
				all = false
				break
			}
		}
		if all {
			return resp.Answer
		}
	}
	return c.Default
}

func builtinCanned() *CannedTable {
	return &CannedTable{
		Default: "O limite de uso da API foi atingido. Utilize as perguntas pré-definidas " +
			"do menu, que são respondidas localmente, ou tente novamente mais tarde.",
		Responses: []CannedResponse{
			{
				Keywords: []string{"fornecedor"},
				Answer: "A cota da API foi excedida. Para análises de fornecedores, use a " +
					"pergunta pré-definida 'Top 3 Fornecedores', calculada localmente.",
			},
			{
				Keywords: []string{"valor"},
				Answer: "A cota da API foi excedida. Para estatísticas de valores, use a " +
					"pergunta pré-definida 'Valor Médio', calculada localmente.",
			},
		},
	}
}
