// Package analysis answers the predefined nota fiscal questions locally,
// without calling the chat completion API.
package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"nfagent/internal/dataset"
)

// Column alias lists: portal exports rename these fields between years,
// so every analysis resolves columns through them.
var (
	SupplierAliases = []string{"fornecedor", "razão social emitente", "razao social emitente", "emitente"}
	ValueAliases    = []string{"valor", "valor nota fiscal", "valor total", "valor total da nota"}
	DateAliases     = []string{"data", "data emissão", "data emissao", "data de emissão"}
)

// Predefined is one shortcut question answered by local analysis.
type Predefined struct {
	Key      string
	Question string
	Run      func(*dataset.Table) (string, error)
}

// Questions returns the predefined questions in menu order.
func Questions() []Predefined {
	return []Predefined{
		{
			Key:      "Maior Fornecedor",
			Question: "Qual é o fornecedor com maior valor total nas notas fiscais?",
			Run:      func(t *dataset.Table) (string, error) { return TopSuppliers(t, 1) },
		},
		{
			Key:      "Total NFs",
			Question: "Quantas notas fiscais existem no total?",
			Run:      CountInvoices,
		},
		{
			Key:      "Valor Médio",
			Question: "Qual é o valor médio das notas fiscais?",
			Run:      MeanValue,
		},
		{
			Key:      "Top 3 Fornecedores",
			Question: "Quais são os 3 fornecedores com maior valor total?",
			Run:      func(t *dataset.Table) (string, error) { return TopSuppliers(t, 3) },
		},
		{
			Key:      "Distribuição Temporal",
			Question: "Qual é a distribuição temporal das notas fiscais?",
			Run:      MonthlyDistribution,
		},
	}
}

// Match finds the predefined question whose key or full text equals the
// input, ignoring case and surrounding spaces.
func Match(question string) (Predefined, bool) {
	normalized := strings.ToLower(strings.TrimSpace(question))
	for _, p := range Questions() {
		if normalized == strings.ToLower(p.Key) || normalized == strings.ToLower(p.Question) {
			return p, true
		}
	}
	return Predefined{}, false
}

// TopSuppliers sums invoice values per supplier and reports the top n.
func TopSuppliers(t *dataset.Table, n int) (string, error) {
	if len(t.Rows) == 0 {
		return "", dataset.ErrNoData
	}
	supplierIdx, okSupplier := t.ResolveColumn(SupplierAliases...)
	valueIdx, okValue := t.ResolveColumn(ValueAliases...)
	if !okSupplier || !okValue {
		return "Colunas 'fornecedor' ou 'valor' não encontradas nos dados", nil
	}

	totals := make(map[string]decimal.Decimal)
	for _, row := range t.Rows {
		supplier := strings.TrimSpace(row[supplierIdx])
		if supplier == "" {
			continue
		}
		val, err := dataset.ParseDecimal(row[valueIdx])
		if err != nil {
			continue
		}
		totals[supplier] = totals[supplier].Add(val)
	}

	type supplierTotal struct {
		name  string
		total decimal.Decimal
	}
	ranked := make([]supplierTotal, 0, len(totals))
	for name, total := range totals {
		ranked = append(ranked, supplierTotal{name, total})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].total.Equal(ranked[j].total) {
			return ranked[i].total.GreaterThan(ranked[j].total)
		}
		return ranked[i].name < ranked[j].name
	})
	if n > len(ranked) {
		n = len(ranked)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Top %d fornecedores por valor total:\n", n)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "%d. %s — R$ %s\n", i+1, ranked[i].name, ranked[i].total.StringFixed(2))
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// CountInvoices reports the total record count.
func CountInvoices(t *dataset.Table) (string, error) {
	if len(t.Rows) == 0 {
		return "", dataset.ErrNoData
	}
	return fmt.Sprintf("Total de notas fiscais: %d", len(t.Rows)), nil
}

// MeanValue reports the mean invoice value.
func MeanValue(t *dataset.Table) (string, error) {
	if len(t.Rows) == 0 {
		return "", dataset.ErrNoData
	}
	valueCol, ok := t.ResolveColumn(ValueAliases...)
	if !ok {
		return "Coluna 'valor' não encontrada", nil
	}
	summary, err := dataset.Describe(t, t.Columns[valueCol])
	if err != nil {
		return "Coluna 'valor' não contém valores numéricos", nil
	}
	return fmt.Sprintf("Valor médio das notas: R$ %s", summary.Mean.StringFixed(2)), nil
}

// MonthlyDistribution counts invoices per month of emission.
func MonthlyDistribution(t *dataset.Table) (string, error) {
	if len(t.Rows) == 0 {
		return "", dataset.ErrNoData
	}
	dateIdx, ok := t.ResolveColumn(DateAliases...)
	if !ok {
		return "Coluna 'data' não encontrada", nil
	}

	counts := make(map[string]int)
	for _, row := range t.Rows {
		ts, err := dataset.ParseDate(row[dateIdx])
		if err != nil {
			continue
		}
		counts[ts.Format("2006-01")]++
	}
	if len(counts) == 0 {
		return "Coluna 'data' não contém datas reconhecíveis", nil
	}

	months := make([]string, 0, len(counts))
	for month := range counts {
		months = append(months, month)
	}
	sort.Strings(months)

	var sb strings.Builder
	sb.WriteString("Distribuição temporal (mensal):\n")
	for _, month := range months {
		fmt.Fprintf(&sb, "%s: %d\n", month, counts[month])
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// ValueSummary reports describe-style statistics over the value column.
// Not a menu shortcut, but the metadata view and the PDF report use it.
func ValueSummary(t *dataset.Table) (dataset.NumericSummary, error) {
	valueCol, ok := t.ResolveColumn(ValueAliases...)
	if !ok {
		return dataset.NumericSummary{}, fmt.Errorf("coluna 'valor' não encontrada")
	}
	return dataset.Describe(t, t.Columns[valueCol])
}
