// Package report renders the consolidated analysis as a PDF summary.
package report

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/sirupsen/logrus"

	"nfagent/internal/analysis"
	"nfagent/internal/dataset"
)

// WriteSummaryPDF writes a one-page summary of the loaded data: the file
// inventory plus the predefined analyses.
func WriteSummaryPDF(path string, store *dataset.Store) error {
	merged, err := store.Consolidated()
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; translate so pt-BR accents survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr("Relatório Consolidado de Notas Fiscais"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, tr("Arquivos carregados"))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	for _, meta := range store.Metadata() {
		line := fmt.Sprintf("%s — %d registros, %d colunas", meta.Name, meta.Rows, meta.Columns)
		if meta.Active {
			line += " (ativo)"
		}
		pdf.Cell(0, 6, tr(line))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	sections := []struct {
		title string
		run   func(*dataset.Table) (string, error)
	}{
		{"Total de notas", analysis.CountInvoices},
		{"Valor médio", analysis.MeanValue},
		{"Top 3 fornecedores", func(t *dataset.Table) (string, error) { return analysis.TopSuppliers(t, 3) }},
		{"Distribuição mensal", analysis.MonthlyDistribution},
	}
	for _, section := range sections {
		text, err := section.run(merged)
		if err != nil {
			logrus.Warnf("Report section '%s' skipped: %v", section.title, err)
			continue
		}
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, tr(section.title))
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, tr(text), "", "L", false)
		pdf.Ln(4)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("erro ao gravar relatório PDF: %w", err)
	}
	logrus.Infof("Relatório PDF gravado em %s", path)
	return nil
}
