package report

import (
	"os"
	"path/filepath"
	"testing"

	"nfagent/internal/dataset"
)

func TestWriteSummaryPDF(t *testing.T) {
	dir, err := os.MkdirTemp("", "nf-report-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	store := dataset.NewStore()
	store.Add(&dataset.Table{
		Name:    "notas.csv",
		Columns: []string{"fornecedor", "valor", "data"},
		Rows: [][]string{
			{"ACME LTDA", "100,00", "10/01/2024"},
			{"BETA SA", "200,00", "15/02/2024"},
		},
	})

	path := filepath.Join(dir, "relatorio.pdf")
	if err := WriteSummaryPDF(path, store); err != nil {
		t.Fatalf("WriteSummaryPDF() returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("report file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("report file is empty")
	}

	header := make([]byte, 5)
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open report: %v", err)
	}
	defer file.Close()
	if _, err := file.Read(header); err != nil {
		t.Fatalf("Failed to read report header: %v", err)
	}
	if string(header) != "%PDF-" {
		t.Errorf("expected PDF header, got %q", header)
	}
}

func TestWriteSummaryPDF_EmptyStore(t *testing.T) {
	if err := WriteSummaryPDF("/tmp/ignorado.pdf", dataset.NewStore()); err == nil {
		t.Error("expected error for empty store, got nil")
	}
}
