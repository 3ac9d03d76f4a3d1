package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "nf-csv-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return path
}

func TestReadTable_CommaDelimited(t *testing.T) {
	path := writeTempFile(t, "notas.csv", []byte("fornecedor,valor,data\nACME LTDA,100.50,2024-01-10\nBETA SA,200.00,2024-01-11\n"))

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable() returned error: %v", err)
	}
	if table.Name != "notas.csv" {
		t.Errorf("expected name 'notas.csv', got %q", table.Name)
	}
	if len(table.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(table.Columns))
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[0][0] != "ACME LTDA" {
		t.Errorf("unexpected first cell: %q", table.Rows[0][0])
	}
}

func TestReadTable_SemicolonDelimited(t *testing.T) {
	path := writeTempFile(t, "notas.csv", []byte("fornecedor;valor;data\nACME LTDA;100,50;10/01/2024\n"))

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable() returned error: %v", err)
	}
	if len(table.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(table.Columns))
	}
	if table.Rows[0][1] != "100,50" {
		t.Errorf("expected value cell '100,50', got %q", table.Rows[0][1])
	}
}

func TestReadTable_Latin1Fallback(t *testing.T) {
	// "RAZÃO" in Latin-1: Ã is byte 0xC3, invalid as standalone UTF-8.
	content := []byte("RAZ\xc3O SOCIAL,valor\nJO\xc3O LTDA,10\n")
	path := writeTempFile(t, "latin1.csv", content)

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable() returned error: %v", err)
	}
	if table.Columns[0] != "RAZÃO SOCIAL" {
		t.Errorf("expected Latin-1 decoded header, got %q", table.Columns[0])
	}
	if table.Rows[0][0] != "JOÃO LTDA" {
		t.Errorf("expected Latin-1 decoded cell, got %q", table.Rows[0][0])
	}
}

func TestReadTable_SkipsMalformedRows(t *testing.T) {
	path := writeTempFile(t, "notas.csv", []byte("a,b,c\n1,2,3\nonly-one-field\n4,5,6\n"))

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable() returned error: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected malformed row to be skipped, got %d rows", len(table.Rows))
	}
}

func TestReadTable_StripsBOM(t *testing.T) {
	path := writeTempFile(t, "bom.csv", []byte("\xef\xbb\xbffornecedor,valor\nACME,10\n"))

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable() returned error: %v", err)
	}
	if table.Columns[0] != "fornecedor" {
		t.Errorf("expected BOM to be stripped, got header %q", table.Columns[0])
	}
}

func TestReadTable_EmptyFile(t *testing.T) {
	path := writeTempFile(t, "vazio.csv", []byte(""))

	if _, err := ReadTable(path); err == nil {
		t.Error("expected error for empty file, got nil")
	}
}

func TestReadTable_MissingFile(t *testing.T) {
	if _, err := ReadTable("/nonexistent/arquivo.csv"); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}
