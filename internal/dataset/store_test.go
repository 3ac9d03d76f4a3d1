package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testTable(name string, rows ...[]string) *Table {
	return &Table{
		Name:    name,
		Columns: []string{"fornecedor", "valor"},
		Rows:    rows,
	}
}

func TestStore_AddAndCurrent(t *testing.T) {
	store := NewStore()
	if !store.Empty() {
		t.Error("new store should be empty")
	}

	store.Add(testTable("a.csv", []string{"ACME", "10"}))
	store.Add(testTable("b.csv", []string{"BETA", "20"}))

	if store.CurrentName() != "a.csv" {
		t.Errorf("first file should be active, got %q", store.CurrentName())
	}
	if got := store.Names(); len(got) != 2 || got[0] != "a.csv" || got[1] != "b.csv" {
		t.Errorf("unexpected names: %v", got)
	}
	if !store.Select("b.csv") {
		t.Error("Select(b.csv) should succeed")
	}
	if store.Current().Name != "b.csv" {
		t.Errorf("expected b.csv active, got %q", store.Current().Name)
	}
	if store.Select("inexistente.csv") {
		t.Error("Select of unknown file should fail")
	}
}

func TestStore_RemoveReassignsActive(t *testing.T) {
	store := NewStore()
	store.Add(testTable("a.csv"))
	store.Add(testTable("b.csv"))

	if !store.Remove("a.csv") {
		t.Fatal("Remove(a.csv) should succeed")
	}
	if store.CurrentName() != "b.csv" {
		t.Errorf("expected b.csv to become active, got %q", store.CurrentName())
	}
	if store.Remove("a.csv") {
		t.Error("removing a missing file should fail")
	}
	store.Remove("b.csv")
	if !store.Empty() {
		t.Error("store should be empty after removing everything")
	}
}

func TestStore_LoadFile(t *testing.T) {
	path := writeTempFile(t, "notas.csv", []byte("fornecedor,valor\nACME,10\n"))

	store := NewStore()
	names, err := store.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() returned error: %v", err)
	}
	if len(names) != 1 || names[0] != "notas.csv" {
		t.Errorf("unexpected names: %v", names)
	}
	if store.Current() == nil || len(store.Current().Rows) != 1 {
		t.Error("loaded table should be active with 1 row")
	}
}

func TestStore_LoadFileZip(t *testing.T) {
	zipPath := writeTestZip(t, map[string]string{
		"cabecalho.csv": "fornecedor,valor\nACME,10\n",
		"itens.csv":     "item,qtd\nparafuso,3\n",
	})

	store := NewStore()
	names, err := store.LoadFile(zipPath)
	if err != nil {
		t.Fatalf("LoadFile() returned error: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 tables from ZIP, got %v", names)
	}
	for _, name := range names {
		if !store.Select(name) {
			t.Errorf("table %q not registered", name)
		}
	}
}

func TestStore_LoadFileUnsupported(t *testing.T) {
	store := NewStore()
	if _, err := store.LoadFile("dados.xlsx"); err == nil {
		t.Error("expected error for unsupported extension, got nil")
	}
}

func TestStore_Consolidated(t *testing.T) {
	store := NewStore()
	store.Add(testTable("a.csv", []string{"ACME", "10"}, []string{"BETA", "20"}))
	store.Add(testTable("b.csv", []string{"GAMA", "30"}))
	store.Add(&Table{Name: "outro.csv", Columns: []string{"x"}, Rows: [][]string{{"1"}}})

	merged, err := store.Consolidated()
	if err != nil {
		t.Fatalf("Consolidated() returned error: %v", err)
	}
	if merged.Name != "consolidado" {
		t.Errorf("unexpected merged name: %q", merged.Name)
	}
	// outro.csv has a different header and stays out of the merge.
	if len(merged.Rows) != 3 {
		t.Errorf("expected 3 merged rows, got %d", len(merged.Rows))
	}
}

func TestStore_ConsolidatedEmpty(t *testing.T) {
	store := NewStore()
	if _, err := store.Consolidated(); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestStore_Sample(t *testing.T) {
	store := NewStore()
	store.Add(testTable("a.csv",
		[]string{"ACME", "10"},
		[]string{"BETA", "20"},
		[]string{"GAMA", "30"},
	))

	sample, err := store.Sample(2)
	if err != nil {
		t.Fatalf("Sample() returned error: %v", err)
	}
	if len(sample.Rows) != 2 {
		t.Errorf("expected sample capped at 2 rows, got %d", len(sample.Rows))
	}
}

func TestStore_ExportCSV(t *testing.T) {
	dir, err := os.MkdirTemp("", "nf-export-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	store := NewStore()
	store.Add(testTable("a.csv", []string{"ACME", "10"}))
	store.Add(testTable("b.csv", []string{"BETA", "20"}))

	path := filepath.Join(dir, "consolidado.csv")
	if err := store.ExportCSV(path); err != nil {
		t.Fatalf("ExportCSV() returned error: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read exported file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "fornecedor,valor" {
		t.Errorf("unexpected header line: %q", lines[0])
	}
}

func TestStore_Metadata(t *testing.T) {
	store := NewStore()
	store.Add(&Table{
		Name:    "notas.csv",
		Columns: []string{"fornecedor", "valor"},
		Rows:    [][]string{{"ACME", "100,00"}},
	})

	meta := store.Metadata()
	if len(meta) != 1 {
		t.Fatalf("expected 1 metadata entry, got %d", len(meta))
	}
	if !meta[0].Active {
		t.Error("single loaded file should be active")
	}
	if meta[0].Rows != 1 || meta[0].Columns != 2 {
		t.Errorf("unexpected dimensions: %d rows, %d cols", meta[0].Rows, meta[0].Columns)
	}
	if len(meta[0].NumericCols) != 1 || meta[0].NumericCols[0] != "valor" {
		t.Errorf("expected numeric column 'valor', got %v", meta[0].NumericCols)
	}
}
