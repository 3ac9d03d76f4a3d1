package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"nfagent/internal/models"
)

// ErrNoData is returned when an operation needs loaded files and the
// store is empty.
var ErrNoData = errors.New("nenhum dado carregado")

// Store keeps every loaded table plus the currently active file. All
// access is mutex-guarded: the fsnotify watcher and HTTP handlers feed
// it concurrently with the terminal loop.
type Store struct {
	mu      sync.Mutex
	tables  map[string]*Table
	order   []string
	current string
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{tables: make(map[string]*Table)}
}

// LoadFile loads a .csv or .zip file into the store and returns the
// names of the tables added. ZIP archives are extracted to a temporary
// directory that is removed before returning.
func (s *Store) LoadFile(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		tempDir, csvPaths, err := ExtractCSVs(path)
		if err != nil {
			return nil, err
		}
		defer os.RemoveAll(tempDir)

		var names []string
		for _, csvPath := range csvPaths {
			table, err := ReadTable(csvPath)
			if err != nil {
				return names, err
			}
			// The table came from a temp file; point it back at the
			// archive the user actually gave us.
			table.Path = path
			s.Add(table)
			names = append(names, table.Name)
		}
		return names, nil
	case ".csv":
		table, err := ReadTable(path)
		if err != nil {
			return nil, err
		}
		s.Add(table)
		return []string{table.Name}, nil
	default:
		return nil, fmt.Errorf("formato não suportado: '%s' (use .csv ou .zip)", filepath.Ext(path))
	}
}

// Add registers a table, replacing any previous one with the same name.
// The first table added becomes the active file.
func (s *Store) Add(t *Table) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tables[t.Name]; !exists {
		s.order = append(s.order, t.Name)
	}
	s.tables[t.Name] = t
	if s.current == "" {
		s.current = t.Name
	}
	logrus.Infof("Arquivo carregado: %s (%d registros, %d colunas)", t.Name, len(t.Rows), len(t.Columns))
}

// Remove drops a table by name. When the active file is removed the
// next remaining file becomes active.
func (s *Store) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[name]; !ok {
		return false
	}
	delete(s.tables, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.current == name {
		s.current = ""
		if len(s.order) > 0 {
			s.current = s.order[0]
		}
	}
	logrus.Infof("Arquivo removido: %s", name)
	return true
}

// Select makes a loaded file the active one.
func (s *Store) Select(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[name]; !ok {
		return false
	}
	s.current = name
	return true
}

// Current returns the active table, or nil when nothing is loaded.
func (s *Store) Current() *Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables[s.current]
}

// Names lists loaded file names in load order.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// CurrentName returns the active file name ("" when empty).
func (s *Store) CurrentName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Empty reports whether no file is loaded.
func (s *Store) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tables) == 0
}

// Metadata returns the per-file metadata view.
func (s *Store) Metadata() []models.FileMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta := make([]models.FileMetadata, 0, len(s.order))
	for _, name := range s.order {
		t := s.tables[name]
		stats := Classify(t)
		meta = append(meta, models.FileMetadata{
			Name:        t.Name,
			Rows:        len(t.Rows),
			Columns:     len(t.Columns),
			NumericCols: stats.NumericCols,
			TextCols:    stats.TextCols,
			DateCols:    stats.DateCols,
			Active:      name == s.current,
		})
	}
	return meta
}

// Consolidated merges every loaded table that shares the first file's
// header into a single table. Tables with a different header are left
// out with a warning instead of failing the merge.
func (s *Store) Consolidated() (*Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.order) == 0 {
		return nil, ErrNoData
	}

	base := s.tables[s.order[0]]
	merged := &Table{
		Name:    "consolidado",
		Columns: base.Columns,
	}
	for _, name := range s.order {
		t := s.tables[name]
		if !sameColumns(base.Columns, t.Columns) {
			logrus.Warnf("Arquivo '%s' ignorado na consolidação (colunas diferentes)", name)
			continue
		}
		merged.Rows = append(merged.Rows, t.Rows...)
	}
	return merged, nil
}

// Sample returns up to n rows per loaded table, merged under the first
// file's header. This is what goes into the LLM prompt, capped so the
// request stays within the prompt budget.
func (s *Store) Sample(n int) (*Table, error) {
	merged, err := s.Consolidated()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sample := &Table{Name: "amostra", Columns: merged.Columns}
	for _, name := range s.order {
		t := s.tables[name]
		if !sameColumns(merged.Columns, t.Columns) {
			continue
		}
		limit := n
		if limit > len(t.Rows) {
			limit = len(t.Rows)
		}
		sample.Rows = append(sample.Rows, t.Rows[:limit]...)
	}
	return sample, nil
}

// ExportCSV writes the consolidated data to a CSV file.
func (s *Store) ExportCSV(path string) error {
	merged, err := s.Consolidated()
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("erro ao criar arquivo de exportação: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(merged.Columns); err != nil {
		return fmt.Errorf("erro ao exportar cabeçalho: %w", err)
	}
	for _, row := range merged.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("erro ao exportar registros: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("erro ao gravar exportação: %w", err)
	}
	logrus.Infof("Análise consolidada exportada para %s (%d registros)", path, len(merged.Rows))
	return nil
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(strings.TrimSpace(a[i]), strings.TrimSpace(b[i])) {
			return false
		}
	}
	return true
}
