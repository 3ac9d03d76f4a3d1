package dataset

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// ExtractCSVs extracts every .csv entry of a ZIP archive into a fresh
// temporary directory and returns the directory plus the extracted file
// paths. The caller removes the directory when done.
func ExtractCSVs(zipPath string) (string, []string, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", nil, fmt.Errorf("não foi possível abrir o ZIP '%s': %w", zipPath, err)
	}
	defer reader.Close()

	tempDir, err := os.MkdirTemp("", "nf-extract-")
	if err != nil {
		return "", nil, fmt.Errorf("erro ao criar diretório temporário: %w", err)
	}

	var extracted []string
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name), ".csv") {
			continue
		}
		// Flatten the entry name; reject anything that would escape the
		// extraction directory.
		name := filepath.Base(entry.Name)
		if name == "." || name == ".." || strings.Contains(name, "..") {
			logrus.Warnf("Ignoring suspicious ZIP entry '%s'", entry.Name)
			continue
		}

		destPath := filepath.Join(tempDir, name)
		if err := extractEntry(entry, destPath); err != nil {
			os.RemoveAll(tempDir)
			return "", nil, err
		}
		extracted = append(extracted, destPath)
	}

	if len(extracted) == 0 {
		os.RemoveAll(tempDir)
		return "", nil, fmt.Errorf("nenhum arquivo CSV encontrado no ZIP '%s'", filepath.Base(zipPath))
	}

	logrus.Infof("Extracted %d CSV file(s) from '%s'", len(extracted), filepath.Base(zipPath))
	return tempDir, extracted, nil
}

func extractEntry(entry *zip.File, destPath string) error {
	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("erro ao abrir entrada '%s' do ZIP: %w", entry.Name, err)
	}
	defer src.Close()

	dest, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("erro ao criar arquivo extraído: %w", err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, src); err != nil {
		return fmt.Errorf("erro ao extrair '%s': %w", entry.Name, err)
	}
	return nil
}
