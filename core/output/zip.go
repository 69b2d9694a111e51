package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fbz-tec/csvstream/internal/logger"
	"github.com/klauspost/compress/zip"
)

func newZipWriter(path, format string) (io.WriteCloser, error) {
	fixedPath := fixExtension(path, ".zip")
	logger.Debug("Creating zip-compressed output file: %s", fixedPath)
	file, err := os.Create(fixedPath)
	if err != nil {
		return nil, fmt.Errorf("error creating file: %w", err)
	}
	w, err := newZipArchive(file, determineZipEntryName(path, format))
	if err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}

// newZipArchive writes a single-entry archive into dst and closes dst on Close.
func newZipArchive(dst io.WriteCloser, entryName string) (io.WriteCloser, error) {
	zipWriter := zip.NewWriter(dst)
	logger.Debug("Creating zip entry: %s", entryName)
	entryWriter, err := zipWriter.Create(entryName)
	if err != nil {
		zipWriter.Close()
		return nil, fmt.Errorf("error creating zip entry: %w", err)
	}
	return &compositeWriteCloser{
		Writer: entryWriter,
		closeFunc: func() error {
			err := zipWriter.Close()
			if derr := dst.Close(); derr != nil && err == nil {
				err = derr
			}
			return err
		},
	}, nil
}

func determineZipEntryName(outputPath, format string) string {
	name := strings.TrimSuffix(strings.ToLower(filepath.Base(outputPath)), ".zip")
	if name == "" {
		name = "export"
	}
	if format == "" {
		format = "csv"
	}
	if !strings.HasSuffix(name, "."+format) {
		name = fmt.Sprintf("%s.%s", name, format)
	}
	return name
}

func fixExtension(path, extension string) string {
	ext := filepath.Ext(path)
	if strings.ToLower(ext) != extension {
		path = path[:len(path)-len(ext)] + extension
	}
	return path
}
