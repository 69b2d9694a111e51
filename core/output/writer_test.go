package output

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

const testData = "test,data,row\n1,2,3\n"

func writeAll(t *testing.T, cfg OutputConfig, chunks ...string) {
	t.Helper()
	writer, err := CreateWriter(cfg)
	if err != nil {
		t.Fatalf("CreateWriter() error = %v", err)
	}
	for _, chunk := range chunks {
		if _, err := writer.Write([]byte(chunk)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func decompress(t *testing.T, compression string, r io.Reader) string {
	t.Helper()
	var reader io.Reader
	switch compression {
	case None:
		reader = r
	case GZIP:
		gz, err := gzip.NewReader(r)
		if err != nil {
			t.Fatalf("gzip.NewReader() error = %v", err)
		}
		defer gz.Close()
		reader = gz
	case ZSTD:
		zr, err := zstd.NewReader(r)
		if err != nil {
			t.Fatalf("zstd.NewReader() error = %v", err)
		}
		defer zr.Close()
		reader = zr
	case LZ4:
		reader = lz4.NewReader(r)
	default:
		t.Fatalf("no reader for %q", compression)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading %s content: %v", compression, err)
	}
	return string(content)
}

func TestCreateWriter_Compressions(t *testing.T) {
	tests := []struct {
		compression string
		wantSuffix  string
	}{
		{None, ""},
		{GZIP, ".gz"},
		{ZSTD, ".zst"},
		{LZ4, ".lz4"},
	}

	for _, tt := range tests {
		t.Run(tt.compression, func(t *testing.T) {
			testPath := filepath.Join(t.TempDir(), "test.csv")
			writeAll(t, OutputConfig{Path: testPath, Compression: tt.compression, Format: "csv"}, "test,data,row\n", "1,2,3\n")

			file, err := os.Open(testPath + tt.wantSuffix)
			if err != nil {
				t.Fatalf("expected output file: %v", err)
			}
			defer file.Close()

			if got := decompress(t, tt.compression, file); got != testData {
				t.Errorf("content = %q, want %q", got, testData)
			}
		})
	}
}

func TestCreateWriter_KeepsExistingExtension(t *testing.T) {
	tests := []struct {
		compression string
		fileName    string
	}{
		{GZIP, "test.csv.gz"},
		{ZSTD, "test.csv.zst"},
		{LZ4, "test.csv.LZ4"},
	}

	for _, tt := range tests {
		t.Run(tt.compression, func(t *testing.T) {
			testPath := filepath.Join(t.TempDir(), tt.fileName)
			writeAll(t, OutputConfig{Path: testPath, Compression: tt.compression}, "test data")

			if _, err := os.Stat(testPath); err != nil {
				t.Errorf("expected file %s: %v", testPath, err)
			}
			matches, _ := filepath.Glob(testPath + ".*")
			if len(matches) != 0 {
				t.Errorf("unexpected double extension files %v", matches)
			}
		})
	}
}

func TestCreateWriter_ZIP(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "report.csv")
	writeAll(t, OutputConfig{Path: testPath, Compression: ZIP, Format: "csv"}, testData)

	zr, err := zip.OpenReader(filepath.Join(filepath.Dir(testPath), "report.zip"))
	if err != nil {
		t.Fatalf("zip.OpenReader() error = %v", err)
	}
	defer zr.Close()

	if len(zr.File) != 1 || zr.File[0].Name != "report.csv" {
		t.Fatalf("zip entries = %v, want a single report.csv", zr.File)
	}
	rc, err := zr.File[0].Open()
	if err != nil {
		t.Fatalf("Open() entry error = %v", err)
	}
	defer rc.Close()
	if got := decompress(t, None, rc); got != testData {
		t.Errorf("zip entry content = %q, want %q", got, testData)
	}
}

func TestCreateWriter_Stdout(t *testing.T) {
	tests := []struct {
		compression string
	}{
		{None},
		{GZIP},
		{ZSTD},
		{LZ4},
	}

	for _, tt := range tests {
		t.Run(tt.compression, func(t *testing.T) {
			var buf bytes.Buffer
			saved := stdout
			stdout = &buf
			t.Cleanup(func() { stdout = saved })

			writeAll(t, OutputConfig{Path: Stdout, Compression: tt.compression}, testData)

			if got := decompress(t, tt.compression, &buf); got != testData {
				t.Errorf("stdout content = %q, want %q", got, testData)
			}
		})
	}
}

func TestCreateWriter_StdoutZIP(t *testing.T) {
	var buf bytes.Buffer
	saved := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = saved })

	writeAll(t, OutputConfig{Path: Stdout, Compression: ZIP, Format: "csv"}, testData)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("zip.NewReader() error = %v", err)
	}
	if len(zr.File) != 1 || zr.File[0].Name != "export.csv" {
		t.Errorf("zip entries = %v, want export.csv", zr.File)
	}
}

func TestCreateWriter_UnsupportedCompression(t *testing.T) {
	for _, path := range []string{filepath.Join(t.TempDir(), "x.csv"), Stdout} {
		_, err := CreateWriter(OutputConfig{Path: path, Compression: "bzip2"})
		if err == nil || !strings.Contains(err.Error(), "unsupported compression") {
			t.Errorf("CreateWriter(%q) error = %v, want unsupported compression", path, err)
		}
	}
}

func TestCreateWriter_CompressionWhitespaceAndCase(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "test.csv")
	writeAll(t, OutputConfig{Path: testPath, Compression: "  GZIP "}, "test")

	if _, err := os.Stat(testPath + ".gz"); err != nil {
		t.Errorf("expected gzip file: %v", err)
	}
}

func TestCreateWriter_InvalidDirectory(t *testing.T) {
	_, err := CreateWriter(OutputConfig{Path: filepath.Join(t.TempDir(), "missing", "x.csv"), Compression: None})
	if err == nil {
		t.Error("CreateWriter() into a missing directory should fail")
	}
}

func TestDetermineZipEntryName(t *testing.T) {
	tests := []struct {
		name       string
		outputPath string
		format     string
		expected   string
	}{
		{"basic csv file", "/path/to/output.zip", "csv", "output.csv"},
		{"tsv format", "/path/to/data.zip", "tsv", "data.tsv"},
		{"file already has format extension", "/path/to/output.csv.zip", "csv", "output.csv"},
		{"uppercase ZIP extension", "/path/to/DATA.ZIP", "csv", "data.csv"},
		{"empty filename defaults to export", "/path/to/.zip", "csv", "export.csv"},
		{"empty format defaults to csv", "/path/to/out.zip", "", "out.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := determineZipEntryName(tt.outputPath, tt.format)
			if result != tt.expected {
				t.Errorf("determineZipEntryName(%q, %q) = %q, want %q",
					tt.outputPath, tt.format, result, tt.expected)
			}
		})
	}
}

func TestCompositeWriteCloser_NilCloseFunc(t *testing.T) {
	var buf bytes.Buffer
	writer := &compositeWriteCloser{Writer: &buf}
	if err := writer.Close(); err != nil {
		t.Errorf("Close() with nil closeFunc should not error, got: %v", err)
	}
}

func TestFixExtension(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ext   string
		want  string
	}{
		{"no extension", "data", ".zip", "data.zip"},
		{"csv to zip", "data.csv", ".zip", "data.zip"},
		{"already correct zip", "data.csv.zip", ".zip", "data.csv.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fixExtension(tt.input, tt.ext); got != tt.want {
				t.Errorf("fixExtension(%q, %q) = %q, want %q", tt.input, tt.ext, got, tt.want)
			}
		})
	}
}

func BenchmarkCreateWriter_GZIP(b *testing.B) {
	tmpDir := b.TempDir()
	for i := 0; i < b.N; i++ {
		testPath := filepath.Join(tmpDir, "bench.csv")
		writer, _ := CreateWriter(OutputConfig{Path: testPath, Compression: GZIP})
		writer.Write([]byte("test,data,row\n"))
		writer.Close()
		os.Remove(testPath + ".gz")
	}
}
