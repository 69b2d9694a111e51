package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fbz-tec/csvstream/core/csvstream"
	"github.com/fbz-tec/csvstream/core/output"
	"github.com/fbz-tec/csvstream/core/sources"
	"github.com/fbz-tec/csvstream/internal/logger"
	"github.com/spf13/cobra"
)

var sheetName string

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Convert an XLSX workbook or a YAML file to CSV",
	Long: `Convert reads records from a workbook sheet (.xlsx, .xlsm) or from a YAML
file (.yaml, .yml) and writes them as CSV with the same options as an export.

The first worksheet row, or the keys of the first YAML mapping, name the
columns. Use - as input to read YAML from stdin.`,
	Example: `  csvstream convert products.xlsx --sheet Stock -o stock.csv
  cat items.yaml | csvstream convert - -o items.csv.gz -z gzip`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().SortFlags = false
	convertCmd.Flags().StringVar(&sheetName, "sheet", "", "Worksheet to convert (default: first sheet)")
	convertCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path, or - for stdout (required)")
	convertCmd.Flags().StringVarP(&compression, "compression", "z", "none", "Compression to apply to the output (none, gzip, zip, zstd, lz4)")
	convertCmd.Flags().BoolVarP(&failOnEmpty, "fail-on-empty", "x", false, "Exit with error if the input has no records")
	convertCmd.Flags().BoolVar(&progress, "progress", false, "Show a progress indicator of written bytes")

	if err := convertCmd.MarkFlagRequired("output"); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	opts, err := csvOptions(cmd, loadConfig())
	if err != nil {
		return err
	}

	input := args[0]
	var (
		records csvstream.Records[sources.Row]
		columns []string
	)

	switch ext := strings.ToLower(filepath.Ext(input)); {
	case input == output.Stdout || ext == ".yaml" || ext == ".yml":
		y, err := openYAMLInput(input)
		if err != nil {
			return err
		}
		records, columns = y, y.Columns()

	case ext == ".xlsx" || ext == ".xlsm":
		x, err := sources.OpenXLSX(input, sheetName)
		if err != nil {
			return err
		}
		logger.Debug("Converting sheet %q of %s", x.Sheet(), input)
		records, columns = x, x.Columns()

	default:
		return fmt.Errorf("unsupported input %q: expected .xlsx, .xlsm, .yaml or .yml", input)
	}

	count, err := exportRecords(records, columns, opts)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}
	return handleExportResult(count, outputPath)
}

type yamlFile struct {
	*sources.YAMLRecords
	f *os.File
}

func (y yamlFile) Close() error {
	if y.f == nil {
		return nil
	}
	return y.f.Close()
}

func openYAMLInput(input string) (yamlFile, error) {
	if input == output.Stdout {
		y, err := sources.OpenYAML(bufio.NewReader(os.Stdin))
		if err != nil {
			return yamlFile{}, fmt.Errorf("error reading YAML from stdin: %w", err)
		}
		return yamlFile{YAMLRecords: y}, nil
	}

	f, err := os.Open(input)
	if err != nil {
		return yamlFile{}, fmt.Errorf("error opening input: %w", err)
	}
	y, err := sources.OpenYAML(bufio.NewReader(f))
	if err != nil {
		f.Close()
		return yamlFile{}, fmt.Errorf("error reading %s: %w", input, err)
	}
	return yamlFile{YAMLRecords: y, f: f}, nil
}
