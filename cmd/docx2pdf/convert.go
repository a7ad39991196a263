package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"docx-pdf-service/internal/docx"
	"docx-pdf-service/internal/domain"
	"docx-pdf-service/internal/pdf"
	"docx-pdf-service/internal/repository"
	"docx-pdf-service/internal/service"
	"docx-pdf-service/pkg/logger"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.docx>...",
	Short: "Convert .docx files to PDF",
	Long: `Convert reads the paragraphs of each .docx file and writes a PDF with the
same base name into the output directory. Only the trailing .docx extension is
replaced, so a.b.docx becomes a.b.pdf. Existing PDFs are overwritten.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("out", "converted", "output directory for PDF files")
	convertCmd.Flags().String("font", "fonts/DejaVuSans.ttf", "Unicode TrueType font used for rendering")
	convertCmd.Flags().Float64("font-size", pdf.DefaultFontSize, "font size in points")
	convertCmd.Flags().String("format", formatText, "result format: text, json or yaml")

	for _, name := range []string{"out", "font", "font-size", "format"} {
		_ = viper.BindPFlag(name, convertCmd.Flags().Lookup(name))
	}

	rootCmd.AddCommand(convertCmd)
}

// fileResult is the outcome of converting one input file.
type fileResult struct {
	Input      string `json:"input" yaml:"input"`
	Output     string `json:"output,omitempty" yaml:"output,omitempty"`
	Paragraphs int    `json:"paragraphs" yaml:"paragraphs"`
	Size       int64  `json:"size" yaml:"size"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// batchResult summarizes a convert run.
type batchResult struct {
	Converted int          `json:"converted" yaml:"converted"`
	Failed    int          `json:"failed" yaml:"failed"`
	Files     []fileResult `json:"files" yaml:"files"`
}

func runConvert(cmd *cobra.Command, args []string) error {
	format := viper.GetString("format")
	switch format {
	case formatText, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}

	outDir := viper.GetString("out")
	appLogger := logger.NewLoggerWithOutput(viper.GetString("log-level"), "stderr")

	// The CLI reads inputs in place, so the store only needs the output area.
	store := repository.NewLocalFileStore(outDir, outDir, appLogger)
	if err := store.EnsureDirs(); err != nil {
		return err
	}

	svc := service.NewConversionService(
		store,
		docx.NewReader(appLogger),
		pdf.NewWriter(viper.GetString("font"), viper.GetFloat64("font-size")),
		nil,
		appLogger,
	)

	result := convertFiles(cmd.Context(), svc, args, outDir)
	if err := writeResult(cmd.OutOrStdout(), result, format); err != nil {
		return err
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}

// convertFiles converts every input independently. A failing file does not
// stop the rest of the batch.
func convertFiles(ctx context.Context, svc domain.ConversionService, inputs []string, outDir string) *batchResult {
	if ctx == nil {
		ctx = context.Background()
	}

	result := &batchResult{Files: make([]fileResult, 0, len(inputs))}
	for _, input := range inputs {
		fr := fileResult{Input: input}

		base := filepath.Base(input)
		if err := service.ValidateUploadName(base); err != nil {
			fr.Error = err.Error()
		} else if converted, err := svc.Convert(ctx, input, service.SanitizeFilename(base)); err != nil {
			fr.Error = err.Error()
		} else {
			fr.Output = filepath.Join(outDir, converted.Name)
			fr.Paragraphs = converted.Paragraphs
			fr.Size = converted.Size
		}

		if fr.Error != "" {
			result.Failed++
		} else {
			result.Converted++
		}
		result.Files = append(result.Files, fr)
	}
	return result
}

func writeResult(w io.Writer, result *batchResult, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case formatYAML:
		data, err := yaml.Marshal(result)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	for _, f := range result.Files {
		if f.Error != "" {
			fmt.Fprintf(w, "FAIL %s: %s\n", f.Input, f.Error)
			continue
		}
		fmt.Fprintf(w, "OK   %s -> %s (%d paragraphs, %s)\n", f.Input, f.Output, f.Paragraphs, humanize.Bytes(uint64(f.Size)))
	}
	fmt.Fprintf(w, "%d converted, %d failed\n", result.Converted, result.Failed)
	return nil
}
