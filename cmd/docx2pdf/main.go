// Package main is the entry point for the docx2pdf command line converter.
// It runs the same reader, writer and conversion service as the HTTP server
// against local files.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the docx2pdf CLI.
var rootCmd = &cobra.Command{
	Use:   "docx2pdf",
	Short: "Convert Word (.docx) documents to PDF",
	Long: `docx2pdf renders the paragraph text of .docx documents into PDF files
using a Unicode TrueType font. It shares its conversion pipeline with the
docx-pdf-service HTTP server.

Settings can come from flags, DOCX2PDF_* environment variables or a
docx2pdf.yaml config file.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./docx2pdf.yaml or ~/.config/docx2pdf/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docx2pdf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docx2pdf"))
		}
	}

	viper.SetEnvPrefix("DOCX2PDF")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
