package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var extractCmd = &cobra.Command{
	Use:   "extract FILE",
	Short: "Extract name, contact details, skills and experience from a résumé",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("format", "f", "", "document format: pdf, docx or json (default from file extension)")
	extractCmd.Flags().Bool("text", false, "print the decoded plain text instead of the record")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	logger := newLogger()
	defer logger.Sync()

	cfg, err := getConfig()
	if err != nil {
		return fmt.Errorf("getting a config: %w", err)
	}

	format, _ := cmd.Flags().GetString("format")
	doc, err := readDocument(args[0], format, cfg.MaxUploadBytes)
	if err != nil {
		return err
	}

	extractor := newExtractor(ctx, cfg, logger)

	if asText, _ := cmd.Flags().GetBool("text"); asText {
		text, err := extractor.ExtractText(doc)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	}

	record, err := extractor.Extract(ctx, doc)
	if err != nil {
		return err
	}
	logger.Debug("extracted", zap.String("file", args[0]), zap.Int("skills", len(record.Skills)))

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(record)
}
