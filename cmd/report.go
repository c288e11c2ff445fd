package cmd

import (
	"fmt"
	"sync"

	"github.com/muhammadolammi/resumatch/internal/export"
	"github.com/muhammadolammi/resumatch/internal/scoring"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var reportCmd = &cobra.Command{
	Use:   "report FILE...",
	Short: "Score many résumés and write a ranked Excel workbook",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("job", "", "file containing the job description")
	reportCmd.Flags().String("job-text", "", "job description text")
	reportCmd.Flags().String("title", "", "job title shown on the summary sheet")
	reportCmd.Flags().StringP("out", "o", "report.xlsx", "output workbook")
	reportCmd.Flags().IntP("parallel", "p", 4, "files processed concurrently")
	reportCmd.MarkFlagsOneRequired("job", "job-text")
	reportCmd.MarkFlagsMutuallyExclusive("job", "job-text")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	logger := newLogger()
	defer logger.Sync()

	cfg, err := getConfig()
	if err != nil {
		return fmt.Errorf("getting a config: %w", err)
	}

	jobPath, _ := cmd.Flags().GetString("job")
	jobText, _ := cmd.Flags().GetString("job-text")
	jd, err := jobDescription(jobPath, jobText)
	if err != nil {
		return err
	}

	extractor := newExtractor(ctx, cfg, logger)
	scorer := scoring.NewScorer(logger)

	parallel, _ := cmd.Flags().GetInt("parallel")
	sem := make(chan struct{}, max(parallel, 1))
	rows := make([]export.Row, len(args))

	var wg sync.WaitGroup
	for i, path := range args {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			row := export.Row{File: path}
			doc, err := readDocument(path, "", cfg.MaxUploadBytes)
			if err == nil {
				row.Record, err = extractor.Extract(ctx, doc)
			}
			if err != nil {
				logger.Warn("skipping file", zap.String("file", path), zap.Error(err))
				row.Err = err
			} else {
				row.Result = scorer.Evaluate(row.Record, jd)
			}
			rows[i] = row
		}()
	}
	wg.Wait()

	out, _ := cmd.Flags().GetString("out")
	title, _ := cmd.Flags().GetString("title")
	if err := export.WriteWorkbook(out, title, rows); err != nil {
		return err
	}

	logger.Info("report written", zap.String("path", export.XLSXPath(out)), zap.Int("files", len(rows)))
	return nil
}
