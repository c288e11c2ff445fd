package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/muhammadolammi/resumatch/internal/resume"
	"github.com/muhammadolammi/resumatch/internal/scoring"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score FILE",
	Short: "Score a résumé against a job description",
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("format", "f", "", "document format: pdf, docx or json (default from file extension)")
	scoreCmd.Flags().String("job", "", "file containing the job description")
	scoreCmd.Flags().String("job-text", "", "job description text")
	scoreCmd.MarkFlagsOneRequired("job", "job-text")
	scoreCmd.MarkFlagsMutuallyExclusive("job", "job-text")
}

type scoreOutput struct {
	Record      resume.Record      `json:"record"`
	Score       int                `json:"score"`
	SkillsMatch map[string]float64 `json:"skills_match"`
}

func runScore(cmd *cobra.Command, args []string) error {
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
	if jd == "" {
		return errors.New("job description is empty")
	}

	format, _ := cmd.Flags().GetString("format")
	doc, err := readDocument(args[0], format, cfg.MaxUploadBytes)
	if err != nil {
		return err
	}

	record, err := newExtractor(ctx, cfg, logger).Extract(ctx, doc)
	if err != nil {
		return err
	}
	result := scoring.NewScorer(logger).Score(record, jd)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(scoreOutput{
		Record:      record,
		Score:       result.Score,
		SkillsMatch: result.SkillsMatch,
	})
}
