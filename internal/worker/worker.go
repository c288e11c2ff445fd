// Package worker consumes analysis sessions from RabbitMQ, scores every
// résumé uploaded to the session and stores the results.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/resumatch/internal/database"
	"github.com/muhammadolammi/resumatch/internal/logger"
	"github.com/muhammadolammi/resumatch/internal/resume"
	"github.com/muhammadolammi/resumatch/internal/scoring"
	"go.uber.org/zap"
)

// Store is the subset of database.Queries the worker uses.
type Store interface {
	GetSession(ctx context.Context, id uuid.UUID) (database.Session, error)
	GetResumesBySession(ctx context.Context, sessionID uuid.UUID) ([]database.Resume, error)
	UpdateSessionStatus(ctx context.Context, arg database.UpdateSessionStatusParams) error
	UpdateResumeStatus(ctx context.Context, arg database.UpdateResumeStatusParams) error
	CreateOrUpdateAnalysesResults(ctx context.Context, arg database.CreateOrUpdateAnalysesResultsParams) error
}

type Downloader interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, update StatusUpdate) error
}

type Config struct {
	DB        Store
	Storage   Downloader
	Publisher Publisher
	Extractor *resume.Extractor
	Scorer    *scoring.Scorer
	Logger    *zap.Logger

	RabbitMQURL      string
	Queue            string
	MaxUploadBytes   int64
	DownloadAttempts int
	SaveAttempts     int
}

type Worker struct {
	cfg     Config
	logger  *zap.Logger
	backoff backoff
	now     func() time.Time
}

func New(cfg Config) *Worker {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Extractor == nil {
		cfg.Extractor = resume.NewExtractor(resume.WithLogger(cfg.Logger))
	}
	if cfg.Scorer == nil {
		cfg.Scorer = scoring.NewScorer(cfg.Logger)
	}
	if cfg.Queue == "" {
		cfg.Queue = "sessions"
	}
	return &Worker{
		cfg:     cfg,
		logger:  cfg.Logger,
		backoff: linearBackoff,
		now:     time.Now,
	}
}

// handleMessage runs one session end to end and reports its status.
func (w *Worker) handleMessage(ctx context.Context, body []byte) {
	session := Session{}
	if err := json.Unmarshal(body, &session); err != nil {
		w.logger.Error("error unmarshalling message body", zap.Error(err))
		if session.ID != uuid.Nil {
			w.setStatus(ctx, session.ID, StatusFailed, "analysis failed")
		}
		return
	}
	if session.ID == uuid.Nil {
		w.logger.Error("message has no session id", zap.String("body", logger.Truncate(string(body), 200)))
		return
	}

	log := w.logger.With(zap.String("session_id", session.ID.String()))
	log.Info("processing session")
	w.setStatus(ctx, session.ID, StatusProcessing, "analysis started")

	if err := w.processSession(ctx, session); err != nil {
		log.Error("session analysis failed", zap.Error(err))
		w.setStatus(ctx, session.ID, StatusFailed, "analysis failed")
		return
	}

	log.Info("session analyzed")
	w.setStatus(ctx, session.ID, StatusCompleted, "analysis completed")
}

func (w *Worker) setStatus(ctx context.Context, id uuid.UUID, status, message string) {
	log := w.logger.With(zap.String("session_id", id.String()), zap.String("status", status))

	if err := w.cfg.DB.UpdateSessionStatus(ctx, database.UpdateSessionStatusParams{
		Status: status,
		ID:     id,
	}); err != nil {
		log.Warn("failed to update session status", zap.Error(err))
	}

	if w.cfg.Publisher == nil {
		return
	}
	if err := w.cfg.Publisher.Publish(ctx, StatusUpdate{
		SessionID: id,
		Status:    status,
		Message:   message,
		Timestamp: w.now(),
	}); err != nil {
		log.Warn("failed to publish update", zap.Error(err))
	}
}

// processSession downloads, extracts and scores every résumé of the session.
// Per-résumé failures become error entries; only loading the session and
// saving the results can fail the whole session.
func (w *Worker) processSession(ctx context.Context, session Session) error {
	if strings.TrimSpace(session.JobDescription) == "" {
		row, err := w.cfg.DB.GetSession(ctx, session.ID)
		if err != nil {
			return fmt.Errorf("error getting session %v: %w", session.ID, err)
		}
		session = sessionFromRow(row)
	}

	resumes, err := w.cfg.DB.GetResumesBySession(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("error getting resumes for session %v: %w", session.ID, err)
	}

	w.logger.Debug("scoring session",
		zap.String("session_id", session.ID.String()),
		zap.Int("resumes", len(resumes)),
		zap.String("job_title", session.JobTitle),
		zap.String("job_description", logger.Truncate(session.JobDescription, 120)),
	)

	results := &AnalysesResults{
		SessionID: session.ID,
		Results:   make([]AnalysesResult, 0, len(resumes)),
	}
	for _, r := range resumes {
		result := w.analyzeResume(ctx, session.JobDescription, r)

		status := ResumeAnalyzed
		if result.IsErrorResult {
			status = ResumeFailed
		}
		if err := w.cfg.DB.UpdateResumeStatus(ctx, database.UpdateResumeStatusParams{
			UploadStatus: status,
			ID:           r.ID,
		}); err != nil {
			w.logger.Warn("failed to update resume status", zap.String("object_key", r.ObjectKey), zap.Error(err))
		}

		results.Results = append(results.Results, result)
	}

	resultsJSON, err := json.Marshal(results.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal analyses results: %w", err)
	}

	_, err = retry(ctx, w.cfg.SaveAttempts, w.backoff, func() (any, error) {
		return nil, w.cfg.DB.CreateOrUpdateAnalysesResults(ctx, database.CreateOrUpdateAnalysesResultsParams{
			Results:   resultsJSON,
			SessionID: results.SessionID,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to save analyses results after retries: %w", err)
	}
	return nil
}

func (w *Worker) analyzeResume(ctx context.Context, jobDescription string, r database.Resume) AnalysesResult {
	result := AnalysesResult{
		ResumeID: r.ID,
		Filename: r.OriginalFilename,
	}
	log := w.logger.With(zap.String("object_key", r.ObjectKey))

	fail := func(msg string, err error) AnalysesResult {
		log.Warn(msg, zap.Error(err))
		result.IsErrorResult = true
		result.Error = fmt.Sprintf("%s: %v", msg, err)
		return result
	}

	data, err := retry(ctx, w.cfg.DownloadAttempts, w.backoff, func() ([]byte, error) {
		return w.cfg.Storage.Download(ctx, r.ObjectKey)
	})
	if err != nil {
		return fail("file download error", err)
	}

	if err := resume.CheckSize(len(data), w.cfg.MaxUploadBytes); err != nil {
		return fail("file rejected", err)
	}

	format, err := documentFormat(r)
	if err != nil {
		return fail("file rejected", err)
	}

	record, err := w.cfg.Extractor.Extract(ctx, resume.Document{Content: data, Format: format})
	if err != nil {
		return fail("text extraction error", err)
	}

	scored := w.cfg.Scorer.Evaluate(record, jobDescription)

	result.CandidateName = record.Name
	result.CandidateEmail = record.Email
	result.Record = &record
	result.MatchScore = scored.Score
	result.SkillsMatch = scored.SkillsMatch
	log.Debug("resume scored", zap.Int("match_score", scored.Score))
	return result
}

// documentFormat prefers the stored MIME type and falls back to the file
// extension of the original upload.
func documentFormat(r database.Resume) (resume.Format, error) {
	format, err := resume.FormatFromMime(r.Mime)
	if err == nil {
		return format, nil
	}
	if f, extErr := resume.ParseFormat(filepath.Ext(r.OriginalFilename)); extErr == nil {
		return f, nil
	}
	return "", err
}
