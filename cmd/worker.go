package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/muhammadolammi/resumatch/internal/database"
	"github.com/muhammadolammi/resumatch/internal/scoring"
	"github.com/muhammadolammi/resumatch/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume analysis sessions from RabbitMQ and score their résumés",
	Args:  cobra.NoArgs,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)

	workerCmd.Flags().IntP("workers", "w", 3, "number of queue consumers")
	viper.BindPFlag("worker.count", workerCmd.Flags().Lookup("workers"))
}

func runWorker(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger()
	defer logger.Sync()

	cfg, err := getConfig()
	if err != nil {
		return fmt.Errorf("getting a config: %w", err)
	}
	if err := cfg.ValidateWorker(); err != nil {
		return err
	}

	logger.Info("starting the resumatch worker", zap.String("version", version))

	db, err := sql.Open("postgres", cfg.DBURL)
	if err != nil {
		return fmt.Errorf("error opening db: %w", err)
	}
	defer db.Close()

	storage, err := worker.NewR2Storage(ctx, worker.R2Config{
		AccountID: cfg.R2.AccountID,
		Bucket:    cfg.R2.Bucket,
		AccessKey: cfg.R2.AccessKey,
		SecretKey: cfg.R2.SecretKey,
	})
	if err != nil {
		return err
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}
	defer conn.Close()

	w := worker.New(worker.Config{
		DB:               database.New(db),
		Storage:          storage,
		Publisher:        worker.NewAMQPPublisher(conn, cfg.Worker.Exchange),
		Extractor:        newExtractor(context.WithoutCancel(ctx), cfg, logger),
		Scorer:           scoring.NewScorer(logger),
		Logger:           logger,
		RabbitMQURL:      cfg.RabbitMQURL,
		Queue:            cfg.Worker.Queue,
		MaxUploadBytes:   cfg.MaxUploadBytes,
		DownloadAttempts: cfg.Worker.DownloadAttempts,
		SaveAttempts:     cfg.Worker.SaveAttempts,
	})

	logger.Info("starting consumer pool", zap.Int("workers", cfg.Worker.Count), zap.String("queue", cfg.Worker.Queue))
	return w.StartConsumerWorkerPool(ctx, cfg.Worker.Count)
}
