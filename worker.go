package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/streadway/amqp"

	"github.com/Kele901/career-projector/internal/worker"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume analysis jobs from RabbitMQ",
	Long: "Consume AnalysisJob messages, download each CV from S3-compatible storage (Cloudflare R2), " +
		"analyse it and publish status updates with the report to the results exchange.",
	RunE: runWorker,
}

var workerCount int

func init() {
	workerCmd.Flags().IntVarP(&workerCount, "workers", "n", 0, "Number of consumers (default: concurrency setting)")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, l, a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := cfg.ValidateWorker(); err != nil {
		return err
	}

	store, err := worker.NewS3Store(ctx, worker.StoreConfig{
		AccountID: cfg.Storage.AccountID,
		Endpoint:  cfg.Storage.Endpoint,
		Region:    cfg.Storage.Region,
		Bucket:    cfg.Storage.Bucket,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
	})
	if err != nil {
		return err
	}

	conn, err := amqp.Dial(cfg.Queue.URL)
	if err != nil {
		return fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}
	defer conn.Close()

	pub, err := worker.NewAMQPPublisher(conn, cfg.Queue.ResultsExchange)
	if err != nil {
		return err
	}

	w := worker.New(store, pub, a, worker.Options{
		Attempts: cfg.Queue.MaxRetries + 1,
		Backoff:  500 * time.Millisecond,
		Logger:   l,
	})

	n := workerCount
	if n <= 0 {
		n = cfg.Concurrency
	}
	l.Info("starting worker pool", "workers", n, "queue", cfg.Queue.JobsQueue)
	return w.Run(ctx, conn, worker.ConsumeOptions{
		Queue:    cfg.Queue.JobsQueue,
		Workers:  n,
		Prefetch: cfg.Queue.Prefetch,
	})
}
