package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"cloud.google.com/go/storage"
	"github.com/caarlos0/env/v9"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shinyyama/blockguess-backend/internal/archive"
	"github.com/shinyyama/blockguess-backend/internal/config"
	"github.com/shinyyama/blockguess-backend/internal/db"
	"github.com/shinyyama/blockguess-backend/internal/logger"
	"github.com/shinyyama/blockguess-backend/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

type archiveConfig struct {
	CredentialsJSON string `env:"GOOGLE_CREDENTIALS_JSON"`
	AfterID         uint64 `env:"ARCHIVE_AFTER_ID" envDefault:"0"`
	Prefix          string `env:"ARCHIVE_PREFIX" envDefault:"event-logs"`
	TimeoutSeconds  int    `env:"TIMEOUT_SECONDS" envDefault:"300"`
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if err := logger.Initialize(logger.Configuration{Level: cfg.LogLevel, Console: true}); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Fatal("archive failed", zap.Error(err))
	}
}

func run(cfg *config.Config) error {
	if cfg.ArchiveBucket == "" {
		return errors.New("ARCHIVE_BUCKET is required")
	}
	var acfg archiveConfig
	if err := env.Parse(&acfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(acfg.TimeoutSeconds)*time.Second)
	defer cancel()

	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("sql db: %w", err)
	}
	defer sqlDB.Close()

	creds, err := credentials(ctx, acfg.CredentialsJSON)
	if err != nil {
		return fmt.Errorf("credentials: %w", err)
	}
	client, err := storage.NewClient(ctx, option.WithCredentials(creds))
	if err != nil {
		return fmt.Errorf("storage client: %w", err)
	}
	defer client.Close()

	var buf bytes.Buffer
	res, err := archive.Export(ctx, repository.NewEventLogRepository(gdb), &buf, acfg.AfterID)
	if err != nil {
		return err
	}
	if res.Events == 0 {
		logger.Info("no events to archive", zap.Uint64("after_id", acfg.AfterID))
		return nil
	}

	now := time.Now().UTC()
	objectPath := fmt.Sprintf("%s/%s/%s.ndjson", acfg.Prefix, now.Format("2006/01/02"), uuid.NewString())
	w := client.Bucket(cfg.ArchiveBucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = "application/x-ndjson"
	w.Metadata = map[string]string{
		"after_id": strconv.FormatUint(acfg.AfterID, 10),
		"last_id":  strconv.FormatUint(res.LastID, 10),
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		_ = w.Close()
		return fmt.Errorf("upload %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("upload %s: %w", objectPath, err)
	}

	logger.Info("events archived",
		zap.Int("events", res.Events),
		zap.Uint64("after_id", acfg.AfterID),
		zap.Uint64("last_id", res.LastID),
		zap.String("object", "gs://"+cfg.ArchiveBucket+"/"+objectPath),
	)
	return nil
}

// credentials prefers an inline service-account key and falls back to ADC.
func credentials(ctx context.Context, inline string) (*google.Credentials, error) {
	if inline != "" {
		return google.CredentialsFromJSON(ctx, []byte(inline), storage.ScopeReadWrite)
	}
	return google.FindDefaultCredentials(ctx, storage.ScopeReadWrite)
}
