package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/orthodoxmetrics/record-extractor/internal/common"
	"github.com/orthodoxmetrics/record-extractor/internal/engine"
	"github.com/orthodoxmetrics/record-extractor/internal/export"
	"github.com/orthodoxmetrics/record-extractor/internal/repository"
	"github.com/orthodoxmetrics/record-extractor/internal/worker"
)

var (
	flagRecordType string
	flagLanguage   string
	flagTenant     string
	flagDB         string
	flagOut        string
)

var rootCmd = &cobra.Command{
	Use:   "extractctl",
	Short: "Parish record extraction from OCR text",
	Long: `Extracts structured baptism, marriage, and funeral records from raw
OCR text. Works standalone on files, or against the job database the
extractd daemon processes.`,
	SilenceUsage: true,
}

var extractCmd = &cobra.Command{
	Use:   "extract [files...]",
	Short: "Extract records from OCR text files (stdin when no files)",
	RunE:  runExtract,
}

var enqueueCmd = &cobra.Command{
	Use:   "enqueue [files...]",
	Short: "Queue OCR text files as extraction jobs",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEnqueue,
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process pending jobs until the queue drains",
	RunE:  runProcess,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export completed jobs to an XLSX workbook",
	RunE:  runExport,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database DSN or sqlite path (defaults to DB_URL)")

	extractCmd.Flags().StringVarP(&flagRecordType, "type", "t", "", "record type hint: baptism, marriage, funeral")
	extractCmd.Flags().StringVarP(&flagLanguage, "lang", "l", "", "language hint: en, el, ru, ro, sr, multi")
	extractCmd.Flags().StringVar(&flagTenant, "tenant", "", "opaque tenant context recorded with jobs")

	enqueueCmd.Flags().StringVarP(&flagRecordType, "type", "t", "", "record type hint")
	enqueueCmd.Flags().StringVarP(&flagLanguage, "lang", "l", "", "language hint")
	enqueueCmd.Flags().StringVar(&flagTenant, "tenant", "", "opaque tenant context recorded with jobs")

	exportCmd.Flags().StringVarP(&flagOut, "out", "o", "records.xlsx", "output workbook path")

	rootCmd.AddCommand(extractCmd, enqueueCmd, processCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// openDB connects using --db, falling back to the DB_URL environment.
func openDB(ctx context.Context, logger *slog.Logger) (*repository.DB, error) {
	cfg := common.LoadConfig()
	if flagDB != "" {
		cfg.Database.DSN = flagDB
	}
	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("no database configured: pass --db or set DB_URL")
	}
	db, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(ctx, db, logger); err != nil {
		db.Close(logger)
		return nil, err
	}
	return db, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	extractor := engine.NewExtractor(newLogger())

	texts, err := readInputs(args)
	if err != nil {
		return err
	}
	for name, text := range texts {
		result := extractor.Extract(engine.Input{
			Text:           text,
			RecordTypeHint: flagRecordType,
			LanguageHint:   flagLanguage,
			TenantContext:  flagTenant,
		})
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result for %s: %w", name, err)
		}
		if len(texts) > 1 {
			cmd.Printf("// %s\n", name)
		}
		cmd.Println(string(data))
	}
	return nil
}

func runEnqueue(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	ctx := context.Background()
	db, err := openDB(ctx, logger)
	if err != nil {
		return err
	}
	defer db.Close(logger)

	jobs := repository.NewJobRepository(db, logger)
	texts, err := readInputs(args)
	if err != nil {
		return err
	}
	for name, text := range texts {
		job, err := jobs.Enqueue(ctx, text, flagRecordType, flagLanguage, flagTenant)
		if err != nil {
			return fmt.Errorf("enqueue %s: %w", name, err)
		}
		cmd.Printf("%s\t%s\n", job.ID, name)
	}
	return nil
}

func runProcess(cmd *cobra.Command, _ []string) error {
	logger := newLogger()
	ctx := context.Background()
	db, err := openDB(ctx, logger)
	if err != nil {
		return err
	}
	defer db.Close(logger)

	jobs := repository.NewJobRepository(db, logger)
	proc := worker.NewProcessor(logger, engine.NewExtractor(logger), jobs)
	loop := worker.NewLoop(logger, proc, common.WorkerConfig{BatchSize: 50})

	total := 0
	for {
		n, err := loop.RunOnce(ctx)
		if err != nil {
			return err
		}
		total += n
		if n == 0 {
			break
		}
	}
	cmd.Printf("processed %d job(s)\n", total)
	return nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	logger := newLogger()
	ctx := context.Background()
	db, err := openDB(ctx, logger)
	if err != nil {
		return err
	}
	defer db.Close(logger)

	svc := export.NewService(repository.NewJobRepository(db, logger), logger)
	data, err := svc.ExportJobsXLSX(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(flagOut, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", flagOut, err)
	}
	cmd.Printf("wrote %s (%d bytes)\n", flagOut, len(data))
	return nil
}

// readInputs maps file name to contents; no args means one stdin input.
func readInputs(args []string) (map[string]string, error) {
	texts := make(map[string]string, len(args))
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		texts["<stdin>"] = string(data)
		return texts, nil
	}
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		texts[path] = string(data)
	}
	return texts, nil
}
