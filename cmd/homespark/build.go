package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/okian/homespark/internal/adapters/repository"
	"github.com/okian/homespark/internal/domain/catalog"
	"github.com/okian/homespark/pkg/logger"
)

const defaultModelType = "content-heuristic-v2.5"

var errNoOutput = errors.New("at least one of --out or --sqlite is required")

// buildOptions holds the build command's flags.
type buildOptions struct {
	csvPath         string
	outPath         string
	dbPath          string
	artifactVersion string
	modelType       string
	progress        bool
}

func buildCmd() *cobra.Command {
	opts := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a catalog artifact from an interaction dataset",
		Long: `Read an interaction dataset (CSV) and write the catalog the server loads.

Rows missing a category value are skipped, repeated item ids keep their
first row, missing names become "Unknown Item" and missing costs the median
of the present ones. Category values seen on the user side of a row join
the vocabulary of the same dimension.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "interaction dataset to read")
	cmd.Flags().StringVar(&opts.outPath, "out", "", "JSON catalog artifact to write")
	cmd.Flags().StringVar(&opts.dbPath, "sqlite", "", "SQLite database to store the catalog in")
	cmd.Flags().StringVar(&opts.artifactVersion, "artifact-version", version, "version stamped on the artifact")
	cmd.Flags().StringVar(&opts.modelType, "model-type", defaultModelType, "model type stamped on the artifact")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "show a progress indicator while reading rows")
	_ = cmd.MarkFlagRequired("csv")

	return cmd
}

func runBuild(cmd *cobra.Command, opts *buildOptions) error {
	csvPath, outPath, dbPath := opts.csvPath, opts.outPath, opts.dbPath

	if outPath == "" && dbPath == "" {
		return errNoOutput
	}

	ctx := cmd.Context()
	log := logger.Get().Named("build")

	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	builder := repository.NewCSVBuilder(catalog.Metadata{
		Version:   opts.artifactVersion,
		ModelType: opts.modelType,
		TrainedOn: time.Now().UTC().Format(time.RFC3339),
	})
	if opts.progress {
		bar := progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("reading rows"),
			progressbar.OptionShowCount(),
		)
		defer func() { _ = bar.Finish() }()
		builder.OnRow(func(int) { _ = bar.Add(1) })
	}

	cat, report, err := builder.Build(f)
	if err != nil {
		return fmt.Errorf("failed to build catalog: %w", err)
	}
	log.Info(ctx, "catalog built",
		logger.Int("rows", report.Rows),
		logger.Int("items", report.Items),
		logger.Int("duplicates", report.Duplicates),
		logger.Int("incomplete", report.Incomplete))

	if outPath != "" {
		if err := repository.WriteArtifact(outPath, cat); err != nil {
			return fmt.Errorf("failed to write artifact: %w", err)
		}
	}
	if dbPath != "" {
		store, err := repository.NewSQLiteStore(dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		if err := store.Save(ctx, cat); err != nil {
			return fmt.Errorf("failed to store catalog: %w", err)
		}
	}

	printBuildReport(cmd, report, outPath, dbPath)
	return nil
}

func printBuildReport(cmd *cobra.Command, r repository.BuildReport, outPath, dbPath string) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "✅ Built catalog with %d items from %d rows\n", r.Items, r.Rows)
	fmt.Fprintf(w, "   duplicates skipped: %d\n", r.Duplicates)
	fmt.Fprintf(w, "   incomplete rows skipped: %d\n", r.Incomplete)
	fmt.Fprintf(w, "   names filled: %d, costs filled: %d (median %d)\n", r.FilledNames, r.FilledCosts, r.MedianCost)

	dims := make([]string, 0, len(r.Vocabularies))
	for d := range r.Vocabularies {
		dims = append(dims, d)
	}
	sort.Strings(dims)
	for _, d := range dims {
		fmt.Fprintf(w, "   %s vocabulary: %d values\n", d, r.Vocabularies[d])
	}

	if outPath != "" {
		fmt.Fprintf(w, "   artifact: %s\n", outPath)
	}
	if dbPath != "" {
		fmt.Fprintf(w, "   sqlite: %s\n", dbPath)
	}
}
