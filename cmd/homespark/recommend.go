package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/okian/homespark/internal/adapters/repository"
	service "github.com/okian/homespark/internal/app"
	"github.com/okian/homespark/internal/domain/engine"
	"github.com/okian/homespark/internal/domain/model"
	"github.com/okian/homespark/internal/domain/types"
	"github.com/okian/homespark/pkg/logger"
)

type recommendOutput struct {
	ModelType       string                 `json:"model_type"`
	Fallback        bool                   `json:"fallback"`
	TotalResults    int                    `json:"total_results"`
	Recommendations []types.Recommendation `json:"recommendations"`
	Warnings        []recommendWarning     `json:"warnings"`
}

type recommendWarning struct {
	Dimension string `json:"dimension"`
	Input     string `json:"input"`
	Message   string `json:"message"`
}

// recommendOptions holds the recommend command's flags.
type recommendOptions struct {
	catalog catalogFlags
	prefs   model.Preferences
	results int
	seed    int64
}

func recommendCmd() *cobra.Command {
	opts := &recommendOptions{}
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Run one recommendation against a catalog and print it as JSON",
		Example: `  homespark recommend --catalog data/catalog.json \
    --budget-min 100 --budget-max 500 --style modern --room kitchen \
    --io indoor --climate temperate -n 3`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecommend(cmd, opts)
		},
	}

	opts.catalog.register(cmd)
	cmd.Flags().IntVar(&opts.prefs.BudgetMin, "budget-min", 0, "lower budget bound")
	cmd.Flags().IntVar(&opts.prefs.BudgetMax, "budget-max", 0, "upper budget bound")
	cmd.Flags().StringVar(&opts.prefs.Style, "style", "", "preferred style")
	cmd.Flags().StringVar(&opts.prefs.RoomType, "room", "", "room type")
	cmd.Flags().StringVar(&opts.prefs.IndoorOutdoor, "io", "", "indoor or outdoor")
	cmd.Flags().StringVar(&opts.prefs.Climate, "climate", "", "climate type")
	cmd.Flags().StringVar(&opts.prefs.Location, "location", "", "location (informational)")
	cmd.Flags().IntVarP(&opts.results, "results", "n", 0, "number of results (default: default_max_results from config)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "fallback sampling seed (default: fallback_seed from config)")
	_ = cmd.MarkFlagRequired("budget-min")
	_ = cmd.MarkFlagRequired("budget-max")

	return cmd
}

func runRecommend(cmd *cobra.Command, opts *recommendOptions) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path, kind := opts.catalog.location(cfg)

	n := opts.results
	if n < 0 || n > cfg.MaxResultsLimit {
		return fmt.Errorf("results must be between 1 and %d", cfg.MaxResultsLimit)
	}
	seed := cfg.FallbackSeed
	if cmd.Flags().Changed("seed") {
		seed = opts.seed
	}

	src, err := repository.Open(kind, path)
	if err != nil {
		return err
	}
	svc := service.New(src,
		service.WithLogger(logger.Get().Named("service")),
		service.WithEngineOptions(
			engine.WithMaxCost(cfg.CatalogMaxCost),
			engine.WithMinCandidates(cfg.MinCandidates),
			engine.WithFallbackMargin(cfg.FallbackMargin),
			engine.WithDefaultResults(cfg.DefaultMaxResults),
			engine.WithSeed(seed),
		),
	)
	ctx := cmd.Context()
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	res, err := svc.Recommend(ctx, opts.prefs, n)
	if err != nil {
		return err
	}

	out := recommendOutput{
		ModelType:       svc.ModelInfo().ModelType,
		Fallback:        res.Fallback(),
		TotalResults:    len(res.Recommendations),
		Recommendations: res.Recommendations,
		Warnings:        make([]recommendWarning, 0, len(res.Warnings)),
	}
	if out.Recommendations == nil {
		out.Recommendations = []types.Recommendation{}
	}
	for _, w := range res.Warnings {
		out.Warnings = append(out.Warnings, recommendWarning{
			Dimension: w.Dimension.String(),
			Input:     w.Input,
			Message:   w.Error(),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
