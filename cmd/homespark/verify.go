package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/homespark/internal/adapters/repository"
	"github.com/okian/homespark/internal/domain/catalog"
	"github.com/okian/homespark/internal/domain/engine"
	"github.com/okian/homespark/internal/domain/model"
	"github.com/okian/homespark/pkg/logger"
)

func verifyCmd() *cobra.Command {
	var loc catalogFlags
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that a catalog loads and can serve recommendations",
		Long: `Load the catalog the server would load, print its metadata and
vocabularies, and run one recommendation built from the first entry of
every vocabulary across the full cost range.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVerify(cmd, &loc)
		},
	}
	loc.register(cmd)
	return cmd
}

func runVerify(cmd *cobra.Command, loc *catalogFlags) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path, kind := loc.location(cfg)

	src, err := repository.Open(kind, path)
	if err != nil {
		return err
	}
	cat, err := src.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load catalog %s: %w", path, err)
	}

	w := cmd.OutOrStdout()
	meta := cat.Metadata()
	fmt.Fprintf(w, "📦 Catalog %s (%s)\n", path, src.Kind())
	fmt.Fprintf(w, "   version: %s\n", meta.Version)
	fmt.Fprintf(w, "   model type: %s\n", meta.ModelType)
	fmt.Fprintf(w, "   trained on: %s\n", meta.TrainedOn)
	fmt.Fprintf(w, "   items: %d\n", cat.Len())
	if cat.Len() == 0 {
		return engine.ErrEmptyCatalog
	}
	lo, hi := costRange(cat)
	fmt.Fprintf(w, "   cost range: %d-%d\n", lo, hi)

	prefs := model.Preferences{BudgetMin: lo, BudgetMax: hi}
	for _, d := range catalog.Dimensions {
		values := cat.Vocabulary(d).Values()
		fmt.Fprintf(w, "   %s: %d values %v\n", d, len(values), values)
		if len(values) > 0 {
			setPreference(&prefs, d, values[0])
		}
	}

	eng := engine.New(cat,
		engine.WithLogger(logger.Get().Named("engine")),
		engine.WithMaxCost(cfg.CatalogMaxCost),
		engine.WithMinCandidates(cfg.MinCandidates),
		engine.WithFallbackMargin(cfg.FallbackMargin),
		engine.WithSeed(cfg.FallbackSeed),
	)
	res, err := eng.Recommend(cmd.Context(), prefs, cfg.DefaultMaxResults)
	if err != nil {
		return fmt.Errorf("test recommendation failed: %w", err)
	}
	if len(res.Recommendations) == 0 {
		return fmt.Errorf("test recommendation returned no items")
	}
	best := res.Recommendations[0]
	fmt.Fprintf(w, "✅ Test recommendation: %d results, best %s %q (%s, %.2f), fallback=%t\n",
		len(res.Recommendations), best.ID, best.ItemName, best.MatchQuality, best.Confidence, res.Fallback())
	return nil
}

func costRange(cat *catalog.Catalog) (lo, hi int) {
	items := cat.Items()
	lo, hi = items[0].Cost, items[0].Cost
	for _, it := range items[1:] {
		lo = min(lo, it.Cost)
		hi = max(hi, it.Cost)
	}
	return lo, hi
}

func setPreference(p *model.Preferences, d catalog.Dimension, v string) {
	switch d {
	case catalog.Style:
		p.Style = v
	case catalog.RoomType:
		p.RoomType = v
	case catalog.IndoorOutdoor:
		p.IndoorOutdoor = v
	case catalog.Climate:
		p.Climate = v
	}
}
