package cmd

import (
	"context"
	"fmt"
	"time"

	"hn-gems/internal/store"

	"github.com/spf13/cobra"
)

var (
	gemsKarma    int
	gemsMinScore float64
	gemsHours    int
	gemsLimit    int
)

var gemsCmd = &cobra.Command{
	Use:   "gems",
	Short: "List currently tracked hidden gems",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		karma := gemsKarma
		if karma <= 0 {
			karma = cfg.Sweep.KarmaThreshold
		}
		minScore := gemsMinScore
		if minScore <= 0 {
			minScore = cfg.Sweep.MinInterestScore
		}

		ctx := context.Background()
		posts, err := a.store.Gems(ctx, store.GemFilter{
			KarmaCeiling: karma,
			MinScore:     minScore,
			Since:        time.Now().UTC().Add(-time.Duration(gemsHours) * time.Hour),
			Limit:        gemsLimit,
		})
		if err != nil {
			return err
		}

		if len(posts) == 0 {
			fmt.Println("no hidden gems found")
			return nil
		}
		for _, p := range posts {
			score := "-"
			if qs, err := a.store.ScoreForPost(ctx, p.ID); err == nil && qs != nil {
				score = fmt.Sprintf("%.2f", qs.EffectiveScore())
			}
			fmt.Printf("%d  %s  karma=%d  points=%d  interest=%s\n  %s\n",
				p.HNID, p.Title, p.AuthorKarma, p.BestScore(), score, p.HNURL())
		}
		return nil
	},
}

func init() {
	gemsCmd.Flags().IntVar(&gemsKarma, "karma", 0, "author karma ceiling (defaults to configured threshold)")
	gemsCmd.Flags().Float64Var(&gemsMinScore, "min-score", 0, "minimum overall interest score")
	gemsCmd.Flags().IntVar(&gemsHours, "hours", 48, "only gems discovered within the last N hours")
	gemsCmd.Flags().IntVar(&gemsLimit, "limit", 50, "maximum gems to list")
	rootCmd.AddCommand(gemsCmd)
}
