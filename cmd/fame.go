package cmd

import (
	"context"
	"fmt"
	"time"

	"hn-gems/internal/store"

	"github.com/spf13/cobra"
)

var (
	fameVerifiedOnly bool
	fameDays         int
	fameLimit        int
)

var fameCmd = &cobra.Command{
	Use:   "fame",
	Short: "List hall of fame entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		f := store.FameFilter{
			VerifiedOnly: fameVerifiedOnly,
			Limit:        fameLimit,
		}
		if fameDays > 0 {
			f.Since = time.Now().UTC().AddDate(0, 0, -fameDays)
		}

		entries, err := a.store.HallOfFameEntries(context.Background(), f)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("hall of fame is empty")
			return nil
		}
		for _, e := range entries {
			success := "pending"
			if e.SuccessAt != nil {
				success = fmt.Sprintf("%s at %s (+%d pts, x%.1f)",
					e.SuccessType,
					e.SuccessAt.Format(time.RFC3339),
					e.ScoreImprovement(),
					e.ScoreMultiplier())
			}
			fmt.Printf("post=%d  discovered=%s (%s)  peak=%d  %s\n",
				e.PostID,
				e.DiscoveredAt.Format(time.RFC3339),
				e.DiscoveryQuality(),
				e.PeakHNScore,
				success)
		}
		return nil
	},
}

func init() {
	fameCmd.Flags().BoolVar(&fameVerifiedOnly, "verified-only", false, "only entries with a verified success")
	fameCmd.Flags().IntVar(&fameDays, "days", 0, "only successes within the last N days")
	fameCmd.Flags().IntVar(&fameLimit, "limit", 20, "maximum entries to list")
	rootCmd.AddCommand(fameCmd)
}
