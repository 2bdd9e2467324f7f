package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	statsAuthors int
	statsAuthor  string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate pipeline statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		ctx := context.Background()
		st, err := a.store.Stats(ctx, time.Now().UTC())
		if err != nil {
			return err
		}

		fmt.Printf("posts:            %d (%d in last 24h)\n", st.TotalPosts, st.RecentPosts24h)
		fmt.Printf("hidden gems:      %d (%d in last 24h)\n", st.HiddenGems, st.RecentGems24h)
		fmt.Printf("spam posts:       %d\n", st.SpamPosts)
		fmt.Printf("hall of fame:     %d (%d verified)\n", st.HallOfFameCount, st.VerifiedFame)
		fmt.Printf("success rate:     %.1f%%\n", st.SuccessRate)
		fmt.Printf("avg interest:     %.2f\n", st.AvgInterestScore)
		fmt.Printf("avg spam:         %.2f\n", st.AvgSpamLikelihood)
		fmt.Printf("avg lead time:    %.1fh\n", st.AvgLeadTimeHours)

		if statsAuthor != "" {
			u, err := a.store.FindUser(ctx, statsAuthor)
			if err != nil {
				return err
			}
			if u == nil {
				fmt.Printf("\nauthor %q not seen yet\n", statsAuthor)
			} else {
				fmt.Printf("\nauthor %s: karma=%d posts=%d gems=%d fame=%d success=%.1f%% account_age_days=%d\n",
					u.Username, u.Karma, u.TotalPosts, u.HiddenGemsCount,
					u.HallOfFameCount, u.SuccessRate(), u.AccountAgeDays(time.Now().UTC()))
			}
		}

		if statsAuthors > 0 {
			users, err := a.store.TopAuthors(ctx, statsAuthors)
			if err != nil {
				return err
			}
			if len(users) > 0 {
				fmt.Println("\ntop gem authors:")
				for _, u := range users {
					fmt.Printf("  %-20s gems=%d fame=%d karma=%d\n",
						u.Username, u.HiddenGemsCount, u.HallOfFameCount, u.Karma)
				}
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsAuthors, "authors", 10, "number of top authors to show (0 to hide)")
	statsCmd.Flags().StringVar(&statsAuthor, "author", "", "show one author's aggregates")
	rootCmd.AddCommand(statsCmd)
}
