package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var (
	overrideScore float64
	overrideNotes string
	overrideBy    string
	overrideSpam  bool
)

var overrideCmd = &cobra.Command{
	Use:   "override <hn-id>",
	Short: "Manually correct a post's score or spam flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hnID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid hn id %q", args[0])
		}

		cfg := GetConfig()
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		ctx := context.Background()
		post, err := a.store.FindPostByHNID(ctx, hnID)
		if err != nil {
			return err
		}
		if post == nil {
			return fmt.Errorf("post %d not found", hnID)
		}

		if overrideSpam {
			if err := a.store.MarkPostSpam(ctx, hnID); err != nil {
				return err
			}
			fmt.Printf("post %d marked as spam\n", hnID)
		}

		if cmd.Flags().Changed("score") {
			if overrideScore < 0 || overrideScore > 1 {
				return fmt.Errorf("score %v outside [0,1]", overrideScore)
			}
			qs, err := a.store.ScoreForPost(ctx, post.ID)
			if err != nil {
				return err
			}
			if qs == nil {
				return fmt.Errorf("post %d has no quality score", hnID)
			}
			qs.Override(overrideScore, overrideNotes, overrideBy, time.Now().UTC())
			if err := a.store.ReplaceScore(ctx, qs); err != nil {
				return err
			}
			fmt.Printf("post %d effective score set to %.2f\n", hnID, qs.EffectiveScore())
		}

		if !overrideSpam && !cmd.Flags().Changed("score") {
			return fmt.Errorf("nothing to do: pass --score and/or --spam")
		}
		return nil
	},
}

func init() {
	overrideCmd.Flags().Float64Var(&overrideScore, "score", 0, "manual overall score in [0,1]")
	overrideCmd.Flags().StringVar(&overrideNotes, "notes", "", "reason for the correction")
	overrideCmd.Flags().StringVar(&overrideBy, "by", "admin", "who made the correction")
	overrideCmd.Flags().BoolVar(&overrideSpam, "spam", false, "mark the post as spam")
	rootCmd.AddCommand(overrideCmd)
}
