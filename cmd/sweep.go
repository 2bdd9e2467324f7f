package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var sweepMinutes int

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a single discovery sweep and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		minutes := sweepMinutes
		if minutes <= 0 {
			minutes = cfg.Sweep.WindowMinutes
		}

		if err := a.sweeper.Run(context.Background(), minutes); err != nil {
			return err
		}

		st := a.sweeper.Status()
		fmt.Printf("processed: %d\n", st.Processed)
		fmt.Printf("created:   %d\n", st.Created)
		fmt.Printf("gems:      %d\n", st.GemsFound)
		fmt.Printf("errors:    %d\n", st.Errors)
		fmt.Printf("duration:  %s\n", st.LastDuration)
		return nil
	},
}

func init() {
	sweepCmd.Flags().IntVar(&sweepMinutes, "minutes", 0, "how far back to sweep (defaults to the configured window)")
	rootCmd.AddCommand(sweepCmd)
}
