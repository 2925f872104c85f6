package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kevinrosenberg/ctsim/image"
)

var statsFlags struct {
	ref string
}

var statsCmd = &cobra.Command{
	Use:   "stats <image>",
	Short: "Report descriptive statistics for an image, optionally against a reference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("ctsim stats: %w", err)
		}
		defer f.Close()

		im, err := image.Read(f)
		if err != nil {
			return fmt.Errorf("ctsim stats: %w", err)
		}

		s := im.Statistics()
		fmt.Printf("min=%g max=%g mean=%g mode=%g median=%g stddev=%g\n",
			s.Min, s.Max, s.Mean, s.Mode, s.Median, s.StdDev)

		if statsFlags.ref == "" {
			return nil
		}

		rf, err := os.Open(statsFlags.ref)
		if err != nil {
			return fmt.Errorf("ctsim stats: %w", err)
		}
		defer rf.Close()

		ref, err := image.Read(rf)
		if err != nil {
			return fmt.Errorf("ctsim stats: %w", err)
		}

		cmp, err := image.Compare(im, ref)
		if err != nil {
			return fmt.Errorf("ctsim stats: %w", err)
		}
		fmt.Printf("d=%g r=%g e=%g\n", cmp.D, cmp.R, cmp.E)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsFlags.ref, "ref", "", "reference image file path for comparative statistics")
}
