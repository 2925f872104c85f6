package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kevinrosenberg/ctsim/phantom"
)

var rasterizeFlags struct {
	phantomName string
	nx, ny      int
	nSample     int
	viewRatio   float64
	out         string
}

var rasterizeCmd = &cobra.Command{
	Use:   "rasterize",
	Short: "Sample a named phantom onto a pixel grid",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := phantom.Named(rasterizeFlags.phantomName)
		if err != nil {
			return err
		}

		ctx, stop := interruptContext()
		defer stop()

		img, err := phantom.Rasterize(ctx, p,
			rasterizeFlags.nx, rasterizeFlags.ny, rasterizeFlags.nSample, rasterizeFlags.viewRatio)
		if err != nil {
			return err
		}
		if img.Partial() {
			fmt.Fprintln(cmd.ErrOrStderr(), "ctsim rasterize: interrupted, writing partial image")
		}

		f, err := os.Create(rasterizeFlags.out)
		if err != nil {
			return fmt.Errorf("ctsim rasterize: %w", err)
		}
		defer f.Close()
		return img.Write(f)
	},
}

func init() {
	flags := rasterizeCmd.Flags()
	flags.StringVar(&rasterizeFlags.phantomName, "phantom", "shepplogan", "built-in phantom name")
	flags.IntVar(&rasterizeFlags.nx, "nx", 256, "output image width")
	flags.IntVar(&rasterizeFlags.ny, "ny", 256, "output image height")
	flags.IntVar(&rasterizeFlags.nSample, "nsample", 1, "sub-samples per axis per output cell")
	flags.Float64Var(&rasterizeFlags.viewRatio, "view-ratio", 1.0, "half-width of the sampled region")
	flags.StringVar(&rasterizeFlags.out, "out", "phantom.img", "output image file path")
	_ = rasterizeCmd.MarkFlagRequired("out")
}
