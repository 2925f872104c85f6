package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kevinrosenberg/ctsim/phantom"
	"github.com/kevinrosenberg/ctsim/projection"
	"github.com/kevinrosenberg/ctsim/scanner"
)

var projectFlags struct {
	phantomName                  string
	geometry                     string
	nDet, nView, offsetView      int
	nSample                      int
	focalLength, sourceDetLen    float64
	viewRatio, scanRatio         float64
	out                          string
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Forward-project a named phantom into a sinogram",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := phantom.Named(projectFlags.phantomName)
		if err != nil {
			return err
		}
		geometry, err := projection.ParseGeometry(projectFlags.geometry)
		if err != nil {
			return err
		}

		s, err := scanner.New(p, geometry,
			projectFlags.nDet, projectFlags.nView, projectFlags.offsetView, projectFlags.nSample,
			projectFlags.focalLength, projectFlags.sourceDetLen, projectFlags.viewRatio, projectFlags.scanRatio)
		if err != nil {
			return err
		}

		ctx, stop := interruptContext()
		defer stop()

		set, err := s.Collect(ctx)
		if err != nil {
			return err
		}
		if set.Partial() {
			fmt.Fprintln(cmd.ErrOrStderr(), "ctsim project: interrupted, writing partial projection set")
		}

		f, err := os.Create(projectFlags.out)
		if err != nil {
			return fmt.Errorf("ctsim project: %w", err)
		}
		defer f.Close()
		return set.Write(f)
	},
}

func init() {
	flags := projectCmd.Flags()
	flags.StringVar(&projectFlags.phantomName, "phantom", "shepplogan", "built-in phantom name")
	flags.StringVar(&projectFlags.geometry, "geometry", "parallel", "acquisition geometry: parallel, equilinear, equiangular")
	flags.IntVar(&projectFlags.nDet, "ndet", 367, "detector count")
	flags.IntVar(&projectFlags.nView, "nview", 320, "view count")
	flags.IntVar(&projectFlags.offsetView, "offset-view", 0, "starting view offset")
	flags.IntVar(&projectFlags.nSample, "nsample", 1, "sub-samples per detector ray")
	flags.Float64Var(&projectFlags.focalLength, "focal-length", 0, "source-to-center distance (fan-beam geometries)")
	flags.Float64Var(&projectFlags.sourceDetLen, "source-detector-len", 0, "source-to-detector distance (equilinear only)")
	flags.Float64Var(&projectFlags.viewRatio, "view-ratio", 1.0, "detector array half-width, relative to the phantom's unit disc")
	flags.Float64Var(&projectFlags.scanRatio, "scan-ratio", 1.0, "fraction of a full rotation the acquisition covers")
	flags.StringVar(&projectFlags.out, "out", "phantom.pj", "output projection file path")
	_ = projectCmd.MarkFlagRequired("out")
}
