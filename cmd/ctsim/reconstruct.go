package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kevinrosenberg/ctsim/backproject"
	"github.com/kevinrosenberg/ctsim/filter"
	"github.com/kevinrosenberg/ctsim/image"
	"github.com/kevinrosenberg/ctsim/internal/interp"
	"github.com/kevinrosenberg/ctsim/projection"
	"github.com/kevinrosenberg/ctsim/reconstruct"
)

var reconstructFlags struct {
	in, out string
	nx, ny  int

	filterName       string
	filterParam      float64
	filterMethod     string
	filterGeneration string
	zeropad          int

	interpName      string
	backprojectName string

	rebinParallel bool

	roiXMin, roiXMax, roiYMin, roiYMax float64
	useROI                             bool
}

var reconstructCmd = &cobra.Command{
	Use:   "reconstruct <projection-file>",
	Short: "Filter and backproject a sinogram into an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reconstructFlags.in = args[0]

		pf, err := os.Open(reconstructFlags.in)
		if err != nil {
			return fmt.Errorf("ctsim reconstruct: %w", err)
		}
		set, err := projection.Read(pf)
		pf.Close()
		if err != nil {
			return fmt.Errorf("ctsim reconstruct: %w", err)
		}

		filterKind, err := filter.ParseKind(reconstructFlags.filterName)
		if err != nil {
			return err
		}
		filterMethod, err := filter.ParseMethod(reconstructFlags.filterMethod)
		if err != nil {
			return err
		}
		filterGeneration, err := filter.ParseGeneration(reconstructFlags.filterGeneration)
		if err != nil {
			return err
		}
		interpKind, err := interp.ParseKind(reconstructFlags.interpName)
		if err != nil {
			return err
		}
		backprojectMethod, err := backproject.ParseMethod(reconstructFlags.backprojectName)
		if err != nil {
			return err
		}

		var roi *backproject.ROI
		if reconstructFlags.useROI {
			roi = &backproject.ROI{
				XMin: reconstructFlags.roiXMin, XMax: reconstructFlags.roiXMax,
				YMin: reconstructFlags.roiYMin, YMax: reconstructFlags.roiYMax,
			}
		}

		out := image.New(reconstructFlags.nx, reconstructFlags.ny)

		r, err := reconstruct.New(reconstruct.Params{
			Projections:       set,
			Out:                out,
			FilterKind:         filterKind,
			FilterParam:        reconstructFlags.filterParam,
			FilterMethod:       filterMethod,
			Zeropad:            reconstructFlags.zeropad,
			FilterGeneration:   filterGeneration,
			InterpKind:         interpKind,
			BackprojectMethod:  backprojectMethod,
			TraceLevel:         traceLevel,
			ROI:                roi,
			RebinToParallel:    reconstructFlags.rebinParallel,
		})
		if err != nil {
			return err
		}

		ctx, stop := interruptContext()
		defer stop()

		if err := r.ReconstructView(ctx, 0, set.NView()); err != nil {
			return err
		}
		r.PostProcessing()
		if out.Partial() {
			fmt.Fprintln(cmd.ErrOrStderr(), "ctsim reconstruct: interrupted, writing partial image")
		}

		of, err := os.Create(reconstructFlags.out)
		if err != nil {
			return fmt.Errorf("ctsim reconstruct: %w", err)
		}
		defer of.Close()
		return out.Write(of)
	},
}

func init() {
	flags := reconstructCmd.Flags()
	flags.StringVar(&reconstructFlags.out, "out", "recon.img", "output image file path")
	flags.IntVar(&reconstructFlags.nx, "nx", 256, "output image width")
	flags.IntVar(&reconstructFlags.ny, "ny", 256, "output image height")

	flags.StringVar(&reconstructFlags.filterName, "filter", "shepplogan", "filter kernel name")
	flags.Float64Var(&reconstructFlags.filterParam, "filter-param", 1.0, "filter shape parameter (alpha)")
	flags.StringVar(&reconstructFlags.filterMethod, "filter-method", "convolution", "filter generation domain: convolution or fourier")
	flags.StringVar(&reconstructFlags.filterGeneration, "filter-generation", "direct", "filter coefficient generation method")
	flags.IntVar(&reconstructFlags.zeropad, "zeropad", 1, "Fourier-domain zero-padding factor")

	flags.StringVar(&reconstructFlags.interpName, "interp", "linear", "backprojection interpolation kind")
	flags.StringVar(&reconstructFlags.backprojectName, "backproject", "table", "parallel-geometry backprojection algorithm")

	flags.BoolVar(&reconstructFlags.rebinParallel, "rebin-parallel", false, "resample a divergent-beam acquisition to parallel before reconstructing")

	flags.BoolVar(&reconstructFlags.useROI, "roi", false, "restrict backprojection to a rectangular region of interest")
	flags.Float64Var(&reconstructFlags.roiXMin, "roi-xmin", -1, "ROI left edge")
	flags.Float64Var(&reconstructFlags.roiXMax, "roi-xmax", 1, "ROI right edge")
	flags.Float64Var(&reconstructFlags.roiYMin, "roi-ymin", -1, "ROI bottom edge")
	flags.Float64Var(&reconstructFlags.roiYMax, "roi-ymax", 1, "ROI top edge")

	_ = reconstructCmd.MarkFlagRequired("out")
}
