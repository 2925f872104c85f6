package phantom

import (
	"context"
	"time"

	"github.com/kevinrosenberg/ctsim/image"
	"github.com/kevinrosenberg/ctsim/internal/workpool"
)

// Rasterize samples p onto an nx by ny grid spanning
// [-viewRatio, viewRatio] in both axes. Each output cell is the mean
// of an nSample by nSample uniform grid of sub-samples, matching the
// super-sampling scheme of the original threaded rasterizer
// (src/threadraster.cpp): columns are independent, so Rasterize fans
// the nx columns out across workers via internal/workpool.
func Rasterize(ctx context.Context, p *Phantom, nx, ny, nSample int, viewRatio float64) (*image.Image, error) {
	out := image.New(nx, ny)

	cellW := 2 * viewRatio / float64(nx)
	cellH := 2 * viewRatio / float64(ny)
	nSamples2 := float64(nSample * nSample)

	completed, err := workpool.Run(ctx, nx, 0, func(_ context.Context, i int) error {
		x0 := -viewRatio + float64(i)*cellW
		for j := 0; j < ny; j++ {
			y0 := -viewRatio + float64(j)*cellH
			var sum float64
			for sx := 0; sx < nSample; sx++ {
				sampleX := x0 + (float64(sx)+0.5)*cellW/float64(nSample)
				for sy := 0; sy < nSample; sy++ {
					sampleY := y0 + (float64(sy)+0.5)*cellH/float64(nSample)
					sum += p.Attenuation(sampleX, sampleY)
				}
			}
			out.Set(i, j, sum/nSamples2)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !completed {
		out.MarkIncomplete()
	}

	out.AddLabel("rasterize phantom "+p.Name, 0, time.Now())
	return out, nil
}
