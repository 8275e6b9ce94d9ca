// Package diagnostics renders offline plots of a completed aline's velocity
// profile, for tuning linear_jerk_max by eye against the plotted curve.
package diagnostics

import (
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// regionColors gives each of up to three regions (head, body, tail) a
// distinct, stable color regardless of how many are actually present.
var regionColors = []color.Color{
	color.RGBA{R: 220, G: 50, B: 50, A: 255},
	color.RGBA{G: 150, B: 50, A: 255},
	color.RGBA{B: 200, A: 255},
}

// Sample is one (time, velocity) point recorded while a region ran.
type Sample struct {
	ElapsedMinutes float64
	VelocityMMMin  float64
}

// RegionProfile is the recorded samples for one head/body/tail region of a
// single aline, labeled with the region's own move type name for the plot
// legend.
type RegionProfile struct {
	Label   string
	Samples []Sample
}

// ProfilePlot renders the head/body/tail velocity-vs-time curves for one
// completed aline to a PNG at path. It is a pure offline tool: nothing in
// the planner's submit/dispatch path calls it, and it never runs on the
// hot cooperative loop.
func ProfilePlot(regions []RegionProfile, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "elapsed (min)"
	p.Y.Label.Text = "velocity (mm/min)"

	if len(regions) == 0 {
		return errors.New("profile plot: no regions to render")
	}

	offset := 0.0
	for i, r := range regions {
		if len(r.Samples) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(r.Samples))
		for j, s := range r.Samples {
			pts[j].X = offset + s.ElapsedMinutes
			pts[j].Y = s.VelocityMMMin
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return errors.Wrapf(err, "profile plot: region %d (%s)", i, r.Label)
		}
		line.Color = regionColors[i%len(regionColors)]
		p.Add(line)
		p.Legend.Add(r.Label, line)
		offset = pts[len(pts)-1].X
	}

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "profile plot: save")
	}
	return nil
}

// PeakJerk estimates the achieved jerk between consecutive samples as a
// sanity check that a recorded profile actually stayed within the
// configured linear_jerk_max (finite differencing the velocity twice).
func PeakJerk(samples []Sample) float64 {
	if len(samples) < 3 {
		return 0
	}
	accel := make([]float64, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		dt := samples[i].ElapsedMinutes - samples[i-1].ElapsedMinutes
		if dt <= 0 {
			continue
		}
		accel[i-1] = (samples[i].VelocityMMMin - samples[i-1].VelocityMMMin) / dt
	}
	jerk := make([]float64, len(accel)-1)
	for i := 1; i < len(accel); i++ {
		dt := samples[i+1].ElapsedMinutes - samples[i].ElapsedMinutes
		if dt <= 0 {
			continue
		}
		jerk[i-1] = (accel[i] - accel[i-1]) / dt
	}
	if len(jerk) == 0 {
		return 0
	}
	peak := 0.0
	for _, j := range jerk {
		if abs := floats.Norm([]float64{j}, 2); abs > peak {
			peak = abs
		}
	}
	return peak
}
