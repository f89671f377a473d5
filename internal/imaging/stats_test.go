package imaging

import (
	"image"
	"testing"
)

func TestIntensity(t *testing.T) {
	tests := []struct {
		name     string
		fill     func(g *image.Gray)
		wantMean float64
		wantStd  float64
	}{
		{
			name: "uniform",
			fill: func(g *image.Gray) {
				for i := range g.Pix {
					g.Pix[i] = 128
				}
			},
			wantMean: 128,
			wantStd:  0,
		},
		{
			name: "half black half white",
			fill: func(g *image.Gray) {
				for i := len(g.Pix) / 2; i < len(g.Pix); i++ {
					g.Pix[i] = 255
				}
			},
			wantMean: 127.5,
			wantStd:  127.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := image.NewGray(image.Rect(0, 0, 10, 10))
			tt.fill(g)

			s := Intensity(g)

			if absFloat(s.Mean-tt.wantMean) > 1e-9 {
				t.Errorf("Mean: got %f, want %f", s.Mean, tt.wantMean)
			}
			if absFloat(s.StdDev-tt.wantStd) > 1e-6 {
				t.Errorf("StdDev: got %f, want %f", s.StdDev, tt.wantStd)
			}
		})
	}
}

func TestIntensity_Empty(t *testing.T) {
	s := Intensity(image.NewGray(image.Rect(0, 0, 0, 0)))
	if s.Mean != 0 || s.StdDev != 0 {
		t.Errorf("got %+v, want zero", s)
	}
}
