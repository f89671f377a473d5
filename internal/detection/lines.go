package detection

import (
	"math"
	"sort"

	"github.com/ironsheep/cutlist-mcp/internal/imaging"
)

// numAngles is the theta resolution of the accumulator: one bin per degree
// over [0°, 180°).
const numAngles = 180

// Point represents a 2D pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// HoughLine is an infinite line in normal form:
//
//	x*cos(θ) + y*sin(θ) = Rho
//
// ThetaDegrees is in [0, 180). A horizontal line has θ = 90, a vertical line
// θ = 0.
type HoughLine struct {
	Rho          float64 `json:"rho"`
	ThetaDegrees float64 `json:"theta_degrees"`
	Votes        int     `json:"votes"`
}

// Segment is a finite line segment found along a Hough line.
type Segment struct {
	Start        Point   `json:"start"`
	End          Point   `json:"end"`
	Length       float64 `json:"length"`
	AngleDegrees float64 `json:"angle_degrees"`
	Votes        int     `json:"votes"`
}

// SegmentOptions controls DetectSegments.
type SegmentOptions struct {
	// Threshold is the minimum number of accumulator votes for a candidate line.
	Threshold int
	// MinLength is the minimum segment length in pixels.
	MinLength int
	// MaxGap is the largest run of missing edge pixels bridged within one segment.
	MaxGap int
}

// accumulator is a Hough vote table indexed by [rho][theta].
type accumulator struct {
	votes   []int
	numRho  int
	maxDist int
	cos     [numAngles]float64
	sin     [numAngles]float64
}

func newAccumulator(width, height int) *accumulator {
	maxDist := int(math.Ceil(math.Sqrt(float64(width*width + height*height))))
	acc := &accumulator{
		numRho:  2*maxDist + 1,
		maxDist: maxDist,
	}
	acc.votes = make([]int, acc.numRho*numAngles)
	for t := 0; t < numAngles; t++ {
		angle := float64(t) * math.Pi / 180.0
		acc.cos[t] = math.Cos(angle)
		acc.sin[t] = math.Sin(angle)
	}
	return acc
}

func (a *accumulator) at(rhoIdx, theta int) int {
	return a.votes[rhoIdx*numAngles+theta]
}

// vote casts one vote per theta bin for every edge pixel.
func (a *accumulator) vote(edges *imaging.EdgeMap) {
	for y := 0; y < edges.Height; y++ {
		for x := 0; x < edges.Width; x++ {
			if !edges.Pix[y*edges.Width+x] {
				continue
			}
			for t := 0; t < numAngles; t++ {
				rho := float64(x)*a.cos[t] + float64(y)*a.sin[t]
				rhoIdx := int(math.Round(rho)) + a.maxDist
				a.votes[rhoIdx*numAngles+t]++
			}
		}
	}
}

// peaks returns every bin with at least threshold votes that is a local
// maximum in its 5x5 neighbourhood, strongest first.
func (a *accumulator) peaks(threshold int) []HoughLine {
	if threshold < 1 {
		threshold = 1
	}

	var lines []HoughLine
	for r := 0; r < a.numRho; r++ {
		for t := 0; t < numAngles; t++ {
			v := a.at(r, t)
			if v < threshold {
				continue
			}

			isMax := true
			for dr := -2; dr <= 2 && isMax; dr++ {
				for dt := -2; dt <= 2 && isMax; dt++ {
					if dr == 0 && dt == 0 {
						continue
					}
					nr, nt := r+dr, t+dt
					// θ wraps at 180°, where rho changes sign.
					if nt < 0 {
						nt += numAngles
						nr = a.numRho - 1 - nr
					} else if nt >= numAngles {
						nt -= numAngles
						nr = a.numRho - 1 - nr
					}
					if nr < 0 || nr >= a.numRho {
						continue
					}
					n := a.at(nr, nt)
					// Ties are broken towards the earlier bin so plateaus yield one peak.
					if n > v || (n == v && (dr < 0 || (dr == 0 && dt < 0))) {
						isMax = false
					}
				}
			}

			if isMax {
				lines = append(lines, HoughLine{
					Rho:          float64(r - a.maxDist),
					ThetaDegrees: float64(t),
					Votes:        v,
				})
			}
		}
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Votes > lines[j].Votes
	})
	return lines
}

// HoughLines finds straight lines in an edge map using the standard Hough
// transform with 1 pixel rho and 1 degree theta resolution.
//
// Parameters:
//   - edges: Binary edge map, typically from imaging.Canny.
//   - threshold: Minimum number of edge pixels that must vote for a line.
//
// Returns the lines sorted by decreasing vote count. An empty map or one
// without any qualifying line returns nil.
func HoughLines(edges *imaging.EdgeMap, threshold int) []HoughLine {
	if edges == nil || edges.Width == 0 || edges.Height == 0 {
		return nil
	}
	acc := newAccumulator(edges.Width, edges.Height)
	acc.vote(edges)
	return acc.peaks(threshold)
}

// DetectSegments finds finite line segments in an edge map.
//
// # Algorithm
//
//  1. Vote every edge pixel into a standard Hough accumulator and collect the
//     local maxima with at least opts.Threshold votes.
//  2. Strongest line first, walk along the line one pixel at a time over its
//     major axis, accepting edge pixels within one pixel of the line.
//  3. Split the walk into runs wherever more than opts.MaxGap consecutive
//     pixels are missing. Runs of at least opts.MinLength become segments.
//  4. Pixels used by a segment are removed so weaker lines through the same
//     pixels do not report the segment again.
func DetectSegments(edges *imaging.EdgeMap, opts SegmentOptions) []Segment {
	if edges == nil || edges.Width == 0 || edges.Height == 0 {
		return nil
	}

	acc := newAccumulator(edges.Width, edges.Height)
	acc.vote(edges)
	lines := acc.peaks(opts.Threshold)

	used := make([]bool, len(edges.Pix))
	var segments []Segment
	for _, line := range lines {
		t := int(line.ThetaDegrees)
		for _, run := range walkLine(edges, used, line.Rho, acc.cos[t], acc.sin[t], opts.MaxGap) {
			if len(run) == 0 {
				continue
			}
			start, end := run[0], run[len(run)-1]
			dx := float64(end.X - start.X)
			dy := float64(end.Y - start.Y)
			length := math.Sqrt(dx*dx + dy*dy)
			if length < float64(opts.MinLength) {
				continue
			}

			for _, p := range run {
				used[p.Y*edges.Width+p.X] = true
			}
			segments = append(segments, newSegment(start, end, line.Votes))
		}
	}

	return segments
}

// walkLine steps along the line x*cos + y*sin = rho across the image and
// returns the runs of edge pixels found on it, split at gaps wider than maxGap.
func walkLine(edges *imaging.EdgeMap, used []bool, rho, cos, sin float64, maxGap int) [][]Point {
	// Walk over the major axis so every step advances one pixel.
	horizontal := math.Abs(sin) >= math.Abs(cos)
	steps := edges.Width
	if !horizontal {
		steps = edges.Height
	}

	var runs [][]Point
	var current []Point
	gap := 0
	for i := 0; i < steps; i++ {
		var x, y int
		var minor float64
		if horizontal {
			x = i
			minor = (rho - float64(x)*cos) / sin
		} else {
			y = i
			minor = (rho - float64(y)*sin) / cos
		}

		hit, found := Point{}, false
		base := int(math.Round(minor))
		for _, off := range [3]int{0, -1, 1} {
			if horizontal {
				y = base + off
			} else {
				x = base + off
			}
			if x < 0 || y < 0 || x >= edges.Width || y >= edges.Height {
				continue
			}
			idx := y*edges.Width + x
			if edges.Pix[idx] && !used[idx] {
				hit, found = Point{X: x, Y: y}, true
				break
			}
		}

		if found {
			current = append(current, hit)
			gap = 0
			continue
		}

		if len(current) > 0 {
			gap++
			if gap > maxGap {
				runs = append(runs, current)
				current = nil
				gap = 0
			}
		}
	}
	if len(current) > 0 {
		runs = append(runs, current)
	}
	return runs
}

// newSegment builds a Segment oriented left to right (top to bottom for
// vertical segments), so AngleDegrees lies in (-90, 90].
func newSegment(a, b Point, votes int) Segment {
	if b.X < a.X || (b.X == a.X && b.Y < a.Y) {
		a, b = b, a
	}
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	return Segment{
		Start:        a,
		End:          b,
		Length:       math.Round(math.Sqrt(dx*dx+dy*dy)*10) / 10,
		AngleDegrees: math.Round(math.Atan2(dy, dx)*180/math.Pi*10) / 10,
		Votes:        votes,
	}
}

// CountNearHorizontal returns the number of segments whose angle is within
// maxAngleDegrees of horizontal.
func CountNearHorizontal(segments []Segment, maxAngleDegrees float64) int {
	n := 0
	for _, s := range segments {
		if math.Abs(s.AngleDegrees) < maxAngleDegrees {
			n++
		}
	}
	return n
}
