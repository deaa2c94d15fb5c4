package chart

import (
	"fmt"
	"math"

	"github.com/cricketcast/cricketcast/internal/match"
)

// ColorRole names a palette slot so geometry stays independent of the
// configured style.
type ColorRole int

const (
	RolePrimary ColorRole = iota
	RoleSecondary
	RoleAccent
	RoleSuccess
)

// Point is a sample in data space.
type Point struct {
	X float64
	Y float64
}

// RunRateSeries is the cumulative-runs curve sampled at fixed 0.1-over
// steps, plus the required-rate target line when a target is set.
type RunRateSeries struct {
	Points     []Point // x: overs from 0, step 0.1; y: cumulative runs
	TotalOvers float64
	Required   float64 // required run rate, 0 if no target
}

// runRateStep is the fixed x-axis increment of the run-rate curve.
const runRateStep = 0.1

// BuildRunRateSeries samples cumulative runs across the recorded overs.
// Deliveries are treated as evenly spaced within their over, and the step
// function between deliveries is sampled at 0.1-over increments, so the
// curve is non-decreasing by construction.
func BuildRunRateSeries(snap *match.Snapshot) (*RunRateSeries, error) {
	if len(snap.Overs) == 0 {
		return nil, &DataError{Kind: KindRunRate, Reason: "no overs bowled"}
	}

	// Per-delivery cumulative runs positioned inside [0, totalOvers].
	type sample struct {
		x    float64
		runs int
	}
	var deliveries []sample
	cumulative := 0
	for i, over := range snap.Overs {
		balls := over.Balls
		if len(balls) == 0 {
			// Over total only; treat it as a single delivery at the
			// end of the over.
			cumulative += over.Runs
			deliveries = append(deliveries, sample{x: float64(i + 1), runs: cumulative})
			continue
		}
		for b, ball := range balls {
			runs, _ := match.DeliveryOutcome(ball)
			cumulative += runs
			x := float64(i) + float64(b+1)/float64(len(balls))
			deliveries = append(deliveries, sample{x: x, runs: cumulative})
		}
	}

	totalOvers := float64(len(snap.Overs))
	steps := int(math.Round(totalOvers/runRateStep)) + 1
	points := make([]Point, 0, steps)
	di := 0
	runs := 0
	for s := 0; s < steps; s++ {
		x := float64(s) * runRateStep
		for di < len(deliveries) && deliveries[di].x <= x+1e-9 {
			runs = deliveries[di].runs
			di++
		}
		points = append(points, Point{X: x, Y: float64(runs)})
	}

	return &RunRateSeries{
		Points:     points,
		TotalOvers: totalOvers,
		Required:   snap.RunRate.Required,
	}, nil
}

// Bar is one over of the Manhattan chart.
type Bar struct {
	Over  int
	Runs  int
	Color ColorRole
}

// barGoodOver and barSteadyOver are the per-over run thresholds of the
// Manhattan color rule.
const (
	barGoodOver   = 10
	barSteadyOver = 7
)

// BarColor is the Manhattan threshold rule: a pure function of the runs
// scored that over.
func BarColor(runs int) ColorRole {
	switch {
	case runs >= barGoodOver:
		return RoleSuccess
	case runs >= barSteadyOver:
		return RoleSecondary
	default:
		return RoleAccent
	}
}

// BuildManhattanBars maps each recorded over to a colored bar and returns
// the average runs per over for the reference line.
func BuildManhattanBars(snap *match.Snapshot) ([]Bar, float64, error) {
	if len(snap.Overs) == 0 {
		return nil, 0, &DataError{Kind: KindManhattan, Reason: "no overs bowled"}
	}
	bars := make([]Bar, 0, len(snap.Overs))
	total := 0
	for _, over := range snap.Overs {
		if over.Runs < 0 {
			return nil, 0, &DataError{Kind: KindManhattan,
				Reason: fmt.Sprintf("negative runs in over %d", over.Over)}
		}
		bars = append(bars, Bar{Over: over.Over, Runs: over.Runs, Color: BarColor(over.Runs)})
		total += over.Runs
	}
	return bars, float64(total) / float64(len(bars)), nil
}

// ShotMarker classifies a wagon-wheel sample for styling.
type ShotMarker int

const (
	MarkerRun ShotMarker = iota
	MarkerFour
	MarkerSix
	MarkerWicket
)

// Vector is one wagon-wheel stroke resolved into unit-circle coordinates.
// X grows to the off side, Y toward the bowler (down the ground).
type Vector struct {
	X      float64
	Y      float64
	Marker ShotMarker
	Runs   int
}

// BuildWagonVectors resolves the snapshot's shot samples into radial
// vectors. Angle 0 points straight down the ground and increases clockwise,
// so 359.9 and 0.1 land next to each other.
func BuildWagonVectors(snap *match.Snapshot) ([]Vector, error) {
	shots := snap.Shots()
	if len(shots) == 0 {
		return nil, &DataError{Kind: KindWagonWheel, Reason: "no shot samples"}
	}
	vectors := make([]Vector, 0, len(shots))
	for _, shot := range shots {
		if shot.Distance < 0 || shot.Distance > 1 {
			return nil, &DataError{Kind: KindWagonWheel,
				Reason: fmt.Sprintf("shot distance %.2f outside [0,1]", shot.Distance)}
		}
		vectors = append(vectors, shotVector(shot))
	}
	return vectors, nil
}

// shotVector maps one shot sample onto the wheel. Angle 0 points straight
// down the ground and increases clockwise, so the wheel wraps at 360.
func shotVector(shot match.ShotSample) Vector {
	rad := shot.AngleDeg * math.Pi / 180
	v := Vector{
		X:    shot.Distance * math.Sin(rad),
		Y:    shot.Distance * math.Cos(rad),
		Runs: shot.Runs,
	}
	switch {
	case shot.Wicket:
		v.Marker = MarkerWicket
	case shot.Runs == 6:
		v.Marker = MarkerSix
	case shot.Runs == 4:
		v.Marker = MarkerFour
	default:
		v.Marker = MarkerRun
	}
	return v
}

// Span is one partnership's contiguous slice of the stacked bar.
// Start/End are cumulative runs; Open marks an unbroken last partnership.
type Span struct {
	Label string
	Runs  int
	Start int
	End   int
	Open  bool
}

// BuildPartnershipSpans stacks the partnerships into contiguous spans.
// The spans sum exactly to the recorded partnership runs; only the final
// partnership may be open.
func BuildPartnershipSpans(snap *match.Snapshot) ([]Span, error) {
	if len(snap.Partnerships) == 0 {
		return nil, &DataError{Kind: KindPartnership, Reason: "no partnerships recorded"}
	}
	spans := make([]Span, 0, len(snap.Partnerships))
	cumulative := 0
	for i, p := range snap.Partnerships {
		if p.Runs < 0 {
			return nil, &DataError{Kind: KindPartnership,
				Reason: fmt.Sprintf("negative partnership runs at index %d", i)}
		}
		if p.Unbroken && i != len(snap.Partnerships)-1 {
			return nil, &DataError{Kind: KindPartnership,
				Reason: fmt.Sprintf("unbroken partnership at index %d is not the last", i)}
		}
		label := fmt.Sprintf("partnership %d", i+1)
		if len(p.Batters) == 2 {
			label = p.Batters[0] + " & " + p.Batters[1]
		}
		spans = append(spans, Span{
			Label: label,
			Runs:  p.Runs,
			Start: cumulative,
			End:   cumulative + p.Runs,
			Open:  p.Unbroken,
		})
		cumulative += p.Runs
	}
	return spans, nil
}
