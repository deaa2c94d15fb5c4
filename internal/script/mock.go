package script

import (
	"context"
	"fmt"

	"github.com/cricketcast/cricketcast/internal/chart"
	"github.com/cricketcast/cricketcast/internal/match"
)

// MockGenerator writes templated commentary from the snapshot alone. The
// output is deterministic, which keeps mock-mode timelines stable across
// runs.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate produces the standard three-segment structure: match summary
// over the run-rate curve, the latest key moment avatar-only, and a
// statistics wrap over the Manhattan.
func (g *MockGenerator) Generate(_ context.Context, snap *match.Snapshot) ([]Block, error) {
	if snap == nil {
		return nil, fmt.Errorf("script generation needs a snapshot")
	}

	blocks := []Block{
		{
			ID:    1,
			Type:  "summary",
			Chart: chart.KindRunRate,
			Fade:  true,
			Text: fmt.Sprintf(
				"What a contest we are witnessing! %s have posted %d for %d in %.1f overs. "+
					"The run rate is ticking along at %.2f, and with the required rate at %.2f "+
					"this match is beautifully poised.",
				snap.Teams.Batting, snap.Score.Runs, snap.Score.Wickets, snap.Score.Overs,
				snap.RunRate.Current, snap.RunRate.Required),
		},
	}

	moment := latestMoment(snap)
	blocks = append(blocks, Block{
		ID:   2,
		Type: "key_moment",
		Fade: true,
		Text: fmt.Sprintf("And that is massive! %s. The crowd erupts - this is why we love this game!",
			moment),
	})

	stats := fmt.Sprintf(
		"Let us look at the numbers. In the last %d overs we have seen %d runs scored.",
		len(snap.Overs), snap.TotalOverRuns())
	if len(snap.Partnerships) > 0 {
		p := snap.Partnerships[len(snap.Partnerships)-1]
		if len(p.Batters) == 2 {
			stats += fmt.Sprintf(" The stand between %s and %s has already added %d from %d balls.",
				p.Batters[0], p.Batters[1], p.Runs, p.Balls)
		}
	}
	blocks = append(blocks, Block{
		ID:    3,
		Type:  "statistics",
		Chart: chart.KindManhattan,
		Fade:  true,
		Text:  stats + " The momentum is shifting!",
	})

	return blocks, nil
}

func latestMoment(snap *match.Snapshot) string {
	if len(snap.KeyMoments) == 0 {
		return "a gripping passage of play out in the middle"
	}
	return snap.KeyMoments[len(snap.KeyMoments)-1].Description
}
