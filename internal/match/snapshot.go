package match

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Snapshot is the read-only match state a run is generated from. It is
// loaded once and never mutated; every stage receives it by pointer and
// only reads.
type Snapshot struct {
	MatchID      string        `json:"match_id"`
	Teams        Teams         `json:"teams"`
	Score        Score         `json:"current_score"`
	Overs        []OverSummary `json:"recent_overs"`
	KeyMoments   []KeyMoment   `json:"key_moments"`
	Partnerships []Partnership `json:"partnerships"`
	RunRate      RunRate       `json:"run_rate"`
}

type Teams struct {
	Batting string `json:"batting"`
	Bowling string `json:"bowling"`
}

type Score struct {
	Runs    int     `json:"runs"`
	Wickets int     `json:"wickets"`
	Overs   float64 `json:"overs"`
}

// OverSummary is one completed over. Balls holds the per-delivery outcome
// in scorebook notation: a run count, or "W" for a wicket.
type OverSummary struct {
	Over    int      `json:"over"`
	Runs    int      `json:"runs"`
	Wickets int      `json:"wickets"`
	Balls   []string `json:"balls"`
}

type KeyMoment struct {
	Type        string  `json:"type"` // "six", "boundary", "wicket"
	Over        float64 `json:"over"`
	Description string  `json:"description"`
	Batter      string  `json:"batsman"`
	Bowler      string  `json:"bowler,omitempty"`
	Runs        int     `json:"runs"`
}

type Partnership struct {
	Batters  []string `json:"batsmen"`
	Runs     int      `json:"runs"`
	Balls    int      `json:"balls"`
	Unbroken bool     `json:"unbroken"`
}

type RunRate struct {
	Current  float64 `json:"current"`
	Required float64 `json:"required"`
}

// Load reads a snapshot from a JSON file.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot read error: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("snapshot parse error: %w", err)
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Validate checks the fields every run needs. Chart-specific slices are
// validated by the renderer for the chart that asks for them.
func (s *Snapshot) Validate() error {
	if s.MatchID == "" {
		return fmt.Errorf("snapshot missing match_id")
	}
	if s.Teams.Batting == "" || s.Teams.Bowling == "" {
		return fmt.Errorf("snapshot %s missing team names", s.MatchID)
	}
	for _, over := range s.Overs {
		sum, wkts := 0, 0
		for _, b := range over.Balls {
			runs, wicket := DeliveryOutcome(b)
			sum += runs
			if wicket {
				wkts++
			}
		}
		if len(over.Balls) > 0 && sum != over.Runs {
			return fmt.Errorf("snapshot %s: over %d ball runs sum %d != over runs %d",
				s.MatchID, over.Over, sum, over.Runs)
		}
		if len(over.Balls) > 0 && wkts != over.Wickets {
			return fmt.Errorf("snapshot %s: over %d ball wickets %d != over wickets %d",
				s.MatchID, over.Over, wkts, over.Wickets)
		}
	}
	return nil
}

// DeliveryOutcome parses one scorebook ball entry. "W" is a wicket for no
// runs; anything non-numeric otherwise counts as a dot ball.
func DeliveryOutcome(ball string) (runs int, wicket bool) {
	b := strings.TrimSpace(ball)
	if strings.EqualFold(b, "W") {
		return 0, true
	}
	n, err := strconv.Atoi(b)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, false
}

// TotalOverRuns sums the runs of the recorded overs.
func (s *Snapshot) TotalOverRuns() int {
	total := 0
	for _, o := range s.Overs {
		total += o.Runs
	}
	return total
}

// PartnershipRuns sums the recorded partnership contributions.
func (s *Snapshot) PartnershipRuns() int {
	total := 0
	for _, p := range s.Partnerships {
		total += p.Runs
	}
	return total
}
