package match

import (
	"hash/fnv"
	"strings"
)

// ShotSample is one plotted stroke for the wagon wheel. AngleDeg is measured
// clockwise from straight down the ground (toward the bowler); Distance is
// normalized to the field radius.
type ShotSample struct {
	AngleDeg float64
	Distance float64
	Runs     int
	Wicket   bool
}

// Fielding regions for a right-hander, clockwise from straight.
var regionAngles = []struct {
	keyword string
	angle   float64
}{
	{"long-off", 350},
	{"long-on", 180},
	{"midwicket", 135},
	{"square leg", 110},
	{"covers", 75},
	{"point", 50},
	{"fine leg", 155},
	{"third man", 25},
}

// Shots derives wagon-wheel samples from the snapshot's key moments.
// The mapping is a pure function of the moment data so repeated renders
// place every stroke identically.
func (s *Snapshot) Shots() []ShotSample {
	var shots []ShotSample
	for _, m := range s.KeyMoments {
		angle := regionAngle(m.Description)

		distance := 0.7
		switch m.Runs {
		case 6:
			distance = 0.95
		case 4:
			distance = 0.8
		}

		if m.Type == "wicket" {
			shots = append(shots, ShotSample{AngleDeg: angle, Distance: 0.85, Wicket: true})
			continue
		}
		shots = append(shots, ShotSample{AngleDeg: angle, Distance: distance, Runs: m.Runs})
	}
	return shots
}

// regionAngle maps a shot description to a field angle. Unrecognized
// descriptions hash to a stable pseudo-angle instead of a random one.
func regionAngle(description string) float64 {
	desc := strings.ToLower(description)
	for _, r := range regionAngles {
		if strings.Contains(desc, r.keyword) {
			return r.angle
		}
	}
	h := fnv.New32a()
	h.Write([]byte(desc))
	return float64(h.Sum32() % 360)
}
