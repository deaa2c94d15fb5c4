package match

// Demo returns the built-in snapshot used in mock mode and by the tests:
// a T20 chase entering the final overs.
func Demo() *Snapshot {
	return &Snapshot{
		MatchID: "RCB_vs_KKR_T20_032",
		Teams: Teams{
			Batting: "Royal Challengers Bengaluru",
			Bowling: "Kolkata Knight Riders",
		},
		Score: Score{Runs: 176, Wickets: 4, Overs: 17.1},
		Overs: []OverSummary{
			{Over: 15, Runs: 14, Wickets: 0, Balls: []string{"1", "6", "1", "1", "0", "5"}},
			{Over: 16, Runs: 9, Wickets: 0, Balls: []string{"1", "1", "4", "1", "0", "2"}},
			{Over: 17, Runs: 12, Wickets: 1, Balls: []string{"6", "W", "1", "1", "2", "2"}},
		},
		KeyMoments: []KeyMoment{
			{
				Type:        "six",
				Over:        15.2,
				Description: "Glenn Maxwell hammers Sunil Narine over midwicket for SIX",
				Batter:      "Glenn Maxwell",
				Runs:        6,
			},
			{
				Type:        "boundary",
				Over:        16.3,
				Description: "Virat Kohli times it perfectly through covers for FOUR",
				Batter:      "Virat Kohli",
				Runs:        4,
			},
			{
				Type:        "wicket",
				Over:        17.2,
				Description: "Maxwell caught at long-on off Andre Russell",
				Batter:      "Glenn Maxwell",
				Bowler:      "Andre Russell",
			},
		},
		Partnerships: []Partnership{
			{Batters: []string{"Faf du Plessis", "Virat Kohli"}, Runs: 61, Balls: 38},
			{Batters: []string{"Virat Kohli", "Glenn Maxwell"}, Runs: 72, Balls: 46, Unbroken: true},
		},
		RunRate: RunRate{Current: 10.26, Required: 9.2},
	}
}
