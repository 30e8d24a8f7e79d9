package domain

import "sort"

// Standing is one leaderboard row.
type Standing struct {
	Username string `bson:"username" json:"username"`
	Score    int    `bson:"score" json:"score"`
}

// Standings projects the roster into a ranked view: score descending, then
// username ascending. The secondary key keeps the order stable across
// recomputation while scores are unchanged.
func Standings(roster []Player) []Standing {
	standings := make([]Standing, 0, len(roster))
	for _, p := range roster {
		standings = append(standings, Standing{
			Username: p.Username,
			Score:    p.Score,
		})
	}

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Score != standings[j].Score {
			return standings[i].Score > standings[j].Score
		}
		return standings[i].Username < standings[j].Username
	})

	return standings
}
