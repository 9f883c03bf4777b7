package domain

// RankTier is a cosmetic band over a user's points.
type RankTier struct {
	Name  string `json:"name"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Color string `json:"color"`
}

var RankTiers = []RankTier{
	{Name: "Rookie", Min: 0, Max: 99, Color: "#9ca3af"},
	{Name: "Bronze", Min: 100, Max: 249, Color: "#cd7f32"},
	{Name: "Silver", Min: 250, Max: 399, Color: "#c0c0c0"},
	{Name: "Gold", Min: 400, Max: 599, Color: "#ffd700"},
	{Name: "Platinum", Min: 600, Max: 899, Color: "#4fdae6"},
	{Name: "Diamond", Min: 900, Max: 1299, Color: "#9fd5ff"},
	{Name: "Master", Min: 1300, Max: 1799, Color: "#de4bff"},
	{Name: "Grandmaster", Min: 1800, Max: 2399, Color: "#ff3366"},
	{Name: "Legend", Min: 2400, Max: 2999, Color: "#ff8f1f"},
	{Name: "Mythic", Min: 3000, Max: 99999, Color: "#e11d48"},
}

func rankIndex(points int) int {
	for i, r := range RankTiers {
		if points >= r.Min && points <= r.Max {
			return i
		}
	}
	return -1
}

// RankFor returns the tier containing points. Anything outside every band is a Rookie.
func RankFor(points int) RankTier {
	if i := rankIndex(points); i >= 0 {
		return RankTiers[i]
	}
	return RankTiers[0]
}

// NextRank returns the tier after the one containing points, or nil at the top.
func NextRank(points int) *RankTier {
	i := rankIndex(points)
	if i+1 >= len(RankTiers) {
		return nil
	}
	next := RankTiers[i+1]
	return &next
}
