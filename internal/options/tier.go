package options

import "fmt"

// Tier is the refinement level of the generation options schema. Each tier is
// a strict superset of the previous one: Standard ⊂ Modular ⊂ Ample.
type Tier string

const (
	TierStandard Tier = "Standard"
	TierModular  Tier = "Modular"
	TierAmple    Tier = "Ample"
)

var tierRank = map[Tier]int{
	TierStandard: 0,
	TierModular:  1,
	TierAmple:    2,
}

func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if _, ok := tierRank[t]; !ok {
		return "", fmt.Errorf("unknown ui level %q", s)
	}
	return t, nil
}

// AtLeast reports whether t exposes every field that other exposes.
func (t Tier) AtLeast(other Tier) bool {
	return tierRank[t] >= tierRank[other]
}
