package match

// DefaultMinScore is the similarity a suggestion needs after normalization.
const DefaultMinScore = 0.75

// Suggestion is a known name close to a missing one.
type Suggestion struct {
	Name  string
	Score float64
}

// Suggest returns the known name most similar to want. Names are compared
// after Normalize; ties keep the earlier name so results follow host order.
// want itself is never suggested.
func Suggest(want string, known []string, minScore float64) (Suggestion, bool) {
	target := Normalize(want)

	var (
		best  Suggestion
		found bool
	)

	for _, name := range known {
		if name == want {
			continue
		}

		score := Similarity(target, Normalize(name))
		if score < minScore {
			continue
		}

		if !found || score > best.Score {
			best = Suggestion{Name: name, Score: score}
			found = true
		}
	}

	return best, found
}
