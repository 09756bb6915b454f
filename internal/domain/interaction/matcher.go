package interaction

import "strings"

// SimilarityThreshold is the minimum normalized similarity for two drug
// names to be treated as the same substance. 0.8 tolerates one edit in a
// five-letter name, which absorbs the common national spelling variants
// (ibuprofene/ibuprofen) without conflating distinct molecules.
const SimilarityThreshold = 0.8

// Matches reports whether a drug identity matches one side of a reference
// record. An ATC code equality match wins outright; otherwise the generic
// name must reach the similarity threshold against the side's name.
func Matches(d DrugIdentity, side InteractionSide) bool {
	if d.ATCCode != nil && *d.ATCCode != "" && side.ATCCode != "" &&
		strings.EqualFold(*d.ATCCode, side.ATCCode) {
		return true
	}
	if side.Name == nil || *side.Name == "" || d.GenericName == "" {
		return false
	}
	return Similarity(d.GenericName, strings.ToLower(*side.Name)) >= SimilarityThreshold
}

// Similarity returns 1 - dist/maxLen where dist is the optimal string
// alignment distance: Levenshtein plus adjacent transpositions counted as a
// single edit. Identical strings score 1, disjoint strings approach 0.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(osaDistance(ra, rb))/float64(longest)
}

func osaDistance(a, b []rune) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}
	// Three rolling rows: the transposition case looks two rows back.
	prev2 := make([]int, lb+1)
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			d := min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				if t := prev2[j-2] + 1; t < d {
					d = t
				}
			}
			curr[j] = d
		}
		prev2, prev, curr = prev, curr, prev2
	}
	return prev[lb]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// namePrefix derives the candidate-retrieval prefix for a generic name.
// Fuzzy matching at the 0.8 threshold leaves the leading characters of any
// plausible variant intact, so prefix retrieval is strictly wider than the
// matcher it feeds. Names shorter than two characters are too ambiguous to
// retrieve by name at all.
func namePrefix(generic string) (string, bool) {
	name := []rune(strings.ToLower(strings.TrimSpace(generic)))
	switch {
	case len(name) < 2:
		return "", false
	case len(name) < 4:
		return string(name[:2]), true
	default:
		return string(name[:4]), true
	}
}
