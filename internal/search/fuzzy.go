package search

import (
	"math"
	"strings"
	"unicode"
)

// MatchDetails describes where a fuzzy match landed. Start and End are rune
// indexes into the target text.
type MatchDetails struct {
	Start      int
	End        int
	MatchCount int
	WordHits   int
}

// FuzzyMatcher scores subsequence matches the way fzf and Sublime Text do:
// contiguous runs, word-boundary hits and hits in the final path segment
// score higher, gaps and matches that cross segments score lower.
type FuzzyMatcher struct {
	consecutiveBonus        float64
	wordBoundaryBonus       float64
	charBonus               float64
	gapPenalty              float64
	substringBonus          float64
	prefixBonus             float64
	finalSegmentBonus       float64
	startPenaltyFactor      float64
	crossSegmentPenalty     float64
	wordHitBonus            float64
	substringBoundaryFactor float64
	substringInteriorFactor float64
}

// NewFuzzyMatcher creates a matcher with the default weights.
func NewFuzzyMatcher() *FuzzyMatcher {
	return &FuzzyMatcher{
		consecutiveBonus:        1.2,
		wordBoundaryBonus:       0.6,
		charBonus:               1.2,
		gapPenalty:              0.18,
		substringBonus:          1.2,
		prefixBonus:             2.4,
		finalSegmentBonus:       2.0,
		startPenaltyFactor:      0.012,
		crossSegmentPenalty:     0.9,
		wordHitBonus:            3.2,
		substringBoundaryFactor: 0.3,
		substringInteriorFactor: 0.15,
	}
}

// Match returns the score of pattern against text and whether every pattern
// rune was found in order. An uppercase rune in pattern makes the match case
// sensitive.
func (fm *FuzzyMatcher) Match(pattern, text string) (float64, bool) {
	score, matched, _ := fm.MatchDetailed(pattern, text)
	return score, matched
}

// MatchDetailed is Match plus the position metadata used for tie-breaks.
func (fm *FuzzyMatcher) MatchDetailed(pattern, text string) (float64, bool, MatchDetails) {
	if pattern == "" {
		return 1.0, true, MatchDetails{Start: 0, End: -1}
	}
	fold := !patternHasUppercase(pattern)
	return fm.matchRunes(toRunes(pattern, fold), toRunes(text, fold))
}

func (fm *FuzzyMatcher) matchRunes(pattern, text []rune) (float64, bool, MatchDetails) {
	noMatch := MatchDetails{Start: -1, End: -1}

	substringIdx := indexRunes(text, pattern)
	var (
		score    float64
		start    int
		end      int
		wordHits int
		matched  bool
	)
	if substringIdx != -1 {
		score, start, end, wordHits = fm.contiguousMatchScore(pattern, text, substringIdx)
		matched = start >= 0
	}
	if !matched {
		score, matched, start, end, wordHits = fm.matchRunesDP(pattern, text)
	}
	if !matched || start < 0 || end < start || end >= len(text) {
		return 0, false, noMatch
	}

	if substringIdx != -1 {
		bonus := fm.substringBonus
		if substringIdx > 0 {
			switch text[substringIdx-1] {
			case '/', '\\':
			case '-', '_', ' ', '.', ':':
				bonus *= fm.substringBoundaryFactor
			default:
				bonus *= fm.substringInteriorFactor
			}
		}
		score += bonus
		if substringIdx == 0 {
			score += fm.prefixBonus
		}
	}

	crossSegments := 0
	for _, r := range text[start : end+1] {
		if r == '/' {
			crossSegments++
		}
	}
	score -= fm.crossSegmentPenalty * float64(crossSegments)

	lastSlash := -1
	for idx, r := range text {
		if r == '/' {
			lastSlash = idx
		}
	}
	if lastSlash != -1 && start <= lastSlash {
		score -= fm.startPenaltyFactor * float64(lastSlash-start)
	}
	if lastSlash == -1 || start > lastSlash || (substringIdx != -1 && substringIdx > lastSlash) {
		score += fm.finalSegmentBonus
	}
	score += fm.wordHitBonus * float64(wordHits)

	return score, true, MatchDetails{
		Start:      start,
		End:        end,
		MatchCount: len(pattern),
		WordHits:   wordHits,
	}
}

func (fm *FuzzyMatcher) contiguousMatchScore(pattern, text []rune, start int) (float64, int, int, int) {
	end := start + len(pattern) - 1
	if end >= len(text) {
		return 0, -1, -1, 0
	}

	score := 0.0
	wordHits := 0
	for i := range pattern {
		idx := start + i
		charScore := fm.charBonus
		if isWordBoundaryRune(text, idx) {
			charScore += fm.wordBoundaryBonus
			if isStrongWordBoundaryRune(text, idx) {
				wordHits++
			}
		}
		if i == 0 {
			charScore -= fm.gapPenalty * 0.02 * float64(idx)
		} else {
			charScore += fm.consecutiveBonus
		}
		score += charScore
	}
	score -= fm.trailingPenalty(len(text) - end - 1)
	return score, start, end, wordHits
}

// matchRunesDP finds the best-scoring subsequence alignment. Row i holds the
// best score of matching pattern[:i+1] with pattern[i] at text[j].
func (fm *FuzzyMatcher) matchRunesDP(pattern, text []rune) (float64, bool, int, int, int) {
	m, n := len(pattern), len(text)
	if n == 0 || m > n {
		return 0, false, -1, -1, 0
	}

	negInf := math.Inf(-1)
	prev := make([]float64, n)
	curr := make([]float64, n)
	back := make([]int, m*n)
	for j := range prev {
		prev[j] = negInf
		if pattern[0] != text[j] || n-j < m {
			continue
		}
		score := fm.charBonus - fm.gapPenalty*0.02*float64(j)
		if isWordBoundaryRune(text, j) {
			score += fm.wordBoundaryBonus
		}
		prev[j] = score
	}

	for i := 1; i < m; i++ {
		bestSoFar := negInf
		bestIdx := -1
		reached := false
		for j := 0; j < n; j++ {
			curr[j] = negInf
			if bestIdx != -1 {
				bestSoFar -= fm.gapPenalty
			}
			if j > 0 && prev[j-1] > bestSoFar {
				bestSoFar = prev[j-1]
				bestIdx = j - 1
			}
			if pattern[i] != text[j] || bestIdx == -1 || bestSoFar == negInf {
				continue
			}

			charScore := fm.charBonus
			if isWordBoundaryRune(text, j) {
				charScore += fm.wordBoundaryBonus
			}
			score := bestSoFar + charScore
			from := bestIdx
			if j > 0 && prev[j-1] > negInf {
				if consecutive := prev[j-1] + charScore + fm.consecutiveBonus; consecutive >= score {
					score = consecutive
					from = j - 1
				}
			}
			curr[j] = score
			back[i*n+j] = from
			reached = true
		}
		if !reached {
			return 0, false, -1, -1, 0
		}
		prev, curr = curr, prev
	}

	bestEnd := -1
	for j, v := range prev {
		if v > negInf && (bestEnd == -1 || v > prev[bestEnd]) {
			bestEnd = j
		}
	}
	if bestEnd == -1 {
		return 0, false, -1, -1, 0
	}

	positions := make([]int, m)
	k := bestEnd
	for i := m - 1; i >= 0; i-- {
		positions[i] = k
		if i > 0 {
			k = back[i*n+k]
		}
	}

	wordHits := 0
	for _, idx := range positions {
		if isStrongWordBoundaryRune(text, idx) {
			wordHits++
		}
	}
	score := prev[bestEnd] - fm.trailingPenalty(n-positions[m-1]-1)
	return score, true, positions[0], positions[m-1], wordHits
}

func (fm *FuzzyMatcher) trailingPenalty(trailing int) float64 {
	if trailing <= 20 {
		return 0
	}
	return fm.gapPenalty * 0.25 * float64((trailing-20)/10)
}

func patternHasUppercase(pattern string) bool {
	for _, r := range pattern {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func toRunes(s string, fold bool) []rune {
	if fold {
		s = strings.ToLower(s)
	}
	return []rune(s)
}

func indexRunes(haystack, needle []rune) int {
	if len(needle) > len(haystack) {
		return -1
	}
outer:
	for i := 0; i <= len(haystack)-len(needle); i++ {
		for j := range needle {
			if haystack[i+j] != needle[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}

func isWordBoundaryRune(text []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	prev, curr := text[idx-1], text[idx]
	switch prev {
	case '/', '\\', '-', '_', ' ', '.', ':':
		return true
	}
	if !isLetterRune(prev) && isLetterRune(curr) {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(curr)
}

func isStrongWordBoundaryRune(text []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	prev, curr := text[idx-1], text[idx]
	switch prev {
	case '/', '\\', ' ', '-':
		return true
	case '_', '.', ':':
		return false
	}
	if !isLetterRune(prev) && isLetterRune(curr) {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(curr)
}

func isLetterRune(r rune) bool {
	if r <= unicode.MaxASCII {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	}
	return unicode.IsLetter(r)
}
