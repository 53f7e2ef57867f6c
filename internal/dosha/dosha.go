// Package dosha scores the constitution quiz.
package dosha

import (
	"fmt"
	"strings"

	"github.com/hyperengineering/dinacharya/internal/types"
)

// Dosha is one of the three constitutional categories.
type Dosha string

const (
	Vata  Dosha = "vata"
	Pitta Dosha = "pitta"
	Kapha Dosha = "kapha"
)

// order is the tally order. Ties resolve toward the later entry.
var order = []Dosha{Vata, Pitta, Kapha}

// Names returns the valid dosha values.
func Names() []string {
	names := make([]string, len(order))
	for i, d := range order {
		names[i] = string(d)
	}
	return names
}

// IsValid reports whether d is a known dosha.
func (d Dosha) IsValid() bool {
	switch d {
	case Vata, Pitta, Kapha:
		return true
	default:
		return false
	}
}

// Parse normalises and validates a dosha name.
func Parse(input string) (Dosha, error) {
	d := Dosha(strings.TrimSpace(strings.ToLower(input)))
	if !d.IsValid() {
		return "", fmt.Errorf("invalid dosha: %q", input)
	}
	return d, nil
}

// Score tallies one point per answer and picks the dominant dosha.
// When two doshas share the top score the one later in vata, pitta, kapha order wins.
func Score(answers map[int]Dosha) (types.DoshaScores, Dosha, error) {
	var scores types.DoshaScores
	for qid, d := range answers {
		switch d {
		case Vata:
			scores.Vata++
		case Pitta:
			scores.Pitta++
		case Kapha:
			scores.Kapha++
		default:
			return types.DoshaScores{}, "", fmt.Errorf("question %d: invalid dosha: %q", qid, d)
		}
	}
	return scores, Dominant(scores), nil
}

// Dominant returns the highest-scoring dosha using the tie rule of Score.
func Dominant(scores types.DoshaScores) Dosha {
	dominant := order[0]
	for _, d := range order[1:] {
		if scoreOf(scores, dominant) <= scoreOf(scores, d) {
			dominant = d
		}
	}
	return dominant
}

func scoreOf(scores types.DoshaScores, d Dosha) int {
	switch d {
	case Vata:
		return scores.Vata
	case Pitta:
		return scores.Pitta
	default:
		return scores.Kapha
	}
}
