package assistant

import (
	"strings"
	"unicode"
)

// MinFuzzyOverlap is the number of shared tokens a fuzzy match needs.
const MinFuzzyOverlap = 3

const minTokenLength = 3

// Script is the fixed question table, canned answers and fallback.
type Script struct {
	Suggestions []SuggestedQuestion
	Responses   map[string]Response
	Fallback    Response
}

// Responder resolves free text against a Script.
type Responder struct {
	script Script
	tokens [][]string
}

// NewResponder pre-tokenizes every suggested question.
func NewResponder(script Script) *Responder {
	r := &Responder{script: script, tokens: make([][]string, len(script.Suggestions))}
	for i, q := range script.Suggestions {
		r.tokens[i] = tokenize(q.Text)
	}
	return r
}

// Suggestions returns the source list; callers must not mutate it.
func (r *Responder) Suggestions() []SuggestedQuestion {
	return r.script.Suggestions
}

// Suggestion looks a question up by id.
func (r *Responder) Suggestion(id string) (SuggestedQuestion, bool) {
	for _, q := range r.script.Suggestions {
		if q.ID == id {
			return q, true
		}
	}
	return SuggestedQuestion{}, false
}

// Resolve applies exact, then fuzzy, then fallback matching.
func (r *Responder) Resolve(text string) (Response, MatchKind) {
	normalized := strings.TrimSpace(text)
	for _, q := range r.script.Suggestions {
		if strings.EqualFold(q.Text, normalized) {
			if resp, ok := r.script.Responses[q.ID]; ok {
				return resp, MatchExact
			}
		}
	}

	input := tokenize(normalized)
	best, bestScore := -1, 0
	for i, candidate := range r.tokens {
		if _, ok := r.script.Responses[r.script.Suggestions[i].ID]; !ok {
			continue
		}
		score := overlap(input, candidate)
		if score >= MinFuzzyOverlap && score > bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 {
		return r.script.Responses[r.script.Suggestions[best].ID], MatchFuzzy
	}
	return r.script.Fallback, MatchFallback
}

// overlap counts input tokens that contain, or are contained by, some candidate token.
func overlap(input, candidate []string) int {
	count := 0
	for _, in := range input {
		for _, c := range candidate {
			if strings.Contains(in, c) || strings.Contains(c, in) {
				count++
				break
			}
		}
	}
	return count
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < minTokenLength {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
