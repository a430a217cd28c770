package jsonschema

// Relevance ranks errors for BestMatch. Errors deeper in the instance rank
// lower, then errors from weak keywords, then errors not from strong keywords.
type Relevance struct {
	Weak   map[Keyword]bool
	Strong map[Keyword]bool
}

// ByRelevance builds a Relevance from weak and strong keyword lists.
func ByRelevance(weak, strong []Keyword) Relevance {
	r := Relevance{Weak: map[Keyword]bool{}, Strong: map[Keyword]bool{}}
	for _, k := range weak {
		r.Weak[k] = true
	}
	for _, k := range strong {
		r.Strong[k] = true
	}
	return r
}

// DefaultRelevance treats anyOf and oneOf as weak.
var DefaultRelevance = ByRelevance([]Keyword{KeywordAnyOf, KeywordOneOf}, nil)

// Compare returns a negative number when a is less relevant than b, zero when
// they tie, and a positive number otherwise.
func (r Relevance) Compare(a, b *ValidationError) int {
	// Shallower paths are more relevant.
	if d := len(b.RelativePath) - len(a.RelativePath); d != 0 {
		return d
	}
	if c := compareBool(!r.Weak[a.Validator], !r.Weak[b.Validator]); c != 0 {
		return c
	}
	return compareBool(r.Strong[a.Validator], r.Strong[b.Validator])
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	}
	return -1
}

// BestMatch picks the error most likely to explain why validation failed,
// using DefaultRelevance.
func BestMatch(errs []*ValidationError) *ValidationError {
	return BestMatchBy(errs, DefaultRelevance)
}

// BestMatchBy takes the most relevant error, the first one among ties, then
// descends into its context taking the least relevant child at each level.
// It returns nil for no errors.
func BestMatchBy(errs []*ValidationError, r Relevance) *ValidationError {
	if len(errs) == 0 {
		return nil
	}
	best := errs[0]
	for _, e := range errs[1:] {
		if r.Compare(e, best) > 0 {
			best = e
		}
	}
	for len(best.Context) > 0 {
		next := best.Context[0]
		for _, e := range best.Context[1:] {
			if r.Compare(e, next) < 0 {
				next = e
			}
		}
		best = next
	}
	return best
}
