package langtag

import "strings"

// Trace records every candidate tried during negotiation, in order.
// Present only when requested via NegotiateLookupWithTrace.
type Trace struct {
	Attempts []string
}

// Result is the outcome of RFC 4647 "Lookup" negotiation.
type Result struct {
	Selected  Tag
	Requested Tag
	Trace     *Trace
}

// NegotiateLookup implements RFC 4647 §3.4 "Lookup" over the first
// requested tag that matches any supported tag, falling back to
// defaultLocale when none match.
func NegotiateLookup(requested, supported []Tag, defaultLocale Tag) Result {
	return negotiateLookup(requested, supported, defaultLocale, false)
}

// NegotiateLookupWithTrace is NegotiateLookup but also records every
// candidate attempted, in the order tried.
func NegotiateLookupWithTrace(requested, supported []Tag, defaultLocale Tag) Result {
	return negotiateLookup(requested, supported, defaultLocale, true)
}

func negotiateLookup(requested, supported []Tag, defaultLocale Tag, withTrace bool) Result {
	var trace *Trace
	if withTrace {
		trace = &Trace{}
	}

	for _, req := range requested {
		tried := buildCandidates(req)

		for _, attempt := range tried {
			if trace != nil {
				trace.Attempts = append(trace.Attempts, attempt)
			}
			if selected, ok := findSupported(attempt, supported); ok {
				return Result{Selected: selected, Requested: req, Trace: trace}
			}
		}
	}

	reqOut := defaultLocale
	if len(requested) > 0 {
		reqOut = requested[0]
	}
	return Result{Selected: defaultLocale, Requested: reqOut, Trace: trace}
}

// buildCandidates constructs the dedup-preserving-order candidate list:
// normalized form, full match prefix (if different), then progressively
// popping the last match subtag down to the primary language alone.
func buildCandidates(req Tag) []string {
	tried := []string{req.Normalized()}
	seen := map[string]bool{req.Normalized(): true}

	matchParts := req.MatchSubtags()
	if len(matchParts) == 0 {
		return tried
	}

	fullMatch := strings.Join(matchParts, "-")
	if !seen[fullMatch] {
		tried = append(tried, fullMatch)
		seen[fullMatch] = true
	}

	for len(matchParts) > 1 {
		matchParts = matchParts[:len(matchParts)-1]
		candidate := strings.Join(matchParts, "-")
		if !seen[candidate] {
			tried = append(tried, candidate)
			seen[candidate] = true
		}
	}

	return tried
}

func findSupported(tag string, supported []Tag) (Tag, bool) {
	for _, candidate := range supported {
		if candidate.Normalized() == tag {
			return candidate, true
		}
	}
	return Tag{}, false
}
