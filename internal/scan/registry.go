package scan

// Span is a half-open [Start, End) character range within one document.
type Span struct {
	Start int
	End   int
}

// SpanRegistry tracks the character ranges already consumed by a scanning
// pass so that lower-priority extractors skip them. It is owned by a single
// scanner; it must not be shared across documents.
type SpanRegistry struct {
	spans []Span
}

// Claim records a span as consumed.
func (r *SpanRegistry) Claim(s Span) {
	r.spans = append(r.spans, s)
}

// Contains reports whether the span falls within one character of a
// previously claimed span, on both endpoints. The one-character tolerance
// absorbs matching-boundary jitter between extractors.
func (r *SpanRegistry) Contains(s Span) bool {
	for _, claimed := range r.spans {
		if s.Start >= claimed.Start-1 && s.End <= claimed.End+1 {
			return true
		}
	}
	return false
}

// ReleaseLast rolls back the most recent claim. Used when a provisional
// match turns out to be invalid so other extractors may still visit it.
func (r *SpanRegistry) ReleaseLast() {
	if len(r.spans) > 0 {
		r.spans = r.spans[:len(r.spans)-1]
	}
}

// Len returns the number of claimed spans.
func (r *SpanRegistry) Len() int {
	return len(r.spans)
}
