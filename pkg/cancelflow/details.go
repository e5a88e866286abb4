package cancelflow

import "strings"

// Segment keys written by the flow steps.
const (
	KeyFoundJob     = "found_job"
	KeyJobFeedback  = "job_feedback"
	KeyVisa         = "visa"
	KeyUsageDetails = "usage_details"
)

const (
	SepColon  = ": "
	SepEquals = "="
)

const segmentDelimiter = " | "

type segment struct {
	key   string
	sep   string
	value string
}

func (s segment) String() string {
	return s.key + s.sep + s.value
}

// Details is the ordered key-unique form of reason_details. The stored column
// is a "|"-joined list of "key: value" or "key=value" segments.
type Details struct {
	segments []segment
}

// ParseDetails splits a stored reason_details value. Blank segments are
// dropped, text without a key is kept as is.
func ParseDetails(raw string) *Details {
	d := &Details{}
	for _, part := range strings.Split(raw, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d.segments = append(d.segments, parseSegment(part))
	}
	return d
}

func parseSegment(part string) segment {
	i := strings.IndexAny(part, ":=")
	if i <= 0 {
		return segment{key: part}
	}
	key := strings.TrimSpace(part[:i])
	if strings.ContainsAny(key, " ;") {
		return segment{key: part}
	}
	sep := SepEquals
	if part[i] == ':' {
		sep = SepColon
	}
	return segment{key: key, sep: sep, value: strings.TrimSpace(part[i+1:])}
}

// Set drops every segment whose key matches (case-insensitive) and appends the
// fresh one at the end.
func (d *Details) Set(key, sep, value string) {
	d.Remove(key)
	value = strings.TrimSpace(strings.ReplaceAll(value, "|", ""))
	d.segments = append(d.segments, segment{key: key, sep: sep, value: value})
}

func (d *Details) Remove(key string) {
	kept := d.segments[:0]
	for _, s := range d.segments {
		if s.sep != "" && strings.EqualFold(s.key, key) {
			continue
		}
		kept = append(kept, s)
	}
	d.segments = kept
}

func (d *Details) Get(key string) (string, bool) {
	for i := len(d.segments) - 1; i >= 0; i-- {
		s := d.segments[i]
		if s.sep != "" && strings.EqualFold(s.key, key) {
			return s.value, true
		}
	}
	return "", false
}

func (d *Details) Len() int {
	return len(d.segments)
}

func (d *Details) String() string {
	parts := make([]string, 0, len(d.segments))
	for _, s := range d.segments {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, segmentDelimiter)
}

// ReplaceSegment is the one-shot form used by the flow steps.
func ReplaceSegment(raw, key, sep, value string) string {
	d := ParseDetails(raw)
	d.Set(key, sep, value)
	return d.String()
}
