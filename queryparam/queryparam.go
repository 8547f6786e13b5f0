// Package queryparam parses the SCIM query parameters of §4.7 from a
// string-keyed map of string slices, deliberately decoupled from
// *http.Request so it can be exercised against any transport binding (or
// none).
package queryparam

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/entrahub/scim/filter"
	"github.com/entrahub/scim/spec"
)

// Params is the parsed, validated form of a SCIM list/query request.
type Params struct {
	Filter             *filter.Expr
	Attributes         []string
	ExcludedAttributes []string
	SortBy             string
	SortDescending     bool
	StartIndex         int
	Count              *int
}

// Parse reads the recognized keys out of raw (a multi-valued, string-keyed
// map as produced by a URL query string or an equivalent source) and
// returns validated Params. Any parse/validation failure returns
// spec.ErrInvalidFilter (for the filter key) or spec.ErrInvalidValue (for
// every other key).
func Parse(raw map[string][]string) (*Params, error) {
	p := &Params{StartIndex: 1}

	if v, ok := first(raw, "filter"); ok && v != "" {
		expr, err := filter.Parse(v)
		if err != nil {
			return nil, err
		}
		p.Filter = expr
	}

	if v, ok := first(raw, "attributes"); ok {
		p.Attributes = splitTrim(v)
	}
	if v, ok := first(raw, "excludedAttributes"); ok {
		p.ExcludedAttributes = splitTrim(v)
	}

	if v, ok := first(raw, "sortBy"); ok {
		p.SortBy = strings.TrimSpace(v)
	}

	if v, ok := first(raw, "sortOrder"); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "ascending", "":
			p.SortDescending = false
		case "descending":
			p.SortDescending = true
		default:
			return nil, fmt.Errorf("%w: sortOrder must be ascending or descending", spec.ErrInvalidValue)
		}
	}

	if v, ok := first(raw, "startIndex"); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: startIndex must be a positive integer", spec.ErrInvalidValue)
		}
		p.StartIndex = n
	}

	if v, ok := first(raw, "count"); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: count must be a non-negative integer", spec.ErrInvalidValue)
		}
		p.Count = &n
	}

	return p, nil
}

func first(raw map[string][]string, key string) (string, bool) {
	vs, ok := raw[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

func splitTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
