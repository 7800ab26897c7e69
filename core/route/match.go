package route

import (
	"fmt"
	"maps"
	"net/url"
	"strings"
)

type segmentTyp uint8

const (
	stStatic   segmentTyp = iota // about
	stParam                      // :slug
	stOptional                   // :slug?
	stCatchAll                   // :path(.*)* or *
)

// Scores rank candidate matches: static beats dynamic, and a consumed locale
// segment counts as one dynamic segment.
const (
	scoreStatic = 2
	scoreParam  = 1
	scoreLocale = 1
)

type segment struct {
	typ   segmentTyp
	value string // literal for static, name otherwise
}

func parseSegments(p string) []segment {
	var segs []segment
	for part := range strings.SplitSeq(p, "/") {
		if part == "" {
			continue
		}
		switch {
		case part == "*":
			segs = append(segs, segment{typ: stCatchAll, value: "pathMatch"})
		case strings.HasPrefix(part, ":"):
			name := part[1:]
			if i := strings.IndexByte(name, '('); i >= 0 {
				if strings.HasSuffix(name, "*") || strings.HasSuffix(name, "+") {
					segs = append(segs, segment{typ: stCatchAll, value: name[:i]})
					continue
				}
				if j := strings.LastIndexByte(name, ')'); j > i {
					name = name[:i] + name[j+1:]
				} else {
					name = name[:i]
				}
			}
			if n, ok := strings.CutSuffix(name, "?"); ok {
				segs = append(segs, segment{typ: stOptional, value: n})
				continue
			}
			if n, ok := strings.CutSuffix(name, "*"); ok {
				segs = append(segs, segment{typ: stCatchAll, value: n})
				continue
			}
			segs = append(segs, segment{typ: stParam, value: name})
		default:
			segs = append(segs, segment{typ: stStatic, value: part})
		}
	}
	return segs
}

// Location is a resolved navigation target.
type Location struct {
	// Path is the normalized path without query or fragment.
	Path   string
	Params map[string]string
	Route  *Route
	Query  string
	Hash   string
}

// String returns the full path including query and fragment.
func (l Location) String() string {
	s := l.Path
	if l.Query != "" {
		s += "?" + l.Query
	}
	if l.Hash != "" {
		s += "#" + l.Hash
	}
	return s
}

// Match is the result of matching a path against the tree.
type Match struct {
	Location
	// LocalePresent reports whether the path carried a locale segment.
	LocalePresent bool
	// LocaleParam is the raw value of the locale segment, possibly not a configured code.
	LocaleParam string
}

// Match resolves a path to a route. The locale segment is consumed first
// when the tree requires it; otherwise both readings are scored and the
// best one wins, ties going to the reading without a locale.
func (t *Tree) Match(rawPath string) (Match, bool) {
	return t.match(rawPath, !t.Required, true)
}

// MatchUnprefixed matches a path as if it carried no locale segment,
// whatever the tree policy. It lets callers recover a route from a URL
// typed without the required locale.
func (t *Tree) MatchUnprefixed(rawPath string) (Match, bool) {
	return t.match(rawPath, true, false)
}

func (t *Tree) match(rawPath string, absent, present bool) (Match, bool) {
	p, query, hash := splitPath(rawPath)
	parts := splitSegments(p)

	var (
		best      Match
		bestScore = -1
		bestDepth = -1
	)
	try := func(withLocale bool) {
		rest := parts
		if withLocale {
			if len(parts) == 0 {
				return
			}
			rest = parts[1:]
		}
		for _, e := range t.entries {
			params, score, ok := matchSegments(e.segs, rest)
			if !ok {
				continue
			}
			if withLocale {
				score += scoreLocale
			}
			if score < bestScore || (score == bestScore && e.depth <= bestDepth) {
				continue
			}
			if withLocale {
				params[t.PathVariable] = parts[0]
			}
			bestScore, bestDepth = score, e.depth
			best = Match{
				Location: Location{
					Path:   cleanPath(parts),
					Params: params,
					Route:  e.route,
					Query:  query,
					Hash:   hash,
				},
				LocalePresent: withLocale,
			}
			if withLocale {
				best.LocaleParam = parts[0]
			}
		}
	}

	if absent {
		try(false)
	}
	if present {
		try(true)
	}

	return best, bestScore >= 0
}

func matchSegments(segs []segment, parts []string) (map[string]string, int, bool) {
	params := make(map[string]string)
	score := 0
	i := 0
	for si, s := range segs {
		switch s.typ {
		case stStatic:
			if i >= len(parts) || parts[i] != s.value {
				return nil, 0, false
			}
			score += scoreStatic
			i++
		case stParam:
			if i >= len(parts) {
				return nil, 0, false
			}
			params[s.value] = parts[i]
			score += scoreParam
			i++
		case stOptional:
			// Consumed only when the remaining pattern still fits.
			if i < len(parts) && len(parts)-i > minLen(segs[si+1:]) {
				params[s.value] = parts[i]
				score += scoreParam
				i++
			}
		case stCatchAll:
			params[s.value] = strings.Join(parts[i:], "/")
			i = len(parts)
		}
	}
	if i != len(parts) {
		return nil, 0, false
	}
	return params, score, true
}

func minLen(segs []segment) int {
	n := 0
	for _, s := range segs {
		if s.typ == stStatic || s.typ == stParam {
			n++
		}
	}
	return n
}

// Build returns the path of route r filled with params. An empty locale
// parameter omits the locale segment, which is an error when the tree
// requires it.
func (t *Tree) Build(r *Route, params map[string]string) (string, error) {
	var b strings.Builder
	loc := params[t.PathVariable]
	if loc == "" && t.Required {
		return "", fmt.Errorf("%w: %s", ErrMissingParam, t.PathVariable)
	}
	if loc != "" {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(loc))
	}

	rel, err := t.fill(r, params)
	if err != nil {
		return "", err
	}
	if rel != "" {
		b.WriteByte('/')
		b.WriteString(rel)
	}
	if b.Len() == 0 {
		return "/", nil
	}
	return b.String(), nil
}

// fill renders the route pattern without the locale segment.
func (t *Tree) fill(r *Route, params map[string]string) (string, error) {
	if r == nil {
		return "", nil
	}
	segs, ok := t.segmentsOf(r)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, r.Meta.RawPath)
	}
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		switch s.typ {
		case stStatic:
			parts = append(parts, s.value)
		case stParam:
			v := params[s.value]
			if v == "" {
				return "", fmt.Errorf("%w: %s", ErrMissingParam, s.value)
			}
			parts = append(parts, url.PathEscape(v))
		case stOptional:
			if v := params[s.value]; v != "" {
				parts = append(parts, url.PathEscape(v))
			}
		case stCatchAll:
			if v := params[s.value]; v != "" {
				parts = append(parts, strings.Trim(v, "/"))
			}
		}
	}
	return strings.Join(parts, "/"), nil
}

func (t *Tree) segmentsOf(r *Route) ([]segment, bool) {
	for _, e := range t.entries {
		if e.route == r {
			return e.segs, true
		}
	}
	return nil, false
}

func copyParams(params map[string]string) map[string]string {
	out := make(map[string]string, len(params)+1)
	maps.Copy(out, params)
	return out
}

func splitPath(raw string) (p, query, hash string) {
	p = raw
	if i := strings.IndexByte(p, '#'); i >= 0 {
		p, hash = p[:i], p[i+1:]
	}
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p, query = p[:i], p[i+1:]
	}
	return p, query, hash
}

func splitSegments(p string) []string {
	var parts []string
	for part := range strings.SplitSeq(p, "/") {
		if part == "" {
			continue
		}
		if u, err := url.PathUnescape(part); err == nil {
			part = u
		}
		parts = append(parts, part)
	}
	return parts
}

func cleanPath(parts []string) string {
	if len(parts) == 0 {
		return "/"
	}
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return "/" + strings.Join(escaped, "/")
}
