package locale

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// maxAcceptLanguageLength prevents DoS attacks through oversized Accept-Language headers.
// RFC 7231 doesn't specify a limit, but 4KB is generous for legitimate headers.
const maxAcceptLanguageLength = 4096

var (
	// acceptLanguageEntry matches one entry: lang[-region[-variant]][;q=weight].
	acceptLanguageEntry = regexp.MustCompile(`^([A-Za-z]{1,8}(?:-[A-Za-z0-9]{1,8}){0,2}|\*)(?:;[qQ]=([01](?:\.[0-9]{1,3})?))?$`)
	// parameterSpacing collapses optional whitespace around ";" and "=".
	parameterSpacing = regexp.MustCompile(`\s*([;=])\s*`)
)

// languageTag is a parsed Accept-Language entry with its quality value.
type languageTag struct {
	tag     string
	quality float64
}

// ParseAcceptLanguage parses an Accept-Language header into candidate locale
// codes ordered by descending quality. Entries of equal quality keep their
// header order. Malformed entries, "*" and entries with q=0 are dropped.
// Every entry is returned in the most specific form it was written in:
// "en-US" stays "en-US" and does not add "en".
//
// Example: "fr;q=0.9, en;q=1.0, es" returns ["en", "es", "fr"].
func ParseAcceptLanguage(header string) []string {
	tags := parseLanguageTags(header)
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.tag
	}
	return out
}

func parseLanguageTags(header string) []languageTag {
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}
	header = strings.TrimSpace(header)
	if header == "" {
		return nil
	}

	var tags []languageTag
	for part := range strings.SplitSeq(header, ",") {
		part = parameterSpacing.ReplaceAllString(part, "$1")
		for _, field := range strings.Fields(part) {
			m := acceptLanguageEntry.FindStringSubmatch(field)
			if m == nil || m[1] == "*" {
				continue
			}
			quality := 1.0
			if m[2] != "" {
				q, err := strconv.ParseFloat(m[2], 64)
				if err != nil || q > 1 {
					continue
				}
				quality = q
			}
			if quality == 0 {
				continue
			}
			tags = append(tags, languageTag{tag: m[1], quality: quality})
		}
	}

	slices.SortStableFunc(tags, func(a, b languageTag) int {
		return cmp.Compare(b.quality, a.quality)
	})

	return tags
}
