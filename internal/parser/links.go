package parser

import (
	"iter"
	"regexp"
	"strings"
)

var wikilinkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)

// Links returns a lazy iterator over the wikilink targets in body, in
// document order. For [[Target|Display]] only Target is yielded, trimmed of
// surrounding whitespace; empty targets are skipped. The sequence is
// consumable once; call Links again to restart.
func Links(body string) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := body
		for {
			loc := wikilinkRe.FindStringSubmatchIndex(rest)
			if loc == nil {
				return
			}
			target := rest[loc[2]:loc[3]]
			rest = rest[loc[1]:]

			// Strip the display portion: [[Target|Display]] → Target.
			if i := strings.Index(target, "|"); i >= 0 {
				target = target[:i]
			}
			target = strings.TrimSpace(target)
			if target == "" {
				continue
			}
			if !yield(target) {
				return
			}
		}
	}
}

// CollectLinks drains Links into a slice.
func CollectLinks(body string) []string {
	var out []string
	for target := range Links(body) {
		out = append(out, target)
	}
	return out
}
