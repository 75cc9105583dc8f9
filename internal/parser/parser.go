// Package parser extracts frontmatter metadata and wikilinks from Markdown content.
package parser

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/ansuz/internal/models"
)

// Result holds the output of parsing a Markdown page.
//
// Title is the frontmatter "title" value only; callers fall back to the
// filename stem when it is empty. Aliases merges the "aliases" and "alias"
// keys (each a string or list of strings), duplicates preserved. Properties
// holds the remaining frontmatter entries; the title and alias keys are
// promoted to the first-class fields and excluded from the bag.
type Result struct {
	Title      string
	Aliases    []string
	Properties map[string]models.Value
	Body       string
}

// Parse extracts frontmatter and body from raw Markdown bytes.
// Malformed frontmatter is never an error: the whole content becomes the
// body with no properties.
func Parse(data []byte) *Result {
	fm, body := splitFrontmatter(data)

	res := &Result{Body: body}
	if fm == nil {
		return res
	}

	res.Properties = make(map[string]models.Value, len(fm))
	for k, raw := range fm {
		v, ok := models.FromYAML(raw)
		if !ok {
			continue
		}
		switch k {
		case "title":
			if v.Kind == models.KindString {
				res.Title = v.Str
				continue
			}
		case "aliases", "alias":
			res.Aliases = append(res.Aliases, v.Strings()...)
			continue
		}
		res.Properties[k] = v
	}
	if len(res.Properties) == 0 {
		res.Properties = nil
	}
	return res
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. If no frontmatter is found, or the YAML is invalid,
// the entire content is body.
func splitFrontmatter(data []byte) (map[string]any, string) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data)
	}

	// Find end delimiter.
	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter — treat everything as body.
		return nil, string(data)
	}

	yamlBlock := rest[:idx]
	// Body starts after closing delimiter line.
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]any
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		// Invalid YAML — fall back to body-only, never surface the error.
		return nil, string(data)
	}

	return fm, body
}
