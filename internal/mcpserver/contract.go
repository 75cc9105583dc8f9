package mcpserver

// PageFormatContract describes the canonical Markdown page format that
// LLM consumers should follow when creating or updating pages.
const PageFormatContract = `# Ansuz Page Format Contract

Every Markdown page stored in Ansuz MUST follow this structure.

## Structure

` + "```" + `markdown
---
title: Human-readable title        # OPTIONAL – defaults to the filename stem
aliases:                            # OPTIONAL – alternate names usable in wikilinks
  - Alternate Name
created: 2025-01-15                 # OPTIONAL – ISO-8601 date or datetime
---

Body text in standard Markdown.

Use [[wikilinks]] to reference other pages (without .md extension).
Use [[target|display]] for display text that differs from the target.
` + "```" + `

## Rules

1. **YAML frontmatter is optional** but when present the ` + "```" + `---` + "```" + ` fences must
   be the first thing in the file (no leading blank lines).
2. **` + "`" + `title` + "`" + `** is the primary display name; without it the filename stem is used.
3. **Aliases** are alternate names: a wikilink matching an alias resolves to
   this page, taking precedence over another page's title.
4. **Wikilinks** use double brackets: ` + "`" + `[[other-page]]` + "`" + `. The target may be a
   title, an alias, or a path (no ` + "`" + `.md` + "`" + ` extension needed, path
   separators OK: ` + "`" + `[[folder/page]]` + "`" + `).
5. **File paths** end with ` + "`" + `.md` + "`" + ` and use forward slashes.
6. **Encoding** is UTF-8 with a trailing newline.
7. **No HTML** unless absolutely necessary; prefer Markdown equivalents.
8. **Language policy:** file names and directory names MUST be in English
   (Latin characters). Frontmatter keys MUST be in English (they are schema
   fields). Frontmatter values (title, aliases, etc.) and body content may
   use any language including Cyrillic.
`
