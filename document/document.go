// Package document provides the markdown document model and the header-based
// section extraction used by the ralphex parsing pipeline.
package document

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultTitle is used when neither frontmatter nor a top-level heading
// provides a title.
const DefaultTitle = "Project"

var (
	// titleFieldRe matches a frontmatter-style title field.
	titleFieldRe = regexp.MustCompile(`title:\s*["']?([^"'` + "\n" + `]+)["']?`)
	// firstH1Re matches the first top-level heading.
	firstH1Re = regexp.MustCompile(`(?m)^#\s+(.+)$`)
)

// Document is a parsed markdown document. Immutable once loaded.
type Document struct {
	// Filename is the base name the document was loaded from.
	Filename string

	// Content is the raw document text, including any frontmatter.
	Content string

	// Frontmatter holds parsed YAML frontmatter, nil if absent or malformed.
	Frontmatter map[string]any

	// Body is the content with frontmatter stripped.
	Body string
}

// Parse parses a markdown document, extracting frontmatter and body.
func Parse(filename string, content []byte) *Document {
	doc := &Document{
		Filename: filename,
		Content:  string(content),
	}

	str := string(content)
	if strings.HasPrefix(str, "---\n") || strings.HasPrefix(str, "---\r\n") {
		frontmatter, body, err := extractFrontmatter(str)
		if err != nil {
			// Unparseable frontmatter is treated as body text.
			doc.Body = str
		} else {
			doc.Frontmatter = frontmatter
			doc.Body = body
		}
	} else {
		doc.Body = str
	}

	return doc
}

// HasFrontmatter returns true if the document has parsed frontmatter.
func (d *Document) HasFrontmatter() bool {
	return len(d.Frontmatter) > 0
}

// Title derives the document title: frontmatter title field, then a
// frontmatter-style "title:" line anywhere in the content, then the first
// top-level heading, then DefaultTitle.
func (d *Document) Title() string {
	if d.HasFrontmatter() {
		if title, ok := d.Frontmatter["title"].(string); ok && title != "" {
			return strings.TrimSpace(title)
		}
	}

	if m := titleFieldRe.FindStringSubmatch(d.Content); m != nil {
		return strings.TrimSpace(m[1])
	}

	if m := firstH1Re.FindStringSubmatch(d.Content); m != nil {
		return strings.TrimSpace(m[1])
	}

	return DefaultTitle
}

// extractFrontmatter parses YAML frontmatter from markdown content.
// Returns the parsed frontmatter map, the remaining body, and any error.
func extractFrontmatter(content string) (map[string]any, string, error) {
	const delimiter = "---"

	// Skip the opening delimiter
	start := len(delimiter)
	if len(content) > start && content[start] == '\r' {
		start++
	}
	if len(content) > start && content[start] == '\n' {
		start++
	}

	// Find the closing delimiter
	closeIdx := strings.Index(content[start:], "\n"+delimiter)
	if closeIdx == -1 {
		closeIdx = strings.Index(content[start:], "\r\n"+delimiter)
	}
	if closeIdx == -1 {
		return nil, content, fmt.Errorf("no closing frontmatter delimiter")
	}

	yamlContent := content[start : start+closeIdx]

	// Find where the body starts (after closing delimiter and newline)
	bodyStart := start + closeIdx + 1 + len(delimiter)
	for bodyStart < len(content) && (content[bodyStart] == '\n' || content[bodyStart] == '\r') {
		bodyStart++
	}

	body := ""
	if bodyStart < len(content) {
		body = content[bodyStart:]
	}

	var frontmatter map[string]any
	if err := yaml.Unmarshal([]byte(yamlContent), &frontmatter); err != nil {
		return nil, content, fmt.Errorf("parse YAML frontmatter: %w", err)
	}

	return frontmatter, body, nil
}
