package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_NoFrontmatter(t *testing.T) {
	content := `# Hello World

This is a test document.

## Section 1

Some content here.
`

	doc := Parse("test.md", []byte(content))

	assert.Equal(t, "test.md", doc.Filename)
	assert.Equal(t, content, doc.Content)
	assert.Equal(t, content, doc.Body)
	assert.False(t, doc.HasFrontmatter())
}

func TestParse_WithFrontmatter(t *testing.T) {
	content := `---
title: Task Tracker
status: draft
---
# Overview

Body text.
`

	doc := Parse("product-requirements.md", []byte(content))

	assert.True(t, doc.HasFrontmatter())
	assert.Equal(t, "Task Tracker", doc.Frontmatter["title"])
	assert.Equal(t, "draft", doc.Frontmatter["status"])
	assert.Equal(t, "# Overview\n\nBody text.\n", doc.Body)
}

func TestParse_MalformedFrontmatter(t *testing.T) {
	content := `---
title: [unclosed
---
# Heading
`

	doc := Parse("test.md", []byte(content))

	// Unparseable frontmatter stays in the body.
	assert.False(t, doc.HasFrontmatter())
	assert.Equal(t, content, doc.Body)
}

func TestParse_UnclosedFrontmatter(t *testing.T) {
	content := `---
title: Dangling

# Heading
`

	doc := Parse("test.md", []byte(content))

	assert.False(t, doc.HasFrontmatter())
	assert.Equal(t, content, doc.Body)
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "frontmatter title wins",
			content: "---\ntitle: From Frontmatter\n---\n# From Heading\n",
			want:    "From Frontmatter",
		},
		{
			name:    "title line without frontmatter block",
			content: "Some intro\ntitle: \"Inline Title\"\n# Heading\n",
			want:    "Inline Title",
		},
		{
			name:    "first h1 fallback",
			content: "Intro paragraph.\n\n# Project Phoenix\n\n## Details\n",
			want:    "Project Phoenix",
		},
		{
			name:    "default when nothing matches",
			content: "Just some text.\n",
			want:    DefaultTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse("test.md", []byte(tt.content))
			assert.Equal(t, tt.want, doc.Title())
		})
	}
}
