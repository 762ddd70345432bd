package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdown(t *testing.T) {
	out := Markdown("# Title\n\nSome *body* text.\n", 60)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "body")
}
