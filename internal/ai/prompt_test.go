package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	code := "func Percent(a, b int) string {\n\treturn fmt.Sprintf(\"%d%%\", a*100/b)\n}"
	prompt := BuildPrompt(code)

	assert.Contains(t, prompt, code, "function code must be embedded verbatim")
	assert.Contains(t, prompt, "one-line summary")
	assert.Contains(t, prompt, "parameters")
	assert.Contains(t, prompt, "return values")
	assert.True(t, strings.HasSuffix(prompt, "Documentation:\n"), "prompt should end where the model continues")
}
