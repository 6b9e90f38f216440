package ai

import "fmt"

const documentationPrompt = `
Write comprehensive documentation for the following Go function, following the Go doc comment conventions (https://go.dev/doc/comment):

%s

The documentation should include:
- A brief one-line summary of the function's purpose, starting with the function's name
- A detailed description of what the function does
- Descriptions of the function's parameters and their types
- Descriptions of the function's return values and their types
- Any relevant examples or usage notes

Write plain text only, without comment markers.

Documentation:
`

// BuildPrompt embeds the function's source verbatim in the documentation request
func BuildPrompt(functionCode string) string {
	return fmt.Sprintf(documentationPrompt, functionCode)
}
