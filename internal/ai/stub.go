package ai

import "context"

// StubCompleter answers with the function name and never leaves the process.
// Useful for dry runs of the whole pipeline without credentials.
type StubCompleter struct{}

func (StubCompleter) Complete(_ context.Context, req CompletionRequest) (string, error) {
	return req.Name, nil
}
