package llm

import "context"

// fakeCompleter returns a canned reply and records prompts.
type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
	systems []string
}

func (f *fakeCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	f.systems = append(f.systems, system)
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}
