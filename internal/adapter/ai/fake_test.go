package ai

import (
	"sync"

	"github.com/fairyhunter13/resume-screener/internal/domain"
)

type fakeClient struct {
	mu    sync.Mutex
	calls int
	out   string
	err   error
}

func (f *fakeClient) Complete(_ domain.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.out != "" {
		return f.out, nil
	}
	return "echo:" + prompt, nil
}

func (f *fakeClient) Provider() string { return "fake" }

func (f *fakeClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
