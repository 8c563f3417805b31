package postprocess_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"postflow/internal/history"
	"postflow/internal/language"
	"postflow/internal/postprocess"
	"postflow/internal/services"
)

type fakeMedia struct {
	mu       sync.Mutex
	requests []postprocess.MediaRequest
	history  *fakeHistory
	fail     map[string]error
}

func (f *fakeMedia) Process(_ context.Context, req postprocess.MediaRequest) (postprocess.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)

	name := filepath.Base(req.Path)
	if err, ok := f.fail[name]; ok {
		return postprocess.Outcome{}, err
	}
	if req.Method == postprocess.MethodMove {
		if err := os.Remove(req.Path); err != nil {
			return postprocess.Outcome{}, postprocess.ProcessingFailed("move %s: %v", name, err)
		}
	}
	if f.history != nil {
		f.history.add(name)
	}
	return postprocess.Outcome{Success: true, Output: []string{"placed " + name}}, nil
}

func (f *fakeMedia) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.requests))
	for _, req := range f.requests {
		names = append(names, filepath.Base(req.Path))
	}
	return names
}

type fakeHistory struct {
	mu   sync.Mutex
	done map[string]bool
	err  error
}

func newFakeHistory(names ...string) *fakeHistory {
	h := &fakeHistory{done: map[string]bool{}}
	for _, name := range names {
		h.done[name] = true
	}
	return h
}

func (h *fakeHistory) add(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.done[name] = true
}

func (h *fakeHistory) AlreadyProcessed(_ context.Context, name string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return false, h.err
	}
	for done := range h.done {
		if strings.HasSuffix(done, name) {
			return true, nil
		}
	}
	return false, nil
}

type fakeFailed struct {
	dirs []string
	err  error
}

func (f *fakeFailed) ProcessFailed(_ context.Context, dir, _ string) (postprocess.Outcome, error) {
	f.dirs = append(f.dirs, dir)
	if f.err != nil {
		return postprocess.Outcome{}, f.err
	}
	return postprocess.Outcome{Success: true, Output: []string{"marked failed " + filepath.Base(dir)}}, nil
}

type fakeSubtitles struct {
	embedded   map[string][]string
	associated map[string][]string
}

func (f *fakeSubtitles) EmbeddedLanguages(_ context.Context, path string) (language.Set, error) {
	return language.NewSet(f.embedded[filepath.Base(path)]...), nil
}

func (f *fakeSubtitles) AssociatedSubtitles(_, file string) ([]string, error) {
	return f.associated[file], nil
}

type fakeShows struct {
	enabled bool
}

func (f fakeShows) SubtitlesEnabled(context.Context, string, string) (bool, error) {
	return f.enabled, nil
}

type fakeRelocator struct {
	calls       []string
	unsupported bool
	refuse      map[string]bool
}

func (f *fakeRelocator) Relocate(_ context.Context, hash string) (bool, error) {
	f.calls = append(f.calls, hash)
	if f.unsupported {
		return false, services.Wrap(services.ErrUnsupported, "torrent", "relocate", "", nil)
	}
	return !f.refuse[hash], nil
}

type fakeSeeds struct {
	seeds []history.Seed
}

func (f *fakeSeeds) TrackedSeeds(context.Context) ([]history.Seed, error) {
	return append([]history.Seed(nil), f.seeds...), nil
}

func (f *fakeSeeds) UntrackSeed(_ context.Context, hash string) error {
	for i, seed := range f.seeds {
		if seed.InfoHash == hash {
			f.seeds = append(f.seeds[:i], f.seeds[i+1:]...)
			return nil
		}
	}
	return errors.New("not tracked")
}
