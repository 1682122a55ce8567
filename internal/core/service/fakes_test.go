package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/atelierbois/portfolio/internal/imaging"
)

var errStoreDown = errors.New("store down")

// memStore is an in-memory asset store with failure switches.
type memStore struct {
	mu         sync.Mutex
	files      map[string][]byte
	failPut    bool
	failRemove bool
	failDir    bool
}

func newMemStore() *memStore {
	return &memStore{files: make(map[string][]byte)}
}

func (m *memStore) Put(_ context.Context, webPath string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPut {
		return errStoreDown
	}
	m.files[webPath] = data
	return nil
}

func (m *memStore) Remove(_ context.Context, webPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRemove {
		return errStoreDown
	}
	delete(m.files, webPath)
	return nil
}

func (m *memStore) RemoveDir(_ context.Context, webDir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDir {
		return errStoreDown
	}
	prefix := strings.TrimSuffix(webDir, "/") + "/"
	for p := range m.files {
		if strings.HasPrefix(p, prefix) {
			delete(m.files, p)
		}
	}
	return nil
}

func (m *memStore) Ping(context.Context) error { return nil }

func (m *memStore) has(webPath string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[webPath]
	return ok
}

func (m *memStore) paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// stubEncoder passes bytes through unless they start with "bad".
type stubEncoder struct {
	jobs []imaging.Job
}

func (e *stubEncoder) Encode(_ context.Context, job imaging.Job) (*imaging.Result, error) {
	e.jobs = append(e.jobs, job)
	if strings.HasPrefix(string(job.Data), "bad") {
		return nil, errors.New("cannot decode")
	}
	return &imaging.Result{Data: job.Data, Width: 10, Height: 10, Ext: imaging.Ext}, nil
}

func newTestMedia() (*MediaService, *memStore, *stubEncoder) {
	store := newMemStore()
	enc := &stubEncoder{}
	return NewMediaService(enc, store, 0, zerolog.Nop()), store, enc
}
