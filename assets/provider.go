package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
)

// Provider yields model bundles by identifier.
type Provider interface {
	Load(id string) (*Bundle, error)
}

// Invalidator is a Provider that caches and can be told a model changed.
type Invalidator interface {
	Invalidate(id string)
}

// FileProvider reads models/<id>.yaml from Dir, falling back to the embedded
// models. Bundles are cached so characters sharing a model share its clips.
type FileProvider struct {
	Dir string

	mu    sync.Mutex
	cache map[string]*Bundle
}

func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{Dir: dir, cache: make(map[string]*Bundle)}
}

func (p *FileProvider) Load(id string) (*Bundle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := ModelID(id)
	if b, ok := p.cache[key]; ok {
		return b, nil
	}

	path := modelPath(id)
	data, err := LoadFile(p.Dir, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownModel, id)
		}
		return nil, fmt.Errorf("assets: load %s: %w", path, err)
	}
	b, err := Decode(id, data)
	if err != nil {
		return nil, err
	}
	if p.cache == nil {
		p.cache = make(map[string]*Bundle)
	}
	p.cache[key] = b
	return b, nil
}

// Invalidate drops a cached bundle so the next Load reads it again.
func (p *FileProvider) Invalidate(id string) {
	p.mu.Lock()
	delete(p.cache, ModelID(id))
	p.mu.Unlock()
}

// Result is the outcome of an asynchronous load.
type Result struct {
	ID     string
	Bundle *Bundle
	Err    error
}

// LoadAsync loads id on a separate goroutine. The channel receives exactly
// one Result and is then closed; a cancelled ctx yields ctx.Err().
func LoadAsync(ctx context.Context, p Provider, id string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		done := make(chan Result, 1)
		go func() {
			b, err := p.Load(id)
			done <- Result{ID: id, Bundle: b, Err: err}
		}()
		select {
		case r := <-done:
			out <- r
		case <-ctx.Done():
			out <- Result{ID: id, Err: ctx.Err()}
		}
	}()
	return out
}
