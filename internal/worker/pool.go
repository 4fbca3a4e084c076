package worker

import "context"

// Pool bounds how many CPU-heavy jobs (document rendering, text extraction)
// run at once so they cannot starve the streaming request handlers.
type Pool struct {
	slots chan struct{}
}

// NewPool creates a pool with the given number of slots. Sizes below one are
// clamped to one.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{slots: make(chan struct{}, size)}
}

// Do runs fn once a slot is free, on the caller's goroutine. If the context
// is done before a slot opens, fn never runs and the context error is
// returned.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-p.slots }()
	return fn()
}
