// If you are AI: This file manages the pooled scan windows used to read file prefixes.
// A weighted semaphore bounds how many windows are held at once.

package seek

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/semaphore"
)

// windowPool hands out scratch buffers of a fixed capacity.
type windowPool struct {
	size int
	sem  *semaphore.Weighted
	pool sync.Pool
}

// newWindowPool creates a pool of size-byte buffers with at most concurrent
// buffers checked out.
func newWindowPool(size, concurrent int) *windowPool {
	p := &windowPool{
		size: size,
		sem:  semaphore.NewWeighted(int64(concurrent)),
	}
	p.pool.New = func() any {
		buf := make([]byte, size)
		return &buf
	}
	return p
}

// acquire blocks until a buffer is available or ctx is done.
func (p *windowPool) acquire(ctx context.Context) (*[]byte, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return p.pool.Get().(*[]byte), nil
}

// release returns a buffer obtained from acquire.
func (p *windowPool) release(buf *[]byte) {
	p.pool.Put(buf)
	p.sem.Release(1)
}

// readWindow fills buf with the first min(size, len(buf)) bytes of src.
// A short read at end of file is not an error; any other read error is.
func readWindow(src io.ReaderAt, size int64, buf []byte) ([]byte, error) {
	n := int64(len(buf))
	if size < n {
		n = size
	}
	if n <= 0 {
		return buf[:0], nil
	}
	read, err := src.ReadAt(buf[:n], 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read scan window: %w", err)
	}
	return buf[:read], nil
}
