// If you are AI: This file streams planned segments to HTTP bodies and websocket frames.
// File ranges are read on demand with a context check before every read.

package media

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"vodflv/internal/core/seek"
)

const copyBufferSize = 32 * 1024

var copyBuffers = sync.Pool{
	New: func() any {
		buf := make([]byte, copyBufferSize)
		return &buf
	},
}

// Reader presents planned segments as one seekable byte stream.
// File ranges are read from src on demand; literal segments are served from memory.
type Reader struct {
	ctx    context.Context
	src    io.ReaderAt
	segs   []seek.Segment
	starts []int64 // Stream offset of each segment
	size   int64
	off    int64
}

// NewReader creates a reader over segs. Reads fail once ctx is done.
func NewReader(ctx context.Context, src io.ReaderAt, segs []seek.Segment) *Reader {
	r := &Reader{ctx: ctx, src: src, segs: segs, starts: make([]int64, len(segs))}
	for i, seg := range segs {
		r.starts[i] = r.size
		r.size += seg.Size()
	}
	return r
}

// Size returns the total stream length.
func (r *Reader) Size() int64 {
	return r.size
}

// Read implements io.Reader. A file shorter than planned yields io.ErrUnexpectedEOF.
func (r *Reader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	if r.off >= r.size {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	i := sort.Search(len(r.segs), func(i int) bool {
		return r.starts[i]+r.segs[i].Size() > r.off
	})
	seg := r.segs[i]
	within := r.off - r.starts[i]
	n := int(min(int64(len(p)), seg.Size()-within))

	if seg.Kind != seek.SegmentRange {
		copy(p, seg.Data[within:within+int64(n)])
		r.off += int64(n)
		return n, nil
	}

	m, err := r.src.ReadAt(p[:n], seg.Offset+within)
	r.off += int64(m)
	if m < n {
		if err == nil || errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return m, err
	}
	return m, nil
}

// Seek implements io.Seeker.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset += r.off
	case io.SeekEnd:
		offset += r.size
	default:
		return 0, errors.New("media: invalid whence")
	}
	if offset < 0 {
		return 0, errors.New("media: negative position")
	}
	r.off = offset
	return offset, nil
}

// WriteSegments writes segs to w in order, reading file ranges from src.
// Returns the number of bytes written.
func WriteSegments(ctx context.Context, w io.Writer, src io.ReaderAt, segs []seek.Segment) (int64, error) {
	buf := copyBuffers.Get().(*[]byte)
	defer copyBuffers.Put(buf)
	return io.CopyBuffer(w, NewReader(ctx, src, segs), *buf)
}

// frameWriter turns each Write into one frame.
type frameWriter func([]byte) error

func (f frameWriter) Write(p []byte) (int, error) {
	if err := f(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Frames calls emit once per literal segment and once per chunk-sized piece
// of each file range. The slice passed to emit is reused after it returns.
func Frames(ctx context.Context, src io.ReaderAt, segs []seek.Segment, chunk int, emit func([]byte) error) (int64, error) {
	if chunk <= 0 {
		chunk = copyBufferSize
	}
	buf := make([]byte, chunk)
	w := frameWriter(emit)

	var written int64
	for _, seg := range segs {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if seg.Kind != seek.SegmentRange {
			if err := emit(seg.Data); err != nil {
				return written, err
			}
			written += int64(len(seg.Data))
			continue
		}
		n, err := copyRange(ctx, w, src, seg.Offset, seg.Length, buf)
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// copyRange copies length bytes at off from src to w using buf.
// A file that ends early yields io.ErrUnexpectedEOF.
func copyRange(ctx context.Context, w io.Writer, src io.ReaderAt, off, length int64, buf []byte) (int64, error) {
	r := io.NewSectionReader(src, off, length)
	var written int64
	for written < length {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, rerr := io.ReadFull(r, buf[:min(int64(len(buf)), length-written)])
		if n > 0 {
			m, werr := w.Write(buf[:n])
			written += int64(m)
			if werr != nil {
				return written, werr
			}
		}
		if rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
			if written < length {
				return written, io.ErrUnexpectedEOF
			}
			break
		}
		if rerr != nil {
			return written, rerr
		}
	}
	return written, nil
}
