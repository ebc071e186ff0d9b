package util

import (
	"context"
	"errors"
	"io"
)

var ErrReadLimitExceeded = errors.New("read limit exceeded")

type boundedReader struct {
	ctx       context.Context
	r         io.Reader
	remaining int64
}

// NewBoundedReader wraps r so that reads fail once ctx is done,
// or with ErrReadLimitExceeded once more than limit bytes have been read.
func NewBoundedReader(ctx context.Context, r io.Reader, limit int64) io.Reader {
	return &boundedReader{ctx: ctx, r: r, remaining: limit}
}

func (b *boundedReader) Read(p []byte) (n int, err error) {
	if err := b.ctx.Err(); err != nil {
		return 0, err
	}
	if b.remaining < 0 {
		return 0, ErrReadLimitExceeded
	}
	// read at most one byte past the limit to detect overflow
	if int64(len(p)) > b.remaining+1 {
		p = p[:b.remaining+1]
	}
	n, err = b.r.Read(p)
	b.remaining -= int64(n)
	if b.remaining < 0 {
		return n, ErrReadLimitExceeded
	}
	return n, err
}
