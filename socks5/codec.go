package socks5

import (
	"context"
	"io"
)

// readFull reads exactly len(buf) bytes, racing the read against ctx
// cancellation the way the teacher's ReadWithContext does: a short read
// at end-of-stream is an IOErrorKind ConversionError, never a partial
// value.
func readFull(ctx context.Context, r io.Reader, buf []byte) error {
	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		n, err := io.ReadFull(r, buf)
		done <- result{n, err}
	}()

	select {
	case <-ctx.Done():
		return ioError(ctx.Err())
	case res := <-done:
		if res.err != nil {
			return ioError(res.err)
		}
		return nil
	}
}

// readByte reads a single byte under ctx.
func readByte(ctx context.Context, r io.Reader) (byte, error) {
	var b [1]byte
	if err := readFull(ctx, r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// writeAll writes every byte of buf, looping until the writer has
// accepted it all or returns an error. A successful return implies all
// bytes were accepted by the stream, per spec.md §4.1.
func writeAll(w io.Writer, buf []byte) error {
	for len(buf) > 0 {
		n, err := w.Write(buf)
		if err != nil {
			return ioError(err)
		}
		buf = buf[n:]
	}
	return nil
}
