// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Copland Phrase Contributors

package verifier

import (
	"context"
	"encoding/binary"
	"io"
	"strconv"
	"time"

	"github.com/copland-phrase/copland/internal/copland/coplerr"
)

// DefaultReadTimeout matches the original ASP's one-shot 1-second read
// timeout.
const DefaultReadTimeout = 1 * time.Second

type readResult struct {
	buf []byte
	err error
}

// ReadSizePrefixed reads a big-endian uint32 length prefix followed by
// that many bytes from r, bounded by maxSize and a one-shot timeout: the
// whole read either completes within timeout or the caller gets a
// context-deadline IoFailure. Uses a context.WithTimeout-guarded
// blocking read rather than a per-byte read deadline, since r here is a
// pipe-like io.Reader, not a net.Conn.
func ReadSizePrefixed(ctx context.Context, r io.Reader, maxSize uint32, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch := make(chan readResult, 1)
	go func() {
		buf, err := readSizePrefixedBlocking(r, maxSize)
		ch <- readResult{buf, err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, coplerr.IoFailure("read contract", res.err)
		}
		return res.buf, nil
	case <-ctx.Done():
		return nil, coplerr.IoFailure("read contract", ctx.Err())
	}
}

func readSizePrefixedBlocking(r io.Reader, maxSize uint32) ([]byte, error) {
	var sizeBuf [4]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return nil, err
	}

	size := binary.BigEndian.Uint32(sizeBuf[:])
	if size > maxSize {
		return nil, coplerr.OutOfRange("contract size", strconv.FormatUint(uint64(size), 10))
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// token is the 5-byte verdict token written to fd_out: the 4-character
// word plus a trailing NUL, matching the original's outsize = 5.
const (
	tokenPass = "PASS\x00"
	tokenFail = "FAIL\x00"
)

// WriteToken writes the 5-byte PASS/FAIL token for v to w.
func WriteToken(w io.Writer, v Verdict) error {
	token := tokenFail
	if v == Pass {
		token = tokenPass
	}
	if _, err := w.Write([]byte(token)); err != nil {
		return coplerr.IoFailure("write verdict token", err)
	}
	return nil
}
