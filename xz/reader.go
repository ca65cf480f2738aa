// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package xz

import (
	"bufio"
	"io"
)

// peekReader lets Decompress detect the end of a concatenated sequence of
// streams without consuming a byte it can't put back.
type peekReader struct {
	*bufio.Reader
}

func bufioLike(r io.Reader) *peekReader {
	return &peekReader{Reader: bufio.NewReader(r)}
}

func (p *peekReader) atEOF() bool {
	_, err := p.Peek(1)
	return err != nil
}
