// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Copland Phrase Contributors

package main

import (
	"encoding/binary"
	"io"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contractBody = `<contract type="measurement"><subcontract><signature>sig</signature></subcontract></contract>`

func writeContract(t *testing.T, w *os.File, body string) {
	t.Helper()
	require.NoError(t, binary.Write(w, binary.BigEndian, uint32(len(body))))
	_, err := w.WriteString(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestRun_EndToEndPass(t *testing.T) {
	inR, inW, err := os.Pipe()
	require.NoError(t, err)
	outR, outW, err := os.Pipe()
	require.NoError(t, err)

	go writeContract(t, inW, contractBody)

	argv := []string{
		strconv.Itoa(int(inR.Fd())),
		strconv.Itoa(int(outW.Fd())),
		t.TempDir(),
		"nonce-1",
		"/tmp/ca.pem",
		"/tmp/ak.pub",
		"0",
	}

	code, err := run(argv)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	token := make([]byte, 5)
	_, err = io.ReadFull(outR, token)
	require.NoError(t, err)
	assert.Equal(t, "PASS\x00", string(token))
}

func TestRun_WrongArgCount(t *testing.T) {
	code, err := run([]string{"1", "2"})
	require.Error(t, err)
	assert.Equal(t, -1, code)
}

func TestRun_InvalidVerifyTPM(t *testing.T) {
	code, err := run([]string{"0", "1", "/tmp", "n", "ca", "ak", "2"})
	require.Error(t, err)
	assert.Equal(t, -1, code)
}
