package main

import (
	"bytes"
	"io"
	"net/http"
)

const maxBody = 64 << 10

func readBody(r *http.Request) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r.Body, maxBody))
}

func newBody(raw []byte) io.ReadCloser {
	return io.NopCloser(bytes.NewReader(raw))
}
