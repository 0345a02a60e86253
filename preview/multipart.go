// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
)

// frameWriter writes a never ending multipart body. mime/multipart.Writer
// only emits the closing boundary of a part when the next one starts,
// which would delay every frame by one.
type frameWriter struct {
	w        io.Writer
	boundary string
	started  bool
}

func newFrameWriter(w io.Writer) *frameWriter {
	var b [30]byte
	if _, err := io.ReadFull(rand.Reader, b[:]); err != nil {
		panic(err)
	}
	return &frameWriter{w: w, boundary: hex.EncodeToString(b[:])}
}

// writeFrame writes body as one part followed by its closing boundary. h
// gets a Content-Length.
func (f *frameWriter) writeFrame(h textproto.MIMEHeader, body []byte) error {
	h.Set("Content-Length", strconv.Itoa(len(body)))
	var buf bytes.Buffer
	if !f.started {
		fmt.Fprintf(&buf, "--%s\r\n", f.boundary)
		f.started = true
	}
	for k, vs := range h {
		for _, v := range vs {
			fmt.Fprintf(&buf, "%s: %s\r\n", k, v)
		}
	}
	buf.WriteString("\r\n")
	buf.Write(body)
	fmt.Fprintf(&buf, "\r\n--%s\r\n", f.boundary)
	_, err := buf.WriteTo(f.w)
	return err
}
