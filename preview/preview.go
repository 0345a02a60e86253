// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package preview streams snapshots of a panel over HTTP.
//
// A GET request receives the latest snapshot, then a new one after every
// Publish, as a multipart/x-mixed-replace stream that browsers render in
// place. The "format" parameter selects png or jpeg, "once" returns a
// single image.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"mime"
	"net/http"
	"net/textproto"
	"sync"
)

// Format is the image encoding sent to clients.
type Format int

// Supported Format.
const (
	PNG Format = iota
	JPEG
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Set sets the Format to a value represented by the string s. Set implements the flag.Value interface.
func (f *Format) Set(s string) error {
	switch s {
	case "png":
		*f = PNG
	case "jpg", "jpeg":
		*f = JPEG
	default:
		return fmt.Errorf("unknown format %q: expected png or jpeg", s)
	}
	return nil
}

func (f Format) contentType() string {
	if f == JPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Sink holds the latest snapshot and the clients watching it.
type Sink struct {
	format Format

	mu       sync.Mutex
	img      image.Image
	encoded  map[Format][]byte
	watchers map[*watcher]struct{}
}

type watcher struct {
	changed chan struct{}
	halt    chan struct{}
}

// New returns a Sink showing img until the first Publish.
func New(format Format, img image.Image) *Sink {
	return &Sink{
		format:   format,
		img:      img,
		encoded:  map[Format][]byte{},
		watchers: map[*watcher]struct{}{},
	}
}

func (s *Sink) String() string {
	return fmt.Sprintf("preview.Sink{%s}", s.format)
}

// Publish replaces the snapshot and wakes up every client. img must not be
// modified afterward.
func (s *Sink) Publish(img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.img = img
	clear(s.encoded)
	for w := range s.watchers {
		select {
		case w.changed <- struct{}{}:
		default:
		}
	}
}

// Halt ends every running stream.
func (s *Sink) Halt() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for w := range s.watchers {
		select {
		case w.halt <- struct{}{}:
		default:
		}
	}
	return nil
}

// snapshot returns the current image encoded as f. Encodings are cached
// until the next Publish.
func (s *Sink) snapshot(f Format) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.encoded[f]; ok {
		return b, nil
	}
	var buf bytes.Buffer
	var err error
	if f == JPEG {
		err = jpeg.Encode(&buf, s.img, &jpeg.Options{Quality: 90})
	} else {
		err = (&png.Encoder{CompressionLevel: png.BestSpeed}).Encode(&buf, s.img)
	}
	if err != nil {
		return nil, err
	}
	s.encoded[f] = buf.Bytes()
	return s.encoded[f], nil
}

// ServeHTTP implements http.Handler.
func (s *Sink) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	f := s.format
	if v := q.Get("format"); v != "" {
		if err := f.Set(v); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if q.Has("once") {
		b, err := s.snapshot(f)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", f.contentType())
		_, _ = w.Write(b)
		return
	}

	wt := &watcher{changed: make(chan struct{}, 1), halt: make(chan struct{}, 1)}
	s.mu.Lock()
	s.watchers[wt] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.watchers, wt)
		s.mu.Unlock()
	}()

	fw := newFrameWriter(w)
	w.Header().Set("Content-Type", mime.FormatMediaType("multipart/x-mixed-replace", map[string]string{"boundary": fw.boundary}))
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", f.contentType())

	for {
		b, err := s.snapshot(f)
		if err != nil {
			return
		}
		// A write error means the client went away.
		if err := fw.writeFrame(h, b); err != nil {
			return
		}
		if fl, ok := w.(http.Flusher); ok {
			fl.Flush()
		}
		select {
		case <-wt.changed:
		case <-wt.halt:
			return
		case <-r.Context().Done():
			return
		}
	}
}

var _ http.Handler = &Sink{}
