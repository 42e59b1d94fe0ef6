package scan

import "io"

// Payload is one named candidate class file produced by an enumerator.
// Ownership passes to the consumer for the duration of one decode: when
// FileBacked is true the consumer must call Close after reading; archive
// entry payloads are released by the archive walker itself.
type Payload struct {
	// Name is the file path or archive entry name of the payload.
	Name string
	// FileBacked reports whether the consumer owns the underlying handle.
	FileBacked bool
	Reader     io.Reader

	closer io.Closer
}

func (p *Payload) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

// Filter decides whether a discovered class file is offered to the decoder.
// dir is the containing root directory or archive file; name is the
// class file path relative to it, in native (slash-separated) form.
type Filter func(dir, name string) bool

// Enumerator produces an ordered stream of candidate payloads. Next returns
// (nil, nil) when the source is exhausted. Close releases any handle still
// open, such as an archive abandoned mid-iteration.
type Enumerator interface {
	Next(filter Filter) (*Payload, error)
	Close() error
}
