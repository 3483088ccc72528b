package gallery

import (
	"bytes"
	"io"
)

// BytesBinary is a Binary held entirely in memory.
type BytesBinary struct {
	FileName string
	Mime     string
	Data     []byte
}

func NewBytesBinary(name, mime string, data []byte) *BytesBinary {
	return &BytesBinary{FileName: name, Mime: mime, Data: data}
}

func (b *BytesBinary) Name() string     { return b.FileName }
func (b *BytesBinary) MimeHint() string { return b.Mime }

func (b *BytesBinary) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.Data)), nil
}
