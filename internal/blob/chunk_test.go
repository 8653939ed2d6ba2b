package blob

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func rawChunk(tag string, payload []byte) []byte {
	out := []byte(tag)
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(payload)))
	out = append(out, size[:]...)
	return append(out, payload...)
}

func TestChunkReader_Sequential(t *testing.T) {
	stream := append(rawChunk("AAAA", []byte("one")), rawChunk("BBBB", []byte("second payload"))...)

	r := &chunkReader{buf: stream}

	c, done, err := r.next()
	if err != nil || done {
		t.Fatalf("next() = done=%v err=%v", done, err)
	}
	if c.tag != "AAAA" || !bytes.Equal(c.payload, []byte("one")) {
		t.Fatalf("first chunk = %q %q", c.tag, c.payload)
	}

	c, done, err = r.next()
	if err != nil || done {
		t.Fatalf("next() = done=%v err=%v", done, err)
	}
	if c.tag != "BBBB" || !bytes.Equal(c.payload, []byte("second payload")) {
		t.Fatalf("second chunk = %q %q", c.tag, c.payload)
	}

	if _, done, err = r.next(); err != nil || !done {
		t.Fatalf("expected clean exhaustion, done=%v err=%v", done, err)
	}
}

func TestChunkReader_EmptyStream(t *testing.T) {
	r := &chunkReader{}
	if _, done, err := r.next(); err != nil || !done {
		t.Fatalf("empty stream: done=%v err=%v", done, err)
	}
}

func TestChunkReader_DeclaredLengthOverrun(t *testing.T) {
	stream := []byte("ACCT")
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], 100)
	stream = append(stream, size[:]...)
	stream = append(stream, []byte("short")...)

	r := &chunkReader{buf: stream}
	if _, _, err := r.next(); !errors.Is(err, ErrMalformedBlob) {
		t.Fatalf("expected ErrMalformedBlob, got %v", err)
	}
}

func TestChunkReader_PartialHeader(t *testing.T) {
	r := &chunkReader{buf: []byte("ACC")}
	if _, _, err := r.next(); !errors.Is(err, ErrMalformedBlob) {
		t.Fatalf("expected ErrMalformedBlob for partial header, got %v", err)
	}
}

func TestItemReader_Sequential(t *testing.T) {
	payload := append(rawItem([]byte("id-1")), rawItem([]byte("value two"))...)

	r := &itemReader{buf: payload}

	item, err := r.next()
	if err != nil || !bytes.Equal(item, []byte("id-1")) {
		t.Fatalf("first item = %q err=%v", item, err)
	}
	item, err = r.next()
	if err != nil || !bytes.Equal(item, []byte("value two")) {
		t.Fatalf("second item = %q err=%v", item, err)
	}

	// Clean exhaustion: trailing fields a newer server might omit.
	item, err = r.next()
	if err != nil || item != nil {
		t.Fatalf("expected empty item at clean end, got %q err=%v", item, err)
	}
}

func TestItemReader_Overrun(t *testing.T) {
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], 16)
	payload := append(size[:], []byte("only six")...)

	r := &itemReader{buf: payload}
	if _, err := r.next(); !errors.Is(err, ErrMalformedBlob) {
		t.Fatalf("expected ErrMalformedBlob, got %v", err)
	}
}

func rawItem(data []byte) []byte {
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(data)))
	return append(size[:], data...)
}
