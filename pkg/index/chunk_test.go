package index

import (
	"strings"
	"testing"
)

func TestChunkDocumentCount(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		size    int
		overlap int
		want    int
	}{
		{name: "empty document", length: 0, size: 5, overlap: 2, want: 0},
		{name: "shorter than one chunk", length: 3, size: 5, overlap: 2, want: 1},
		{name: "exactly one chunk", length: 5, size: 5, overlap: 2, want: 1},
		{name: "two chunks", length: 8, size: 5, overlap: 2, want: 2},
		{name: "three chunks", length: 10, size: 5, overlap: 2, want: 3},
		{name: "no overlap", length: 10, size: 5, overlap: 0, want: 2},
		{name: "one past a chunk boundary", length: 1001, size: 1000, overlap: 200, want: 2},
		{name: "defaults over a big document", length: 5000, size: 1000, overlap: 200, want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Document{ID: "d", Path: "d.txt", Text: strings.Repeat("x", tt.length)}
			chunks := chunkDocument(doc, tt.size, tt.overlap)
			if len(chunks) != tt.want {
				t.Errorf("got %d chunks, want %d", len(chunks), tt.want)
			}
		})
	}
}

func TestChunkDocumentShape(t *testing.T) {
	text := "abcdefghijklmnopqrstuvwxyz0123456789"
	doc := Document{ID: "doc-1", Path: "alphabet.txt", Text: text}
	size, overlap := 10, 3
	chunks := chunkDocument(doc, size, overlap)

	stride := size - overlap
	for i, c := range chunks {
		if len(c.Text) > size {
			t.Errorf("chunk %d has length %d, exceeds size %d", i, len(c.Text), size)
		}
		if c.Offset != i*stride {
			t.Errorf("chunk %d offset = %d, want %d", i, c.Offset, i*stride)
		}
		if c.DocID != doc.ID || c.Path != doc.Path {
			t.Errorf("chunk %d lost provenance: %q %q", i, c.DocID, c.Path)
		}
		if c.Text != text[c.Offset:c.Offset+len(c.Text)] {
			t.Errorf("chunk %d text does not match document at its offset", i)
		}
	}

	// Every consecutive pair shares exactly the overlap, so the document can
	// be rebuilt from the chunks.
	rebuilt := chunks[0].Text
	for _, c := range chunks[1:] {
		rebuilt += c.Text[overlap:]
	}
	if rebuilt != text {
		t.Errorf("rebuilt text = %q, want %q", rebuilt, text)
	}

	last := chunks[len(chunks)-1]
	if last.Offset+len(last.Text) != len(text) {
		t.Error("last chunk does not reach end of document")
	}
}
