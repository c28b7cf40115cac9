package index

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeEmbedder struct {
	calls int
	fn    func(text string) ([]float64, error)
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	f.calls++
	if f.fn != nil {
		return f.fn(text)
	}
	return []float64{1, 1}, nil
}

func TestBuildValidatesParameters(t *testing.T) {
	docs := []Document{{ID: "d", Path: "d.txt", Text: "hello"}}
	embedder := &fakeEmbedder{}

	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{name: "zero chunk size", size: 0, overlap: 0},
		{name: "negative chunk size", size: -1, overlap: 0},
		{name: "negative overlap", size: 10, overlap: -1},
		{name: "overlap equals size", size: 10, overlap: 10},
		{name: "overlap exceeds size", size: 10, overlap: 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(context.Background(), docs, tt.size, tt.overlap, embedder); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
	if embedder.calls != 0 {
		t.Errorf("embedder called %d times during validation failures", embedder.calls)
	}
}

func TestBuildEmbedsEveryChunk(t *testing.T) {
	docs := []Document{
		{ID: "a", Path: "a.txt", Text: strings.Repeat("a", 10)},
		{ID: "b", Path: "b.txt", Text: strings.Repeat("b", 4)},
	}
	embedder := &fakeEmbedder{}

	idx, err := Build(context.Background(), docs, 5, 2, embedder)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// 3 chunks from the first document, 1 from the second.
	if idx.Len() != 4 {
		t.Errorf("index has %d chunks, want 4", idx.Len())
	}
	if embedder.calls != 4 {
		t.Errorf("embedder called %d times, want 4", embedder.calls)
	}
}

func TestBuildStopsOnEmbeddingFailure(t *testing.T) {
	docs := []Document{{ID: "a", Path: "a.txt", Text: strings.Repeat("a", 10)}}
	failure := errors.New("model unavailable")
	embedder := &fakeEmbedder{fn: func(string) ([]float64, error) { return nil, failure }}

	_, err := Build(context.Background(), docs, 5, 2, embedder)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, failure) {
		t.Errorf("error %v does not wrap the embedding failure", err)
	}
	if embedder.calls != 1 {
		t.Errorf("embedder called %d times after first failure, want 1", embedder.calls)
	}
}

func TestSearchReturnsRelevantChunks(t *testing.T) {
	// Embeddings count two marker words, so relevance is fully controlled.
	embed := func(text string) ([]float64, error) {
		return []float64{
			float64(strings.Count(text, "alpha") + 1),
			float64(strings.Count(text, "beta")),
		}, nil
	}
	docs := []Document{
		{ID: "a", Path: "alpha.txt", Text: "alpha alpha alpha alpha alpha"},
		{ID: "b", Path: "beta.txt", Text: "beta beta beta beta beta beta"},
	}

	idx, err := Build(context.Background(), docs, 50, 10, &fakeEmbedder{fn: embed})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	queryVec, _ := embed("alpha")
	matches := idx.Search(queryVec, 1)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Chunk.Path != "alpha.txt" {
		t.Errorf("top match from %s, want alpha.txt", matches[0].Chunk.Path)
	}
}
