package index

import (
	"context"
	"fmt"

	"github.com/codeinsight-dev/codeinsight/pkg/llm"
)

// Index holds the full set of chunks and their embeddings for one run. It is
// built once, queried many times, and never updated incrementally.
type Index struct {
	chunks []Chunk
}

// Build chunks every document, embeds each chunk with the given embedder, and
// returns the finished index. Embedding is sequential; the first failed model
// call aborts the build. No chunk may be added or removed once Build returns.
func Build(ctx context.Context, docs []Document, chunkSize, overlap int, embedder llm.Embedder) (*Index, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("overlap must satisfy 0 <= overlap < chunk size, got overlap=%d size=%d", overlap, chunkSize)
	}

	idx := &Index{}
	for _, doc := range docs {
		for _, chunk := range chunkDocument(doc, chunkSize, overlap) {
			vec, err := embedder.Embed(ctx, chunk.Text)
			if err != nil {
				return nil, fmt.Errorf("failed to embed chunk of %s at offset %d: %w", chunk.Path, chunk.Offset, err)
			}
			chunk.Vector = vec
			idx.chunks = append(idx.chunks, chunk)
		}
	}
	return idx, nil
}

// Len returns the number of chunks in the index.
func (i *Index) Len() int {
	return len(i.chunks)
}

// Search ranks all chunks against the query vector and returns the top k.
func (i *Index) Search(queryVec []float64, topK int) []Match {
	return Rank(queryVec, i.chunks, topK)
}
