package index

import (
	"sort"

	"github.com/codeinsight-dev/codeinsight/pkg/llm"
)

// Match pairs a chunk with its similarity score for one query.
type Match struct {
	Chunk Chunk
	Score float64
}

// Rank scores every chunk against the query vector by cosine similarity and
// returns the topK highest, scores non-increasing. Ties keep original chunk
// insertion order. Chunks whose vectors cannot be compared with the query are
// skipped. Pure: no model call, so it is testable with fake vectors.
func Rank(queryVec []float64, chunks []Chunk, topK int) []Match {
	if topK < 1 || len(chunks) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(chunks))
	for _, chunk := range chunks {
		score, err := llm.CosineSimilarity(queryVec, chunk.Vector)
		if err != nil {
			continue
		}
		matches = append(matches, Match{Chunk: chunk, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if topK > len(matches) {
		topK = len(matches)
	}
	return matches[:topK]
}
