package index

// Chunk is a bounded contiguous slice of a document's text, the unit of
// embedding and retrieval. It keeps its source document ID and start offset so
// provenance can always be recovered. Never mutated after the index is built.
type Chunk struct {
	DocID  string
	Path   string
	Text   string
	Offset int
	Vector []float64
}

// chunkDocument slides a window of size characters with stride size-overlap
// over the document text. The final chunk may be shorter than size; chunking
// stops once a chunk reaches the end of the text, so no chunk is fully
// contained in its predecessor's overlap. An empty document yields no chunks.
func chunkDocument(doc Document, size, overlap int) []Chunk {
	text := doc.Text
	if len(text) == 0 {
		return nil
	}

	stride := size - overlap
	var chunks []Chunk
	for start := 0; ; start += stride {
		end := start + size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, Chunk{
			DocID:  doc.ID,
			Path:   doc.Path,
			Text:   text[start:end],
			Offset: start,
		})
		if end == len(text) {
			break
		}
	}
	return chunks
}
