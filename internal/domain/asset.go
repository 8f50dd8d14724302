package domain

// Asset is one media item in the working set, identified by a stable key
// (typically the source file name). Assets are built up during extraction
// and never mutated afterward; the working set is rebuilt from scratch
// every run.
type Asset struct {
	Key        string
	Duration   float64 // seconds
	Transcript string  // raw transcript text
	Normalized string  // lowercased, punctuation collapsed

	embedding   []float32
	fingerprint string
}

// NewAsset creates an asset with its stable key.
func NewAsset(key string) *Asset {
	return &Asset{Key: key}
}

// AttachEmbedding sets the asset's embedding. Any previously attached
// fingerprint is cleared: a fingerprint must always be derived from the
// embedding present on the same asset, never from a stale one.
func (a *Asset) AttachEmbedding(vec []float32) {
	a.embedding = vec
	a.fingerprint = ""
}

// AttachFingerprint records the fingerprint derived from the current
// embedding. No-op when the asset has no embedding.
func (a *Asset) AttachFingerprint(fp string) {
	if len(a.embedding) == 0 {
		return
	}
	a.fingerprint = fp
}

// Embedding returns the attached embedding vector, nil if extraction
// produced no signal.
func (a *Asset) Embedding() []float32 { return a.embedding }

// Fingerprint returns the attached fingerprint, empty if none was requested
// or the embedding is absent.
func (a *Asset) Fingerprint() string { return a.fingerprint }

// Metadata projects the asset into its persisted metadata record.
func (a *Asset) Metadata() MetadataRecord {
	return MetadataRecord{
		OriginalTextLength:  len(a.Transcript),
		EmbeddingDimensions: len(a.embedding),
		Fingerprint:         a.fingerprint,
		Duration:            a.Duration,
	}
}

// MetadataRecord is the persisted per-asset metadata projection. Partially
// populated records are valid: an asset whose extraction failed still
// serializes with zero values.
type MetadataRecord struct {
	OriginalTextLength  int     `json:"original_text_length"`
	EmbeddingDimensions int     `json:"embedding_dimensions"`
	Fingerprint         string  `json:"fingerprint,omitempty"`
	Duration            float64 `json:"duration"`
}

// TranscriptionRecord is the transcription collaborator's output, keyed by
// asset in the persisted transcriptions file.
type TranscriptionRecord struct {
	Original   string `json:"original"`
	Translated string `json:"translated"`
}

// ExtractOutcome is the per-asset result of one extraction attempt. The
// batch loop inspects outcomes explicitly instead of relying on exceptions
// escaping per-item; a failed asset never aborts the batch.
type ExtractOutcome struct {
	Key   string
	Asset *Asset
	Err   error
}

// OK reports whether the extraction attempt produced a usable asset.
func (o ExtractOutcome) OK() bool { return o.Err == nil && o.Asset != nil }
