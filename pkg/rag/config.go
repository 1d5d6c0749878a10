package rag

// Config holds the engine tunables. It is set at construction and never
// mutated afterwards; run two engines if you need two configurations.
type Config struct {
	EmbeddingModel        string
	SimilarityThreshold   float64
	MaxRetrievedDocuments int
	IncludeMetadata       bool
	RerankResults         bool
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		EmbeddingModel:        "text-embedding-004",
		SimilarityThreshold:   0.7,
		MaxRetrievedDocuments: 5,
		IncludeMetadata:       true,
		RerankResults:         true,
	}
}

// normalize fills in zero values so a partially populated Config behaves
// like the defaults.
func (c Config) normalize() Config {
	if c.SimilarityThreshold <= 0 {
		c.SimilarityThreshold = 0.7
	}
	if c.MaxRetrievedDocuments <= 0 {
		c.MaxRetrievedDocuments = 5
	}
	return c
}
