package config

import "testing"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GEMINI_API_KEY", "test-key")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)
	for _, key := range []string{"MIN_CONFIDENCE", "TOP_K", "SIMILARITY_THRESHOLD", "MAX_CONTEXT_LENGTH", "CHUNK_SIZE", "CHUNK_OVERLAP", "MIN_CHUNK_SIZE"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	// The confidence floor ships disabled: any non-empty retrieval
	// proceeds to generation unless an operator raises it.
	if cfg.MinConfidence != 0 {
		t.Errorf("MinConfidence = %v, want 0", cfg.MinConfidence)
	}
	if cfg.TopK != 5 || cfg.SimilarityThreshold != 0.7 || cfg.MaxContextLength != 2000 {
		t.Errorf("retrieval defaults = %d/%v/%d", cfg.TopK, cfg.SimilarityThreshold, cfg.MaxContextLength)
	}
	if cfg.ChunkSize != 500 || cfg.ChunkOverlap != 50 || cfg.MinChunkSize != 100 {
		t.Errorf("chunking defaults = %d/%d/%d", cfg.ChunkSize, cfg.ChunkOverlap, cfg.MinChunkSize)
	}
}

func TestLoadConfigConfidenceFloorOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MIN_CONFIDENCE", "0.4")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MinConfidence != 0.4 {
		t.Errorf("MinConfidence = %v, want 0.4", cfg.MinConfidence)
	}
}

func TestLoadConfigRejectsBadChunking(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CHUNK_SIZE", "100")
	t.Setenv("CHUNK_OVERLAP", "100")

	if _, err := LoadConfig(); err == nil {
		t.Error("expected error when overlap is not smaller than chunk size")
	}
}
