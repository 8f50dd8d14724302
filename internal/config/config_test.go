package config

import "testing"

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	cfg.Embedding.APIKey = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing embedding API key")
	}
}

func TestValidate_InvalidBackbone(t *testing.T) {
	cfg := Config{
		Embedding: EmbeddingConfig{APIKey: "test-key"},
		Media:     MediaConfig{Backbone: "vgg16"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid backbone")
	}

	expected := `media.backbone must be "grid" or "autoencoder", got "vgg16"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidBackbones(t *testing.T) {
	for _, backbone := range []string{"grid", "autoencoder"} {
		t.Run("backbone="+backbone, func(t *testing.T) {
			cfg := Config{
				Embedding: EmbeddingConfig{APIKey: "test-key"},
				Media:     MediaConfig{Backbone: backbone},
			}

			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for backbone %q: %v", backbone, err)
			}
		})
	}
}

func TestValidate_InvalidMetricsPort(t *testing.T) {
	cfg := Config{
		Embedding: EmbeddingConfig{APIKey: "test-key"},
		Media:     MediaConfig{Backbone: "grid"},
		Metrics:   MetricsConfig{Port: 70000},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for out-of-range metrics port")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Embedding.Provider != "openai" {
		t.Errorf("expected Provider='openai', got %q", cfg.Embedding.Provider)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("expected Model='text-embedding-3-small', got %q", cfg.Embedding.Model)
	}
	if cfg.Transcription.Model != "whisper-1" {
		t.Errorf("expected transcription Model='whisper-1', got %q", cfg.Transcription.Model)
	}
	if cfg.Translation.TargetLanguage != "English" {
		t.Errorf("expected TargetLanguage='English', got %q", cfg.Translation.TargetLanguage)
	}
	if cfg.Translation.MaxChunkChars != 4000 {
		t.Errorf("expected MaxChunkChars=4000, got %d", cfg.Translation.MaxChunkChars)
	}
	if cfg.Summary.MaxTokens != 5000 {
		t.Errorf("expected MaxTokens=5000, got %d", cfg.Summary.MaxTokens)
	}
	if cfg.Summary.MaxPromptChars != 7000 {
		t.Errorf("expected MaxPromptChars=7000, got %d", cfg.Summary.MaxPromptChars)
	}
	if cfg.Cache.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Cache.ReadinessTimeout)
	}
	if cfg.Media.TargetFrames != 300 {
		t.Errorf("expected TargetFrames=300, got %d", cfg.Media.TargetFrames)
	}
	if cfg.Media.Backbone != "grid" {
		t.Errorf("expected Backbone='grid', got %q", cfg.Media.Backbone)
	}
	if cfg.Pipeline.Workers != 1 {
		t.Errorf("expected Workers=1, got %d", cfg.Pipeline.Workers)
	}
	if cfg.Paths.OutDir != "." {
		t.Errorf("expected OutDir='.', got %q", cfg.Paths.OutDir)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		Embedding:   EmbeddingConfig{Provider: "nebius", Model: "custom-model"},
		Translation: TranslationConfig{TargetLanguage: "German", MaxChunkChars: 2000},
		Media:       MediaConfig{TargetFrames: 100, Backbone: "autoencoder", HiddenDim: 32},
		Pipeline:    PipelineConfig{Workers: 8},
	}
	cfg.ApplyDefaults()

	if cfg.Embedding.Provider != "nebius" {
		t.Errorf("expected Provider='nebius', got %q", cfg.Embedding.Provider)
	}
	if cfg.Translation.MaxChunkChars != 2000 {
		t.Errorf("expected MaxChunkChars=2000, got %d", cfg.Translation.MaxChunkChars)
	}
	if cfg.Media.TargetFrames != 100 {
		t.Errorf("expected TargetFrames=100, got %d", cfg.Media.TargetFrames)
	}
	if cfg.Media.Backbone != "autoencoder" {
		t.Errorf("expected Backbone='autoencoder', got %q", cfg.Media.Backbone)
	}
	if cfg.Media.HiddenDim != 32 {
		t.Errorf("expected HiddenDim=32, got %d", cfg.Media.HiddenDim)
	}
	if cfg.Pipeline.Workers != 8 {
		t.Errorf("expected Workers=8, got %d", cfg.Pipeline.Workers)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("CLIPDEX_TEST_KEY", "sk-test")

	in := []byte("api_key: ${CLIPDEX_TEST_KEY}\nbase_url: ${CLIPDEX_TEST_URL:-https://api.openai.com/v1}\n")
	out := string(expandEnvVars(in))

	want := "api_key: sk-test\nbase_url: https://api.openai.com/v1\n"
	if out != want {
		t.Errorf("unexpected expansion:\ngot:  %q\nwant: %q", out, want)
	}
}

func TestExpandEnvVars_UnsetNoDefault(t *testing.T) {
	in := []byte("password: ${CLIPDEX_TEST_UNSET}")
	out := string(expandEnvVars(in))

	if out != "password: " {
		t.Errorf("expected empty substitution, got %q", out)
	}
}
