package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/clipdex/clipdex/internal/config"
	"github.com/clipdex/clipdex/internal/db"
	dbRedis "github.com/clipdex/clipdex/internal/db/redis"
	"github.com/clipdex/clipdex/internal/domain"
	"github.com/clipdex/clipdex/internal/features"
	logpkg "github.com/clipdex/clipdex/internal/logger"
	"github.com/clipdex/clipdex/internal/media"
	"github.com/clipdex/clipdex/internal/metrics"
	"github.com/clipdex/clipdex/internal/repository/embcache"
	"github.com/clipdex/clipdex/internal/similarity"
	"github.com/clipdex/clipdex/internal/sink"
	openaiTransport "github.com/clipdex/clipdex/internal/transport/openai"
	extractuc "github.com/clipdex/clipdex/internal/usecase/extract"
	reportuc "github.com/clipdex/clipdex/internal/usecase/report"
	transcribeuc "github.com/clipdex/clipdex/internal/usecase/transcribe"
	"github.com/clipdex/clipdex/internal/version"
)

// Result file names, shared between pipeline stages.
const (
	transcriptionsFile    = "transcriptions.json"
	metadataFile          = "metadata.json"
	similaritiesFile      = "similarities.json"
	videoSimilaritiesFile = "video_similarities.json"
	sceneSimilaritiesFile = "scene_similarities.json"
	suggestionsFile       = "analysis_suggestions.json"
)

func main() {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	envFlag := flag.String("env", config.GetEnv(), "config environment (local, dev, prod)")
	mode := flag.String("mode", "text", "comparison mode: text or visual")
	threshold := flag.Float64("threshold", -1, "similarity threshold for filtering (required with -report)")
	workers := flag.Int("workers", 0, "parallel extraction workers (overrides config)")
	extractAudio := flag.Bool("extract-audio", false, "extract mp3 audio from the video dir first")
	runTranscribe := flag.Bool("transcribe", false, "transcribe and translate the audio dir")
	runReport := flag.Bool("report", false, "send the filtered results for storage analysis")
	flag.Parse()

	cfg, err := config.Load(*envFlag)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(*envFlag, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if *workers > 0 {
		cfg.Pipeline.Workers = *workers
	}

	logger.Info("Starting clipdex pipeline",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", *envFlag),
		zap.String("mode", *mode),
		zap.Int("workers", cfg.Pipeline.Workers),
		zap.String("video_dir", cfg.Paths.VideoDir),
		zap.String("audio_dir", cfg.Paths.AudioDir),
	)

	metrics.Register()
	if cfg.Metrics.Port > 0 {
		serveMetrics(cfg.Metrics.Port, logger)
	}

	ctx := context.Background()
	results := sink.New(cfg.Paths.OutDir, logger)

	if *extractAudio || *runTranscribe {
		runAudioStages(ctx, cfg, results, logger, *extractAudio, *runTranscribe)
	}

	switch *mode {
	case "text":
		runTextPipeline(ctx, cfg, results, logger, *threshold)
	case "visual":
		runVisualPipeline(ctx, cfg, results, logger, *threshold)
	default:
		logger.Fatal("Unknown mode", zap.String("mode", *mode))
	}

	if *runReport {
		runReportStage(ctx, cfg, results, logger, *threshold)
	}

	logger.Info("Pipeline completed")
}

// runAudioStages extracts audio tracks and transcribes them, in that order.
func runAudioStages(
	ctx context.Context, cfg config.Config, results *sink.Store, logger *zap.Logger,
	extractAudio, runTranscribe bool,
) {
	executor, err := media.NewExecutor(logger)
	if err != nil {
		logger.Fatal("Media executor unavailable", zap.Error(err))
	}

	if extractAudio {
		extracted, err := executor.ExtractAudioDir(ctx, cfg.Paths.VideoDir, cfg.Paths.AudioDir)
		if err != nil {
			logger.Fatal("Audio extraction failed", zap.Error(err))
		}
		logger.Info("Audio extraction completed", zap.Int("files", extracted))
	}

	if runTranscribe {
		transcriber := openaiTransport.NewTranscriber(&openaiTransport.Config{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Transcription.Model,
			Logger:  logger,
		})
		translator := openaiTransport.NewTranslator(&openaiTransport.TranslatorConfig{
			APIKey:         cfg.Embedding.APIKey,
			BaseURL:        cfg.Embedding.BaseURL,
			Model:          cfg.Translation.Model,
			TargetLanguage: cfg.Translation.TargetLanguage,
			Logger:         logger,
		})

		svc := transcribeuc.New(transcriber, translator, logger).
			WithMaxChunkChars(cfg.Translation.MaxChunkChars)
		records, err := svc.Run(ctx, cfg.Paths.AudioDir)
		if err != nil {
			logger.Fatal("Transcription stage failed", zap.Error(err))
		}
		if err := results.Save(transcriptionsFile, records); err != nil {
			logger.Fatal("Failed to save transcriptions", zap.Error(err))
		}
	}
}

// runTextPipeline embeds transcripts, fingerprints them, compares all
// pairs, and saves metadata plus the similarity matrix.
func runTextPipeline(
	ctx context.Context, cfg config.Config, results *sink.Store, logger *zap.Logger,
	threshold float64,
) {
	records := map[string]domain.TranscriptionRecord{}
	results.Load(transcriptionsFile, &records)
	if len(records) == 0 {
		logger.Fatal("Empty working set", zap.Error(domain.ErrNoAssets))
	}

	embedder, cleanup := buildEmbedder(ctx, cfg, logger)
	defer cleanup()

	var prober extractuc.Prober
	if executor, err := media.NewExecutor(logger); err == nil {
		prober = executor
	} else {
		logger.Warn("Media executor unavailable, durations will be zero", zap.Error(err))
	}

	svc := extractuc.NewTextService(embedder, prober, logger).
		WithAudioDir(cfg.Paths.AudioDir).
		WithWorkers(cfg.Pipeline.Workers)
	outcomes := svc.ExtractAll(ctx, records)

	metadata := make(map[string]domain.MetadataRecord, len(outcomes))
	vectors := make(map[string][]float32, len(outcomes))
	var keys []string
	for _, o := range outcomes {
		if !o.OK() {
			continue
		}
		metadata[o.Key] = o.Asset.Metadata()
		vectors[o.Key] = o.Asset.Embedding()
		keys = append(keys, o.Key)
	}
	if len(keys) == 0 {
		logger.Fatal("No assets extracted", zap.Error(domain.ErrNoAssets))
	}

	engine := similarity.NewEngine(logger)
	matrix := engine.CompareAll(keys, vectors)
	logFiltered(logger, matrix, threshold)

	if err := results.Save(metadataFile, metadata); err != nil {
		logger.Fatal("Failed to save metadata", zap.Error(err))
	}
	if err := results.Save(similaritiesFile, matrix); err != nil {
		logger.Fatal("Failed to save similarities", zap.Error(err))
	}
}

// runVisualPipeline samples frames, encodes per-frame features, compares
// flattened sequences, and saves the similarity matrix. The grid backbone
// writes video similarities, the learned autoencoder writes scene
// similarities.
func runVisualPipeline(
	ctx context.Context, cfg config.Config, results *sink.Store, logger *zap.Logger,
	threshold float64,
) {
	executor, err := media.NewExecutor(logger)
	if err != nil {
		logger.Fatal("Media executor unavailable", zap.Error(err))
	}

	names, err := media.ListVideos(cfg.Paths.VideoDir)
	if err != nil {
		logger.Fatal("Failed to list videos", zap.Error(err))
	}
	if len(names) == 0 {
		logger.Fatal("Empty working set", zap.Error(domain.ErrNoAssets))
	}

	featurizer, outFile := buildFeaturizer(cfg)
	svc := extractuc.NewVideoService(executor, featurizer, logger).
		WithTargetFrames(cfg.Media.TargetFrames).
		WithWorkers(cfg.Pipeline.Workers)
	sequences := svc.ExtractAll(ctx, cfg.Paths.VideoDir, names)
	if len(sequences) == 0 {
		logger.Fatal("No videos extracted", zap.Error(domain.ErrNoAssets))
	}

	vectors := make(map[string][]float32, len(sequences))
	var keys []string
	for _, name := range names {
		seq, ok := sequences[name]
		if !ok {
			continue
		}
		vectors[name] = similarity.Flatten(seq)
		keys = append(keys, name)
	}

	engine := similarity.NewEngine(logger).WithPairSeparator(" vs ")
	matrix := engine.CompareAll(keys, vectors)
	logFiltered(logger, matrix, threshold)

	if err := results.Save(outFile, matrix); err != nil {
		logger.Fatal("Failed to save similarities", zap.Error(err))
	}
}

// runReportStage loads whatever earlier stages produced and sends one
// analysis request. A failure here never invalidates the saved matrices.
func runReportStage(
	ctx context.Context, cfg config.Config, results *sink.Store, logger *zap.Logger,
	threshold float64,
) {
	metadata := map[string]domain.MetadataRecord{}
	video := similarity.Matrix{}
	scene := similarity.Matrix{}
	results.Load(metadataFile, &metadata)
	results.Load(videoSimilaritiesFile, &video)
	results.Load(sceneSimilaritiesFile, &scene)

	summarizer := openaiTransport.NewSummarizer(&openaiTransport.SummarizerConfig{
		APIKey:    cfg.Embedding.APIKey,
		BaseURL:   cfg.Embedding.BaseURL,
		Model:     cfg.Summary.Model,
		MaxTokens: cfg.Summary.MaxTokens,
		Logger:    logger,
	})

	svc := reportuc.New(summarizer, logger).WithPromptBudget(cfg.Summary.MaxPromptChars)
	if threshold >= 0 {
		svc = svc.WithThresholds(threshold, threshold)
	}

	suggestions, err := svc.Run(ctx, reportuc.Input{
		Metadata:          metadata,
		VideoSimilarities: video,
		SceneSimilarities: scene,
	})
	if err != nil {
		logger.Error("Analysis request failed", zap.Error(err))
		return
	}

	if err := results.Save(suggestionsFile, suggestions); err != nil {
		logger.Error("Failed to save suggestions", zap.Error(err))
	}
}

// buildEmbedder assembles the embedder chain: OpenAI base, wrapped in the
// cache decorator when a cache store is configured. The returned cleanup
// closes the store.
func buildEmbedder(ctx context.Context, cfg config.Config, logger *zap.Logger) (domain.Embedder, func()) {
	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	if len(cfg.Cache.Addrs) == 0 {
		return base, func() {}
	}

	var store db.Store
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Cache.Addrs,
		Password: cfg.Cache.Password,
	})
	if err != nil {
		logger.Warn("Embedding cache unavailable, continuing without it", zap.Error(err))
		return base, func() {}
	}

	readiness := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		logger.Warn("Embedding cache not ready, continuing without it", zap.Error(err))
		store.Close()
		return base, func() {}
	}

	logger.Info("Embedding cache connected", zap.Strings("addrs", cfg.Cache.Addrs))
	cached := embcache.New(base, store, metrics.EmbeddingCacheTotal, logger)
	return cached, store.Close
}

// buildFeaturizer picks the visual backbone and the matching output file.
func buildFeaturizer(cfg config.Config) (extractuc.Featurizer, string) {
	if cfg.Media.Backbone == "autoencoder" {
		ae := features.NewAutoencoder(
			features.AutoencoderInputSide*features.AutoencoderInputSide,
			cfg.Media.HiddenDim,
			1, // fixed seed keeps signatures reproducible across runs
		)
		f := features.NewAutoencoderFeaturizer(ae).WithTraining(cfg.Media.TrainEpochs, 0.01)
		return f, sceneSimilaritiesFile
	}
	return features.NewGridFeaturizer(), videoSimilaritiesFile
}

// logFiltered applies the explicit threshold (when given) and logs the
// retained pair count.
func logFiltered(logger *zap.Logger, matrix similarity.Matrix, threshold float64) {
	if threshold < 0 {
		return
	}
	filtered := similarity.Filter(matrix, threshold)
	logger.Info("Filtered similarity pairs",
		zap.Float64("threshold", threshold),
		zap.Int("retained", len(filtered)),
		zap.Int("total", len(matrix)),
	)
}

// serveMetrics exposes /metrics for Prometheus scrape during a batch run.
func serveMetrics(port int, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Metrics endpoint listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server error", zap.Error(err))
		}
	}()
}
