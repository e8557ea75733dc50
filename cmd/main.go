package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/adgm-compliance-system/api"
	"github.com/fyerfyer/adgm-compliance-system/api/handler"
	"github.com/fyerfyer/adgm-compliance-system/api/middleware"
	"github.com/fyerfyer/adgm-compliance-system/config"
	"github.com/fyerfyer/adgm-compliance-system/internal/analyzer"
	"github.com/fyerfyer/adgm-compliance-system/internal/cache"
	"github.com/fyerfyer/adgm-compliance-system/internal/corpus"
	"github.com/fyerfyer/adgm-compliance-system/internal/database"
	"github.com/fyerfyer/adgm-compliance-system/internal/document"
	"github.com/fyerfyer/adgm-compliance-system/internal/embedding"
	"github.com/fyerfyer/adgm-compliance-system/internal/llm"
	"github.com/fyerfyer/adgm-compliance-system/internal/repository"
	"github.com/fyerfyer/adgm-compliance-system/internal/services"
	"github.com/fyerfyer/adgm-compliance-system/internal/vectordb"
	"github.com/fyerfyer/adgm-compliance-system/pkg/storage"
	"github.com/fyerfyer/adgm-compliance-system/pkg/taskqueue"
)

// 命令行参数
type flags struct {
	configPath string
	ingest     bool
	rebuild    bool
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.configPath, "config", "config.yaml", "path to config file")
	flag.BoolVar(&f.ingest, "ingest", false, "fetch ADGM corpus sources on startup")
	flag.BoolVar(&f.rebuild, "rebuild", false, "rebuild the vector index on startup")
	flag.Parse()
	return f
}

func main() {
	f := parseFlags()

	// 加载.env文件（不存在时忽略）
	_ = godotenv.Load()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := setupLogger(cfg)

	if err := database.Init(database.Config{
		Type: cfg.Database.Type,
		DSN:  cfg.Database.DSN,
	}, log); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	reviewRepo := repository.NewReviewRepository(database.GetDB())

	fileStorage, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		Path:      cfg.Storage.Path,
		Bucket:    cfg.Storage.Bucket,
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	embedder := setupEmbedding(cfg, log)
	ragService := setupLLM(cfg, log)

	chunker, err := document.NewChunker(cfg.Document.ChunkSize, cfg.Document.ChunkOverlap)
	if err != nil {
		log.Fatalf("Invalid chunker configuration: %v", err)
	}

	corpusStore, err := corpus.NewStore(cfg.Corpus.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize corpus store: %v", err)
	}

	fetcher := corpus.NewFetcher(corpus.FetcherConfig{
		Timeout:   time.Duration(cfg.Corpus.FetchTimeout) * time.Second,
		UserAgent: cfg.Corpus.UserAgent,
	}, log)

	indexService := services.NewIndexService(vectordb.Config{
		Type:         cfg.VectorDB.Type,
		Path:         cfg.VectorDB.Path,
		Dimension:    cfg.VectorDB.Dim,
		DistanceType: vectordb.DistanceType(cfg.VectorDB.Distance),
	}, embedder, chunker, log)
	defer indexService.Close()

	corpusService := services.NewCorpusService(fetcher, corpusStore, corpus.DefaultSources,
		indexService, reviewRepo, log)

	startupCtx, cancel := context.WithTimeout(context.Background(), time.Hour)
	setupIndex(startupCtx, f, corpusService, log)
	cancel()

	queryService := setupQueryService(cfg, indexService, embedder, ragService, log)

	complianceAnalyzer := analyzer.NewAnalyzer(queryService, log)
	reviewService := services.NewReviewService(complianceAnalyzer, reviewRepo, log)

	queue, worker := setupQueue(cfg, corpusService, log)
	if queue != nil {
		defer queue.Close()
	}
	if worker != nil {
		if err := worker.Start(); err != nil {
			log.Fatalf("Failed to start task worker: %v", err)
		}
		defer worker.Shutdown()
	}

	router := api.SetupRouter(cfg.Server.Mode, api.Handlers{
		Query:  handler.NewQueryHandler(queryService),
		Review: handler.NewReviewHandler(reviewService, reviewRepo, fileStorage),
		Corpus: handler.NewCorpusHandler(corpusService, queue, reviewRepo),
	})

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Infof("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// 等待退出信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown failed: %v", err)
	}
	log.Info("Server stopped")
}

// setupLogger 配置全局日志
func setupLogger(cfg *config.Config) *logrus.Logger {
	log := middleware.GetLogger()
	if cfg.Server.Mode == "release" {
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// setupEmbedding 初始化嵌入客户端
// Ollama服务不可达时回退到占位嵌入，保证系统可以离线启动
func setupEmbedding(cfg *config.Config, log *logrus.Logger) embedding.Client {
	client, err := embedding.NewClient(cfg.Embed.Provider,
		embedding.WithModel(cfg.Embed.Model),
		embedding.WithAPIKey(cfg.Embed.APIKey),
		embedding.WithEndpoint(cfg.Embed.Endpoint),
		embedding.WithBatchSize(cfg.Embed.BatchSize),
		embedding.WithDimensions(cfg.Embed.Dimensions),
	)
	if err != nil {
		log.Fatalf("Failed to create embedding client: %v", err)
	}

	if ollama, ok := client.(*embedding.OllamaClient); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := ollama.Ping(ctx); err != nil {
			log.WithFields(logrus.Fields{
				"endpoint": cfg.Embed.Endpoint,
				"error":    err.Error(),
			}).Warn("Embedding server unreachable, falling back to placeholder embeddings")

			fallback, err := embedding.NewPlaceholderClient(
				embedding.WithDimensions(cfg.Embed.Dimensions))
			if err != nil {
				log.Fatalf("Failed to create placeholder embedding client: %v", err)
			}
			return fallback
		}
	}

	return client
}

// setupLLM 初始化LLM客户端和检索增强问答服务
func setupLLM(cfg *config.Config, log *logrus.Logger) *llm.RAGService {
	client, err := llm.NewClient(cfg.LLM.Provider,
		llm.WithModel(cfg.LLM.Model),
		llm.WithAPIKey(cfg.LLM.APIKey),
		llm.WithEndpoint(cfg.LLM.Endpoint),
		llm.WithMaxTokens(cfg.LLM.MaxTokens),
		llm.WithTemperature(float64(cfg.LLM.Temperature)),
	)
	if err != nil {
		log.Fatalf("Failed to create llm client: %v", err)
	}
	return llm.NewRAGService(client)
}

// setupIndex 启动时准备向量索引
func setupIndex(ctx context.Context, f flags, corpusService *services.CorpusService, log *logrus.Logger) {
	if f.ingest {
		if err := corpusService.Ingest(ctx); err != nil {
			log.Errorf("Corpus ingestion failed: %v", err)
		}
	}

	if f.rebuild {
		if err := corpusService.RebuildIndex(ctx); err != nil {
			log.Errorf("Index rebuild failed: %v", err)
		}
		return
	}

	if err := corpusService.EnsureIndex(ctx); err != nil {
		log.Errorf("Failed to prepare vector index: %v", err)
	}
}

// setupQueryService 初始化知识库问答服务
func setupQueryService(cfg *config.Config, index *services.IndexService,
	embedder embedding.Client, rag *llm.RAGService, log *logrus.Logger) *services.QueryService {
	opts := []services.QueryOption{
		services.WithTopK(cfg.Search.TopK),
		services.WithMinScore(cfg.Search.MinScore),
	}

	if cfg.Cache.Enable {
		queryCache, err := cache.NewCache(cache.Config{
			Type:     cfg.Cache.Type,
			Address:  cfg.Cache.Address,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
			TTL:      time.Duration(cfg.Cache.TTL) * time.Second,
		})
		if err != nil {
			log.WithFields(logrus.Fields{
				"type":  cfg.Cache.Type,
				"error": err.Error(),
			}).Warn("Failed to initialize cache, queries will not be cached")
		} else {
			opts = append(opts, services.WithCache(queryCache, time.Duration(cfg.Cache.TTL)*time.Second))
		}
	}

	return services.NewQueryService(index, embedder, rag, log, opts...)
}

// setupQueue 初始化任务队列和工作进程
func setupQueue(cfg *config.Config, corpusService *services.CorpusService, log *logrus.Logger) (*taskqueue.Queue, *taskqueue.Worker) {
	if !cfg.Queue.Enable {
		return nil, nil
	}

	queueConfig := taskqueue.Config{
		RedisAddr:     cfg.Queue.RedisAddr,
		RedisPassword: cfg.Queue.RedisPassword,
		RedisDB:       cfg.Queue.RedisDB,
		Concurrency:   cfg.Queue.Concurrency,
		RetryLimit:    cfg.Queue.RetryLimit,
	}

	queue := taskqueue.NewQueue(queueConfig)
	worker := taskqueue.NewWorker(queueConfig, corpusService, log)
	return queue, worker
}
