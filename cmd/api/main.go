// @title           RAG Documents API
// @version         1.0
// @description     Minimal retrieval-augmented question answering over uploaded documents
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/ragdocs/internal/config"
	"github.com/akolanti/ragdocs/internal/data/docstore"
	"github.com/akolanti/ragdocs/internal/data/store"
	"github.com/akolanti/ragdocs/internal/handlers"
	"github.com/akolanti/ragdocs/internal/middleware"
	"github.com/akolanti/ragdocs/internal/rag"
	"github.com/akolanti/ragdocs/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/ragdocs/internal/rag/llm/openrouter"
	"github.com/akolanti/ragdocs/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/ragdocs/internal/server"
	"github.com/akolanti/ragdocs/pkg/logger_i"
)

var listenAddr string

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	cfg := config.Load()
	flag.StringVar(&listenAddr, "listen-addr", cfg.ListenAddr, "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	docs, err := docstore.New(cfg.DataDir)
	if err != nil {
		logger.Error("Could not prepare documents directory. Shutting down.", "dir", cfg.DataDir, "error", err)
		return
	}
	logger.Info("Documents directory ready", "dir", docs.Root())

	//document registry, redis with in-memory fallback
	var registry store.DocumentStore
	if redisRegistry := store.GetRedisDocumentStore(serviceContext, cfg); redisRegistry != nil {
		registry = redisRegistry
	} else {
		logger.Error("Redis registry is offline, using in-memory registry")
		registry = store.InitInMemoryDocumentStore()
	}

	vectorDB := qdrantDB.GetQdrantClient(serviceContext, cfg)
	embeddingService := openaiEmbedding.GetOpenAIEmbedder(cfg)
	llmProvider := openrouter.GetOpenRouterClient(cfg)

	if vectorDB == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorDB != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	ragService := rag.NewService(cfg, vectorDB, llmProvider, embeddingService, docs, registry)

	handlers.InitRagHandler(ragService, cfg)
	middleware.InitRateLimiter(cfg.RateLimitPerSecond, cfg.BurstRateLimit)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
