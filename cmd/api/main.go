// @title           Knowledge API
// @version         1.0
// @description     Asynchronous document indexing and retrieval-augmented question answering
// @termsOfService  http://swagger.io/terms/

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
	"sync"
	"syscall"

	"github.com/anvithk/KnowledgeAPI/internal/config"
	"github.com/anvithk/KnowledgeAPI/internal/data/store"
	jobmodel "github.com/anvithk/KnowledgeAPI/internal/domain/jobModel"
	"github.com/anvithk/KnowledgeAPI/internal/handlers"
	"github.com/anvithk/KnowledgeAPI/internal/job"
	"github.com/anvithk/KnowledgeAPI/internal/rag"
	"github.com/anvithk/KnowledgeAPI/internal/rag/answercache"
	"github.com/anvithk/KnowledgeAPI/internal/rag/indexer"
	"github.com/anvithk/KnowledgeAPI/internal/rag/loader"
	"github.com/anvithk/KnowledgeAPI/internal/rag/responder"
	"github.com/anvithk/KnowledgeAPI/internal/server"
	"github.com/anvithk/KnowledgeAPI/internal/worker"
	"github.com/anvithk/KnowledgeAPI/pkg/logger_i"
)

var (
	listenAddr        string
	configPath        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	config.LoadEnv()
	flag.StringVar(&listenAddr, "listen-addr", "", "server listen address")
	flag.StringVar(&configPath, "config", "assistant.yaml", "path to the yaml config file")
	flag.Parse()

	fileCfg, err := config.LoadFile(configPath)
	if err != nil {
		logger.Error("Could not parse config file", "path", configPath, "error", err.Error())
		return
	}
	if listenAddr == "" {
		listenAddr = fileCfg.ListenAddrOrDefault()
	}

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          store.GetRedisJobStore(serviceContext),
		MessageStore:      store.GetRedisMessageStore(serviceContext),
	}
	logger.Info("Starting job service")

	if serviceConfig.JobStore == nil || serviceConfig.MessageStore == nil {
		logger.Error("Redis stores are offline")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
		serviceConfig.MessageStore = store.InitMessageStore()
	}
	service := job.InitJobService(serviceConfig)

	embeddingService, err := rag.NewEmbedderFor(serviceContext, fileCfg.Providers.Embedding)
	if err != nil {
		logger.Error("Embedding provider failed to initialize. Shutting down.", "error", err.Error())
		return
	}
	llmProvider, err := rag.NewProviderFor(serviceContext, fileCfg.Providers.LLM)
	if err != nil {
		logger.Error("LLM provider failed to initialize. Shutting down.", "error", err.Error())
		return
	}

	dbPath := fileCfg.DBPathOrDefault()
	knowledgeIndexer, err := indexer.NewKnowledgeIndexer(dbPath, embeddingService, loader.NewResolver())
	if err != nil {
		logger.Error("Indexer failed to initialize. Shutting down.", "error", err.Error())
		return
	}
	documentQA, err := responder.NewDocumentQA(dbPath, embeddingService, llmProvider, nil)
	if err != nil {
		logger.Error("Responder failed to initialize. Shutting down.", "error", err.Error())
		return
	}

	// nil when Qdrant is absent; every lookup then misses
	cache := answercache.GetCache(serviceContext)

	ragService := rag.NewService(knowledgeIndexer, documentQA, cache, embeddingService)

	handlers.InitJobHandler(service)

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
