package http

import (
	"context"
	"fmt"
	"strings"

	"AuraLink/internal/config"
	"AuraLink/internal/initial"
	jwtMiddleware "AuraLink/internal/middleware/jwt"
	"AuraLink/internal/modules/support/application/service"
	"AuraLink/internal/modules/support/domain/repository"
	"AuraLink/internal/modules/support/infrastructure/agents"
	"AuraLink/internal/modules/support/infrastructure/embedding"
	"AuraLink/internal/modules/support/infrastructure/llm"
	"AuraLink/internal/modules/support/infrastructure/mq/kafka"
	"AuraLink/internal/modules/support/infrastructure/notify"
	"AuraLink/internal/modules/support/infrastructure/persistence"
	"AuraLink/internal/modules/support/infrastructure/pipeline"
	"AuraLink/internal/modules/support/infrastructure/retrieval"
	supportHandler "AuraLink/internal/modules/support/interface/http"
	"AuraLink/pkg/redis"
	"AuraLink/pkg/ssl"
	"AuraLink/pkg/zlog"

	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.uber.org/zap"
)

var GE *gin.Engine

func init() {
	conf := config.GetConfig()

	GE = gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	GE.Use(cors.New(corsConfig))
	GE.Use(ssl.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port))

	ctx := context.Background()

	dataDir := conf.DataConfig.Dir
	if dataDir == "" {
		dataDir = "data"
	}

	// 存储层：Redis 已连接用 Redis 会话存储，否则进程内；MySQL 已连接用 gorm 订单库，否则本地文件
	var sessionStore repository.SessionStore
	if redis.IsConnected() {
		sessionStore = persistence.NewRedisSessionStore()
		zlog.Info("session store: redis")
	} else {
		sessionStore = persistence.NewMemorySessionStore()
		zlog.Info("session store: memory")
	}

	var orderRepo repository.OrderRepository
	if initial.GormDB != nil {
		orderRepo = persistence.NewGormOrderRepository(initial.GormDB)
		zlog.Info("order repository: mysql")
	} else {
		orderRepo = persistence.NewFileOrderRepository(dataDir)
		zlog.Info("order repository: file", zap.String("dir", dataDir))
	}

	ledger := persistence.NewFileActionLedger(dataDir)

	// 对话模型：未配置时为 nil，各 agent 按降级模式工作
	chatModel, chatMeta, err := llm.NewChatModelFromConfig(ctx, conf)
	if err != nil {
		zlog.Warn("chat model unavailable, agents degraded", zap.Error(err))
	} else {
		zlog.Info("chat model ready",
			zap.String("provider", chatMeta.Provider),
			zap.String("model", chatMeta.Model))
	}

	// 知识检索：依赖 Milvus 与向量化器，任一缺失则检索降级为空上下文
	var retriever repository.ContextRetriever = retrieval.NewKnowledgeRetriever(nil, nil)
	var ingester *retrieval.ManualIngester
	if initial.MilvusClient != nil {
		embedder, embedMeta, err := embedding.NewEmbedderFromConfig(ctx, conf)
		if err != nil {
			zlog.Warn("embedder unavailable, retrieval disabled", zap.Error(err))
		} else {
			store, err := retrieval.NewManualStore(
				initial.MilvusClient, manualCollection(conf), vectorDim(conf), metricType(conf))
			if err != nil {
				zlog.Warn("manual store init failed, retrieval disabled", zap.Error(err))
			} else {
				retriever = retrieval.NewKnowledgeRetriever(store, embedder)
				ingester = retrieval.NewManualIngester(store, embedder)
				zlog.Info("knowledge retrieval ready",
					zap.String("provider", embedMeta.Provider),
					zap.Int("dim", embedMeta.Dim))
			}
		}
	}

	// 通知：邮件为主通道，配置了 Kafka 则同时发布事件
	notifiers := []repository.Notifier{notify.NewSmtpNotifier(&conf.SmtpConfig)}
	if len(conf.KafkaConfig.Brokers) > 0 {
		publisher, err := kafka.NewSaramaPublisher(kafka.PublisherConfig{
			Brokers:  conf.KafkaConfig.Brokers,
			ClientID: conf.KafkaConfig.ClientID,
		})
		if err != nil {
			zlog.Warn("kafka publisher init failed", zap.Error(err))
		} else {
			notifiers = append(notifiers, notify.NewKafkaNotifier(publisher, conf.KafkaConfig.NotificationTopic))
			zlog.Info("kafka notifier ready", zap.String("topic", conf.KafkaConfig.NotificationTopic))
		}
	}
	notifier := notify.NewMultiNotifier(notifiers...)

	executor := pipeline.NewActionExecutor(ledger)

	chatPipe, err := pipeline.NewChatPipeline(
		sessionStore,
		orderRepo,
		agents.NewIntentAgent(chatModel),
		retriever,
		agents.NewResponderAgent(chatModel),
		agents.NewVerifierAgent(chatModel),
		agents.NewConfirmAgent(chatModel),
		notifier,
		executor,
	)
	if err != nil {
		zlog.Fatal(fmt.Sprintf("chat pipeline init failed: %v", err))
	}

	chatSvc := service.NewChatService(chatPipe)
	adminSvc := service.NewAdminService(sessionStore, ledger, orderRepo, ingester)

	chatH := supportHandler.NewChatHandler(chatSvc)
	adminH := supportHandler.NewAdminHandler(adminSvc)

	GE.GET("/health", chatH.Health)
	GE.POST("/chat", chatH.Chat)
	GE.POST("/admin/login", adminH.Login)

	authed := GE.Group("/admin")
	authed.Use(jwtMiddleware.Auth())
	authed.GET("/sessions", adminH.ListSessions)
	authed.GET("/sessions/:id", adminH.GetSession)
	authed.DELETE("/sessions/:id", adminH.ClearSession)
	authed.GET("/actions/:name", adminH.ListActions)
	authed.GET("/orders/:id", adminH.GetOrder)
	authed.POST("/ingest", adminH.Ingest)
}

func manualCollection(conf *config.Config) string {
	if c := strings.TrimSpace(conf.MilvusConfig.CollectionName); c != "" {
		return c
	}
	return "aura_manuals"
}

func vectorDim(conf *config.Config) int {
	if conf.AIConfig.Embedding.Dimensions > 0 {
		return conf.AIConfig.Embedding.Dimensions
	}
	if conf.MilvusConfig.VectorDim > 0 {
		return conf.MilvusConfig.VectorDim
	}
	return 768
}

func metricType(conf *config.Config) entity.MetricType {
	switch strings.ToUpper(strings.TrimSpace(conf.MilvusConfig.MetricType)) {
	case "IP":
		return entity.IP
	case "L2":
		return entity.L2
	default:
		return entity.COSINE
	}
}
