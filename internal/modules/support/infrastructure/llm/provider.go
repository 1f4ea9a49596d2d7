package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"AuraLink/internal/config"

	arkModel "github.com/cloudwego/eino-ext/components/model/ark"
	openaiModel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// ChatModelMeta 已装配模型的元信息（日志用）
type ChatModelMeta struct {
	Provider string
	Model    string
}

// NewChatModelFromConfig 按配置装配对话模型
//
// 未配置 provider 时返回错误，上层按降级模式继续运行（model 为 nil）。
func NewChatModelFromConfig(ctx context.Context, conf *config.Config) (model.BaseChatModel, ChatModelMeta, error) {
	if conf == nil {
		return nil, ChatModelMeta{}, fmt.Errorf("nil config")
	}

	provider := strings.ToLower(strings.TrimSpace(conf.AIConfig.ChatModel.Provider))
	switch provider {
	case "", "disabled", "none":
		return nil, ChatModelMeta{}, fmt.Errorf("chat model provider not configured")
	case "openai":
		return newOpenAIChatModel(ctx, conf)
	case "ark":
		return newArkChatModel(ctx, conf)
	default:
		return nil, ChatModelMeta{}, fmt.Errorf("unknown chat model provider: %s", provider)
	}
}

func chatTimeout(conf *config.Config) time.Duration {
	if conf.AIConfig.ChatModel.TimeoutSeconds > 0 {
		return time.Duration(conf.AIConfig.ChatModel.TimeoutSeconds) * time.Second
	}
	return 2 * time.Minute
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func newOpenAIChatModel(ctx context.Context, conf *config.Config) (model.BaseChatModel, ChatModelMeta, error) {
	cm := conf.AIConfig.ChatModel
	apiKey := firstNonEmpty(cm.APIKey, os.Getenv("OPENAI_API_KEY"))
	modelName := firstNonEmpty(cm.Model, os.Getenv("OPENAI_MODEL"))
	baseURL := firstNonEmpty(cm.BaseURL, os.Getenv("OPENAI_BASE_URL"))

	if apiKey == "" || modelName == "" {
		return nil, ChatModelMeta{}, fmt.Errorf("openai chat model missing apiKey/model")
	}

	m, err := openaiModel.NewChatModel(ctx, &openaiModel.ChatModelConfig{
		APIKey:     apiKey,
		Model:      modelName,
		BaseURL:    baseURL,
		ByAzure:    cm.ByAzure,
		APIVersion: strings.TrimSpace(cm.AzureAPIVersion),
		Timeout:    chatTimeout(conf),
	})
	if err != nil {
		return nil, ChatModelMeta{}, err
	}
	return m, ChatModelMeta{Provider: "openai", Model: modelName}, nil
}

func newArkChatModel(ctx context.Context, conf *config.Config) (model.BaseChatModel, ChatModelMeta, error) {
	cm := conf.AIConfig.ChatModel
	apiKey := firstNonEmpty(cm.APIKey, os.Getenv("ARK_API_KEY"))
	accessKey := firstNonEmpty(cm.AccessKey, os.Getenv("ARK_ACCESS_KEY"))
	secretKey := firstNonEmpty(cm.SecretKey, os.Getenv("ARK_SECRET_KEY"))
	modelName := firstNonEmpty(cm.Model, os.Getenv("ARK_MODEL_ID"))
	baseURL := firstNonEmpty(cm.BaseURL, os.Getenv("ARK_BASE_URL"))
	region := firstNonEmpty(cm.Region, os.Getenv("ARK_REGION"))

	if apiKey == "" && (accessKey == "" || secretKey == "") {
		return nil, ChatModelMeta{}, fmt.Errorf("ark chat model missing apiKey or accessKey/secretKey")
	}
	if modelName == "" {
		return nil, ChatModelMeta{}, fmt.Errorf("ark chat model missing model")
	}

	timeout := chatTimeout(conf)
	retryTimes := 2
	if cm.RetryTimes > 0 {
		retryTimes = cm.RetryTimes
	}

	m, err := arkModel.NewChatModel(ctx, &arkModel.ChatModelConfig{
		APIKey:     apiKey,
		AccessKey:  accessKey,
		SecretKey:  secretKey,
		Model:      modelName,
		BaseURL:    baseURL,
		Region:     region,
		Timeout:    &timeout,
		RetryTimes: &retryTimes,
	})
	if err != nil {
		return nil, ChatModelMeta{}, err
	}
	return m, ChatModelMeta{Provider: "ark", Model: modelName}, nil
}
