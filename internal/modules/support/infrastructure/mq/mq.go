package mq

import "context"

// Message 一条待发布的消息
type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// PublishResult 发布结果（分区与位点）
type PublishResult struct {
	Partition int32
	Offset    int64
}

// Publisher 消息发布接口
type Publisher interface {
	Publish(ctx context.Context, msg Message) (PublishResult, error)
	Close() error
}
