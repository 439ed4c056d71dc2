package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher はKafkaトピックへイベントを発行するPublisher実装。
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher はKafkaPublisherを生成する。
// brokersはKafkaブローカーのアドレス一覧、topicは発行先トピックを指定する。
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 10 * time.Second,
	}
	return &KafkaPublisher{writer: writer}
}

// EntityCreated はイベントをJSONにシリアライズしてKafkaに発行する。
// メッセージキーにはownerIdを使用し、同一ユーザーのイベント順序を保つ。
func (p *KafkaPublisher) EntityCreated(ctx context.Context, ev EntityCreated) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("イベントのシリアライズに失敗しました: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(ev.OwnerID),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("イベントの発行に失敗しました: %w", err)
	}

	return nil
}

// Close はKafkaライターを閉じる。
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// compile-time interface check
var _ Publisher = (*KafkaPublisher)(nil)
