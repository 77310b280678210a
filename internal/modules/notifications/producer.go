package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"

	"github.com/rafaelmiranda-prontix/GiftPix/internal/shared/money"
)

// kafkaSender publica os eventos de lifecycle num tópico; um worker
// separado faz a entrega. Desacopla o envio do request que o disparou.
type kafkaSender struct {
	producer sarama.SyncProducer
	topic    string
}

type notificationEvent struct {
	EventType   string  `json:"event_type"`
	Recipient   string  `json:"recipient"`
	Subject     string  `json:"subject"`
	Body        string  `json:"body"`
	ReferenceID string  `json:"reference_id"`
	Amount      float64 `json:"amount"`
}

// NewKafkaService monta o service com entrega via Kafka.
func NewKafkaService(repo *Repo, brokers []string, topic string, logger *slog.Logger) (*Service, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("notifications: kafka producer: %w", err)
	}
	return NewService(repo, &kafkaSender{producer: producer, topic: topic}, logger), nil
}

func (k *kafkaSender) channel() string { return ChannelKafka }

func (k *kafkaSender) send(ctx context.Context, typ, recipient, subject, body string, gift GiftSummary) error {
	ev := notificationEvent{
		EventType:   typ,
		Recipient:   recipient,
		Subject:     subject,
		Body:        body,
		ReferenceID: gift.ReferenceID,
		Amount:      money.FromCents(gift.AmountCents),
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(gift.ReferenceID),
		Value: sarama.ByteEncoder(payload),
	}
	_, _, err = k.producer.SendMessage(msg)
	return err
}
