package messaging

import (
	"time"

	"github.com/segmentio/kafka-go"
)

// NewWriter builds the producer used by the outbox relay. The topic is set per
// message by the dispatcher; events of one order hash to the same partition.
func NewWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
		WriteTimeout:           10 * time.Second,
	}
}
