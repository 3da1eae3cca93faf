package events

import (
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicBookingCreated   = "tours.booking.created"
	TopicPaymentSucceeded = "tours.payment.succeeded"
	TopicPaymentFailed    = "tours.payment.failed"
	TopicPaymentRefunded  = "tours.payment.refunded"
)

// AllTopics lists every topic this service publishes to.
func AllTopics() []string {
	return []string{
		TopicBookingCreated,
		TopicPaymentSucceeded,
		TopicPaymentFailed,
		TopicPaymentRefunded,
	}
}

// EnsureTopicsExist creates the topics on the controller broker if they do
// not already exist. Individual failures are logged and skipped so a
// partially provisioned cluster does not block startup.
func EnsureTopicsExist(brokers []string, topics []string) error {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := kafka.Dial("tcp", controller.Host)
	if err != nil {
		return err
	}
	defer controllerConn.Close()

	for _, topic := range topics {
		err = controllerConn.CreateTopics(kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		})
		if err != nil {
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			log.Printf("Error creating topic %s: %v", topic, err)
			continue
		}
		log.Printf("Created topic: %s", topic)
	}

	// Give the cluster a moment to propagate new topics.
	time.Sleep(1 * time.Second)
	return nil
}
