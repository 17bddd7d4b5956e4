package events

import "devcamper/pkg/rabbitmq"

// RabbitPublisher publishes through the topic exchange of a rabbitmq.Client.
type RabbitPublisher struct {
	*rabbitmq.Client
}

func NewRabbitPublisher(c *rabbitmq.Client) RabbitPublisher {
	return RabbitPublisher{Client: c}
}
