package services

// EventPublisher publishes domain events to a message broker.
// *rabbitmq.Client satisfies it. Services treat a nil publisher as "no
// broker configured" and skip publishing; a publish failure is logged and
// never fails the request that triggered it.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}
