// Package notify delivers inventory alerts.
//
// Two events exist: expiring_soon, raised once per product per process when it
// enters the two-day window, and auto_expired, raised after a batch of
// automatic transitions has been committed. The log driver writes them to zap;
// the amqp driver publishes JSON messages to a durable RabbitMQ queue.
package notify
