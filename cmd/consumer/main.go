// The consumer bridges the message queue and the API: it drains weather
// observations published by the collector job, normalizes them, and posts
// them to the ingestion endpoint with retries and a circuit breaker.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"

	"github.com/Le0Vieir4/Weather-io/internal/logger"
)

const (
	queueName       = "weather"
	dialAttempts    = 10
	dialInterval    = 5 * time.Second
	postMaxRetries  = 4
	postInitialWait = 500 * time.Millisecond
	postMaxWait     = 10 * time.Second
)

func main() {
	log := logger.New("consumer")

	apiURL := os.Getenv("API_URL")
	rabbitURL := os.Getenv("RABBIT_URL")
	if apiURL == "" || rabbitURL == "" {
		log.Fatal().Msg("API_URL and RABBIT_URL must be set")
	}

	conn, err := dialWithRetry(rabbitURL, log)
	if err != nil {
		log.Fatal().Err(err).Int("attempts", dialAttempts).Msg("could not connect to rabbitmq")
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal().Err(err).Msg("could not open channel")
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("could not declare queue")
	}

	msgs, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("could not consume queue")
	}

	client := resty.New().
		SetBaseURL(apiURL).
		SetTimeout(15 * time.Second)

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "weather-api",
		Timeout: 30 * time.Second,
	})

	log.Info().Str("queue", q.Name).Msg("consumer waiting for messages")

	for msg := range msgs {
		var input weatherInput
		if err := json.Unmarshal(msg.Body, &input); err != nil {
			log.Err(err).Msg("skipping malformed message")
			continue
		}

		payload := transform(input)
		if err := postWithResilience(context.Background(), client, cb, payload); err != nil {
			log.Err(err).Str("city", payload.City).Msg("failed to deliver observation")
			continue
		}
		log.Info().Str("city", payload.City).Msg("observation delivered")
	}
}

func dialWithRetry(url string, log *logger.Logger) (*amqp091.Connection, error) {
	var err error
	for i := 0; i < dialAttempts; i++ {
		var conn *amqp091.Connection
		conn, err = amqp091.DialConfig(url, amqp091.Config{Heartbeat: 30 * time.Second})
		if err == nil {
			return conn, nil
		}
		log.Warn().Err(err).Int("attempt", i+1).Msg("rabbitmq dial failed, retrying")
		time.Sleep(dialInterval)
	}
	return nil, err
}

// postWithResilience delivers one payload with exponential backoff behind a
// circuit breaker, so a down API trips the breaker instead of hammering it.
func postWithResilience(ctx context.Context, client *resty.Client, cb *gobreaker.CircuitBreaker, payload weatherPayload) error {
	wait := postInitialWait
	var lastErr error

	for attempt := 0; attempt <= postMaxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		_, err := cb.Execute(func() (any, error) {
			resp, err := client.R().
				SetContext(ctx).
				SetHeader("Content-Type", "application/json").
				SetBody(payload).
				Post("/weather")
			if err != nil {
				return nil, err
			}
			if resp.IsError() {
				return nil, fmt.Errorf("api returned status %d: %s", resp.StatusCode(), resp.String())
			}
			return nil, nil
		})
		if err == nil {
			return nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
		if wait > postMaxWait {
			wait = postMaxWait
		}
	}

	return fmt.Errorf("giving up after %d attempts: %w", postMaxRetries+1, lastErr)
}
