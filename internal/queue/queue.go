package queue

import (
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

type Processor interface {
	Process() (*asynq.Task, error)
	ProcessorName() string
}

// Client enqueues background work onto the redis-backed asynq queue.
type Client struct {
	client *asynq.Client
}

func NewClient(redisURL string) (*Client, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL environment variable not set")
	}

	addr, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis url: %v", err)
	}

	log.Printf("queue: connecting to redis at %s", addr.Addr)
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: addr.Addr, Password: addr.Password, DB: addr.DB}),
	}, nil
}

func (c *Client) Enqueue(processor Processor) error {
	task, err := processor.Process()
	if err != nil {
		return err
	}
	if _, err := c.client.Enqueue(task); err != nil {
		return fmt.Errorf("could not enqueue %s task: %v", processor.ProcessorName(), err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Run starts the worker side of the queue and blocks until it stops.
func Run(redisURL string, worker *AutofillWorker) error {
	addr, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("error parsing redis url: %v", err)
	}

	server := asynq.NewServer(asynq.RedisClientOpt{Addr: addr.Addr, Password: addr.Password, DB: addr.DB}, asynq.Config{})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSurveyAutofill, worker.Handle)

	if err := server.Run(mux); err != nil {
		return fmt.Errorf("error running queue server: %v", err)
	}
	return nil
}
