package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"steam-promo-scraper/models"
	"steam-promo-scraper/utils"
)

// StreamPublisher mirrors the dataset into a Redis stream, one entry per record.
type StreamPublisher struct {
	client *redis.Client
	ctx    context.Context
	stream string
	maxLen int64
	runID  string
	logger *utils.Logger
}

// NewStreamPublisher connects to Redis and checks the connection.
func NewStreamPublisher(ctx context.Context, addr string, db int, stream string, maxLen int, runID string, logger *utils.Logger) (*StreamPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}

	return &StreamPublisher{
		client: client,
		ctx:    ctx,
		stream: stream,
		maxLen: int64(maxLen),
		runID:  runID,
		logger: logger.With("component", "publisher"),
	}, nil
}

// Write replaces the stream: the old stream is deleted and every record is
// appended in order, all in one MULTI/EXEC.
func (p *StreamPublisher) Write(records []*models.Record) error {
	payloads := make([][]byte, 0, len(records))
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("redis: encode %q: %w", r.Title, err)
		}
		payloads = append(payloads, data)
	}

	_, err := p.client.TxPipelined(p.ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(p.ctx, p.stream)
		for i, data := range payloads {
			pipe.XAdd(p.ctx, &redis.XAddArgs{
				Stream: p.stream,
				MaxLen: p.maxLen,
				Approx: p.maxLen > 0,
				Values: map[string]interface{}{
					"run_id":   p.runID,
					"position": strconv.Itoa(i),
					"record":   data,
				},
			})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: publish to %s: %w", p.stream, err)
	}

	p.logger.Info("[publisher] Published %d records to stream %s", len(records), p.stream)
	return nil
}

// Close closes the Redis connection.
func (p *StreamPublisher) Close() error {
	return p.client.Close()
}
