// Package mirror copies the metrics of finished experiments to a Redis
// instance so that runs on several machines can be collected in one place
package mirror

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/zeu5/or-suite/types"
)

const defaultPrefix = "orsuite"

// RedisMirror pushes every row of a metrics table to a Redis list
type RedisMirror struct {
	client *redis.Client
	prefix string
}

func NewRedisMirror(addr string) *RedisMirror {
	return &RedisMirror{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
		prefix: defaultPrefix,
	}
}

// WithPrefix changes the prefix of the keys
func (r *RedisMirror) WithPrefix(prefix string) *RedisMirror {
	r.prefix = prefix
	return r
}

// Key of the list holding the rows of the experiment
func (r *RedisMirror) Key(experiment string) string {
	return fmt.Sprintf("%s:%s:metrics", r.prefix, experiment)
}

func (r *RedisMirror) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Push replaces the list of the experiment with the rows of the table,
// one JSON object per entry in execution order
func (r *RedisMirror) Push(ctx context.Context, experiment string, table *types.MetricsTable) error {
	rows := table.Rows()
	values := make([]interface{}, len(rows))
	for i, row := range rows {
		bs, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("encoding row %d: %w", i, err)
		}
		values[i] = string(bs)
	}

	key := r.Key(experiment)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.RPush(ctx, key, values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: pushing metrics of %s to redis: %s", types.ErrIO, experiment, err)
	}
	return nil
}

// Fetch reads back the rows of the experiment
func (r *RedisMirror) Fetch(ctx context.Context, experiment string) ([]types.MetricsRow, error) {
	values, err := r.client.LRange(ctx, r.Key(experiment), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: reading metrics of %s from redis: %s", types.ErrIO, experiment, err)
	}
	rows := make([]types.MetricsRow, len(values))
	for i, v := range values {
		if err := json.Unmarshal([]byte(v), &rows[i]); err != nil {
			return nil, fmt.Errorf("decoding row %d: %w", i, err)
		}
	}
	return rows, nil
}

func (r *RedisMirror) Close() error {
	return r.client.Close()
}
