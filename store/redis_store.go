// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/article-voting/votes"
)

// RedisStore keeps two hashes per article:
//
//	article-voting:{id}:votes  voter -> choice
//	article-voting:{id}:tally  yes, no, version
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore parses a redis:// URL, connects and pings the server
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis URL: %w", err)
	}

	c := redis.NewClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		return nil, fmt.Errorf("error connecting to redis: %w", err)
	}

	return &RedisStore{client: c}, nil
}

func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func votesKey(articleID int64) string {
	return fmt.Sprintf("article-voting:%d:votes", articleID)
}

func tallyKey(articleID int64) string {
	return fmt.Sprintf("article-voting:%d:tally", articleID)
}

func (rs *RedisStore) Get(ctx context.Context, articleID int64) (votes.Record, error) {
	var votesCmd, tallyCmd *redis.MapStringStringCmd

	// MULTI/EXEC so both hashes are read atomically
	_, err := rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		votesCmd = pipe.HGetAll(ctx, votesKey(articleID))
		tallyCmd = pipe.HGetAll(ctx, tallyKey(articleID))
		return nil
	})
	if err != nil {
		return votes.Record{}, fmt.Errorf("error reading votes from redis: %w", err)
	}

	rec := votes.NewRecord(articleID)
	for voter, raw := range votesCmd.Val() {
		c, err := votes.ParseChoice(raw)
		if err != nil {
			return votes.Record{}, fmt.Errorf("stored vote for article %d has bad choice %q: %w", articleID, raw, err)
		}
		rec.Votes[voter] = c
	}

	tally := tallyCmd.Val()
	if rec.Tally.Yes, err = hashInt(tally, "yes"); err != nil {
		return votes.Record{}, err
	}
	if rec.Tally.No, err = hashInt(tally, "no"); err != nil {
		return votes.Record{}, err
	}
	version, err := hashInt(tally, "version")
	if err != nil {
		return votes.Record{}, err
	}
	rec.Version = int64(version)

	return rec, nil
}

func hashInt(h map[string]string, field string) (int, error) {
	s, ok := h[field]
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("error converting %s to int: %w", field, err)
	}
	return n, nil
}

// Put uses WATCH on the tally hash so a concurrent writer aborts the
// transaction instead of overwriting it
func (rs *RedisStore) Put(ctx context.Context, rec votes.Record) error {
	tkey := tallyKey(rec.ArticleID)

	err := rs.client.Watch(ctx, func(tx *redis.Tx) error {
		version, err := tx.HGet(ctx, tkey, "version").Int64()
		if errors.Is(err, redis.Nil) {
			version = 0
		} else if err != nil {
			return fmt.Errorf("error reading tally version: %w", err)
		}
		if version != rec.Version {
			return votes.ErrVersionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if len(rec.Votes) > 0 {
				fields := make(map[string]interface{}, len(rec.Votes))
				for voter, choice := range rec.Votes {
					fields[voter] = string(choice)
				}
				pipe.HSet(ctx, votesKey(rec.ArticleID), fields)
			}
			pipe.HSet(ctx, tkey, "yes", rec.Tally.Yes, "no", rec.Tally.No, "version", rec.Version+1)
			return nil
		})
		return err
	}, tkey)

	if errors.Is(err, redis.TxFailedErr) {
		return votes.ErrVersionConflict
	}
	if err != nil && !errors.Is(err, votes.ErrVersionConflict) {
		return fmt.Errorf("error writing votes to redis: %w", err)
	}
	return err
}

func (rs *RedisStore) Close() error {
	if err := rs.client.Close(); err != nil {
		return fmt.Errorf("error closing redis client: %w", err)
	}
	return nil
}
