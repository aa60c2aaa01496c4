package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/ids"
	libredis "roamhub/backend/libs/redis"
)

// cachedStatus is the JSON form of a status record in redis.
type cachedStatus struct {
	EVSEID string `json:"evse_id"`
	Status string `json:"status"`
}

// StatusCache keeps the current status of every EVSE under its own key.
type StatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatusCache returns redis-backed cache.
func NewStatusCache(client *redis.Client, ttl time.Duration) *StatusCache {
	return &StatusCache{client: client, ttl: ttl}
}

func key(evseID ids.EVSEID) string {
	return fmt.Sprintf("oicp:evse-status:%s", evseID)
}

// Lookup returns the cached records among evseIDs; misses are left out.
func (c *StatusCache) Lookup(ctx context.Context, evseIDs []ids.EVSEID) (map[ids.EVSEID]oicp.EVSEStatusRecord, error) {
	out := make(map[ids.EVSEID]oicp.EVSEStatusRecord, len(evseIDs))
	if len(evseIDs) == 0 {
		return out, nil
	}
	if len(evseIDs) == 1 {
		raw, err := c.client.Get(ctx, key(evseIDs[0])).Result()
		if libredis.IsMiss(err) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		r, err := decode(raw)
		if err != nil {
			return nil, err
		}
		out[r.EVSEID()] = r
		return out, nil
	}

	keys := make([]string, 0, len(evseIDs))
	for _, id := range evseIDs {
		keys = append(keys, key(id))
	}
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		r, err := decode(raw)
		if err != nil {
			return nil, err
		}
		out[r.EVSEID()] = r
	}
	return out, nil
}

// Put caches records in one round trip.
func (c *StatusCache) Put(ctx context.Context, records []oicp.EVSEStatusRecord) error {
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, r := range records {
			data, err := encode(r)
			if err != nil {
				return err
			}
			pipe.Set(ctx, key(r.EVSEID()), data, c.ttl)
		}
		return nil
	})
	return err
}

// Remove drops cached records.
func (c *StatusCache) Remove(ctx context.Context, evseIDs []ids.EVSEID) error {
	if len(evseIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(evseIDs))
	for _, id := range evseIDs {
		keys = append(keys, key(id))
	}
	return c.client.Del(ctx, keys...).Err()
}

func encode(r oicp.EVSEStatusRecord) ([]byte, error) {
	return json.Marshal(cachedStatus{EVSEID: r.EVSEID().String(), Status: string(r.Status())})
}

func decode(raw string) (oicp.EVSEStatusRecord, error) {
	var s cachedStatus
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return oicp.EVSEStatusRecord{}, fmt.Errorf("status cache: %w", err)
	}
	evseID, err := ids.ParseEVSEID(s.EVSEID)
	if err != nil {
		return oicp.EVSEStatusRecord{}, fmt.Errorf("status cache: %w", err)
	}
	status, err := oicp.ParseEVSEStatusType(s.Status)
	if err != nil {
		return oicp.EVSEStatusRecord{}, fmt.Errorf("status cache: %w", err)
	}
	return oicp.NewEVSEStatusRecord(evseID, status), nil
}
