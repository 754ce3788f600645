package resolver

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/nervos-community/light-wallet/rpc"
	"github.com/nervos-community/light-wallet/types"
)

// LightClientHeaderResolver fetches headers over RPC. Headers are
// immutable once final, so they are cached; the TTL only bounds memory.
type LightClientHeaderResolver struct {
	client *rpc.Client
	cache  *ttlcache.Cache[types.Hash, *types.Header]
}

func NewLightClientHeaderResolver(client *rpc.Client, ttl time.Duration) *LightClientHeaderResolver {
	return &LightClientHeaderResolver{
		client: client,
		cache: ttlcache.New[types.Hash, *types.Header](
			ttlcache.WithTTL[types.Hash, *types.Header](ttl),
		),
	}
}

func (r *LightClientHeaderResolver) HeaderByHash(ctx context.Context, hash types.Hash) (*types.Header, error) {
	if item := r.cache.Get(hash); item != nil {
		return item.Value(), nil
	}

	header, err := r.client.GetHeader(ctx, hash)
	if err != nil {
		return nil, err
	}

	r.cache.Set(hash, header, ttlcache.DefaultTTL)

	return header, nil
}

// MemoryHeaderResolver is a fixed header table for tests.
type MemoryHeaderResolver struct {
	headers map[types.Hash]*types.Header
}

func NewMemoryHeaderResolver(headers ...*types.Header) *MemoryHeaderResolver {
	r := &MemoryHeaderResolver{headers: map[types.Hash]*types.Header{}}
	for _, h := range headers {
		r.Add(h)
	}

	return r
}

func (r *MemoryHeaderResolver) Add(h *types.Header) {
	r.headers[h.Hash] = h
}

func (r *MemoryHeaderResolver) HeaderByHash(_ context.Context, hash types.Hash) (*types.Header, error) {
	h, ok := r.headers[hash]
	if !ok {
		return nil, errorHeaderNotFound(hash)
	}

	return h, nil
}
