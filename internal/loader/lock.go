package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"olist_back_end/internal/config"
)

// ErrLoaderBusy : un autre chargement détient déjà le verrou.
var ErrLoaderBusy = errors.New("un chargement est déjà en cours")

// Ne supprime la clé que si elle appartient encore à ce run.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// LockStore est la partie du client Redis utilisée par le verrou ; *redis.Client la satisfait.
type LockStore interface {
	redis.Scripter
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RunLock empêche deux loaders de tourner en même temps sur les mêmes stores.
type RunLock struct {
	client LockStore
	key    string
	owner  string
}

func LockKey(v config.Variant) string {
	return "olist:loader:" + string(v)
}

func AcquireRunLock(ctx context.Context, client LockStore, key, owner string, ttl time.Duration) (*RunLock, error) {
	ok, err := client.SetNX(ctx, key, owner, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("verrou %s: %w", key, err)
	}
	if !ok {
		holder, err := client.Get(ctx, key).Result()
		if err != nil {
			// Verrou expiré entre-temps ou Redis indisponible : le détenteur reste inconnu.
			return nil, fmt.Errorf("%w (verrou %s, détenteur inconnu: %v)", ErrLoaderBusy, key, err)
		}
		return nil, fmt.Errorf("%w (verrou %s détenu par %s)", ErrLoaderBusy, key, holder)
	}
	return &RunLock{client: client, key: key, owner: owner}, nil
}

func (l *RunLock) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, l.client, []string{l.key}, l.owner).Err()
}
