package redis_test

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"

	"github.com/TilepMony-Project/flowcore/pkg/adapters/redis"
	"github.com/TilepMony-Project/flowcore/pkg/ports"
)

func TestRedisStore_Contract(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	store := redis.NewFromClient(client)
	ports.RunExecutionStoreContract(t, store)
}
