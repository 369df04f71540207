package memory

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func BenchmarkMemoryCache_Get(b *testing.B) {
	cache := NewMemoryCache()
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		cache.Set(ctx, fmt.Sprintf("http:/posts?_page=%d", i), []byte("page"), 5*time.Minute)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = cache.Get(ctx, fmt.Sprintf("http:/posts?_page=%d", i%1000))
	}
}

func BenchmarkMemoryCache_ConcurrentSet(b *testing.B) {
	cache := NewMemoryCache()
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_ = cache.Set(ctx, fmt.Sprintf("kv:%d", i), []byte("v"), 0)
			i++
		}
	})
}

func BenchmarkMemoryCache_KeysPrefixScan(b *testing.B) {
	cache := NewMemoryCache()
	ctx := context.Background()

	for i := 0; i < 500; i++ {
		cache.Set(ctx, fmt.Sprintf("http:/posts?_page=%d", i), []byte("page"), 5*time.Minute)
		cache.Set(ctx, fmt.Sprintf("kv:read_%d", i), []byte("1"), 0)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = cache.Keys(ctx, "http:")
	}
}
