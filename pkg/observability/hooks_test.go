package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	g := NoopGenerationHooks{}
	g.OnGenerateStart(ctx, "weighted", 100, 100)
	g.OnGenerateComplete(ctx, "weighted", 800, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "render")
	c.OnCacheMiss(ctx, "render")
	c.OnCacheSet(ctx, "render", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Generation().(NoopGenerationHooks); !ok {
		t.Error("Generation() should return NoopGenerationHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customGeneration := &testGenerationHooks{}
	SetGenerationHooks(customGeneration)
	if Generation() != customGeneration {
		t.Error("SetGenerationHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Generation().(NoopGenerationHooks); !ok {
		t.Error("Reset() should restore NoopGenerationHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testGenerationHooks{}
	SetGenerationHooks(custom)

	SetGenerationHooks(nil)

	if Generation() != custom {
		t.Error("SetGenerationHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testGenerationHooks struct{ NoopGenerationHooks }
type testCacheHooks struct{ NoopCacheHooks }
