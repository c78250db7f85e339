package cache

import (
	"testing"
	"time"
)

func TestMemoryCache_ExpiredEntryDroppedOnRead(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()

	c.Set("key", "value", -time.Second)
	if _, found := c.Get("key"); found {
		t.Error("Expected expired entry to be dropped on read")
	}
}

func TestMemoryCache_CloseStopsSweep(t *testing.T) {
	c := NewMemoryCache()

	if err := c.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	select {
	case <-c.done:
	default:
		t.Error("Expected Close() to signal the sweep goroutine")
	}

	// Second close must not panic on the already-closed channel.
	if err := c.Close(); err != nil {
		t.Errorf("Second Close() failed: %v", err)
	}
}
