package store

import (
	"context"
	"testing"
	"time"
)

// Mongo integration is exercised against a live server in deployment
// smoke tests; unit tests only cover what fails without one.

func TestNewMongoStore_BadURI(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := NewMongoStore(ctx, "not-a-uri", "flatgraph"); err == nil {
		t.Errorf("NewMongoStore() expected error for malformed URI")
	}
}
