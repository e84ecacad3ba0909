package service

import (
	"context"
	"errors"
	"time"
)

var errCacheMiss = errors.New("cache miss")

// fakeDenylist is an in-memory stand-in for the Redis cache service. Only the
// denylist operations store anything; the content cache methods miss.
type fakeDenylist struct {
	denied map[string]bool
}

func newFakeDenylist() *fakeDenylist {
	return &fakeDenylist{denied: make(map[string]bool)}
}

func (f *fakeDenylist) GetGuide(ctx context.Context, key string) ([]byte, error) {
	return nil, errCacheMiss
}
func (f *fakeDenylist) SetGuide(ctx context.Context, key string, data interface{}) error { return nil }
func (f *fakeDenylist) InvalidateAllGuides(ctx context.Context) error                    { return nil }

func (f *fakeDenylist) GetDirectory(ctx context.Context, kind string) ([]byte, error) {
	return nil, errCacheMiss
}
func (f *fakeDenylist) SetDirectory(ctx context.Context, kind string, data interface{}) error {
	return nil
}

func (f *fakeDenylist) GetEvents(ctx context.Context, communityID string) ([]byte, error) {
	return nil, errCacheMiss
}
func (f *fakeDenylist) SetEvents(ctx context.Context, communityID string, data interface{}) error {
	return nil
}
func (f *fakeDenylist) InvalidateEvents(ctx context.Context, communityID string) error { return nil }

func (f *fakeDenylist) DenyToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	f.denied[tokenID] = true
	return nil
}

func (f *fakeDenylist) IsTokenDenied(ctx context.Context, tokenID string) (bool, error) {
	return f.denied[tokenID], nil
}

func (f *fakeDenylist) IsAvailable() bool { return true }

func (f *fakeDenylist) Ping(ctx context.Context) error { return nil }
