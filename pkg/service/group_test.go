package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeService struct {
	name string
	err  error
}

func (f fakeService) Name() string { return f.name }

func (f fakeService) Run(ctx context.Context) error {
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return nil
}

func TestGroupStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- Group{fakeService{name: "a"}, fakeService{name: "b"}}.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("group did not stop")
	}
}

func TestGroupCollectsFailures(t *testing.T) {
	boom := errors.New("boom")

	err := Group{fakeService{name: "http_server", err: boom}, fakeService{name: "idle"}}.Run(context.Background())

	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if !strings.Contains(err.Error(), "http_server: boom") {
		t.Errorf("expected service name in %q", err.Error())
	}
}
