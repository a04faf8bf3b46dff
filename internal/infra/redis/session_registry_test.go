package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"quizhost/internal/app"
)

func TestSessionRegistrySetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	registry := NewSessionRegistry(newClient(mr), time.Minute)

	registry.Put(app.NewSession("s1", sampleContent()))
	if !mr.Exists("take:session:s1") {
		t.Fatalf("expected redis liveness key to be set")
	}
	if _, ok := registry.Get("s1"); !ok {
		t.Fatalf("expected session to resolve")
	}

	registry.Delete("s1")
	if mr.Exists("take:session:s1") {
		t.Fatalf("expected redis liveness key to be removed")
	}
	if _, ok := registry.Get("s1"); ok {
		t.Fatalf("deleted session must not resolve")
	}
}

func TestSessionRegistryExpiredKeyStopsResolving(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	registry := NewSessionRegistry(newClient(mr), time.Minute)
	registry.Put(app.NewSession("s1", sampleContent()))

	mr.FastForward(2 * time.Minute)
	if _, ok := registry.Get("s1"); ok {
		t.Fatalf("session must not resolve after the liveness key expires")
	}

	// The expired lookup also dropped the local entry; a fresh Put re-registers.
	registry.Put(app.NewSession("s1", sampleContent()))
	if _, ok := registry.Get("s1"); !ok {
		t.Fatalf("re-registered session must resolve")
	}
}
