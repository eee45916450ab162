package storage

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"
)

func testStore(t *testing.T, s Store) {
	t.Helper()

	if _, ok, err := s.Get("missing"); ok || err != nil {
		t.Errorf("Get(missing) = %v, %v; want false, nil", ok, err)
	}

	value := []byte{1, 2, 3}
	if err := s.Set("b", value); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value[0] = 9

	got, ok, err := s.Get("b")
	if err != nil || !ok {
		t.Fatalf("Get(b) = %v, %v", ok, err)
	}
	if !slices.Equal(got, []byte{1, 2, 3}) {
		t.Errorf("Get(b) = %v, want [1 2 3]", got)
	}

	if err := s.Set("a", []byte("x")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if !slices.Equal(keys, []string{"a", "b"}) {
		t.Errorf("Keys() = %v, want [a b]", keys)
	}

	if err := s.Delete("a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get("a"); ok {
		t.Error("a still present after Delete")
	}
}

func TestMemStore(t *testing.T) {
	s := NewMemStore()
	testStore(t, s)

	s.Close()
	if err := s.Set("k", nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Set after Close = %v, want ErrClosed", err)
	}
}

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "assets.db")
	s, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt: %v", err)
	}
	testStore(t, s)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = OpenBolt(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, ok, err := s.Get("b")
	if err != nil || !ok || !slices.Equal(got, []byte{1, 2, 3}) {
		t.Errorf("after reopen Get(b) = %v, %v, %v", got, ok, err)
	}
}
