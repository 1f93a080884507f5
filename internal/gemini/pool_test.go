package gemini

import (
	"errors"
	"testing"
)

func TestPoolPickEmpty(t *testing.T) {
	p := NewPool(nil, nil)
	if _, err := p.Pick(); !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("want ErrNoCredentials, got %v", err)
	}
}

func TestPoolFiltersEmptyKeys(t *testing.T) {
	p := NewPool([]string{"", "  ", "key-a", "", "key-b "}, nil)
	if p.Size() != 2 {
		t.Fatalf("want 2 keys, got %d", p.Size())
	}
}

func TestPoolDeterministicPick(t *testing.T) {
	p := NewPool([]string{"key-a", "key-b", "key-c"}, func(n int) int { return 1 })
	for i := 0; i < 3; i++ {
		k, err := p.Pick()
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if k != "key-b" {
			t.Fatalf("want key-b, got %q", k)
		}
	}
}

func TestKeysFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "one, two")
	t.Setenv("GOOGLE_API_KEY1", "three")
	t.Setenv("GOOGLE_API_KEY2", "")
	t.Setenv("GOOGLE_API_KEY3", "four")

	keys := KeysFromEnv()
	want := []string{"one", "two", "three", "four"}
	if len(keys) != len(want) {
		t.Fatalf("want %d keys, got %v", len(want), keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("key %d: want %q got %q", i, want[i], keys[i])
		}
	}
}

func TestKeysFromEnvEmpty(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	for i := 1; i <= 9; i++ {
		t.Setenv("GOOGLE_API_KEY"+string(rune('0'+i)), "")
	}
	if keys := KeysFromEnv(); len(keys) != 0 {
		t.Fatalf("want no keys, got %v", keys)
	}
}
