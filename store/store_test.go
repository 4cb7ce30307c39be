package store

import (
	"context"
	"testing"
)

func TestKey(t *testing.T) {
	if got := Key("abc"); got != "scrollRestoration-abc" {
		t.Fatalf("expected scrollRestoration-abc, got %q", got)
	}
}

func TestDecodeOffsetMalformedReadsAsAbsent(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"garbage", "not json"},
		{"wrong type", `"250"`},
		{"truncated", `{"top": 250, "le`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := decodeOffset([]byte(tc.data)); ok {
				t.Fatalf("expected malformed data to read as absent")
			}
		})
	}
}

func TestDecodeOffsetValid(t *testing.T) {
	off, ok := decodeOffset([]byte(`{"top": 250, "left": 10}`))
	if !ok {
		t.Fatal("expected record to decode")
	}
	if off.Top != 250 || off.Left != 10 {
		t.Fatalf("unexpected offset: %+v", off)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	if _, ok, err := m.Get(ctx, Key("a")); err != nil || ok {
		t.Fatalf("expected absent on fresh store, got ok=%v err=%v", ok, err)
	}

	want := Offset{Top: 100, Left: 5}
	if err := m.Set(ctx, Key("a"), want); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := m.Get(ctx, Key("a"))
	if err != nil || !ok {
		t.Fatalf("expected record, got ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	// Records under other keys stay isolated.
	if _, ok, _ := m.Get(ctx, Key("b")); ok {
		t.Fatal("expected absent under unrelated key")
	}
}

func TestNoopStoreDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	n := NewNoopStore()

	if err := n.Set(ctx, Key("a"), Offset{Top: 1}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, err := n.Get(ctx, Key("a")); err != nil || ok {
		t.Fatalf("expected absent after no-op set, got ok=%v err=%v", ok, err)
	}
	if err := n.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
