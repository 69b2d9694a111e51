package csvstream

import "testing"

func TestTextBuffer_AppendAndTake(t *testing.T) {
	b := newTextBuffer(4)
	b.Append([]byte("héllo\n"))
	b.Append([]byte("wörld€\n"))

	if b.Len() != 13 {
		t.Fatalf("Len() = %d, want 13", b.Len())
	}

	got := string(b.Take(3, nil))
	if got != "hél" {
		t.Errorf("Take(3) = %q, want %q", got, "hél")
	}
	if b.Len() != 10 {
		t.Errorf("Len() after Take = %d, want 10", b.Len())
	}

	got = string(b.Take(9, []byte(">")))
	if got != ">lo\nwörld€" {
		t.Errorf("Take(9) = %q, want %q", got, ">lo\nwörld€")
	}

	got = string(b.Take(100, nil))
	if got != "\n" {
		t.Errorf("Take(100) = %q, want %q", got, "\n")
	}
	if b.Len() != 0 {
		t.Errorf("Len() after draining = %d, want 0", b.Len())
	}
}

func TestTextBuffer_ReusesBackingArray(t *testing.T) {
	b := newTextBuffer(64)
	b.Append([]byte("0123456789"))
	before := cap(b.data)

	for i := 0; i < 100; i++ {
		b.Take(5, nil)
		b.Append([]byte("abcde"))
	}

	if cap(b.data) != before {
		t.Errorf("cap changed from %d to %d, expected the arena to be reused", before, cap(b.data))
	}
	if b.Len() != 10 {
		t.Errorf("Len() = %d, want 10", b.Len())
	}
}

func TestTextBuffer_AppendFunc(t *testing.T) {
	b := newTextBuffer(0)
	b.appendFunc(func(dst []byte) []byte {
		return append(dst, "ça va"...)
	})
	if b.Len() != 5 {
		t.Errorf("Len() = %d, want 5", b.Len())
	}
}
