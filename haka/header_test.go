package haka

import "testing"

func TestHeaderSetGet(t *testing.T) {
	var h Header
	h.Set("Content-Type", "text/plain")
	h.Set("X-Foo", "a")
	if got := h.Get("Content-Type"); got != "text/plain" {
		t.Fatalf("Get = %q", got)
	}
	if got := h.Get("Missing"); got != "" {
		t.Fatalf("Get missing = %q, want empty", got)
	}
}

func TestHeaderLastWriteWinsKeepsPosition(t *testing.T) {
	var h Header
	h.Set("A", "1")
	h.Set("B", "2")
	h.Set("A", "3")
	if got := h.Get("A"); got != "3" {
		t.Fatalf("A = %q, want 3", got)
	}
	fields := h.Fields()
	if len(fields) != 2 {
		t.Fatalf("len = %d, want 2", len(fields))
	}
	if fields[0] != (Field{"A", "3"}) || fields[1] != (Field{"B", "2"}) {
		t.Fatalf("fields = %v", fields)
	}
}

func TestHeaderNamesCompareExactly(t *testing.T) {
	var h Header
	h.Set("x-foo", "lower")
	h.Set("X-Foo", "upper")
	if got := h.Get("x-foo"); got != "lower" {
		t.Fatalf("x-foo = %q", got)
	}
	if got := h.Get("X-Foo"); got != "upper" {
		t.Fatalf("X-Foo = %q", got)
	}
	if h.Len() != 2 {
		t.Fatalf("Len = %d, want 2", h.Len())
	}
}

func TestHeaderDel(t *testing.T) {
	var h Header
	h.Set("A", "1")
	h.Set("B", "2")
	h.Del("A")
	if h.Get("A") != "" || h.Len() != 1 {
		t.Fatalf("after Del: %v", h.Fields())
	}
	h.Del("A") // absent, no-op
	if h.Len() != 1 {
		t.Fatalf("Del of absent name changed fields: %v", h.Fields())
	}
}
