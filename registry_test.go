package attrpool

import (
	"errors"
	"testing"
)

func namedDesc(name string) Description {
	return Description{
		Name:       name,
		Attributes: []AttributeDescription{{Name: "value"}},
	}
}

func TestRegistry(t *testing.T) {
	t.Run("Add and Get", func(t *testing.T) {
		r := &Registry{}
		s := MustSchema(namedDesc("a"))
		id, err := r.Add(s)
		if err != nil {
			t.Fatal(err)
		}
		if id != 0 {
			t.Errorf("expected id 0, got %d", id)
		}
		if got := r.Get(0); got != s {
			t.Errorf("expected %p, got %p", s, got)
		}
	})

	t.Run("Has", func(t *testing.T) {
		r := &Registry{}
		if _, err := r.Add(MustSchema(namedDesc("a"))); err != nil {
			t.Fatal(err)
		}
		if !r.Has(0) {
			t.Error("expected true")
		}
		if r.Has(1) {
			t.Error("expected false")
		}
		if r.Has(-1) {
			t.Error("expected false")
		}
	})

	t.Run("Add same name fails", func(t *testing.T) {
		r := &Registry{}
		if _, err := r.Add(MustSchema(namedDesc("a"))); err != nil {
			t.Fatal(err)
		}
		_, err := r.Add(MustSchema(namedDesc("a")))
		if !errors.Is(err, ErrSchemaViolation) {
			t.Errorf("expected ErrSchemaViolation, got %v", err)
		}
	})

	t.Run("Add unnamed fails", func(t *testing.T) {
		r := &Registry{}
		if _, err := r.Add(MustSchema(namedDesc(""))); err == nil {
			t.Error("expected error")
		}
		if _, err := r.Add(nil); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("Remove", func(t *testing.T) {
		r := &Registry{}
		id, _ := r.Add(MustSchema(namedDesc("a")))
		r.Remove(id)
		if r.Has(id) {
			t.Error("expected false")
		}
		if _, ok := r.Lookup("a"); ok {
			t.Error("expected name to be released")
		}
		r.Remove(id) // no panic on double remove
	})

	t.Run("Reuse ID", func(t *testing.T) {
		r := &Registry{}
		r.Add(MustSchema(namedDesc("a")))
		id2, _ := r.Add(MustSchema(namedDesc("b")))
		r.Remove(0)
		id3, _ := r.Add(MustSchema(namedDesc("c")))
		if id3 != 0 {
			t.Errorf("expected reused id 0, got %d", id3)
		}
		if r.Get(id2).Name() != "b" {
			t.Error("expected b to keep its id")
		}
		if got := r.Names(); len(got) != 2 || got[0] != "c" || got[1] != "b" {
			t.Errorf("unexpected names %v", got)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		r := &Registry{}
		r.Add(MustSchema(namedDesc("a")))
		r.Add(MustSchema(namedDesc("b")))
		r.Clear()
		if r.Len() != 0 {
			t.Errorf("expected 0, got %d", r.Len())
		}
		if r.Has(0) {
			t.Error("expected false")
		}
		if id, _ := r.Add(MustSchema(namedDesc("a"))); id != 0 {
			t.Errorf("expected id 0 after clear, got %d", id)
		}
	})

	t.Run("NewRegistry wraps schema errors", func(t *testing.T) {
		bad := namedDesc("bad")
		bad.VerticesPerObject = -1
		_, err := NewRegistry(namedDesc("ok"), bad)
		if !errors.Is(err, ErrSchemaViolation) {
			t.Errorf("expected ErrSchemaViolation, got %v", err)
		}
	})
}
