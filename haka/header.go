package haka

// A Field is one name/value header pair.
type Field struct {
	Name  string
	Value string
}

// Header is an ordered, single-valued header collection. Names are
// stored with the case they were given and compared exactly; setting
// an existing name overwrites its value in place, so serialization
// order is insertion order.
type Header struct {
	fields []Field
}

// Get returns the value stored under name, or "" if absent.
func (h *Header) Get(name string) string {
	for _, f := range h.fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// Set stores value under name. An existing entry keeps its position;
// a new name is appended.
func (h *Header) Set(name, value string) {
	for i, f := range h.fields {
		if f.Name == name {
			h.fields[i].Value = value
			return
		}
	}
	h.fields = append(h.fields, Field{Name: name, Value: value})
}

// Del removes the entry stored under name, if any.
func (h *Header) Del(name string) {
	for i, f := range h.fields {
		if f.Name == name {
			h.fields = append(h.fields[:i], h.fields[i+1:]...)
			return
		}
	}
}

// Len returns the number of stored fields.
func (h *Header) Len() int { return len(h.fields) }

// Fields returns the stored fields in insertion order. The slice is
// shared with the Header; callers must not modify it.
func (h *Header) Fields() []Field { return h.fields }
