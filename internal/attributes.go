package internal

import (
	"fmt"
	"unicode/utf8"
)

// ValueKind identifies which variant of Value is populated
type ValueKind int

const (
	KindInvalid ValueKind = iota
	KindVarint
	KindFixed32
	KindFixed64
	KindString
	KindBytes
	KindMessage
	KindList
)

func (k ValueKind) String() string {
	switch k {
	case KindVarint:
		return "varint"
	case KindFixed32:
		return "fixed32"
	case KindFixed64:
		return "fixed64"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindMessage:
		return "message"
	case KindList:
		return "list"
	default:
		return "invalid"
	}
}

// Value is one decoded field of an attribute blob. The zero Value stands for
// an absent field, so lookups can be chained without checks.
type Value struct {
	Kind    ValueKind
	Uint    uint64
	Raw     []byte
	Message *Attributes
	Items   []Value
}

// IsValid reports whether the value was present in the blob
func (v Value) IsValid() bool {
	return v.Kind != KindInvalid
}

// Get returns field tag of a nested message value
func (v Value) Get(tag string) Value {
	if v.Kind != KindMessage {
		return Value{}
	}
	return v.Message.Get(tag)
}

// Index returns entry i of a repeated field. A field that appeared once is
// treated as a list of one.
func (v Value) Index(i int) Value {
	switch {
	case v.Kind == KindList:
		if i < 0 || i >= len(v.Items) {
			return Value{}
		}
		return v.Items[i]
	case v.IsValid() && i == 0:
		return v
	default:
		return Value{}
	}
}

// Bytes returns the payload of a string or bytes value
func (v Value) Bytes() ([]byte, bool) {
	if v.Kind != KindString && v.Kind != KindBytes {
		return nil, false
	}
	return v.Raw, true
}

// Text returns the payload of a string or bytes value decoded as lenient UTF-8,
// or "" for any other kind
func (v Value) Text() string {
	b, ok := v.Bytes()
	if !ok {
		return ""
	}
	return lenientUTF8(b)
}

// Interface converts the value into plain Go values for YAML/JSON dumps
func (v Value) Interface() interface{} {
	switch v.Kind {
	case KindVarint, KindFixed32, KindFixed64:
		return v.Uint
	case KindString:
		return string(v.Raw)
	case KindBytes:
		if utf8.Valid(v.Raw) {
			return string(v.Raw)
		}
		return fmt.Sprintf("[binary: %d bytes]", len(v.Raw))
	case KindMessage:
		return v.Message.Interface()
	case KindList:
		items := make([]interface{}, 0, len(v.Items))
		for _, item := range v.Items {
			items = append(items, item.Interface())
		}
		return items
	default:
		return nil
	}
}

// Attributes is a decoded message: fields keyed by decimal tag in wire order
type Attributes struct {
	fields map[string]Value
	order  []string
}

func newAttributes() *Attributes {
	return &Attributes{fields: make(map[string]Value)}
}

// add appends a field, turning a repeated tag into a list
func (a *Attributes) add(tag string, v Value) {
	existing, ok := a.fields[tag]
	switch {
	case !ok:
		a.fields[tag] = v
		a.order = append(a.order, tag)
	case existing.Kind == KindList:
		existing.Items = append(existing.Items, v)
		a.fields[tag] = existing
	default:
		a.fields[tag] = Value{Kind: KindList, Items: []Value{existing, v}}
	}
}

// Get returns the field with the given tag, or the zero Value. Safe on nil.
func (a *Attributes) Get(tag string) Value {
	if a == nil {
		return Value{}
	}
	return a.fields[tag]
}

// Len returns the number of distinct tags
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.order)
}

// Tags returns the distinct tags in the order they first appeared
func (a *Attributes) Tags() []string {
	if a == nil {
		return nil
	}
	tags := make([]string, len(a.order))
	copy(tags, a.order)
	return tags
}

// Strings returns every text-bearing leaf in wire order, depth first
func (a *Attributes) Strings() []string {
	var out []string
	a.walkStrings(func(s string) { out = append(out, s) })
	return out
}

func (a *Attributes) walkStrings(fn func(string)) {
	if a == nil {
		return
	}
	for _, tag := range a.order {
		walkValueStrings(a.fields[tag], fn)
	}
}

func walkValueStrings(v Value, fn func(string)) {
	switch v.Kind {
	case KindString, KindBytes:
		fn(v.Text())
	case KindMessage:
		v.Message.walkStrings(fn)
	case KindList:
		for _, item := range v.Items {
			walkValueStrings(item, fn)
		}
	}
}

// Interface converts the message into a map[string]interface{} tree
func (a *Attributes) Interface() map[string]interface{} {
	if a == nil {
		return nil
	}
	out := make(map[string]interface{}, len(a.order))
	for _, tag := range a.order {
		out[tag] = a.fields[tag].Interface()
	}
	return out
}
