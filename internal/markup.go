package internal

import (
	"encoding/xml"
	"io"
	"strings"
)

// textKey holds element text when the element also has attributes or children
const textKey = "#text"

// Markup is the nested mapping parsed from an XML-like message payload.
// Nested elements are map[string]interface{}, repeated elements []interface{},
// leaf elements and attributes string.
type Markup map[string]interface{}

// Map returns the nested mapping under key, or an empty Markup. For a
// repeated element the first occurrence is used.
func (m Markup) Map(key string) Markup {
	switch v := m[key].(type) {
	case map[string]interface{}:
		return Markup(v)
	case []interface{}:
		if len(v) > 0 {
			if first, ok := v[0].(map[string]interface{}); ok {
				return Markup(first)
			}
		}
	}
	return Markup{}
}

// String returns the text under key, or "" when it is missing or not text
func (m Markup) String(key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case map[string]interface{}:
		if s, ok := v[textKey].(string); ok {
			return s
		}
	case []interface{}:
		if len(v) > 0 {
			return Markup{key: v[0]}.String(key)
		}
	}
	return ""
}

type markupNode struct {
	name     string
	attrs    []xml.Attr
	children []*markupNode
	text     strings.Builder
}

// ParseMarkup parses text into a Markup with the root element unwrapped:
// its attributes and children become the top-level keys. Input is parsed
// leniently and never fails; on a syntax error whatever was read up to that
// point is returned, possibly an empty Markup.
func ParseMarkup(text string) Markup {
	text = strings.TrimSpace(text)
	if text == "" {
		return Markup{}
	}

	dec := xml.NewDecoder(strings.NewReader(text))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var root *markupNode
	var stack []*markupNode
	for {
		tok, err := dec.Token()
		if err != nil {
			if err != io.EOF {
				LogDebug("markup parse stopped early: %v", err)
			}
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &markupNode{name: t.Name.Local, attrs: t.Attr}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, node)
			} else if root == nil {
				root = node
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}

		if root != nil && len(stack) == 0 {
			break
		}
	}

	if root == nil {
		return Markup{}
	}
	if m, ok := root.value().(map[string]interface{}); ok {
		return Markup(m)
	}
	return Markup{}
}

// value renders a node as a string when it is a plain text leaf, otherwise
// as a mapping of attributes and children
func (n *markupNode) value() interface{} {
	text := strings.TrimSpace(n.text.String())
	if len(n.attrs) == 0 && len(n.children) == 0 {
		return text
	}

	m := make(map[string]interface{}, len(n.attrs)+len(n.children))
	for _, attr := range n.attrs {
		m[attr.Name.Local] = attr.Value
	}
	for _, child := range n.children {
		v := child.value()
		switch existing := m[child.name].(type) {
		case nil:
			m[child.name] = v
		case []interface{}:
			m[child.name] = append(existing, v)
		default:
			m[child.name] = []interface{}{existing, v}
		}
	}
	if text != "" {
		m[textKey] = text
	}
	return m
}
