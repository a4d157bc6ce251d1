package internal

import (
	"reflect"
	"testing"
)

func TestParseMarkup(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Markup
	}{
		{
			name: "empty",
			text: "   ",
			want: Markup{},
		},
		{
			name: "root unwrapped with attributes",
			text: `<msg><voicemsg voicelength="2500" clientmsgid="abc"/></msg>`,
			want: Markup{"voicemsg": map[string]interface{}{"voicelength": "2500", "clientmsgid": "abc"}},
		},
		{
			name: "leaf elements become strings",
			text: "<msg><appmsg><title> hello </title><des>world</des></appmsg></msg>",
			want: Markup{"appmsg": map[string]interface{}{"title": "hello", "des": "world"}},
		},
		{
			name: "repeated elements become a list",
			text: "<recordinfo><item>a</item><item>b</item></recordinfo>",
			want: Markup{"item": []interface{}{"a", "b"}},
		},
		{
			name: "text next to attributes",
			text: `<msg><title lang="en">Report</title></msg>`,
			want: Markup{"title": map[string]interface{}{"lang": "en", textKey: "Report"}},
		},
		{
			name: "entities decoded",
			text: "<msg><content>a &lt;b&gt; &amp; c</content></msg>",
			want: Markup{"content": "a <b> & c"},
		},
		{
			name: "not markup",
			text: "just some words",
			want: Markup{},
		},
		{
			name: "truncated keeps what was read",
			text: "<msg><appmsg><title>cut",
			want: Markup{"appmsg": map[string]interface{}{"title": "cut"}},
		},
		{
			name: "declaration before root",
			text: `<?xml version="1.0" encoding="gbk"?><msg><a>1</a></msg>`,
			want: Markup{"a": "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMarkup(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseMarkup() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestMarkup_Accessors(t *testing.T) {
	m := ParseMarkup(`<msg>
		<appmsg><title>first</title></appmsg>
		<appmsg><title>second</title></appmsg>
		<emoji cdnurl="http://cdn/x.gif"/>
		<note lang="en">text with attr</note>
	</msg>`)

	if got := m.Map("appmsg").String("title"); got != "first" {
		t.Errorf("Map(appmsg) on repeated element = %q, want first", got)
	}
	if got := m.Map("emoji").String("cdnurl"); got != "http://cdn/x.gif" {
		t.Errorf("attribute lookup = %q", got)
	}
	if got := m.String("note"); got != "text with attr" {
		t.Errorf("String(note) = %q, want element text", got)
	}
	if got := m.Map("missing").Map("deeper").String("x"); got != "" {
		t.Errorf("missing chain = %q, want empty", got)
	}
	if got := m.String("appmsg"); got != "" {
		t.Errorf("String on a mapping without text = %q, want empty", got)
	}
}
