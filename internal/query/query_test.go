package query

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		href string
		want []Param
	}{
		{
			name: "two parameters keep order",
			href: "http://localhost:8080/item?a=1&b=2",
			want: []Param{
				{Name: "a", Value: "1", Present: true},
				{Name: "b", Value: "2", Present: true},
			},
		},
		{
			name: "no question mark",
			href: "http://localhost:8080/item",
			want: []Param{},
		},
		{
			name: "question mark first",
			href: "?a=1&b=2",
			want: []Param{},
		},
		{
			name: "empty address",
			href: "",
			want: []Param{},
		},
		{
			name: "fragment without equals is absent",
			href: "/index?debug&name=web",
			want: []Param{
				{Name: "debug"},
				{Name: "name", Value: "web", Present: true},
			},
		},
		{
			name: "empty value is present",
			href: "/index?name=",
			want: []Param{
				{Name: "name", Value: "", Present: true},
			},
		},
		{
			name: "whitespace is trimmed",
			href: "/index? a = 1 & b=2 ",
			want: []Param{
				{Name: "a", Value: "1", Present: true},
				{Name: "b", Value: "2", Present: true},
			},
		},
		{
			name: "value keeps text after first equals",
			href: "/index?token=abc==&x=1",
			want: []Param{
				{Name: "token", Value: "abc==", Present: true},
				{Name: "x", Value: "1", Present: true},
			},
		},
		{
			name: "no percent decoding",
			href: "/index?q=hello%20world",
			want: []Param{
				{Name: "q", Value: "hello%20world", Present: true},
			},
		},
		{
			name: "duplicate name last write wins in first position",
			href: "/index?a=1&b=2&a=3",
			want: []Param{
				{Name: "a", Value: "3", Present: true},
				{Name: "b", Value: "2", Present: true},
			},
		},
		{
			name: "trailing ampersand yields empty name",
			href: "/index?a=1&",
			want: []Param{
				{Name: "a", Value: "1", Present: true},
				{Name: ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.href).All()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.href, got, tt.want)
			}
		})
	}
}

func TestParamsGet(t *testing.T) {
	params := Parse("/index?a=1&flag")

	if v, ok := params.Get("a"); !ok || v != "1" {
		t.Errorf("Get(a) = %q, %v, want \"1\", true", v, ok)
	}
	if v, ok := params.Get("flag"); ok || v != "" {
		t.Errorf("Get(flag) = %q, %v, want absent", v, ok)
	}
	if !params.Has("flag") {
		t.Error("Has(flag) = false, want true")
	}
	if params.Has("missing") {
		t.Error("Has(missing) = true, want false")
	}
	if params.Len() != 2 {
		t.Errorf("Len() = %d, want 2", params.Len())
	}
}

func TestFromLocation(t *testing.T) {
	params := FromLocation(StaticLocation("https://deploy.example.com/item/web?stage=build"))
	if got := params.Names(); !reflect.DeepEqual(got, []string{"stage"}) {
		t.Errorf("Names() = %v, want [stage]", got)
	}
}

func TestParamsMarshalJSON(t *testing.T) {
	data, err := Parse("/index?b=2&a=&c").MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	want := `{"b":"2","a":"","c":null}`
	if string(data) != want {
		t.Errorf("MarshalJSON() = %s, want %s", data, want)
	}
}

// TestParse_WellFormed_Property proves well-formed queries round-trip in order.
func TestParse_WellFormed_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		names := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z][a-z0-9_]{0,8}`), 1, 6, rapid.ID[string]).Draw(rt, "names")
		values := make([]string, len(names))
		fragments := make([]string, len(names))
		for i, name := range names {
			values[i] = rapid.StringMatching(`[A-Za-z0-9%.-]{0,10}`).Draw(rt, fmt.Sprintf("value%d", i))
			fragments[i] = name + "=" + values[i]
		}

		params := Parse("http://localhost/page?" + strings.Join(fragments, "&"))

		if !reflect.DeepEqual(params.Names(), names) {
			rt.Fatalf("Names() = %v, want %v", params.Names(), names)
		}
		for i, name := range names {
			got, ok := params.Get(name)
			if !ok || got != values[i] {
				rt.Fatalf("Get(%q) = %q, %v, want %q", name, got, ok, values[i])
			}
		}
	})
}

// TestParse_NoQuery_Property proves addresses without a query are empty.
func TestParse_NoQuery_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		href := rapid.StringMatching(`[a-z:/.0-9=&]{0,30}`).Draw(rt, "href")
		if Parse(href).Len() != 0 {
			rt.Fatalf("Parse(%q) should be empty", href)
		}
		if Parse("?"+href).Len() != 0 {
			rt.Fatalf("Parse(%q) should be empty", "?"+href)
		}
	})
}
