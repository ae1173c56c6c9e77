package docid

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "cpf with punctuation", input: "111.222.333-44", want: "11122233344"},
		{name: "rg with dots and digit suffix", input: "12.345.678-9", want: "123456789"},
		{name: "already normalized", input: "11122233344", want: "11122233344"},
		{name: "internal whitespace", input: " 111 222 333 44 ", want: "11122233344"},
		{name: "letters stripped", input: "doc 123x456", want: "123456"},
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: "   ", want: ""},
		{name: "no digits at all", input: "n/a", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"111.222.333-44", "12.345.678-9", "", "abc", "00-11"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{name: "punctuation insensitive", a: "111.222.333-44", b: "11122233344", want: true},
		{name: "different documents", a: "11122233344", b: "55566677788", want: false},
		{name: "both empty never match", a: "", b: "", want: false},
		{name: "digit-free never matches", a: "---", b: "---", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestKey(t *testing.T) {
	if got := Key("111.222.333-44", "12.345.678-9"); got != "11122233344" {
		t.Errorf("Key preferred secondary over primary: %q", got)
	}
	if got := Key("", "12.345.678-9"); got != "123456789" {
		t.Errorf("Key did not fall back to secondary: %q", got)
	}
	if got := Key("n/a", ""); got != "" {
		t.Errorf("Key for unusable documents = %q, want empty", got)
	}
}
