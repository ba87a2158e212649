package core

import (
	"reflect"
	"testing"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Separator
	}{
		{"comma only", "name,phone,category", SeparatorComma},
		{"tab only", "name\tphone\tcategory", SeparatorTab},
		{"tab and comma", "name,first\tphone", SeparatorTab},
		{"no separator", "name", SeparatorComma},
		{"empty", "", SeparatorComma},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sniff(tt.line); got != tt.want {
				t.Errorf("Sniff(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseDelimited(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []RawRow
	}{
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
		{
			name: "whitespace only",
			raw:  "  \n\t\n \r\n",
			want: nil,
		},
		{
			name: "header only",
			raw:  "name,phone\n",
			want: []RawRow{},
		},
		{
			name: "header is lowercased and trimmed",
			raw:  " Nombre , TELEFONO \nJuan,555",
			want: []RawRow{{"nombre": "Juan", "telefono": "555"}},
		},
		{
			name: "crlf line endings",
			raw:  "name,phone\r\nAna,1\r\nLuis,2\r\n",
			want: []RawRow{
				{"name": "Ana", "phone": "1"},
				{"name": "Luis", "phone": "2"},
			},
		},
		{
			name: "blank lines dropped anywhere",
			raw:  "\n\nname,phone\n\nAna,1\n   \nLuis,2\n\n",
			want: []RawRow{
				{"name": "Ana", "phone": "1"},
				{"name": "Luis", "phone": "2"},
			},
		},
		{
			name: "short line padded with empty cells",
			raw:  "name,phone,email\nAna",
			want: []RawRow{{"name": "Ana", "phone": "", "email": ""}},
		},
		{
			name: "extra cells dropped",
			raw:  "name,phone\nAna,1,extra,more",
			want: []RawRow{{"name": "Ana", "phone": "1"}},
		},
		{
			name: "cells trimmed",
			raw:  "name,phone\n  Ana  ,  1  ",
			want: []RawRow{{"name": "Ana", "phone": "1"}},
		},
		{
			name: "duplicate header keeps right-most column",
			raw:  "name,name\nfirst,second",
			want: []RawRow{{"name": "second"}},
		},
		{
			name: "tab separated keeps commas in cells",
			raw:  "name\taddress\nAna\tCalle 1, Lima",
			want: []RawRow{{"name": "Ana", "address": "Calle 1, Lima"}},
		},
		{
			name: "quotes are not special",
			raw:  "name,address\nAna,\"Calle 1, Lima\"",
			want: []RawRow{{"name": "Ana", "address": "\"Calle 1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDelimited(tt.raw, "src")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseDelimited(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseDelimited_RowCountMatchesDataLines(t *testing.T) {
	raw := "name,category\nA,x\nB,y\n\nC,z\nD,w\nE,v\n"
	rows := ParseDelimited(raw, "src")

	if len(rows) != 5 {
		t.Fatalf("len(rows) = %d, want 5", len(rows))
	}
	for i, want := range []string{"A", "B", "C", "D", "E"} {
		if rows[i]["name"] != want {
			t.Errorf("rows[%d][name] = %q, want %q", i, rows[i]["name"], want)
		}
	}
}

func TestParseLines(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []RawRow
	}{
		{"empty", "", nil},
		{"two names", "Maria Lopez\nCarlos Ruiz\n", []RawRow{{"name": "Maria Lopez"}, {"name": "Carlos Ruiz"}}},
		{"trims and drops blanks", "  Ana  \r\n\r\n\tLuis\n", []RawRow{{"name": "Ana"}, {"name": "Luis"}}},
		{"commas are not split", "Perez, Juan", []RawRow{{"name": "Perez, Juan"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLines(tt.raw, "src")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseLines(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestHeader(t *testing.T) {
	got := Header("\n Name \t Phone\nAna\t1")
	want := []string{"name", "phone"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Header = %v, want %v", got, want)
	}

	if got := Header("  \n"); got != nil {
		t.Errorf("Header(blank) = %v, want nil", got)
	}
}
