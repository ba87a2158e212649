package core

import "testing"

func TestRouteFile(t *testing.T) {
	tests := []struct {
		name       string
		wantMode   Mode
		wantReason ReasonCode
		wantOK     bool
	}{
		{"roster.csv", ModeDelimited, "", true},
		{"ROSTER.CSV", ModeDelimited, "", true},
		{"export.tsv", ModeDelimited, "", true},
		{"names.txt", ModeLines, "", true},
		{"scan.pdf", 0, ReasonUnsupportedFormat, false},
		{"list.doc", 0, ReasonUnsupportedFormat, false},
		{"list.DOCX", 0, ReasonUnsupportedFormat, false},
		{"sheet.xlsx", 0, ReasonUnsupportedType, false},
		{"noextension", 0, ReasonUnsupportedType, false},
		{"archive.csv.zip", 0, ReasonUnsupportedType, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, reason, ok := RouteFile(tt.name)
			if ok != tt.wantOK || reason != tt.wantReason || (ok && mode != tt.wantMode) {
				t.Errorf("RouteFile(%q) = (%v, %q, %v), want (%v, %q, %v)",
					tt.name, mode, reason, ok, tt.wantMode, tt.wantReason, tt.wantOK)
			}
		})
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"a.csv":      "CSV",
		"b.Tsv":      "TSV",
		"c":          "",
		"dir/d.docx": "DOCX",
		".hidden":    "HIDDEN",
	}
	for in, want := range tests {
		if got := Extension(in); got != want {
			t.Errorf("Extension(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIngestPaste(t *testing.T) {
	p := DefaultPipeline()

	tests := []struct {
		name      string
		raw       string
		wantMode  Mode
		wantNames []string
	}{
		{
			name:      "delimited with known header",
			raw:       "nombre,categoria\nAna,Pintora\nLuis,Plomero",
			wantMode:  ModeDelimited,
			wantNames: []string{"Ana", "Luis"},
		},
		{
			name:      "list of names",
			raw:       "Maria Lopez\nCarlos Ruiz",
			wantMode:  ModeLines,
			wantNames: []string{"Maria Lopez", "Carlos Ruiz"},
		},
		{
			name:      "header without data falls back to lines",
			raw:       "name",
			wantMode:  ModeLines,
			wantNames: []string{"name"},
		},
		{
			name:      "names with commas",
			raw:       "Perez, Juan\nRuiz, Carlos",
			wantMode:  ModeLines,
			wantNames: []string{"Perez, Juan", "Ruiz, Carlos"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, mode := p.IngestPaste(tt.raw, "Manual")
			if mode != tt.wantMode {
				t.Errorf("mode = %v, want %v", mode, tt.wantMode)
			}
			if len(records) != len(tt.wantNames) {
				t.Fatalf("len(records) = %d, want %d", len(records), len(tt.wantNames))
			}
			for i, want := range tt.wantNames {
				if records[i].Name != want {
					t.Errorf("records[%d].Name = %q, want %q", i, records[i].Name, want)
				}
				if records[i].Source != "Manual" {
					t.Errorf("records[%d].Source = %q, want Manual", i, records[i].Source)
				}
			}
		})
	}
}
