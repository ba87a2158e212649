package core

import (
	"sync"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"Electricista", "electricista"},
		{"ELÉCTRICO", "electrico"},
		{"  Albañil  ", "albanil"},
		{"Plomero   de\toficio", "plomero_de_oficio"},
		{"Técnico en Climatización", "tecnico_en_climatizacion"},
		{"general_laborer", "general_laborer"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		label string
		want  Category
	}{
		{"", CategoryOther},
		{"   ", CategoryOther},
		{"Electricista", CategoryElectrician},
		{"electrician", CategoryElectrician},
		{"ELÉCTRICO", CategoryElectrician},
		{"plomero de oficio", CategoryPlumber},
		{"Fontanero", CategoryPlumber},
		{"Carpintero", CategoryCarpenter},
		{"Ebanista", CategoryCarpenter},
		{"Pintor", CategoryPainter},
		{"House Painter", CategoryPainter},
		{"Soldador", CategoryWelder},
		{"Welder", CategoryWelder},
		{"Albañil", CategoryMason},
		{"Stone Mason", CategoryMason},
		{"Techador", CategoryRoofer},
		{"Roofing", CategoryRoofer},
		{"Técnico en climatización", CategoryHVAC},
		{"Refrigeración", CategoryHVAC},
		{"Paisajista", CategoryLandscaper},
		{"Jardinero", CategoryLandscaper},
		{"Mecánico", CategoryMechanic},
		{"Obrero", CategoryGeneralLaborer},
		{"Peón", CategoryGeneralLaborer},
		{"Ayudante general", CategoryGeneralLaborer},
		{"Astronauta", CategoryOther},
		{"general laborer", CategoryGeneralLaborer},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := Classify(tt.label); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}

func TestClassify_CanonicalIsIdempotent(t *testing.T) {
	for _, c := range Canon() {
		if got := Classify(string(c)); got != c {
			t.Errorf("Classify(%q) = %q, want %q", c, got, c)
		}
		if got := Classify(string(Classify(string(c)))); got != c {
			t.Errorf("Classify twice on %q = %q", c, got)
		}
	}
}

func TestClassify_AlwaysCanonical(t *testing.T) {
	labels := []string{"", "x", "plomero", "🙂", "ELECTRICISTA Y PINTOR", "123", "́"}
	for _, l := range labels {
		if c := Classify(l); !c.IsCanonical() {
			t.Errorf("Classify(%q) = %q, not canonical", l, c)
		}
	}
}

func TestClassify_FirstRuleWins(t *testing.T) {
	// "pint" is listed before "elect", so a label with both is a painter.
	if got := Classify("pintor electricista"); got != CategoryPainter {
		t.Errorf("Classify = %q, want %q", got, CategoryPainter)
	}
}

func TestClassify_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := Classify("Electricista"); got != CategoryElectrician {
					t.Errorf("Classify = %q, want %q", got, CategoryElectrician)
					return
				}
			}
		}()
	}
	wg.Wait()
}
