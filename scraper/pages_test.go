package scraper

import "testing"

func TestParsePageIndicator(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  int
		found bool
	}{
		{"typical indicator", "หน้าที่ 1/12", 12, true},
		{"spaced slash", "หน้าที่ 3 / 7", 7, true},
		{"single page", "หน้าที่ 1/1", 1, true},
		{"surrounding text", "แสดงผล หน้าที่ 2/5 จากทั้งหมด", 5, true},
		{"no slash pattern", "หน้าที่", 0, false},
		{"empty", "", 0, false},
		{"zero total rejected", "หน้าที่ 0/0", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parsePageIndicator(tt.in)
			if ok != tt.found {
				t.Fatalf("parsePageIndicator(%q) found = %v, want %v", tt.in, ok, tt.found)
			}
			if ok && got != tt.want {
				t.Errorf("parsePageIndicator(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestCapPages(t *testing.T) {
	tests := []struct {
		name       string
		detected   int
		maxPages   int
		wantTotal  int
		wantCapped bool
	}{
		{"uncapped zero", 5, 0, 5, false},
		{"uncapped negative", 5, -1, 5, false},
		{"cap below detected", 5, 2, 2, true},
		{"cap equals detected", 5, 5, 5, false},
		{"cap above detected", 5, 10, 5, false},
		{"single page", 1, 0, 1, false},
		{"detected clamped to one", 0, 0, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := capPages(tt.detected, tt.maxPages)
			if state.Total != tt.wantTotal {
				t.Errorf("capPages(%d, %d).Total = %d, want %d", tt.detected, tt.maxPages, state.Total, tt.wantTotal)
			}
			if state.Capped != tt.wantCapped {
				t.Errorf("capPages(%d, %d).Capped = %v, want %v", tt.detected, tt.maxPages, state.Capped, tt.wantCapped)
			}
			if state.Current != 1 {
				t.Errorf("capPages(%d, %d).Current = %d, want 1", tt.detected, tt.maxPages, state.Current)
			}
		})
	}
}
