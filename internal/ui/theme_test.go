package ui

import "testing"

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() returned %d names, want 3", len(names))
	}
	if names[0] != "Nightfox" || names[1] != "Kanagawa" || names[2] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Nightfox Kanagawa Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	cases := map[string]string{
		"Nightfox": "Kanagawa",
		"Kanagawa": "Slate",
		"Slate":    "Nightfox",
		"Unknown":  "Nightfox",
	}
	for in, want := range cases {
		if got := NextTheme(in); got != want {
			t.Fatalf("NextTheme(%s) = %q, want %s", in, got, want)
		}
	}
}

func TestGetTheme(t *testing.T) {
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q, want Slate", got)
	}
	if got := GetTheme("Unknown").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Nightfox (fallback)", got)
	}
}

func TestStatusColor(t *testing.T) {
	th := GetTheme("Nightfox")
	cases := []struct {
		status string
		want   string
	}{
		{"running", th.Success},
		{" Finished ", th.Success},
		{"booting", th.Busy},
		{"started", th.Busy},
		{"scheduled", th.Warning},
		{"failed", th.Danger},
		{"offline", th.Faint},
		{"something_new", th.Muted},
	}
	for _, tc := range cases {
		if got := th.StatusColor(tc.status); got != tc.want {
			t.Fatalf("StatusColor(%q) = %q, want %q", tc.status, got, tc.want)
		}
	}
}
