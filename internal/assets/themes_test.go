package assets

import "testing"

func TestStyleForTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   string
		want string
	}{
		{"A", "classic"},
		{"a", "classic"},
		{" B ", "classic"},
		{"C", "classic"},
		{"", DefaultStyleName},
		{"Z", DefaultStyleName},
	}

	for _, tt := range tests {
		if got := StyleForTemplate(tt.id); got != tt.want {
			t.Errorf("StyleForTemplate(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}

	for id, name := range ThemeStyles {
		if _, err := LoadStyle(name); err != nil {
			t.Errorf("theme %s references missing style %q: %v", id, name, err)
		}
	}
}
