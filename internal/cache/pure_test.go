package cache

import "testing"

func TestUserKey(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"ulid", "01HX3D2J8ZQ4R9W6T1V5B7N0KC", "user:01HX3D2J8ZQ4R9W6T1V5B7N0KC"},
		{"empty", "", "user:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := userKey(tt.id); got != tt.want {
				t.Errorf("userKey(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}
