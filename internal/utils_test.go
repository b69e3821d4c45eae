package internal

import "testing"

func TestHashKey(t *testing.T) {
	a := HashKey("你好", "nova", "0.60")
	b := HashKey("你好", "nova", "0.60")
	if a != b {
		t.Errorf("HashKey not stable: %s != %s", a, b)
	}
	if len(a) != 32 {
		t.Errorf("Expected 32 hex chars, got %d", len(a))
	}

	// Part boundaries must matter
	if HashKey("ab", "c") == HashKey("a", "bc") {
		t.Error("HashKey should separate parts")
	}
}

func TestTrimBasePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://127.0.0.1:8000", "http://127.0.0.1:8000"},
		{"http://127.0.0.1:8000/", "http://127.0.0.1:8000"},
		{" https://example.com/api// ", "https://example.com/api"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := TrimBasePath(tt.in); got != tt.want {
			t.Errorf("TrimBasePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
