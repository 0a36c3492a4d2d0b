package sources

import (
	"encoding/json"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"watch URL", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch URL extra params", "https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ"},
		{"short URL", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"shorts URL", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"bare ID", "dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"bare ID with underscore and dash", "a_b-c_d-e_f", "a_b-c_d-e_f"},
		{"too short", "abc123", ""},
		{"garbage", "not a video at all", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractVideoID(tt.in); got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple object", `{"a":1}`, `{"a":1}`},
		{"nested", `{"a":{"b":{"c":3}}} trailing`, `{"a":{"b":{"c":3}}}`},
		{"braces in strings", `{"a":"{not a brace}"}`, `{"a":"{not a brace}"}`},
		{"escaped quote", `{"a":"say \"}\" loud"}`, `{"a":"say \"}\" loud"}`},
		{"not an object", `[1,2,3]`, ""},
		{"unterminated", `{"a":1`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(extractJSON([]byte(tt.in)))
			if got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestYtRunsJoin(t *testing.T) {
	var r ytRuns
	if err := json.Unmarshal([]byte(`{"runs":[{"text":"hello "},{"text":"world"}]}`), &r); err != nil {
		t.Fatalf("unmarshal runs: %v", err)
	}
	if got := r.join(); got != "hello world" {
		t.Errorf("join() = %q, want %q", got, "hello world")
	}
	if got := (ytRuns{}).join(); got != "" {
		t.Errorf("empty join() = %q, want empty", got)
	}
}

func TestGenerateVisitorData(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		v := generateVisitorData()
		if len(v) != 11 {
			t.Fatalf("visitor data length = %d, want 11", len(v))
		}
		seen[v] = true
	}
	if len(seen) < 2 {
		t.Error("visitor data never varies")
	}
}
