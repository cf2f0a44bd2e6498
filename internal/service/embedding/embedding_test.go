package embedding

import "testing"

func TestResolveModel(t *testing.T) {
	tests := []struct {
		name    string
		modelID string
		want    string
	}{
		{
			name:    "empty falls back to default",
			modelID: "",
			want:    DefaultModel,
		},
		{
			name:    "whitespace falls back to default",
			modelID: "   ",
			want:    DefaultModel,
		},
		{
			name:    "bare provider name is not a model",
			modelID: "openai",
			want:    DefaultModel,
		},
		{
			name:    "bare gemini is not a model",
			modelID: "gemini",
			want:    DefaultModel,
		},
		{
			name:    "qualified model kept",
			modelID: "sentence-transformers/all-MiniLM-L6-v2",
			want:    "sentence-transformers/all-MiniLM-L6-v2",
		},
		{
			name:    "default model kept",
			modelID: DefaultModel,
			want:    DefaultModel,
		},
		{
			name:    "qualified model with surrounding whitespace",
			modelID: "  BAAI/bge-small-en-v1.5  ",
			want:    "BAAI/bge-small-en-v1.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveModel(tt.modelID); got != tt.want {
				t.Errorf("ResolveModel(%q) = %q, want %q", tt.modelID, got, tt.want)
			}
		})
	}
}
