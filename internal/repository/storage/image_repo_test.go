package storage

import "testing"

func TestGenerateObjectPath(t *testing.T) {
	tests := []struct {
		name     string
		folder   string
		imageID  string
		variant  string
		ext      string
		expected string
	}{
		{"display variant", "workspaces", "b2f1c3d4", "display", ".jpg", "workspaces/b2f1c3d4_display.jpg"},
		{"thumb variant shares the image ID", "workspaces", "b2f1c3d4", "thumb", ".jpg", "workspaces/b2f1c3d4_thumb.jpg"},
		{"nested folder hint", "workspaces/2026", "b2f1c3d4", "display", ".jpg", "workspaces/2026/b2f1c3d4_display.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenerateObjectPath(tt.folder, tt.imageID, tt.variant, tt.ext); got != tt.expected {
				t.Errorf("GenerateObjectPath() = %s, expected %s", got, tt.expected)
			}
		})
	}
}
