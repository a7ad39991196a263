package domain

import "testing"

// TestDownloadURLFor tests that artifact references are built under the download prefix.
func TestDownloadURLFor(t *testing.T) {
	tests := []struct {
		name     string
		artifact string
		want     string
	}{
		{
			name:     "Simple name",
			artifact: "report.pdf",
			want:     "/download/report.pdf",
		},
		{
			// Dots inside the stem are kept as-is
			name:     "Dotted stem",
			artifact: "a.b.pdf",
			want:     "/download/a.b.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DownloadURLFor(tt.artifact); got != tt.want {
				t.Errorf("DownloadURLFor(%q) = %q, want %q", tt.artifact, got, tt.want)
			}
		})
	}
}
