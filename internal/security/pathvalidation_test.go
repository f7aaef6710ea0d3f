package security

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidatePathWithinDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	safeDir := filepath.Join(tmpDir, "results")
	unsafeDir := filepath.Join(tmpDir, "private")
	if err := os.MkdirAll(safeDir, 0o755); err != nil {
		t.Fatalf("Failed to create safe directory: %v", err)
	}
	if err := os.MkdirAll(unsafeDir, 0o755); err != nil {
		t.Fatalf("Failed to create unsafe directory: %v", err)
	}

	unsafeFile := filepath.Join(unsafeDir, "secret.txt")
	if err := os.WriteFile(unsafeFile, []byte("secret"), 0o644); err != nil {
		t.Fatalf("Failed to create unsafe file: %v", err)
	}

	// Symlink inside the safe directory pointing outside it.
	symlinkPath := filepath.Join(safeDir, "evil-symlink")
	if err := os.Symlink(unsafeDir, symlinkPath); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	tests := []struct {
		name      string
		filePath  string
		safeDir   string
		wantError bool
	}{
		{
			name:      "result file within directory",
			filePath:  filepath.Join(safeDir, "exp1_analysis.json"),
			safeDir:   safeDir,
			wantError: false,
		},
		{
			name:      "nested path not yet existing",
			filePath:  filepath.Join(safeDir, "charts", "exp1.html"),
			safeDir:   safeDir,
			wantError: false,
		},
		{
			name:      "path traversal with ..",
			filePath:  filepath.Join(safeDir, "..", "private", "secret.txt"),
			safeDir:   safeDir,
			wantError: true,
		},
		{
			name:      "relative traversal at start",
			filePath:  "../../../etc/passwd",
			safeDir:   safeDir,
			wantError: true,
		},
		{
			name:      "absolute path outside safe dir",
			filePath:  "/etc/passwd",
			safeDir:   safeDir,
			wantError: true,
		},
		{
			name:      "symlink escaping safe dir",
			filePath:  filepath.Join(symlinkPath, "secret.txt"),
			safeDir:   safeDir,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePathWithinDirectory(tt.filePath, tt.safeDir)
			if tt.wantError && err == nil {
				t.Errorf("expected error for %s, got nil", tt.filePath)
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error for %s: %v", tt.filePath, err)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"exp_2024-03-01.h5", "exp_2024-03-01.h5"},
		{"larva run #7", "larva_run_7"},
		{"../../etc/passwd", "etc_passwd"},
		{"", "unknown"},
		{"///", "unknown"},
		{"a  b   c", "a_b_c"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
