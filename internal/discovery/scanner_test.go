package discovery

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScanner_Scan(t *testing.T) {
	// Create a temporary directory structure for testing
	tmpDir, err := os.MkdirTemp("", "vrt-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Create reference images
	files := []string{
		"Hello Triangle/referenceGraphicTest.jpg",
		"Compute Pass/referenceGraphicTest.jpg",
		"Variable Rate Shading/referenceGraphicTest.jpg",
		"Variable Rate Shading/graphicTestExecution.jpg",
		"x64/Debug/referenceGraphicTest.jpg",
		".git/referenceGraphicTest.jpg",
		"Common/GraphicTestCommon.h",
	}
	for _, file := range files {
		fullPath := filepath.Join(tmpDir, file)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", file, err)
		}
		if err := os.WriteFile(fullPath, []byte("test"), 0644); err != nil {
			t.Fatalf("failed to create file %s: %v", file, err)
		}
	}

	scanner := NewScanner("referenceGraphicTest.jpg", []string{"x64"})

	t.Run("finds folders with reference images", func(t *testing.T) {
		results, err := scanner.Scan(tmpDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Should find 3 folders, not the ones under x64 or hidden dirs
		if len(results) != 3 {
			t.Fatalf("expected 3 folders, got %d: %v", len(results), results)
		}
		if filepath.Base(results[0]) != "Compute Pass" {
			t.Errorf("expected sorted results, got %v", results)
		}
	})

	t.Run("returns error for non-existent directory", func(t *testing.T) {
		_, err := scanner.Scan("/non/existent/path")
		if err == nil {
			t.Error("expected error for non-existent directory")
		}
	})

	t.Run("returns error for file instead of directory", func(t *testing.T) {
		testFile := filepath.Join(tmpDir, "testfile.txt")
		os.WriteFile(testFile, []byte("test"), 0644)
		_, err := scanner.Scan(testFile)
		if err == nil {
			t.Error("expected error for file path")
		}
	})
}

func TestProposer_Propose(t *testing.T) {
	p := NewProposer("")
	base := filepath.FromSlash("/repo/Graphic Tests")

	tc := p.Propose(base, filepath.FromSlash("/repo/Hello Triangle"))

	if tc.Name != "Hello Triangle" || tc.Window != "Hello Triangle" {
		t.Errorf("unexpected name/window: %+v", tc)
	}
	if tc.Folder != "../Hello Triangle" {
		t.Errorf("unexpected folder: %s", tc.Folder)
	}
	if tc.Executable != "../x64/Debug - Graphic Tests/Hello Triangle.exe" {
		t.Errorf("unexpected executable: %s", tc.Executable)
	}
	if tc.Process != "Hello Triangle.exe" {
		t.Errorf("unexpected process: %s", tc.Process)
	}

	all := p.ProposeAll(base, []string{filepath.FromSlash("/repo/A"), filepath.FromSlash("/repo/B")})
	if len(all) != 2 || all[1].Name != "B" {
		t.Errorf("unexpected proposals: %+v", all)
	}
}
