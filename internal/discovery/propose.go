package discovery

import (
	"path/filepath"

	"vrt/internal/domain"
)

// DefaultBinaryDir is where the graphic test build drops its executables, relative to a demo folder
const DefaultBinaryDir = "../x64/Debug - Graphic Tests"

// Proposer turns discovered folders into suite entries following the demo naming convention:
// the folder, the executable and the window title all carry the demo's name.
type Proposer struct {
	binaryDir string
}

// NewProposer creates a new Proposer
func NewProposer(binaryDir string) *Proposer {
	if binaryDir == "" {
		binaryDir = DefaultBinaryDir
	}
	return &Proposer{binaryDir: binaryDir}
}

// Propose builds a test case for folder; base is the directory folder is written relative to
func (p *Proposer) Propose(base, folder string) domain.TestCase {
	name := filepath.Base(folder)
	rel := folder
	if r, err := filepath.Rel(base, folder); err == nil {
		rel = r
	}
	exe := name + ".exe"
	return domain.TestCase{
		Name:       name,
		Folder:     filepath.ToSlash(rel),
		Executable: filepath.ToSlash(filepath.Join(p.binaryDir, exe)),
		Process:    exe,
		Window:     name,
	}
}

// ProposeAll proposes a case for each folder, in order
func (p *Proposer) ProposeAll(base string, folders []string) []domain.TestCase {
	cases := make([]domain.TestCase, 0, len(folders))
	for _, f := range folders {
		cases = append(cases, p.Propose(base, f))
	}
	return cases
}
