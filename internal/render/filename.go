package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// renderedExtensions are every format any flow can emit; a base name is
// taken only when all of them are free so an xlsx can never shadow a docx.
var renderedExtensions = []string{".docx", ".pdf", ".xlsx", ""}

func baseNameTaken(dir, base string) bool {
	for _, ext := range renderedExtensions {
		if _, err := os.Stat(filepath.Join(dir, base+ext)); err == nil {
			return true
		}
	}
	return false
}

// uniqueBaseName returns base unchanged when it is free, otherwise the
// first free "base (2)", "base (3)", ... candidate.
func uniqueBaseName(dir, base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = "Dokumen"
	}
	if !baseNameTaken(dir, base) {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s (%d)", base, i)
		if !baseNameTaken(dir, candidate) {
			return candidate
		}
	}
}
