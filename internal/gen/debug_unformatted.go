package gen

import (
	"os"
	"path/filepath"
)

// writeDebugUnformatted writes unformatted code to a sidecar file next to the
// intended output. This is best-effort and should never make generation fail
// harder.
func writeDebugUnformatted(outDir, filename string, content []byte) error {
	if outDir == "" || filename == "" {
		return nil
	}

	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return err
	}

	// The go command and package loading skip files without a .go extension.
	debugName := DebugFilename(filename)

	return os.WriteFile(filepath.Join(outDir, debugName), content, filePerm)
}

// DebugFilename returns the name of the unformatted sidecar of filename.
func DebugFilename(filename string) string {
	return filename + ".unformatted"
}
