package sketchbook

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// readTextFile reads a file as UTF-8 text. Each byte that is not part of a
// valid UTF-8 sequence is substituted with its own replacement character
// rather than failing the read.
func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return decodeUTF8Replacing(data), nil
}

func decodeUTF8Replacing(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	var sb strings.Builder
	sb.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			// One replacement per invalid byte, not per invalid run.
			sb.WriteRune(utf8.RuneError)
		} else {
			sb.Write(data[:size])
		}
		data = data[size:]
	}
	return sb.String()
}

// writeTextFile writes content to baseDir/relPath, creating any missing
// intermediate directories and overwriting an existing file.
func writeTextFile(baseDir, relPath, content string) error {
	fullPath := filepath.Join(baseDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(content), 0644)
}

// copyTree recursively mirrors srcDir into destDir, preserving relative
// structure and applying the same hidden/artifact filtering as the scanner.
func copyTree(srcDir, destDir string) error {
	return filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path != srcDir && isHiddenName(name) {
				return filepath.SkipDir
			}
			return os.MkdirAll(filepath.Join(destDir, rel), 0755)
		}

		if isHiddenName(name) || isArtifactName(name) {
			return nil
		}
		return copyFile(path, filepath.Join(destDir, rel))
	})
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
