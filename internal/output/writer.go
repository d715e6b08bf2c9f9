package output

import (
	"fmt"
	"lddtopo/internal/engine/loadorder"
	"os"
	"path/filepath"
)

// Targets names the files to produce; empty fields are skipped.
type Targets struct {
	JSON    string
	DOT     string
	Mermaid string
	TSV     string
}

type rendered struct {
	path string
	data []byte
}

// Write renders every requested format in memory before touching the disk,
// so a rendering failure leaves no files behind. Each file is replaced
// atomically through a temp file in the same directory.
func Write(r *loadorder.TopoSortResult, targets Targets) ([]string, error) {
	var files []rendered

	if targets.JSON != "" {
		data, err := EncodeJSON(r)
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		files = append(files, rendered{path: targets.JSON, data: data})
	}

	generators := []struct {
		path string
		gen  func() (string, error)
	}{
		{targets.DOT, NewDOTGenerator(r).Generate},
		{targets.Mermaid, NewMermaidGenerator(r).Generate},
		{targets.TSV, NewTSVGenerator(r).Generate},
	}
	for _, g := range generators {
		if g.path == "" {
			continue
		}
		out, err := g.gen()
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", g.path, err)
		}
		files = append(files, rendered{path: g.path, data: []byte(out)})
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		if err := writeAtomic(f.path, f.data); err != nil {
			return written, err
		}
		written = append(written, f.path)
	}
	return written, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp file for %q: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %q: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %q: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %q: %w", path, err)
	}
	return nil
}
