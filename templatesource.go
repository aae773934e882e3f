package clipweave

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// isTemplateFile mirrors the teacher's precompile.go extension allow-list,
// generalized to the clip note fields a vault template might produce.
func isTemplateFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tmpl", ".md", ".html", ".txt", ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

// RenderDir walks srcDir rendering every template field file it finds
// against one shared PageContext, writing results into outDir at the same
// relative path — the teacher's PrecompileDir (precompile.go), generalized
// from a single-engine file-backed Loader to this engine's (template
// string, PageContext) Compile signature.
func (e *Engine) RenderDir(srcDir, outDir string, pc *PageContext) error {
	if strings.TrimSpace(srcDir) == "" {
		return errors.New("srcDir is required")
	}
	if strings.TrimSpace(outDir) == "" {
		return errors.New("outDir is required")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrap(err, "make outDir")
	}

	return filepath.WalkDir(srcDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !isTemplateFile(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return errors.Wrap(err, "relativize path")
		}
		rel = filepath.ToSlash(rel)

		raw, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "read %s", rel)
		}

		rendered, prompts := e.Compile(string(raw), pc)
		if prompts.Len() > 0 {
			rendered = stripSentinels(rendered)
		}

		dst := filepath.Join(outDir, rel)
		if strings.TrimSpace(rendered) == "" {
			_ = os.Remove(dst)
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return errors.Wrap(err, "make dst dir")
		}
		return errors.Wrapf(os.WriteFile(dst, []byte(rendered), 0o644), "write %s", rel)
	})
}
