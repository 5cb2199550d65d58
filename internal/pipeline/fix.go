package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/usdzfix/internal/config"
	"github.com/backmassage/usdzfix/internal/display"
	"github.com/backmassage/usdzfix/internal/logging"
	"github.com/backmassage/usdzfix/internal/naming"
	"github.com/backmassage/usdzfix/internal/usda"
	"github.com/backmassage/usdzfix/internal/usdz"
)

// passLabels name what each pass patched, for progress lines.
var passLabels = map[usda.Pass]string{
	usda.PassMesh:     "Mesh definition",
	usda.PassMaterial: "Material definition",
	usda.PassShader:   "PreviewSurface input",
}

// FixArchive extracts the archive at path into a private temp directory,
// patches every scene document, and, if anything changed, writes a backup
// and repackages the archive in place. The temp directory is removed on
// every path. Errors are logged and returned in the Result; the archive is
// only rewritten after its backup exists.
func FixArchive(cfg *config.Config, log *logging.Logger, path string) *Result {
	res := &Result{Path: path, DryRun: cfg.DryRun}
	if err := fixArchive(cfg, log, res); err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		log.Error("  Error: %v", err)
	}
	return res
}

func fixArchive(cfg *config.Config, log *logging.Logger, res *Result) error {
	tmp, err := os.MkdirTemp("", "usdzfix-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	order, err := usdz.Extract(res.Path, tmp)
	if err != nil {
		return err
	}
	log.Debug(cfg.Verbose, "  Extracted to: %s", tmp)

	docs, err := usdz.FindSceneDocuments(tmp, cfg.ScenePattern)
	if err != nil {
		return fmt.Errorf("find scene documents: %w", err)
	}
	if len(docs) == 0 {
		return usdz.ErrNoSceneDocuments
	}

	for _, doc := range docs {
		dr, err := patchDocument(tmp, doc, !cfg.DryRun)
		if err != nil {
			return err
		}
		res.Documents = append(res.Documents, dr)
		logDocument(cfg, log, dr)
	}

	if res.ModifiedDocuments() == 0 {
		res.Outcome = OutcomeUnchanged
		return nil
	}
	if cfg.DryRun {
		res.Outcome = OutcomeFixed
		return nil
	}

	fi, err := os.Stat(res.Path)
	if err != nil {
		return err
	}
	res.SizeBefore = fi.Size()

	backup := naming.BackupPath(res.Path, cfg.ArchiveExt, cfg.BackupSuffix)
	if err := usdz.Backup(res.Path, backup); err != nil {
		return fmt.Errorf("backup %s: %w", backup, err)
	}
	res.BackupPath = backup
	log.Info("  Backup created: %s", backup)

	log.Info("  Re-packaging %s…", filepath.Base(res.Path))
	if err := usdz.Repack(tmp, res.Path, order); err != nil {
		return fmt.Errorf("repackage: %w", err)
	}
	if fi, err := os.Stat(res.Path); err == nil {
		res.SizeAfter = fi.Size()
	}
	res.Outcome = OutcomeFixed
	return nil
}

// patchDocument runs the usda passes over one extracted document and, when
// write is set and the text changed, overwrites it in place.
func patchDocument(root, path string, write bool) (DocumentResult, error) {
	var dr DocumentResult
	if rel, err := filepath.Rel(root, path); err == nil {
		dr.Name = filepath.ToSlash(rel)
	} else {
		dr.Name = filepath.Base(path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return dr, fmt.Errorf("read %s: %w", dr.Name, err)
	}
	if usda.IsBinary(raw) {
		dr.Binary = true
		return dr, nil
	}

	text := usda.Decode(raw)
	patched, ins := usda.Patch(text)
	dr.Insertions = ins
	if patched == text || !write {
		return dr, nil
	}

	fi, err := os.Stat(path)
	if err != nil {
		return dr, err
	}
	if err := os.WriteFile(path, []byte(patched), fi.Mode().Perm()); err != nil {
		return dr, fmt.Errorf("write %s: %w", dr.Name, err)
	}
	return dr, nil
}

func logDocument(cfg *config.Config, log *logging.Logger, dr DocumentResult) {
	switch {
	case dr.Binary:
		log.Debug(cfg.Verbose, "  Skipping binary layer: %s", dr.Name)
	case dr.Modified():
		log.Info("  Modifying: %s", dr.Name)
		for _, p := range usda.Passes {
			if n := dr.Insertions.Count(p); n > 0 {
				log.Success("    Added %s to %s", usda.Property, display.Plural(n, passLabels[p]))
			}
		}
	default:
		log.Debug(cfg.Verbose, "  No changes needed: %s", dr.Name)
	}
}

// describeInsertions renders per-pass counts, e.g. "2 mesh, 1 material".
func describeInsertions(ins usda.Insertions) string {
	var parts []string
	for _, p := range usda.Passes {
		if n := ins.Count(p); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, p))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}
