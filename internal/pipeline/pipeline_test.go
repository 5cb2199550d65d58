package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/backmassage/usdzfix/internal/config"
	"github.com/backmassage/usdzfix/internal/logging"
	"github.com/backmassage/usdzfix/internal/usda"
	"github.com/backmassage/usdzfix/internal/usdz"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	planeDoc = "#usda 1.0\n\ndef Mesh \"Plane\"\n{\n}\n"
	fixedDoc = "#usda 1.0\n\ndef Mesh \"Plane\"\n{\n    uniform bool doubleSided = 1\n}\n"
	shaderDoc = "#usda 1.0\n" +
		"def Material \"Leaf\"\n" +
		"{\n" +
		"    token outputs:surface.connect = </Leaf/Surface.outputs:surface>\n" +
		"    def Shader \"Surface\" (UsdPreviewSurface)\n" +
		"    {\n" +
		"        uniform token info:id = \"UsdPreviewSurface\"\n" +
		"        color3f inputs:diffuseColor = (0, 1, 0)\n" +
		"    }\n" +
		"}\n"
)

// --- helpers ---

type entry struct {
	name string
	body string
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func writeArchive(t *testing.T, path string, entries ...entry) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Store})
		require.NoError(t, err)
		_, err = io.WriteString(w, e.body)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func readArchive(t *testing.T, path string) (names []string, bodies map[string]string) {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()
	bodies = map[string]string{}
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		names = append(names, f.Name)
		bodies[f.Name] = string(b)
	}
	return names, bodies
}

func testConfig(root string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.RootDir = root
	cfg.ColorMode = config.ColorNever
	return &cfg
}

func testLogger(t *testing.T, cfg *config.Config) (*logging.Logger, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	log, err := logging.NewLoggerTo(cfg, &out, &errOut)
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log, &out, &errOut
}

func basenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

// --- Discover tests ---

func TestDiscover_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "trees/oak.usdz")
	touch(t, dir, "grass.usdz")
	touch(t, dir, "grass.usda")
	touch(t, dir, "readme.txt")
	touch(t, dir, "rock.USDZ")

	files, err := Discover(testConfig(dir))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "grass.usdz"),
		filepath.Join(dir, "trees", "oak.usdz"),
	}, files)
}

func TestDiscover_Backups(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "grass.usdz")
	touch(t, dir, "grass_backup.usdz")

	cfg := testConfig(dir)
	files, err := Discover(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"grass.usdz"}, basenames(files))

	cfg.IncludeBackups = true
	files, err = Discover(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"grass.usdz", "grass_backup.usdz"}, basenames(files))
}

func TestDiscover_MissingRoot(t *testing.T) {
	files, err := Discover(testConfig(filepath.Join(t.TempDir(), "nope")))
	require.NoError(t, err)
	assert.Empty(t, files)
}

// --- FixArchive tests ---

func TestFixArchive_PatchesAndBacksUp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plant.usdz")
	writeArchive(t, path,
		entry{"plant.usda", planeDoc},
		entry{"0/leaf.png", "png-bytes"},
		entry{"leaf.usda", shaderDoc},
	)
	original, err := os.ReadFile(path)
	require.NoError(t, err)

	cfg := testConfig(dir)
	log, out, _ := testLogger(t, cfg)
	res := FixArchive(cfg, log, path)

	require.NoError(t, res.Err)
	assert.True(t, res.OK())
	assert.Equal(t, 2, res.ModifiedDocuments())
	assert.Equal(t, usda.Insertions{Mesh: 1, Material: 1}, res.Insertions())

	backup, err := os.ReadFile(filepath.Join(dir, "plant_backup.usdz"))
	require.NoError(t, err)
	assert.Equal(t, original, backup)
	assert.Equal(t, filepath.Join(dir, "plant_backup.usdz"), res.BackupPath)

	names, bodies := readArchive(t, path)
	assert.Equal(t, []string{"plant.usda", "0/leaf.png", "leaf.usda"}, names)
	assert.Equal(t, fixedDoc, bodies["plant.usda"])
	assert.Equal(t, "png-bytes", bodies["0/leaf.png"])
	assert.Contains(t, bodies["leaf.usda"], "def Material \"Leaf\"\n{\n    uniform bool doubleSided = 1\n")

	assert.Contains(t, out.String(), "Modifying: plant.usda")
	assert.Contains(t, out.String(), "Added doubleSided to 1 Mesh definition")
	assert.Contains(t, out.String(), "Backup created")
	assert.Positive(t, res.SizeBefore)
	assert.Positive(t, res.SizeAfter)
}

func TestFixArchive_ShaderOnly(t *testing.T) {
	doc := "#usda 1.0\n" +
		"def Shader \"Surface\" (UsdPreviewSurface)\n" +
		"{\n" +
		"    color3f inputs:diffuseColor = (1, 1, 1)\n" +
		"}\n"
	dir := t.TempDir()
	path := filepath.Join(dir, "card.usdz")
	writeArchive(t, path, entry{"card.usda", doc})

	cfg := testConfig(dir)
	log, out, _ := testLogger(t, cfg)
	res := FixArchive(cfg, log, path)

	require.NoError(t, res.Err)
	assert.Equal(t, OutcomeFixed, res.Outcome)
	assert.Equal(t, usda.Insertions{Shader: 1}, res.Insertions())
	assert.Contains(t, out.String(), "Added doubleSided to 1 PreviewSurface input")

	_, bodies := readArchive(t, path)
	assert.Contains(t, bodies["card.usda"], "    color3f inputs:diffuseColor = (1, 1, 1)\n    bool inputs:doubleSided = 1\n")
}

func TestFixArchive_AlreadyFixed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plant.usdz")
	writeArchive(t, path, entry{"plant.usda", fixedDoc})
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	cfg := testConfig(dir)
	log, _, _ := testLogger(t, cfg)
	res := FixArchive(cfg, log, path)

	require.NoError(t, res.Err)
	assert.Equal(t, OutcomeUnchanged, res.Outcome)
	assert.False(t, res.OK())
	assert.Empty(t, res.BackupPath)
	assert.NoFileExists(t, filepath.Join(dir, "plant_backup.usdz"))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestFixArchive_SecondRunIsNoOp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plant.usdz")
	writeArchive(t, path, entry{"plant.usda", planeDoc}, entry{"leaf.usda", shaderDoc})

	cfg := testConfig(dir)
	log, _, _ := testLogger(t, cfg)
	first := FixArchive(cfg, log, path)
	require.Equal(t, OutcomeFixed, first.Outcome)
	fixed, err := os.ReadFile(path)
	require.NoError(t, err)

	second := FixArchive(cfg, log, path)
	require.NoError(t, second.Err)
	assert.Equal(t, OutcomeUnchanged, second.Outcome)
	again, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fixed, again)
}

func TestFixArchive_NoSceneDocuments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.usdz")
	writeArchive(t, path, entry{"texture.png", "png"})

	cfg := testConfig(dir)
	log, _, errOut := testLogger(t, cfg)
	res := FixArchive(cfg, log, path)

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, usdz.ErrNoSceneDocuments)
	assert.Contains(t, errOut.String(), "Error:")
	assert.NoFileExists(t, filepath.Join(dir, "empty_backup.usdz"))
}

func TestFixArchive_CorruptArchive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.usdz")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	cfg := testConfig(dir)
	log, _, _ := testLogger(t, cfg)
	res := FixArchive(cfg, log, path)

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Error(t, res.Err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "not a zip", string(b))
	assert.NoFileExists(t, filepath.Join(dir, "broken_backup.usdz"))
}

func TestFixArchive_DryRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plant.usdz")
	writeArchive(t, path, entry{"plant.usda", planeDoc})
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	cfg := testConfig(dir)
	cfg.DryRun = true
	log, _, _ := testLogger(t, cfg)
	res := FixArchive(cfg, log, path)

	require.NoError(t, res.Err)
	assert.Equal(t, OutcomeFixed, res.Outcome)
	assert.True(t, res.DryRun)
	assert.Equal(t, 1, res.Insertions().Mesh)
	assert.NoFileExists(t, filepath.Join(dir, "plant_backup.usdz"))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestFixArchive_SkipsBinaryLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mixed.usdz")
	crate := "PXR-USDC\x00\x01def Mesh {"
	writeArchive(t, path, entry{"mixed.usdc", crate}, entry{"mixed.usda", planeDoc})

	cfg := testConfig(dir)
	log, _, _ := testLogger(t, cfg)
	res := FixArchive(cfg, log, path)

	require.NoError(t, res.Err)
	assert.Equal(t, OutcomeFixed, res.Outcome)
	require.Len(t, res.Documents, 2)
	for _, d := range res.Documents {
		if d.Name == "mixed.usdc" {
			assert.True(t, d.Binary)
			assert.False(t, d.Modified())
		}
	}

	_, bodies := readArchive(t, path)
	assert.Equal(t, crate, bodies["mixed.usdc"])
	assert.Equal(t, fixedDoc, bodies["mixed.usda"])
}

func TestFixArchive_RemovesTempDir(t *testing.T) {
	dir := t.TempDir()
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	good := filepath.Join(dir, "good.usdz")
	bad := filepath.Join(dir, "bad.usdz")
	writeArchive(t, good, entry{"good.usda", planeDoc})
	writeArchive(t, bad, entry{"texture.png", "png"})

	cfg := testConfig(dir)
	log, _, _ := testLogger(t, cfg)
	FixArchive(cfg, log, good)
	FixArchive(cfg, log, bad)

	left, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, left)
}

// --- Run tests ---

func TestRun_NoArchives(t *testing.T) {
	cfg := testConfig(t.TempDir())
	log, _, errOut := testLogger(t, cfg)

	called := false
	stats, err := Run(context.Background(), cfg, log, func([]string) (bool, error) {
		called = true
		return true, nil
	})

	assert.ErrorIs(t, err, ErrNoArchives)
	assert.False(t, called, "confirm must not be asked when nothing was found")
	assert.Zero(t, stats.Total)
	assert.Contains(t, errOut.String(), "No USDZ files found")
}

func TestRun_Declined(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plant.usdz")
	writeArchive(t, path, entry{"plant.usda", planeDoc})
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	cfg := testConfig(dir)
	log, out, _ := testLogger(t, cfg)

	var asked []string
	_, err = Run(context.Background(), cfg, log, func(archives []string) (bool, error) {
		asked = archives
		return false, nil
	})

	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.Equal(t, []string{path}, asked)
	assert.Contains(t, out.String(), "Cancelled by user")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.NoFileExists(t, filepath.Join(dir, "plant_backup.usdz"))
}

func TestRun_AssumeYesSkipsPrompt(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, filepath.Join(dir, "plant.usdz"), entry{"plant.usda", planeDoc})

	cfg := testConfig(dir)
	cfg.AssumeYes = true
	log, _, _ := testLogger(t, cfg)

	stats, err := Run(context.Background(), cfg, log, func([]string) (bool, error) {
		t.Fatal("confirm called with AssumeYes")
		return false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Fixed)
}

func TestRun_ContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, filepath.Join(dir, "a.usdz"), entry{"a.usda", planeDoc})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.usdz"), []byte("garbage"), 0o644))
	writeArchive(t, filepath.Join(dir, "c.usdz"), entry{"c.usda", fixedDoc})
	writeArchive(t, filepath.Join(dir, "d.usdz"), entry{"d.usda", planeDoc})

	cfg := testConfig(dir)
	log, out, _ := testLogger(t, cfg)
	stats, err := Run(context.Background(), cfg, log, func([]string) (bool, error) { return true, nil })
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Fixed)
	assert.Equal(t, 1, stats.Unchanged)
	assert.Equal(t, 1, stats.Failed)
	require.Len(t, stats.Results, 4)
	assert.Equal(t, OutcomeFailed, stats.Results[1].Outcome)
	assert.FileExists(t, filepath.Join(dir, "a_backup.usdz"))
	assert.FileExists(t, filepath.Join(dir, "d_backup.usdz"))
	assert.Contains(t, out.String(), "Successfully fixed: 2/4 files")
	assert.Contains(t, out.String(), "Done: 2 fixed, 1 unchanged, 1 failed")
}

func TestRun_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, filepath.Join(dir, "plant.usdz"), entry{"plant.usda", planeDoc})

	cfg := testConfig(dir)
	cfg.AssumeYes = true
	log, out, _ := testLogger(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats, err := Run(ctx, cfg, log, nil)
	require.NoError(t, err)
	assert.Zero(t, stats.Fixed)
	assert.Empty(t, stats.Results)
	assert.Contains(t, out.String(), "Interrupted")
	assert.NoFileExists(t, filepath.Join(dir, "plant_backup.usdz"))
}
