package usdz

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Extract unpacks every entry of the archive at src into dest and returns
// the extracted file names (slash-separated, relative to dest) in archive
// order.
func Extract(src, dest string) ([]string, error) {
	r, err := zip.OpenReader(src)
	if errors.Is(err, zip.ErrInsecurePath) {
		r.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnsafePath, src)
	}
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", src, err)
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		rel, target, err := entryTarget(dest, f.Name)
		if err != nil {
			return nil, err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, err
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return nil, fmt.Errorf("extract %s: %w", f.Name, err)
		}
		names = append(names, rel)
	}
	return names, nil
}

// entryTarget resolves an entry name to its path under dest, rejecting
// absolute names and names that climb out of dest.
func entryTarget(dest, name string) (rel, target string, err error) {
	local := filepath.FromSlash(name)
	if !filepath.IsLocal(local) {
		return "", "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	local = filepath.Clean(local)
	return filepath.ToSlash(local), filepath.Join(dest, local), nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Repack writes every regular file under srcDir into a new Deflate archive
// at dest, replacing dest atomically. Files named in order come first, in
// that order; any others follow in walk order.
func Repack(srcDir, dest string, order []string) error {
	files, err := collectFiles(srcDir)
	if err != nil {
		return fmt.Errorf("walk %s: %w", srcDir, err)
	}
	sortByOrder(files, order)

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := writeArchive(tmp, srcDir, files); err != nil {
		tmp.Close()
		return fmt.Errorf("write archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if fi, err := os.Stat(dest); err == nil {
		if err := os.Chmod(tmpName, fi.Mode().Perm()); err != nil {
			return err
		}
	}
	return os.Rename(tmpName, dest)
}

// collectFiles returns slash-separated paths of regular files under root.
func collectFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	return files, err
}

func sortByOrder(files, order []string) {
	rank := make(map[string]int, len(order))
	for i, name := range order {
		rank[name] = i
	}
	sort.SliceStable(files, func(i, j int) bool {
		ri, iok := rank[files[i]]
		rj, jok := rank[files[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return false
		}
	})
}

func writeArchive(w io.Writer, root string, files []string) error {
	zw := zip.NewWriter(w)
	for _, name := range files {
		if err := addFile(zw, root, name); err != nil {
			zw.Close()
			return err
		}
	}
	return zw.Close()
}

func addFile(zw *zip.Writer, root, name string) error {
	path := filepath.Join(root, filepath.FromSlash(name))
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(fi)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

// Backup copies src to dst, overwriting dst, and carries over the file mode
// and modification time.
func Backup(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fi.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Chmod(dst, fi.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, fi.ModTime(), fi.ModTime())
}
