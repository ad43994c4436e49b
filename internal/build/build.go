// Package build produces the deployable static site: it validates the
// Airtable credentials, generates js/config.js, copies the source assets
// and optionally bundles the result.
package build

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// AssetDirs are the source directories copied into the output when present.
var AssetDirs = []string{"js", "css", "assets", "data"}

// ErrNoIndex is returned when the source has no index.html and no page
// renderer was supplied.
var ErrNoIndex = errors.New("no index.html in source and no renderer configured")

// Options configures a build.
type Options struct {
	SrcDir  string
	OutDir  string
	EnvFile string
	// Archive, when set, is the tar.gz path the output is bundled into.
	Archive string
	// Index renders index.html when the source has none.
	Index func(w io.Writer) error
	// Assets are written to the output alongside a rendered index.
	Assets fs.FS
	Logger *zap.Logger
}

// Result describes a completed build.
type Result struct {
	// Files lists the written paths relative to the output directory.
	Files    []string
	Rendered bool
	Archive  string
}

// Run performs the build. Nothing is written when the secrets are
// incomplete or no index page is available.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.OutDir == "" {
		return nil, errors.New("output directory is required")
	}

	secrets, err := LoadSecrets(opts.EnvFile)
	if err != nil {
		return nil, err
	}

	indexSrc := filepath.Join(opts.SrcDir, "index.html")
	hasIndex := fileExists(indexSrc)
	if !hasIndex && opts.Index == nil {
		return nil, ErrNoIndex
	}

	res := &Result{}
	for _, dir := range AssetDirs {
		src := filepath.Join(opts.SrcDir, dir)
		if !dirExists(src) {
			continue
		}
		files, err := copyDir(ctx, src, filepath.Join(opts.OutDir, dir))
		if err != nil {
			return res, fmt.Errorf("copy %s: %w", dir, err)
		}
		for _, f := range files {
			res.Files = append(res.Files, filepath.ToSlash(filepath.Join(dir, f)))
		}
		logger.Debug("copied asset directory", zap.String("dir", dir), zap.Int("files", len(files)))
	}

	if hasIndex {
		if err := copyFile(indexSrc, filepath.Join(opts.OutDir, "index.html")); err != nil {
			return res, fmt.Errorf("copy index.html: %w", err)
		}
	} else {
		if err := renderIndex(opts); err != nil {
			return res, err
		}
		res.Rendered = true
		if opts.Assets != nil {
			files, err := writeFS(opts.Assets, opts.OutDir)
			if err != nil {
				return res, fmt.Errorf("write assets: %w", err)
			}
			res.Files = append(res.Files, files...)
		}
	}
	res.Files = append(res.Files, "index.html")

	// Written last so a stale js/config.js in the source never wins.
	if err := writeConfigJS(filepath.Join(opts.OutDir, "js", "config.js"), secrets); err != nil {
		return res, err
	}
	res.Files = append(res.Files, "js/config.js")

	logger.Info("build completed",
		zap.String("out", opts.OutDir),
		zap.Int("files", len(res.Files)),
		zap.Bool("rendered", res.Rendered),
	)

	if opts.Archive != "" {
		if err := Archive(ctx, opts.OutDir, opts.Archive); err != nil {
			return res, err
		}
		res.Archive = opts.Archive
		logger.Info("archive created", zap.String("path", opts.Archive))
	}
	return res, nil
}

// ConfigJS renders the js/config.js contents for s.
func ConfigJS(s Secrets) string {
	var b strings.Builder
	b.WriteString("/**\n * Generated by fullstock build. Do not edit.\n */\n\nwindow.env = {\n")
	fields := []struct{ name, value string }{
		{EnvAPIKey, s.APIKey},
		{EnvBaseID, s.BaseID},
		{EnvTableID, s.TableID},
	}
	for i, f := range fields {
		quoted, _ := json.Marshal(f.value)
		fmt.Fprintf(&b, "    %s: %s", f.name, quoted)
		if i < len(fields)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("};\n")
	return b.String()
}

func writeConfigJS(path string, s Secrets) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(ConfigJS(s)), 0o644)
}

func renderIndex(opts Options) (err error) {
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(opts.OutDir, "index.html"))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := opts.Index(f); err != nil {
		return fmt.Errorf("render index.html: %w", err)
	}
	return nil
}

func copyDir(ctx context.Context, src, dst string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := copyFile(path, target); err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	return files, err
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(out, in)
	return err
}

// writeFS copies every file of fsys into dir, overwriting existing files.
func writeFS(fsys fs.FS, dir string) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return err
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
