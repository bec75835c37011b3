// Package assets stages the stylesheet tree referenced by report pages.
package assets

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Sumatoshi-tech/repostat/internal/reporterr"
)

// DirName is the asset directory inside a relocatable report.
const DirName = "assets"

// Stylesheet is the stylesheet every page links to, relative to the asset base.
const Stylesheet = "repostat.css"

const (
	dirPerm  = 0o750
	filePerm = 0o644
)

//go:embed default
var defaultFS embed.FS

// Default returns the built-in asset tree.
func Default() fs.FS {
	sub, err := fs.Sub(defaultFS, "default")
	if err != nil {
		panic("assets: embedded tree missing: " + err.Error())
	}

	return sub
}

// Stage decides where pages find their assets and copies them when needed.
//
// srcPath is the on-disk location of src, or empty when src has no location
// of its own (the embedded default). A relocatable report, or one using an
// FS without a location, gets src copied into outputDir/assets and the
// relative base "assets". Otherwise the absolute srcPath is returned and
// nothing is copied.
func Stage(src fs.FS, srcPath, outputDir string, relocatable bool) (string, error) {
	if srcPath != "" && !relocatable {
		abs, err := filepath.Abs(srcPath)
		if err != nil {
			return "", fmt.Errorf("resolve assets path: %w: %w", reporterr.ErrIO, err)
		}

		return abs, nil
	}

	copyErr := copyTree(src, filepath.Join(outputDir, DirName))
	if copyErr != nil {
		return "", fmt.Errorf("copy assets: %w: %w", reporterr.ErrIO, copyErr)
	}

	return DirName, nil
}

// copyTree copies every regular file of src below dst, overwriting existing files.
func copyTree(src fs.FS, dst string) error {
	return fs.WalkDir(src, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		target := filepath.Join(dst, filepath.FromSlash(path))

		if entry.IsDir() {
			return os.MkdirAll(target, dirPerm)
		}

		if !entry.Type().IsRegular() {
			return nil
		}

		return copyFile(src, path, target)
	})
}

func copyFile(src fs.FS, path, target string) error {
	in, err := src.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer in.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}

	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()

	if copyErr != nil {
		return fmt.Errorf("copy %s: %w", path, copyErr)
	}

	if closeErr != nil {
		return fmt.Errorf("close %s: %w", target, closeErr)
	}

	return nil
}
