package artifacts

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/blakesmith/ar"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/vppkit/sdkbuild/internal/term"
)

// Extractor unpacks a package archive into a destination directory,
// exposing the package's file tree to the assembler.
type Extractor interface {
	Extract(archive, destination string) error
}

// DebExtractor extracts Debian package archives: an outer ar archive whose
// data.tar member holds the installed file tree. The control member and
// the debian-binary marker are skipped.
type DebExtractor struct{}

func (DebExtractor) Extract(archive, destination string) (err error) {
	term.Detail(fmt.Sprintf("extracting %s", archive))
	defer term.Timed(&err)()

	file, err := os.Open(archive)
	if err != nil {
		return fmt.Errorf("failed to open package archive: %w", err)
	}
	defer file.Close()

	reader := ar.NewReader(file)
	for {
		header, err := reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("failed to read archive member: %w", err)
		}

		// some ar writers terminate member names with a slash
		name := strings.TrimSuffix(strings.TrimSpace(header.Name), "/")
		if !strings.HasPrefix(name, "data.tar") {
			continue
		}

		data, closer, err := decompress(name, reader)
		if err != nil {
			return err
		}
		defer closer()

		return untar(data, destination)
	}

	return fmt.Errorf("no data.tar member in %s", archive)
}

// decompress wraps the data member with the decompressor matching its
// file extension. The returned closer releases whatever the decompressor
// holds; the zstd decoder in particular keeps worker goroutines alive
// until closed.
func decompress(name string, reader io.Reader) (io.Reader, func(), error) {
	noop := func() {}

	switch filepath.Ext(name) {
	case ".tar":
		return reader, noop, nil
	case ".gz":
		data, err := gzip.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return data, func() { _ = data.Close() }, nil
	case ".xz":
		data, err := xz.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return data, noop, nil
	case ".zst":
		data, err := zstd.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return data, data.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported data member format: %s", name)
	}
}

// untar unpacks the package file tree into the destination directory.
func untar(file io.Reader, destination string) error {
	reader := tar.NewReader(file)

	for {
		header, err := reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		target := filepath.Join(destination, filepath.Clean("/"+header.Name))

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(target), err)
			}

			out, err := os.Create(target)
			if err != nil {
				return fmt.Errorf("failed to create file %s: %w", target, err)
			}

			_ = os.Chmod(target, header.FileInfo().Mode().Perm())

			if _, err := io.Copy(out, reader); err != nil {
				out.Close()
				return fmt.Errorf("failed to copy data to file %s: %w", target, err)
			}
			out.Close()
		case tar.TypeLink:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(target), err)
			}
			// hardlink targets are archive-root relative and precede
			// their links in the stream
			source := filepath.Join(destination, filepath.Clean("/"+header.Linkname))
			_ = os.Remove(target)
			if err := os.Link(source, target); err != nil {
				return fmt.Errorf("failed to create hardlink %s: %w", target, err)
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(target), err)
			}
			// stale links from a previous extraction into the same tree
			_ = os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return fmt.Errorf("failed to create symlink %s: %w", target, err)
			}
		}
	}

	return nil
}
