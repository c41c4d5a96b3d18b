package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Sink receives finished artifacts.
// Implementations must be safe for concurrent use.
type Sink interface {
	WriteArtifact(ctx context.Context, name string, data []byte) error
}

// DirSink writes artifacts as files under a directory. Each file is
// written to a temporary name and renamed into place, so readers never
// observe a partial artifact.
type DirSink struct {
	dir string
}

var _ Sink = (*DirSink)(nil)

// NewDirSink creates the output directory if needed.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DirSink{dir: dir}, nil
}

// Dir returns the output directory.
func (s *DirSink) Dir() string {
	return s.dir
}

// WriteArtifact writes data to dir/name atomically.
func (s *DirSink) WriteArtifact(ctx context.Context, name string, data []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.dir, name))
}

type teeSink []Sink

// TeeSink returns a Sink that writes each artifact to every sink in order,
// stopping at the first failure. Rewriting an artifact replaces it, so a
// retried write is safe.
func TeeSink(sinks ...Sink) Sink {
	if len(sinks) == 1 {
		return sinks[0]
	}
	return teeSink(slices.Clone(sinks))
}

func (t teeSink) WriteArtifact(ctx context.Context, name string, data []byte) error {
	for _, s := range t {
		if err := s.WriteArtifact(ctx, name, data); err != nil {
			return err
		}
	}
	return nil
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`+"\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidArtifactName, name)
	}
	return nil
}
