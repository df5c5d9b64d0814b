package palette

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"pixquant/failure"
)

// RIFFExt marks palette files stored in the RIFF PAL format. Any other name
// is read and written as hex text.
const RIFFExt = ".pal"

// Store is a directory holding one file per named palette.
type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Path resolves a palette name. Absolute names and names with a directory
// component are used as given; bare names live in the store directory.
func (s *Store) Path(name string) string {
	if filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') {
		return name
	}
	return filepath.Join(s.Dir, name)
}

// Load reads a palette. The palette is named after the file stem.
func (s *Store) Load(name string) (*Palette, error) {
	path := s.Path(name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open palette %q: %v", failure.ErrIO, path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close palette file", "name", path, "error", closeErr)
		}
	}()

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	if strings.EqualFold(ext, RIFFExt) {
		return ReadRIFF(f, stem)
	}
	return ReadHex(f, stem)
}

// Save writes p to the store under p.Name, replacing any existing file
// atomically.
func (s *Store) Save(p *Palette) (err error) {
	if p.Name == "" {
		return fmt.Errorf("%w: palette has no name", failure.ErrInvalidArgument)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("%w: unable to create palette folder %q: %v", failure.ErrIO, s.Dir, err)
	}

	dest := s.Path(p.Name)
	outFile, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*")
	if err != nil {
		return fmt.Errorf("%w: could not create temporary palette %q: %v", failure.ErrIO, dest, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("%w: could not close temporary palette %q: %v", failure.ErrIO, dest, defErr)
			canRename = false
		}

		if canRename {
			if defErr := os.Rename(outFile.Name(), dest); defErr != nil {
				err = fmt.Errorf("%w: could not rename palette file %q: %v", failure.ErrIO, dest, defErr)
			}
		} else {
			_ = os.Remove(outFile.Name())
		}
	}()

	var write func(io.Writer) (int64, error) = p.WriteHex
	if strings.EqualFold(filepath.Ext(dest), RIFFExt) {
		write = p.WriteRIFF
	}
	if _, err = write(outFile); err != nil {
		return err
	}
	if err = outFile.Sync(); err != nil {
		return fmt.Errorf("%w: could not flush palette %q: %v", failure.ErrIO, dest, err)
	}

	canRename = true
	return nil
}

// List returns the file names in the store directory. Files are not checked
// for being valid palettes. A missing directory lists as empty.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: unable to read palette folder %q: %v", failure.ErrIO, s.Dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
