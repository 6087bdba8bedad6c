package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"github.com/minhlq/curmap/pkg/dataset"
	"github.com/minhlq/curmap/pkg/errors"
)

// resolveFiles fills unset paths from Dir using the conventional filenames.
// A conventional file that does not exist stays unset unless it is one of
// the required tables, which are reported by ValidateForLoad instead.
func (o *Options) resolveFiles() {
	if o.Dir == "" {
		return
	}
	fill := func(dst *string, name string, required bool) {
		if *dst != "" {
			return
		}
		path := filepath.Join(o.Dir, name)
		if required {
			*dst = path
			return
		}
		if _, err := os.Stat(path); err == nil {
			*dst = path
		}
	}
	fill(&o.Files.Outcomes, FileOutcomes, true)
	fill(&o.Files.Indicators, FileIndicators, false)
	fill(&o.Files.Courses, FileCourses, true)
	fill(&o.Files.Details, FileDetails, false)
	fill(&o.Files.Relations, FileRelations, true)
	fill(&o.Files.Links, FileLinks, false)
}

// ReadSources reads all configured CSV files into normalized rows and
// returns a content hash over the raw bytes, used as the dataset cache key.
func ReadSources(files Sources) (dataset.Sources, string, error) {
	var src dataset.Sources
	h := sha256.New()

	read := func(path string, dst *[]dataset.Row) error {
		if path == "" {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "open source %s", path)
		}
		defer f.Close()

		rows, err := dataset.ReadRows(io.TeeReader(f, h))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRow, err, "read %s", path)
		}
		*dst = rows
		return nil
	}

	steps := []struct {
		path string
		dst  *[]dataset.Row
	}{
		{files.Outcomes, &src.Outcomes},
		{files.Indicators, &src.Indicators},
		{files.Courses, &src.Courses},
		{files.Details, &src.Details},
		{files.Relations, &src.Relations},
		{files.Links, &src.Links},
	}
	for _, s := range steps {
		if err := read(s.path, s.dst); err != nil {
			return dataset.Sources{}, "", err
		}
	}

	return src, hex.EncodeToString(h.Sum(nil)), nil
}
