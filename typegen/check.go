package typegen

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/teranos/schemagen/errors"
)

// CheckResult holds the result of comparing two output trees
type CheckResult struct {
	UpToDate bool
	Missing  []string // generated but absent from the existing tree
	Extra    []string // present in the existing tree only
	Changed  []string // present in both with different bytes
}

// CompareDirectories compares freshly generated files in generated with the
// files in existing. Paths in the result are relative and sorted. Generated
// files carry no timestamps, so the compare is byte-exact.
func CompareDirectories(generated, existing string) (*CheckResult, error) {
	want, err := listFiles(generated)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", generated)
	}
	have, err := listFiles(existing)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", existing)
	}

	result := &CheckResult{}
	for rel := range want {
		if !have[rel] {
			result.Missing = append(result.Missing, rel)
			continue
		}
		different, err := filesAreDifferent(filepath.Join(generated, rel), filepath.Join(existing, rel))
		if err != nil {
			return nil, err
		}
		if different {
			result.Changed = append(result.Changed, rel)
		}
	}
	for rel := range have {
		if !want[rel] {
			result.Extra = append(result.Extra, rel)
		}
	}

	sort.Strings(result.Missing)
	sort.Strings(result.Extra)
	sort.Strings(result.Changed)
	result.UpToDate = len(result.Missing)+len(result.Extra)+len(result.Changed) == 0
	return result, nil
}

// listFiles returns the relative paths of regular files under dir.
// A missing directory is an empty tree.
func listFiles(dir string) (map[string]bool, error) {
	files := make(map[string]bool)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return files, nil
	}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = true
		return nil
	})
	return files, err
}

func filesAreDifferent(file1, file2 string) (bool, error) {
	content1, err := os.ReadFile(file1)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", file1)
	}
	content2, err := os.ReadFile(file2)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", file2)
	}
	return !bytes.Equal(content1, content2), nil
}
