package reportdir

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Dhanbad94/ai-tms-playwright-e2e-tests/results"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/pathutil"
)

const (
	jsonExt  = ".json"
	filePerm = 0644
)

// Store gives access to the shard files of one results directory.
// Names are relative to the directory.
type Store interface {
	Dir() string
	Path(name string) string
	ListJSON() ([]string, error)
	Read(name string) ([]results.ShardResult, error)
	Write(name string, entries []results.ShardResult) error
	WriteText(name, text string) error
	Rename(oldName, newName string) error
	Remove(name string) error
}

type store struct {
	dir         string
	fileManager fileutil.FileManager
	pathChecker pathutil.PathChecker
}

// NewStore ...
func NewStore(dir string, fileManager fileutil.FileManager, pathChecker pathutil.PathChecker) Store {
	return &store{
		dir:         dir,
		fileManager: fileManager,
		pathChecker: pathChecker,
	}
}

func (s store) Dir() string {
	return s.dir
}

func (s store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// ListJSON enumerates the directory on every call, the content changes while shards are merged and consumed.
func (s store) ListJSON() ([]string, error) {
	entryNames, err := s.fileManager.ReadDirEntryNames(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list results directory (%s): %w", s.dir, err)
	}

	var names []string
	for _, name := range entryNames {
		if filepath.Ext(name) != jsonExt {
			continue
		}
		isDir, err := s.pathChecker.IsDirExists(s.Path(name))
		if err != nil {
			return nil, fmt.Errorf("failed to check (%s): %w", s.Path(name), err)
		}
		if isDir {
			continue
		}
		names = append(names, name)
	}

	return names, nil
}

func (s store) Read(name string) ([]results.ShardResult, error) {
	pth := s.Path(name)
	data, err := s.readFile(pth)
	if err != nil {
		return nil, fmt.Errorf("failed to read shard file (%s): %w", pth, err)
	}

	entries, err := results.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse shard file (%s): %w", pth, err)
	}

	return entries, nil
}

func (s store) readFile(pth string) ([]byte, error) {
	f, err := s.fileManager.Open(pth)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	return io.ReadAll(f)
}

func (s store) Write(name string, entries []results.ShardResult) error {
	data, err := results.Encode(entries)
	if err != nil {
		return fmt.Errorf("failed to encode results for (%s): %w", name, err)
	}

	return s.WriteText(name, string(data))
}

func (s store) WriteText(name, text string) error {
	pth := s.Path(name)
	if err := s.fileManager.Write(pth, text, filePerm); err != nil {
		return fmt.Errorf("failed to write (%s): %w", pth, err)
	}
	return nil
}

func (s store) Rename(oldName, newName string) error {
	if err := os.Rename(s.Path(oldName), s.Path(newName)); err != nil {
		return fmt.Errorf("failed to rename (%s) to (%s): %w", oldName, newName, err)
	}
	return nil
}

func (s store) Remove(name string) error {
	pth := s.Path(name)
	if err := s.fileManager.Remove(pth); err != nil {
		return fmt.Errorf("failed to remove (%s): %w", pth, err)
	}
	return nil
}
