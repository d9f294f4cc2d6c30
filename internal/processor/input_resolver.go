package processor

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// InputResolver handles input file detection and glob pattern matching
type InputResolver struct {
	baseDir string // Base directory for input file searches
}

// NewInputResolver creates a new input file resolver with the specified base directory
func NewInputResolver(baseDir string) *InputResolver {
	if baseDir == "" {
		baseDir = "."
	}
	return &InputResolver{
		baseDir: baseDir,
	}
}

// ResolveInput resolves an input argument to a single file path. A path that
// names an existing file wins; otherwise the argument is treated as a glob
// pattern and the most recently modified match is returned.
func (ir *InputResolver) ResolveInput(pathOrPattern string) (string, error) {
	if pathOrPattern == "" {
		return "", fmt.Errorf("no input file specified")
	}

	fullPath := ir.join(pathOrPattern)
	if info, err := os.Stat(fullPath); err == nil && info.Mode().IsRegular() {
		return fullPath, nil
	}

	return ir.resolvePattern(pathOrPattern)
}

// resolvePattern handles glob pattern matching and finds the latest file
func (ir *InputResolver) resolvePattern(pattern string) (string, error) {
	fullPattern := ir.join(pattern)

	matches, err := filepath.Glob(fullPattern)
	if err != nil {
		return "", fmt.Errorf("invalid glob pattern %s: %w", fullPattern, err)
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("no files match pattern: %s", fullPattern)
	}

	latestFile, err := ir.findLatestFile(matches)
	if err != nil {
		return "", fmt.Errorf("finding latest file: %w", err)
	}

	return latestFile, nil
}

// FindInputFiles returns all regular files matching a glob pattern, sorted
// newest first
func (ir *InputResolver) FindInputFiles(pattern string) ([]string, error) {
	fullPattern := ir.join(pattern)

	matches, err := filepath.Glob(fullPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %s: %w", fullPattern, err)
	}

	type fileInfo struct {
		path    string
		modTime time.Time
	}

	var fileInfos []fileInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		fileInfos = append(fileInfos, fileInfo{path: match, modTime: info.ModTime()})
	}

	sort.Slice(fileInfos, func(i, j int) bool {
		return fileInfos[i].modTime.After(fileInfos[j].modTime)
	})

	files := make([]string, len(fileInfos))
	for i, fi := range fileInfos {
		files[i] = fi.path
	}

	return files, nil
}

// findLatestFile returns the most recently modified file from a list of file paths
func (ir *InputResolver) findLatestFile(files []string) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("no files provided")
	}

	if len(files) == 1 {
		return files[0], nil
	}

	type fileInfo struct {
		path    string
		modTime time.Time
	}

	var fileInfos []fileInfo
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			// Skip files that can't be accessed
			continue
		}
		fileInfos = append(fileInfos, fileInfo{
			path:    file,
			modTime: info.ModTime(),
		})
	}

	if len(fileInfos) == 0 {
		return "", fmt.Errorf("no accessible files found")
	}

	sort.Slice(fileInfos, func(i, j int) bool {
		return fileInfos[i].modTime.After(fileInfos[j].modTime)
	})

	return fileInfos[0].path, nil
}

// ValidateInputFile performs basic validation on an input file
func (ir *InputResolver) ValidateInputFile(filePath string) error {
	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input file does not exist: %s", filePath)
		}
		return fmt.Errorf("cannot access input file %s: %w", filePath, err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("path is not a regular file: %s", filePath)
	}

	if info.Size() == 0 {
		return fmt.Errorf("input file is empty: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("cannot open input file %s: %w", filePath, err)
	}
	file.Close()

	return nil
}

// GetFileAge returns the age of a file as a time.Duration
func (ir *InputResolver) GetFileAge(filePath string) (time.Duration, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return 0, fmt.Errorf("getting file info for %s: %w", filePath, err)
	}

	return time.Since(info.ModTime()), nil
}

// IsFileNewer checks if file1 is newer than file2
func (ir *InputResolver) IsFileNewer(file1, file2 string) (bool, error) {
	info1, err := os.Stat(file1)
	if err != nil {
		return false, fmt.Errorf("getting file info for %s: %w", file1, err)
	}

	info2, err := os.Stat(file2)
	if err != nil {
		return false, fmt.Errorf("getting file info for %s: %w", file2, err)
	}

	return info1.ModTime().After(info2.ModTime()), nil
}

// GetBaseDir returns the base directory used for input file resolution
func (ir *InputResolver) GetBaseDir() string {
	return ir.baseDir
}

// SetBaseDir updates the base directory used for input file resolution
func (ir *InputResolver) SetBaseDir(baseDir string) {
	ir.baseDir = baseDir
}

func (ir *InputResolver) join(pathOrPattern string) string {
	if filepath.IsAbs(pathOrPattern) {
		return pathOrPattern
	}
	return filepath.Join(ir.baseDir, pathOrPattern)
}
