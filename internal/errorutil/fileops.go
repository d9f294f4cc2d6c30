package errorutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileOpError provides structured error information for file operations
type FileOpError struct {
	Operation string
	Path      string
	Err       error
}

func (e *FileOpError) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Operation, e.Path, e.Err)
}

func (e *FileOpError) Unwrap() error {
	return e.Err
}

// ValidateFileReadable checks that a file exists, is a regular file, and can
// be opened for reading
func ValidateFileReadable(filePath, operation string) error {
	if filePath == "" {
		return &FileOpError{
			Operation: operation,
			Path:      filePath,
			Err:       fmt.Errorf("empty file path provided"),
		}
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &FileOpError{
				Operation: operation,
				Path:      filePath,
				Err:       fmt.Errorf("file not found"),
			}
		}
		return &FileOpError{
			Operation: operation,
			Path:      filePath,
			Err:       fmt.Errorf("cannot access file: %w", err),
		}
	}

	if info.IsDir() {
		return &FileOpError{
			Operation: operation,
			Path:      filePath,
			Err:       fmt.Errorf("path is a directory, expected file"),
		}
	}

	file, err := os.Open(filePath)
	if err != nil {
		return &FileOpError{
			Operation: operation,
			Path:      filePath,
			Err:       fmt.Errorf("cannot open file for reading: %w", err),
		}
	}
	file.Close()

	return nil
}

// ValidateDirectory checks if a directory exists and optionally creates it
func ValidateDirectory(dirPath, operation string, createIfMissing bool) error {
	if dirPath == "" {
		return &FileOpError{
			Operation: operation,
			Path:      dirPath,
			Err:       fmt.Errorf("empty directory path provided"),
		}
	}

	info, err := os.Stat(dirPath)
	if err != nil {
		if os.IsNotExist(err) {
			if createIfMissing {
				if mkdirErr := os.MkdirAll(dirPath, 0755); mkdirErr != nil {
					return &FileOpError{
						Operation: operation,
						Path:      dirPath,
						Err:       fmt.Errorf("failed to create directory: %w", mkdirErr),
					}
				}
				return nil
			}
			return &FileOpError{
				Operation: operation,
				Path:      dirPath,
				Err:       fmt.Errorf("directory not found"),
			}
		}
		return &FileOpError{
			Operation: operation,
			Path:      dirPath,
			Err:       fmt.Errorf("cannot access directory: %w", err),
		}
	}

	if !info.IsDir() {
		return &FileOpError{
			Operation: operation,
			Path:      dirPath,
			Err:       fmt.Errorf("path exists but is not a directory"),
		}
	}

	return nil
}

// SafeWriteFile writes data to a file, creating the parent directory first
// when createDir is set
func SafeWriteFile(filePath string, data []byte, operation string, createDir bool) error {
	if createDir {
		dir := filepath.Dir(filePath)
		if err := ValidateDirectory(dir, operation, true); err != nil {
			return err
		}
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return &FileOpError{
			Operation: operation,
			Path:      filePath,
			Err:       fmt.Errorf("failed to write file: %w", err),
		}
	}

	return nil
}
