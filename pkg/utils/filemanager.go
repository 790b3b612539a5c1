// =============================================================================
// Dossier Generator - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the generator:
//   - Disk and in-memory implementations of types.File
//   - Media type detection for attachments
//   - Form file discovery for batch processing
//   - Output naming and writing (the file delivery hand-off)
//   - Archival of processed form files
//
// ARCHIVAL STRATEGY:
//   - Form files are moved to the input archive after a dossier is delivered
//   - Failed form files remain in their original location
//
// =============================================================================

package utils

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// =============================================================================
// FILES
// =============================================================================

// DiskFile is an attachment read lazily from disk.
type DiskFile struct {
	Path     string
	Declared string
}

// NewDiskFile creates a DiskFile. When mediaType is empty it is derived
// from the file extension.
func NewDiskFile(path, mediaType string) *DiskFile {
	if mediaType == "" {
		mediaType = DetectMediaType(path)
	}
	return &DiskFile{Path: path, Declared: mediaType}
}

func (f *DiskFile) Name() string      { return filepath.Base(f.Path) }
func (f *DiskFile) MediaType() string { return f.Declared }

// Open opens the file for reading.
func (f *DiskFile) Open() (io.ReadCloser, error) {
	return os.Open(f.Path)
}

// MemoryFile is an attachment already held in memory.
type MemoryFile struct {
	FileName string
	Declared string
	Data     []byte
}

func (f *MemoryFile) Name() string      { return f.FileName }
func (f *MemoryFile) MediaType() string { return f.Declared }

// Open returns a reader over the in-memory bytes.
func (f *MemoryFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.Data)), nil
}

// DetectMediaType maps a file extension to a media type.
// Unknown extensions yield "application/octet-stream", which the merger skips.
func DetectMediaType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))

	// Pinned so results do not depend on the host's mime tables.
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	}

	if t := mime.TypeByExtension(ext); t != "" {
		if i := strings.Index(t, ";"); i >= 0 {
			t = t[:i]
		}
		return t
	}
	return "application/octet-stream"
}

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the generator.
type FileManager struct {
	// InputDir is where form files are placed for batch processing.
	InputDir string

	// OutputDir is where generated dossiers are written.
	OutputDir string

	// InputArchiveDir receives form files after successful processing.
	InputArchiveDir string

	// UseTimestampSubdirs creates date-based subdirectories in the archive.
	// Example: input_archive/2024/01/15/form.yaml
	UseTimestampSubdirs bool
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir, inputArchiveDir string) *FileManager {
	return &FileManager{
		InputDir:        inputDir,
		OutputDir:       outputDir,
		InputArchiveDir: inputArchiveDir,
	}
}

// EnsureDirectories creates all required directories if they don't exist.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.InputDir, fm.OutputDir, fm.InputArchiveDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// DiscoverFormFiles lists the YAML form files in the input directory,
// sorted by name so batch runs are reproducible.
func (fm *FileManager) DiscoverFormFiles() ([]string, error) {
	var files []string

	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(fm.InputDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan input directory: %w", err)
		}
		files = append(files, matches...)
	}

	sort.Strings(files)
	return files, nil
}

// Deliver writes a finished document to the output directory.
// It satisfies pipeline.Deliverer.
func (fm *FileManager) Deliver(name string, data []byte) error {
	_, err := fm.WriteOutput(name, data)
	return err
}

// WriteOutput writes data to OutputDir/name through a temporary file so a
// failed write never leaves a partial document behind.
func (fm *FileManager) WriteOutput(name string, data []byte) (string, error) {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(fm.OutputDir, name)
	tmp := outputPath + ".part"

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, outputPath); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to finalise file: %w", err)
	}

	return outputPath, nil
}

// ArchiveInputFile moves a processed form file into the input archive.
//
// RETURNS:
//   - The new path of the archived file.
//   - An error if the move fails.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	archivePath := fm.getArchivePath(fm.InputArchiveDir, filePath)

	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := os.Rename(filePath, archivePath); err != nil {
		// Rename fails across devices; fall back to copy + delete.
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to archive file: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original after archiving: %w", err)
		}
	}

	return archivePath, nil
}

// getArchivePath builds the archive destination, adding a date subdirectory
// when enabled and a timestamp suffix when the name is already taken.
func (fm *FileManager) getArchivePath(archiveDir, filePath string) string {
	fileName := filepath.Base(filePath)

	if fm.UseTimestampSubdirs {
		now := time.Now()
		archiveDir = filepath.Join(archiveDir, now.Format("2006"), now.Format("01"), now.Format("02"))
	}

	archivePath := filepath.Join(archiveDir, fileName)
	if FileExists(archivePath) {
		ext := filepath.Ext(fileName)
		base := strings.TrimSuffix(fileName, ext)
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s_%s%s", base, time.Now().Format("20060102_150405"), ext))
	}

	return archivePath
}

// =============================================================================
// FILE NAMING
// =============================================================================

// DossierFileName builds "dossie_<network>_<YYYY-MM-DD>.pdf". An empty
// network is replaced by fallback.
func DossierFileName(network, fallback string, now time.Time) string {
	if network == "" {
		network = fallback
	}
	return fmt.Sprintf("dossie_%s_%s.pdf", sanitizeFileName(network), now.Format("2006-01-02"))
}

// sanitizeFileName replaces path separators so a network name can never
// escape the output directory.
func sanitizeFileName(s string) string {
	return strings.NewReplacer("/", "-", "\\", "-").Replace(s)
}

// =============================================================================
// HELPERS
// =============================================================================

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// FileExists checks whether a path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
