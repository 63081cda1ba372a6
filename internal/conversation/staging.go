package conversation

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/avelar/chatdeck/internal/models"
)

// MaxFileSize bounds staged files.
const MaxFileSize = 20 * 1024 * 1024 // 20MB

// Staging is the set of files selected but not yet attached to a sent
// turn. Images are decoded into an inline preview concurrently, but
// every file lands at the position of its original selection index, so
// decode completion order never reorders the list.
type Staging struct {
	mu    sync.Mutex
	files []models.AttachedFile
}

// NewStaging creates an empty staging area.
func NewStaging() *Staging {
	return &Staging{}
}

// Add stages the given files. Each file is classified by its declared
// media type; image decodes run in parallel. Files that cannot be read
// are skipped and reported in the returned error, without affecting
// the files that staged cleanly.
func (s *Staging) Add(paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	slots := make([]*models.AttachedFile, len(paths))
	errs := make([]error, len(paths))
	var wg sync.WaitGroup

	for i, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			errs[i] = fmt.Errorf("%s: %w", path, err)
			continue
		}
		if info.Size() > MaxFileSize {
			errs[i] = fmt.Errorf("%s: exceeds %d byte limit", path, MaxFileSize)
			continue
		}

		mimeType := mime.TypeByExtension(filepath.Ext(path))
		file := &models.AttachedFile{
			ID:   uuid.NewString(),
			Name: filepath.Base(path),
			Kind: models.KindFromMIME(mimeType),
			Size: info.Size(),
		}

		if file.Kind == models.KindImage {
			wg.Add(1)
			go func(i int, path, mimeType string, file *models.AttachedFile) {
				defer wg.Done()
				preview, err := decodeInline(path, mimeType)
				if err != nil {
					errs[i] = fmt.Errorf("%s: %w", path, err)
					return
				}
				file.InlineData = preview
				slots[i] = file
			}(i, path, mimeType, file)
			continue
		}

		slots[i] = file
	}

	wg.Wait()

	s.mu.Lock()
	for _, file := range slots {
		if file != nil {
			s.files = append(s.files, *file)
		}
	}
	s.mu.Unlock()

	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to stage %d file(s): %v", len(failed), failed)
	}
	return nil
}

// decodeInline reads an image and encodes it as a base64 data URL, the
// inline previewable form attached to the outgoing turn.
func decodeInline(path, mimeType string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data)), nil
}

// Files returns a snapshot of the staged files in insertion order.
func (s *Staging) Files() []models.AttachedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AttachedFile, len(s.files))
	copy(out, s.files)
	return out
}

// Len returns the number of staged files.
func (s *Staging) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// Remove deletes a staged file by ID. Removing an unknown ID is a no-op.
func (s *Staging) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.files {
		if f.ID == id {
			s.files = append(s.files[:i], s.files[i+1:]...)
			return
		}
	}
}

// Drain returns the staged files verbatim and empties the staging
// area. Called at send time to move files onto the outgoing turn.
func (s *Staging) Drain() []models.AttachedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.files
	s.files = nil
	return out
}

// Clear empties the staging area.
func (s *Staging) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = nil
}
