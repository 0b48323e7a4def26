package status

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
)

const fileSuffix = ".status.json"

// FileRepository stores one JSON status file per component in a directory.
type FileRepository struct {
	dir string
}

// NewFileRepository creates a new FileRepository for the given directory.
func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{dir: dir}
}

// Load retrieves the last saved status of the named component.
// Returns an empty status and nil error if no status file exists.
func (r *FileRepository) Load(ctx context.Context, name string) (Status, error) {
	data, err := os.ReadFile(r.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return Status{}, nil
		}
		return Status{}, err
	}

	var st Status
	if err := json.Unmarshal(data, &st); err != nil {
		return Status{}, err
	}

	return st, nil
}

// Save persists the status atomically (write to temp file, then rename).
func (r *FileRepository) Save(ctx context.Context, st Status) error {
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}

	path := r.Path(st.Name)
	tmp := path + ".tmp"

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

// Remove deletes the status file of the named component. A missing file is not an error.
func (r *FileRepository) Remove(ctx context.Context, name string) error {
	err := os.Remove(r.Path(name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Path returns the full path to the status file of the named component.
func (r *FileRepository) Path(name string) string {
	return filepath.Join(r.dir, name+fileSuffix)
}
