package editor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const tempFilePrefix = "external_editor_revived_"

// TempFile is a session's exclusive temporary file
type TempFile struct {
	Path string
	// createdDirs lists directories made for this file, deepest first
	createdDirs []string
}

// CreateTempFile creates a uniquely named file in dir, creating dir if it
// does not exist. An empty dir selects the system temporary directory.
func CreateTempFile(dir, sessionKey string) (*TempFile, *os.File, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, nil, err
	}

	created, err := makeDirs(dir)
	if err != nil {
		return nil, nil, err
	}

	tf := &TempFile{
		Path:        filepath.Join(dir, fmt.Sprintf("%s%s_%s.eml", tempFilePrefix, sanitizeKey(sessionKey), uuid.New().String())),
		createdDirs: created,
	}
	f, err := os.OpenFile(tf.Path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		tf.removeDirs()
		return nil, nil, err
	}
	return tf, f, nil
}

// Remove deletes the file and any directories created for it. Directories
// still holding other files are left in place.
func (t *TempFile) Remove() error {
	err := os.Remove(t.Path)
	if errors.Is(err, fs.ErrNotExist) {
		err = nil
	}
	t.removeDirs()
	return err
}

func (t *TempFile) removeDirs() {
	for _, d := range t.createdDirs {
		if os.Remove(d) != nil {
			return
		}
	}
}

// makeDirs creates dir and returns the directories it had to create,
// deepest first
func makeDirs(dir string) ([]string, error) {
	var missing []string
	for d := dir; ; d = filepath.Dir(d) {
		if _, err := os.Stat(d); err == nil {
			break
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		missing = append(missing, d)
		if filepath.Dir(d) == d {
			break
		}
	}
	if len(missing) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return missing, nil
}

func sanitizeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
		if b.Len() >= 32 {
			break
		}
	}
	if b.Len() == 0 {
		return "session"
	}
	return b.String()
}
