package filter

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/s0up4200/cloudconv/route"
)

// headerSize is how much of each file is read for content detection
const headerSize = 3072

// Document describes a local file that may be selected for conversion
type Document struct {
	Name     string       `json:"name" yaml:"name"`
	Path     string       `json:"path" yaml:"path"`
	Dir      string       `json:"-" yaml:"-"`
	Ext      string       `json:"ext" yaml:"ext"`
	Format   route.Format `json:"format" yaml:"format"`
	Size     int64        `json:"size" yaml:"size"`
	Modified time.Time    `json:"modified" yaml:"modified"`
	Links    uint32       `json:"links" yaml:"links"`

	id    fileID
	hasID bool
}

// NewDocument stats and sniffs a single file
func NewDocument(path string) (Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Document{}, err
	}
	if info.IsDir() {
		return Document{}, fmt.Errorf("%s is a directory", path)
	}
	return documentFromInfo(path, info)
}

func documentFromInfo(path string, info fs.FileInfo) (Document, error) {
	header, err := readHeader(path)
	if err != nil {
		return Document{}, err
	}

	id, links, ok := identify(info)

	return Document{
		Name:     info.Name(),
		Path:     path,
		Dir:      filepath.Dir(path),
		Ext:      strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")),
		Format:   route.Detect(info.Name(), header),
		Size:     info.Size(),
		Modified: info.ModTime(),
		Links:    links,
		id:       id,
		hasID:    ok,
	}, nil
}

func readHeader(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, headerSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return buf[:n], nil
}

// appendUnique adds doc unless a hardlink or repeated path to the same data
// was already collected.
func appendUnique(docs []Document, seen map[fileID]struct{}, doc Document) []Document {
	if doc.hasID {
		if _, dup := seen[doc.id]; dup {
			return docs
		}
		seen[doc.id] = struct{}{}
	}
	return append(docs, doc)
}

// Collect gathers documents from files and directories. Directories are
// walked recursively when recursive is set, otherwise only their direct
// entries are listed. Hidden files are skipped.
func Collect(paths []string, recursive bool) ([]Document, error) {
	var docs []Document
	seen := make(map[fileID]struct{})

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			doc, err := documentFromInfo(root, info)
			if err != nil {
				return nil, err
			}
			docs = appendUnique(docs, seen, doc)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path == root {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if !recursive {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}

			fi, err := d.Info()
			if err != nil {
				return err
			}
			doc, err := documentFromInfo(path, fi)
			if err != nil {
				return err
			}
			docs = appendUnique(docs, seen, doc)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return docs, nil
}

// Paths returns the path of every document
func Paths(docs []Document) []string {
	paths := make([]string, len(docs))
	for i, doc := range docs {
		paths[i] = doc.Path
	}
	return paths
}
