package resolver

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
)

// RegistryEntry describes one piece of shareable content the native shell has
// registered: its MIME type, an optional direct path (the _data column), an
// optional display name and the blob file backing the byte stream.
type RegistryEntry struct {
	Type        string `json:"type,omitempty"`
	Data        string `json:"data,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Blob        string `json:"blob,omitempty"`
}

// Registry is the on-disk index the LocalSource reads.
type Registry struct {
	Entries map[string]RegistryEntry `json:"entries"`
}

// LocalSource is a ContentSource backed by a registry file the native shell
// maintains. The file is re-read on every call since the shell rewrites it
// whenever new content is shared.
type LocalSource struct {
	registryPath string
}

func NewLocalSource(registryPath string) *LocalSource {
	return &LocalSource{registryPath: registryPath}
}

func (s *LocalSource) load() (*Registry, error) {
	data, err := os.ReadFile(s.registryPath)
	if err != nil {
		return nil, err
	}
	var reg Registry
	if err := sonic.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse content registry: %v", err)
	}
	return &reg, nil
}

// lookup finds the entry for a reference, also trying the id-suffixed key for
// collection queries (selection "_id=?").
func (s *LocalSource) lookup(uri string, args []string) (RegistryEntry, bool) {
	reg, err := s.load()
	if err != nil {
		return RegistryEntry{}, false
	}
	if len(args) == 1 {
		if e, ok := reg.Entries[uri+"/"+args[0]]; ok {
			return e, true
		}
	}
	e, ok := reg.Entries[uri]
	return e, ok
}

func (s *LocalSource) ContentType(uri string) string {
	if e, ok := s.lookup(uri, nil); ok && e.Type != "" {
		return e.Type
	}
	// file references fall back to extension-based detection
	if strings.HasPrefix(uri, "file://") {
		return mime.TypeByExtension(filepath.Ext(uri))
	}
	return ""
}

func (s *LocalSource) Open(uri string) (io.ReadCloser, error) {
	e, ok := s.lookup(uri, nil)
	if !ok {
		return nil, fmt.Errorf("no registry entry for %s", uri)
	}
	blob := e.Blob
	if blob == "" {
		blob = e.Data
	}
	if blob == "" {
		return nil, fmt.Errorf("registry entry for %s has no blob", uri)
	}
	return os.Open(blob)
}

func (s *LocalSource) Query(uri string, selection string, args []string, columns []string) (map[string]string, error) {
	e, ok := s.lookup(uri, args)
	if !ok {
		return nil, nil
	}
	row := make(map[string]string, len(columns))
	for _, col := range columns {
		switch col {
		case ColumnData:
			if e.Data != "" {
				row[col] = e.Data
			}
		case ColumnDisplayName:
			if e.DisplayName != "" {
				row[col] = e.DisplayName
			}
		}
	}
	return row, nil
}
