package resolver

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ttlworker "github.com/FloatTech/ttl"
	"github.com/google/uuid"

	"github.com/wisdomgarden/openwith-go/tool"
	"github.com/wisdomgarden/openwith-go/types"
)

// Columns the resolver asks the content source for. Same names the Android
// media provider exposes, so a registry written from a real device maps 1:1.
const (
	ColumnData        = "_data"
	ColumnDisplayName = "_display_name"
)

// Known document provider authorities.
const (
	authorityExternalStorage = "com.android.externalstorage.documents"
	authorityDownloads       = "com.android.providers.downloads.documents"
	authorityMedia           = "com.android.providers.media.documents"

	publicDownloadsURI = "content://downloads/public_downloads"
)

var mediaCollections = map[string]string{
	"image": "content://media/external/images/media",
	"video": "content://media/external/video/media",
	"audio": "content://media/external/audio/media",
}

// ContentSource is the content-resolution service the host exposes: type
// lookup, byte-stream open and a one-row column query.
type ContentSource interface {
	ContentType(uri string) string
	Open(uri string) (io.ReadCloser, error)
	// Query returns the first matching row as column name -> value, or nil
	// when the reference matches nothing.
	Query(uri string, selection string, args []string, columns []string) (map[string]string, error)
}

// Reference classification, decided once at the top of Resolve.
type refKind int

const (
	refUnknown refKind = iota
	refFile
	refExternalStorageDoc
	refDownloadsDoc
	refMediaDoc
	refContent
)

const typeCacheTTL = 60 * time.Second

// Resolver turns opaque content references into readable filesystem paths,
// materializing a temporary copy when the provider exposes no direct path.
type Resolver struct {
	source      ContentSource
	tempDir     string
	storageRoot string
	typeCache   *ttlworker.Cache[string, string]
}

func New(source ContentSource, tempDir string, storageRoot string) *Resolver {
	return &Resolver{
		source:      source,
		tempDir:     tempDir,
		storageRoot: storageRoot,
		typeCache:   ttlworker.NewCache[string, string](typeCacheTTL),
	}
}

// ContentType looks up the MIME type for a reference, caching hits so that
// repeated intents for the same content skip the provider round trip.
func (r *Resolver) ContentType(rawURI string) string {
	if t := r.typeCache.Get(rawURI); t != "" {
		return t
	}
	t := r.source.ContentType(rawURI)
	if t != "" {
		r.typeCache.Set(rawURI, t)
	}
	return t
}

// Resolve maps a content reference to a concrete path. The bool result is
// false for anything that cannot be fully resolved; a false result never
// leaves a partial file behind.
func (r *Resolver) Resolve(rawURI string) (types.PathResolution, bool) {
	u, err := url.Parse(rawURI)
	if err != nil {
		tool.DefaultLogger.Debugf("[Resolver] Unparsable reference %q: %v", rawURI, err)
		return types.PathResolution{}, false
	}

	switch classify(u) {
	case refFile:
		if u.Path == "" {
			return types.PathResolution{}, false
		}
		return types.PathResolution{
			Path:        u.Path,
			DisplayName: filepath.Base(u.Path),
		}, true

	case refExternalStorageDoc:
		_, suffix, ok := splitDocumentID(u)
		if !ok {
			return types.PathResolution{}, false
		}
		path := r.storageRoot + "/" + suffix
		return types.PathResolution{
			Path:        path,
			DisplayName: filepath.Base(path),
		}, true

	case refDownloadsDoc:
		id := documentID(u)
		if _, err := strconv.ParseInt(id, 10, 64); err != nil {
			tool.DefaultLogger.Debugf("[Resolver] Non-numeric downloads id %q", id)
			return types.PathResolution{}, false
		}
		return r.queryContent(publicDownloadsURI+"/"+id, "", nil)

	case refMediaDoc:
		kind, id, ok := splitDocumentID(u)
		if !ok {
			return types.PathResolution{}, false
		}
		collection, ok := mediaCollections[kind]
		if !ok {
			return types.PathResolution{}, false
		}
		if _, err := strconv.ParseInt(id, 10, 64); err != nil {
			tool.DefaultLogger.Debugf("[Resolver] Non-numeric media id %q", id)
			return types.PathResolution{}, false
		}
		return r.queryContent(collection, "_id=?", []string{id})

	case refContent:
		return r.queryContent(rawURI, "", nil)
	}

	return types.PathResolution{}, false
}

// queryContent resolves a generic content reference through the source's
// column query: a direct path column wins, a display name alone forces a
// materializing copy, anything else is unresolvable.
func (r *Resolver) queryContent(uri string, selection string, args []string) (types.PathResolution, bool) {
	row, err := r.source.Query(uri, selection, args, []string{ColumnData, ColumnDisplayName})
	if err != nil || row == nil {
		return types.PathResolution{}, false
	}
	if path := row[ColumnData]; path != "" {
		return types.PathResolution{
			Path:        path,
			DisplayName: filepath.Base(path),
		}, true
	}
	if name := row[ColumnDisplayName]; name != "" {
		return r.materialize(uri, name)
	}
	return types.PathResolution{}, false
}

// materialize copies the reference's byte stream into the temp dir under the
// display name. An empty stream still yields a zero-length file.
func (r *Resolver) materialize(uri string, displayName string) (types.PathResolution, bool) {
	name := filepath.Base(displayName)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = uuid.NewString()
	}

	in, err := r.source.Open(uri)
	if err != nil {
		tool.DefaultLogger.Debugf("[Resolver] Open failed for %q: %v", uri, err)
		return types.PathResolution{}, false
	}
	defer func() {
		if err := in.Close(); err != nil {
			tool.DefaultLogger.Errorf("[Resolver] Failed to close stream for %q: %v", uri, err)
		}
	}()

	if err := os.MkdirAll(r.tempDir, 0o755); err != nil {
		return types.PathResolution{}, false
	}
	outPath := filepath.Join(r.tempDir, name)
	out, err := os.Create(outPath)
	if err != nil {
		return types.PathResolution{}, false
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(outPath)
		return types.PathResolution{}, false
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(outPath)
		return types.PathResolution{}, false
	}

	return types.PathResolution{
		Path:        outPath,
		DisplayName: name,
		IsTemp:      true,
	}, true
}

func classify(u *url.URL) refKind {
	switch strings.ToLower(u.Scheme) {
	case "file":
		return refFile
	case "content":
		switch u.Host {
		case authorityExternalStorage:
			return refExternalStorageDoc
		case authorityDownloads:
			return refDownloadsDoc
		case authorityMedia:
			return refMediaDoc
		default:
			return refContent
		}
	}
	return refUnknown
}

// documentID returns the provider-scoped id, the segment after /document/.
func documentID(u *url.URL) string {
	return strings.TrimPrefix(u.Path, "/document/")
}

// splitDocumentID splits a "kind:suffix" document id.
func splitDocumentID(u *url.URL) (kind string, suffix string, ok bool) {
	id := documentID(u)
	kind, suffix, ok = strings.Cut(id, ":")
	if !ok || suffix == "" {
		return "", "", false
	}
	return kind, suffix, true
}
