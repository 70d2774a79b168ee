package station

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/datdenkikniet/Peroxidecast/internal/utils"
)

// FallbackLibrary maps mounts to local audio files served when the mount is
// off air. Files live flat in one directory and match by mount name with
// the leading slash dropped: /main.ogg -> <dir>/main.ogg.
type FallbackLibrary struct {
	dir string
}

func NewFallbackLibrary(dir string) *FallbackLibrary {
	if dir == "" {
		return nil
	}
	return &FallbackLibrary{dir: dir}
}

// Lookup returns the fallback file for a mount, or "" when there is none.
// Mount names containing separators beyond the leading slash never match.
func (f *FallbackLibrary) Lookup(mount string) string {
	if f == nil {
		return ""
	}
	name := strings.TrimPrefix(mount, "/")
	if name == "" || strings.ContainsAny(name, `/\`) {
		return ""
	}
	full := filepath.Join(f.dir, name)
	if st, err := os.Stat(full); err != nil || st.IsDir() {
		return ""
	}
	return full
}

// Title extracts "Artist - Title" from the file's tags. We try to parse
// tags; if that fails we fall back to a cleaned filename.
func (f *FallbackLibrary) Title(path string) string {
	file, err := os.Open(path)
	if err != nil {
		return utils.CleanFilename(filepath.Base(path))
	}
	defer file.Close()

	metadata, err := tag.ReadFrom(file)
	if err != nil || metadata.Title() == "" {
		return utils.CleanFilename(filepath.Base(path))
	}
	if artist := metadata.Artist(); artist != "" {
		return artist + " - " + metadata.Title()
	}
	return metadata.Title()
}
