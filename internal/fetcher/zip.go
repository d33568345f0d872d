package fetcher

import (
	"archive/zip"
	"io"
	"path"
	"strings"

	"github.com/rotisserie/eris"
)

// zipMember closes the entry and its archive together.
type zipMember struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (z *zipMember) Close() error {
	err := z.ReadCloser.Close()
	if cerr := z.archive.Close(); err == nil {
		err = cerr
	}
	return err
}

// OpenZIPMember opens the first file in the archive whose name ends with ext
// (case-insensitive) and returns a reader over it with the member name.
// The PRF publishes each year's log as a ZIP holding a single CSV.
func OpenZIPMember(zipPath, ext string) (io.ReadCloser, string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, "", eris.Wrap(err, "zip: open archive")
	}

	ext = strings.ToLower(ext)
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(f.Name), ext) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			_ = r.Close()
			return nil, "", eris.Wrapf(err, "zip: open entry %s", f.Name)
		}
		return &zipMember{ReadCloser: rc, archive: r}, path.Base(f.Name), nil
	}

	_ = r.Close()
	return nil, "", eris.Errorf("zip: no %s file in %s", ext, zipPath)
}
