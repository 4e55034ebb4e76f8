package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/xxh3"

	"recnorm/services/ingestion/internal/errors"
)

// Fingerprint hashes the names and contents of files, in order, so a dataset
// changes fingerprint when any file is added, renamed or edited.
func Fingerprint(files []string) (string, error) {
	h := xxh3.New()
	for _, name := range files {
		fmt.Fprintf(h, "%s\x00", filepath.Base(name))
		if err := hashFile(h, name); err != nil {
			return "", err
		}
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

func hashFile(w io.Writer, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return errors.Internal(fmt.Sprintf("opening %s", name), err)
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return errors.Internal(fmt.Sprintf("hashing %s", name), err)
	}
	return nil
}
