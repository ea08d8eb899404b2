// Fetch structure files from the archive.
// The archive serves one file per identifier at "<base><id>.pdb". We
// keep a local copy in the staging directory and never fetch the same
// identifier twice.

package strike

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
)

// ErrStructureNotFound is returned when the archive does not have a
// structure for an identifier, or answers with anything but success.
var ErrStructureNotFound = errors.New("structure not found in archive")

// getPDB resolves one structure file and returns its absolute path.
// If the file is already in the staging directory, nothing is fetched.
func (st *Strike) getPDB(ctx context.Context, id string) (string, error) {
	outPath := filepath.Join(st.dir, id+".pdb")
	if isFile(outPath) {
		return outPath, nil
	}
	url := st.baseURL + id + ".pdb"
	slog.Debug("downloading structure file", "id", id, "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := st.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrStructureNotFound, id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s: got %s from %s", ErrStructureNotFound, id, resp.Status, url)
	}

	fp, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fp, resp.Body); err != nil {
		fp.Close()
		os.Remove(outPath) // do not leave a torso behind
		return "", fmt.Errorf("saving %s: %w", outPath, err)
	}
	if err := fp.Close(); err != nil {
		return "", err
	}
	return outPath, nil
}
