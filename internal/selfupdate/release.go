package selfupdate

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
)

const binaryName = "mathgenius"

// releaseArch maps GOARCH to the architecture label used in archive names.
var releaseArch = map[string]string{
	"amd64": "x86_64",
	"arm64": "arm64",
	"386":   "i386",
}

func assetName() (string, error) {
	return assetNameFor(runtime.GOOS, runtime.GOARCH)
}

// assetNameFor names the release archive for a platform. macOS ships a
// single universal archive.
func assetNameFor(goos, goarch string) (string, error) {
	if goos == "darwin" {
		return binaryName + "_Darwin_all.tar.gz", nil
	}

	var osLabel, ext string
	switch goos {
	case "linux":
		osLabel, ext = "Linux", ".tar.gz"
	case "windows":
		osLabel, ext = "Windows", ".zip"
	default:
		return "", fmt.Errorf("unsupported operating system: %s", goos)
	}
	arch, ok := releaseArch[goarch]
	if !ok {
		return "", fmt.Errorf("unsupported architecture: %s", goarch)
	}
	return fmt.Sprintf("%s_%s_%s%s", binaryName, osLabel, arch, ext), nil
}

func (c *Checker) releaseURL(tag, file string) string {
	return fmt.Sprintf("%s/%s/%s/releases/download/%s/%s",
		strings.TrimRight(c.downloadBaseURL, "/"), c.owner, c.repo, tag, file)
}

func (c *Checker) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// parseChecksums reads a goreleaser checksums.txt ("<sha256>  <file>" per
// line) into a file -> hex digest map. Malformed lines are skipped.
func parseChecksums(data []byte) map[string]string {
	sums := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 2 {
			sums[fields[1]] = fields[0]
		}
	}
	return sums
}

func verifyChecksum(data []byte, want string) error {
	sum := sha256.Sum256(data)
	if got := hex.EncodeToString(sum[:]); !strings.EqualFold(got, want) {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksum, want, got)
	}
	return nil
}
