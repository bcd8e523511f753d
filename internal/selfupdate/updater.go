package selfupdate

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
)

// UpdateInput selects the release to install. An empty TargetVersion
// installs the latest release.
type UpdateInput struct {
	CurrentVersion string
	TargetVersion  string
}

// UpdateProgress is reported at each stage: check, download, verify,
// extract, apply and done.
type UpdateProgress struct {
	Stage   string
	Message string
}

// Update downloads, verifies and installs a release over the running
// executable.
func (c *Checker) Update(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) error {
	if input.CurrentVersion == DevVersion || input.CurrentVersion == "" {
		return ErrDevBuild
	}
	if progress == nil {
		progress = func(UpdateProgress) {}
	}

	tag := input.TargetVersion
	if tag == "" {
		progress(UpdateProgress{Stage: "check", Message: "Checking for latest version..."})
		res, err := c.Check(ctx, &CheckInput{Version: input.CurrentVersion})
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		if !res.UpdateAvailable {
			return ErrAlreadyLatest
		}
		tag = res.LatestVersion
	}

	asset, err := assetName()
	if err != nil {
		return err
	}
	log := c.log.WithField("tag", tag).WithField("asset", asset)

	progress(UpdateProgress{Stage: "download", Message: fmt.Sprintf("Downloading %s...", tag)})
	archive, err := c.fetch(ctx, c.releaseURL(tag, asset))
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}

	progress(UpdateProgress{Stage: "verify", Message: "Verifying checksum..."})
	sums, err := c.fetch(ctx, c.releaseURL(tag, "checksums.txt"))
	if err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}
	want, ok := parseChecksums(sums)[asset]
	if !ok {
		return fmt.Errorf("no checksum for %s in checksums.txt", asset)
	}
	if err := verifyChecksum(archive, want); err != nil {
		return err
	}

	progress(UpdateProgress{Stage: "extract", Message: "Extracting binary..."})
	binary, err := extractBinary(archive, asset)
	if err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}

	progress(UpdateProgress{Stage: "apply", Message: "Applying update..."})
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	sum := sha256.Sum256(binary)
	if err := applyUpdate(binary, target, sum[:]); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	log.Info("binary updated")
	progress(UpdateProgress{Stage: "done", Message: fmt.Sprintf("Updated to %s", tag)})
	return nil
}

// applyUpdate writes binary next to target, checks the written bytes
// against wantSum and renames it over target, keeping target's mode.
func applyUpdate(binary []byte, target string, wantSum []byte) error {
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat target: %w", err)
	}

	tmpDir, err := os.MkdirTemp(filepath.Dir(target), "."+binaryName+"-update-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	staged := filepath.Join(tmpDir, binaryName)
	if err := os.WriteFile(staged, binary, 0o600); err != nil {
		return fmt.Errorf("write staged binary: %w", err)
	}

	written, err := os.ReadFile(staged)
	if err != nil {
		return fmt.Errorf("re-read staged binary: %w", err)
	}
	if sum := sha256.Sum256(written); !bytes.Equal(sum[:], wantSum) {
		return fmt.Errorf("%w: staged binary changed after write", ErrChecksum)
	}

	if err := os.Rename(staged, target); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	if err := os.Chmod(target, info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	return nil
}
