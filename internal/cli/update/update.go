// Package update checks for and installs new CLI releases.
package update

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	releasesAPIURL  = "https://api.github.com/repos/reachly-dev/reachly/releases/latest"
	downloadBaseURL = "https://github.com/reachly-dev/reachly/releases/download"
	userAgent       = "reachly-cli"
)

type release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// LatestVersion fetches the most recent release tag
func LatestVersion() (string, error) {
	client := &http.Client{Timeout: 10 * time.Second}

	req, err := http.NewRequest(http.MethodGet, releasesAPIURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release lookup returned status %d", resp.StatusCode)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", fmt.Errorf("failed to parse release: %w", err)
	}
	return rel.TagName, nil
}

// isNewer reports whether latest differs from current. Dev builds always
// suggest updating.
func isNewer(current, latest string) bool {
	current = strings.TrimPrefix(current, "v")
	latest = strings.TrimPrefix(latest, "v")
	if current == "dev" {
		return true
	}
	return current != latest
}

// PrintNotification prints an upgrade hint when a newer release exists.
// Failures are silently ignored; the check is best-effort.
func PrintNotification(currentVersion string) {
	latest, err := LatestVersion()
	if err != nil {
		return
	}
	if isNewer(currentVersion, latest) {
		fmt.Fprintf(os.Stderr, "New version %s -> %s. Run: reachly update\n\n", currentVersion, latest)
	}
}

// SelfUpdate downloads the latest release binary, verifies its checksum,
// and replaces the running executable
func SelfUpdate(currentVersion string) error {
	latest, err := LatestVersion()
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !isNewer(currentVersion, latest) {
		fmt.Printf("Already up to date (version %s)\n", currentVersion)
		return nil
	}

	binaryName, err := binaryName()
	if err != nil {
		return err
	}

	fmt.Printf("Updating from %s to %s...\n", currentVersion, latest)
	downloadURL := fmt.Sprintf("%s/%s/%s", downloadBaseURL, latest, binaryName)

	tmpFile, err := download(downloadURL)
	if err != nil {
		return fmt.Errorf("failed to download update: %w", err)
	}
	defer os.Remove(tmpFile)

	if err := verifyChecksum(tmpFile, downloadURL+".sha256"); err != nil {
		return fmt.Errorf("checksum verification failed: %w", err)
	}

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return fmt.Errorf("failed to resolve executable path: %w", err)
	}

	if err := replaceBinary(tmpFile, execPath); err != nil {
		return fmt.Errorf("failed to install update: %w", err)
	}

	fmt.Printf("Updated to version %s\n", latest)
	return nil
}

func binaryName() (string, error) {
	switch runtime.GOOS {
	case "linux", "darwin":
		switch runtime.GOARCH {
		case "amd64", "arm64":
			return fmt.Sprintf("reachly-%s-%s", runtime.GOOS, runtime.GOARCH), nil
		}
	case "windows":
		if runtime.GOARCH == "amd64" {
			return "reachly-windows-amd64.exe", nil
		}
	}
	return "", fmt.Errorf("unsupported platform: %s/%s", runtime.GOOS, runtime.GOARCH)
}

func download(url string) (string, error) {
	client := &http.Client{Timeout: 5 * time.Minute}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	tmpFile, err := os.CreateTemp("", "reachly-update-*")
	if err != nil {
		return "", err
	}
	defer tmpFile.Close()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		os.Remove(tmpFile.Name())
		return "", err
	}
	return tmpFile.Name(), nil
}

func verifyChecksum(filePath, checksumURL string) error {
	client := &http.Client{Timeout: 30 * time.Second}

	req, err := http.NewRequest(http.MethodGet, checksumURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download checksum (status %d)", resp.StatusCode)
	}

	checksumData, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	// Checksum file format: "hash  filename"
	parts := strings.Fields(string(checksumData))
	if len(parts) < 1 {
		return fmt.Errorf("invalid checksum format")
	}
	expected := parts[0]

	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return err
	}
	actual := fmt.Sprintf("%x", h.Sum(nil))

	if actual != expected {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expected, actual)
	}
	return nil
}

func replaceBinary(newPath, execPath string) error {
	if err := os.Chmod(newPath, 0o755); err != nil {
		return err
	}

	// Rename over the running binary; fall back to copy when the temp
	// file is on a different filesystem
	backup := execPath + ".old"
	if err := os.Rename(execPath, backup); err != nil {
		return err
	}
	if err := os.Rename(newPath, execPath); err == nil {
		os.Remove(backup)
		return nil
	}

	data, err := os.ReadFile(newPath)
	if err != nil {
		os.Rename(backup, execPath)
		return err
	}
	if err := os.WriteFile(execPath, data, 0o755); err != nil {
		os.Rename(backup, execPath)
		return err
	}
	os.Remove(backup)
	return nil
}
