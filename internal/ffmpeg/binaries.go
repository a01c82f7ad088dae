package ffmpeg

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	releaseVersion = "6.1"
	releaseBaseURL = "https://github.com/ffbinaries/ffbinaries-prebuilt/releases/download"

	EnvFFmpegPath  = "SUBBATCH_FFMPEG_PATH"
	EnvFFprobePath = "SUBBATCH_FFPROBE_PATH"
)

// Binaries holds resolved ffmpeg and ffprobe executable paths.
type Binaries struct {
	FFmpeg  string
	FFprobe string
}

var (
	ensureOnce sync.Once
	ensureErr  error
	ensured    Binaries
)

// Ensure resolves both binaries once per process. Resolution order is the
// environment overrides, then PATH, then a cached download.
func Ensure() (Binaries, error) {
	ensureOnce.Do(func() {
		ensured, ensureErr = defaultResolver().resolve()
	})
	return ensured, ensureErr
}

// FFmpegPath returns the ffmpeg executable.
func FFmpegPath() (string, error) {
	bins, err := Ensure()
	if err != nil {
		return "", err
	}
	return bins.FFmpeg, nil
}

// FFprobePath returns the ffprobe executable.
func FFprobePath() (string, error) {
	bins, err := Ensure()
	if err != nil {
		return "", err
	}
	return bins.FFprobe, nil
}

type resolver struct {
	getenv   func(string) string
	lookPath func(string) (string, error)
	cacheDir func() (string, error)
	download func(asset, installDir string) error
	goos     string
	goarch   string
}

func defaultResolver() resolver {
	return resolver{
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
		cacheDir: os.UserCacheDir,
		download: downloadAndExtract,
		goos:     runtime.GOOS,
		goarch:   runtime.GOARCH,
	}
}

func (r resolver) resolve() (Binaries, error) {
	bins := Binaries{
		FFmpeg:  r.getenv(EnvFFmpegPath),
		FFprobe: r.getenv(EnvFFprobePath),
	}
	if bins.FFmpeg == "" {
		if found, err := r.lookPath("ffmpeg"); err == nil {
			bins.FFmpeg = found
		}
	}
	if bins.FFprobe == "" {
		if found, err := r.lookPath("ffprobe"); err == nil {
			bins.FFprobe = found
		}
	}
	if bins.FFmpeg != "" && bins.FFprobe != "" {
		return bins, nil
	}

	asset, err := assetForPlatform(r.goos, r.goarch)
	if err != nil {
		return Binaries{}, err
	}

	cacheDir, err := r.cacheDir()
	if err != nil || cacheDir == "" {
		cacheDir = os.TempDir()
	}
	installDir := filepath.Join(cacheDir, "subbatch", "ffmpeg", releaseVersion, r.goos, r.goarch)
	suffix := executableSuffix(r.goos)
	cached := Binaries{
		FFmpeg:  filepath.Join(installDir, "ffmpeg"+suffix),
		FFprobe: filepath.Join(installDir, "ffprobe"+suffix),
	}

	if !cached.exist() {
		if err := os.MkdirAll(installDir, 0o755); err != nil {
			return Binaries{}, fmt.Errorf("create ffmpeg cache dir: %w", err)
		}
		if err := r.download(asset, installDir); err != nil {
			return Binaries{}, err
		}
		if !cached.exist() {
			return Binaries{}, errors.New("ffmpeg binaries not found after extraction")
		}
	}

	if r.goos != "windows" {
		for _, path := range []string{cached.FFmpeg, cached.FFprobe} {
			if err := os.Chmod(path, 0o755); err != nil {
				return Binaries{}, fmt.Errorf("chmod %s: %w", filepath.Base(path), err)
			}
		}
	}

	// keep any binary that was found on PATH or set explicitly
	if bins.FFmpeg == "" {
		bins.FFmpeg = cached.FFmpeg
	}
	if bins.FFprobe == "" {
		bins.FFprobe = cached.FFprobe
	}
	return bins, nil
}

func (b Binaries) exist() bool {
	return fileExists(b.FFmpeg) && fileExists(b.FFprobe)
}

func assetForPlatform(goos, goarch string) (string, error) {
	var platform string
	switch {
	case goos == "linux" && goarch == "amd64":
		platform = "linux-64"
	case goos == "linux" && goarch == "arm64":
		platform = "linux-arm-64"
	case goos == "darwin" && goarch == "amd64":
		platform = "macos-64"
	case goos == "windows" && goarch == "amd64":
		platform = "win-64"
	default:
		return "", fmt.Errorf("unsupported platform for downloaded ffmpeg: %s/%s", goos, goarch)
	}
	return fmt.Sprintf("ffmpeg-%s-%s.zip", releaseVersion, platform), nil
}

func downloadAndExtract(asset, installDir string) error {
	url := fmt.Sprintf("%s/v%s/%s", releaseBaseURL, releaseVersion, asset)
	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("download ffmpeg bundle: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download ffmpeg bundle: unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp("", "subbatch-ffmpeg-*.zip")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}
	archivePath := tmp.Name()
	defer func() { _ = os.Remove(archivePath) }()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}

	if err := extractArchive(archivePath, installDir); err != nil {
		return fmt.Errorf("extract %s: %w", asset, err)
	}
	return nil
}

// extractArchive copies the ffmpeg and ffprobe entries of a zip bundle into
// installDir, ignoring every other entry.
func extractArchive(archivePath, installDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open ffmpeg archive: %w", err)
	}
	defer func() { _ = zr.Close() }()

	found := map[string]bool{}
	for _, file := range zr.File {
		name := strings.TrimSuffix(strings.ToLower(filepath.Base(file.Name)), ".exe")
		if name != "ffmpeg" && name != "ffprobe" {
			continue
		}
		dest := filepath.Join(installDir, name+executableSuffix(runtime.GOOS))
		if err := extractZipFile(file, dest); err != nil {
			return err
		}
		found[name] = true
	}

	if !found["ffmpeg"] || !found["ffprobe"] {
		return errors.New("ffmpeg archive missing required binaries")
	}
	return nil
}

func extractZipFile(file *zip.File, dest string) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("open ffmpeg archive entry: %w", err)
	}
	defer func() { _ = reader.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(dest), err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, reader); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(dest), err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}

func executableSuffix(goos string) string {
	if goos == "windows" {
		return ".exe"
	}
	return ""
}
