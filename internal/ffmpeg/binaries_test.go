package ffmpeg

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func fakeResolver(t *testing.T, env map[string]string, onPath map[string]string) resolver {
	t.Helper()
	cache := t.TempDir()
	return resolver{
		getenv: func(key string) string { return env[key] },
		lookPath: func(name string) (string, error) {
			if p, ok := onPath[name]; ok {
				return p, nil
			}
			return "", errors.New("not found")
		},
		cacheDir: func() (string, error) { return cache, nil },
		download: func(string, string) error {
			t.Fatal("download must not be called")
			return nil
		},
		goos:   "linux",
		goarch: "amd64",
	}
}

func TestResolveEnvOverride(t *testing.T) {
	r := fakeResolver(t, map[string]string{
		EnvFFmpegPath:  "/opt/ffmpeg",
		EnvFFprobePath: "/opt/ffprobe",
	}, nil)

	bins, err := r.resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if bins.FFmpeg != "/opt/ffmpeg" || bins.FFprobe != "/opt/ffprobe" {
		t.Errorf("unexpected binaries: %+v", bins)
	}
}

func TestResolvePath(t *testing.T) {
	r := fakeResolver(t, nil, map[string]string{
		"ffmpeg":  "/usr/bin/ffmpeg",
		"ffprobe": "/usr/bin/ffprobe",
	})

	bins, err := r.resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if bins.FFmpeg != "/usr/bin/ffmpeg" || bins.FFprobe != "/usr/bin/ffprobe" {
		t.Errorf("unexpected binaries: %+v", bins)
	}
}

func TestResolveDownloadsWhenMissing(t *testing.T) {
	r := fakeResolver(t, nil, map[string]string{"ffmpeg": "/usr/bin/ffmpeg"})
	var downloads int
	r.download = func(asset, installDir string) error {
		downloads++
		if asset != "ffmpeg-6.1-linux-64.zip" {
			t.Errorf("asset = %q", asset)
		}
		for _, name := range []string{"ffmpeg", "ffprobe"} {
			if err := os.WriteFile(filepath.Join(installDir, name), []byte("bin"), 0o644); err != nil {
				return err
			}
		}
		return nil
	}

	bins, err := r.resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if downloads != 1 {
		t.Errorf("downloads = %d, want 1", downloads)
	}
	if bins.FFmpeg != "/usr/bin/ffmpeg" {
		t.Errorf("ffmpeg on PATH should be kept, got %q", bins.FFmpeg)
	}
	if filepath.Base(bins.FFprobe) != "ffprobe" {
		t.Errorf("ffprobe = %q", bins.FFprobe)
	}

	// a second resolve reuses the cache
	if _, err := r.resolve(); err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if downloads != 1 {
		t.Errorf("downloads = %d after cached resolve, want 1", downloads)
	}
}

func TestResolveUnsupportedPlatform(t *testing.T) {
	r := fakeResolver(t, nil, nil)
	r.goos, r.goarch = "plan9", "386"

	if _, err := r.resolve(); err == nil {
		t.Fatal("expected error for unsupported platform")
	}
}

func TestAssetForPlatform(t *testing.T) {
	tests := []struct {
		goos, goarch, want string
	}{
		{"linux", "amd64", "ffmpeg-6.1-linux-64.zip"},
		{"linux", "arm64", "ffmpeg-6.1-linux-arm-64.zip"},
		{"darwin", "amd64", "ffmpeg-6.1-macos-64.zip"},
		{"windows", "amd64", "ffmpeg-6.1-win-64.zip"},
	}
	for _, tt := range tests {
		got, err := assetForPlatform(tt.goos, tt.goarch)
		if err != nil {
			t.Errorf("assetForPlatform(%s, %s): %v", tt.goos, tt.goarch, err)
			continue
		}
		if got != tt.want {
			t.Errorf("assetForPlatform(%s, %s) = %q, want %q", tt.goos, tt.goarch, got, tt.want)
		}
	}
}

func TestExtractArchive(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "bundle.zip")
	writeZip(t, archive, map[string]string{
		"bundle/ffmpeg":    "ffmpeg-binary",
		"bundle/ffprobe":   "ffprobe-binary",
		"bundle/README.md": "ignored",
	})

	installDir := filepath.Join(dir, "install")
	if err := os.MkdirAll(installDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := extractArchive(archive, installDir); err != nil {
		t.Fatalf("extractArchive: %v", err)
	}

	suffix := executableSuffix(runtime.GOOS)
	data, err := os.ReadFile(filepath.Join(installDir, "ffprobe"+suffix))
	if err != nil {
		t.Fatalf("read ffprobe: %v", err)
	}
	if string(data) != "ffprobe-binary" {
		t.Errorf("ffprobe content = %q", data)
	}
	if _, err := os.Stat(filepath.Join(installDir, "README.md")); !os.IsNotExist(err) {
		t.Error("unrelated entries must not be extracted")
	}
}

func TestExtractArchiveMissingBinary(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "bundle.zip")
	writeZip(t, archive, map[string]string{"ffmpeg": "only ffmpeg"})

	if err := extractArchive(archive, dir); err == nil {
		t.Fatal("expected error when ffprobe is missing")
	}
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}
