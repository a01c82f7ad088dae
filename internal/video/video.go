package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/ALi-ather/Video-Text-Translator/internal/command"
	ffmpegbin "github.com/ALi-ather/Video-Text-Translator/internal/ffmpeg"
)

// AudioExtractor converts a media container into an audio file.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, sourcePath, destPath string) error
}

// holds options for audio extraction
type ExtractAudioOptions struct {
	Format     string // Output format (wav, mp3, aac, flac)
	SampleRate int    // Sample rate in Hz (e.g., 16000, 44100, 48000)
	Channels   int    // Number of channels (1 = mono, 2 = stereo)
	Bitrate    string // Bitrate for lossy formats (e.g., "128k", "320k")
}

// returns the normalized speech input: mono 16 kHz 16-bit PCM wav
func DefaultExtractAudioOptions() ExtractAudioOptions {
	return ExtractAudioOptions{
		Format:     "wav",
		SampleRate: 16000,
		Channels:   1,
	}
}

// ValidFormat reports whether format is a supported output format.
func ValidFormat(format string) bool {
	switch format {
	case "wav", "mp3", "aac", "flac":
		return true
	default:
		return false
	}
}

// FFmpegExtractor extracts audio by running ffmpeg.
type FFmpegExtractor struct {
	// FFmpeg is the executable; resolved lazily when empty
	FFmpeg  string
	Options ExtractAudioOptions
	Runner  command.Runner
}

// NewExtractor returns an extractor producing the default speech format.
func NewExtractor() *FFmpegExtractor {
	return &FFmpegExtractor{Options: DefaultExtractAudioOptions()}
}

// extracts audio from video file
func (e *FFmpegExtractor) ExtractAudio(ctx context.Context, sourcePath, destPath string) error {
	if _, err := os.Stat(sourcePath); err != nil {
		return fmt.Errorf("cannot access source media: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	bin := e.FFmpeg
	if bin == "" {
		resolved, err := ffmpegbin.FFmpegPath()
		if err != nil {
			return err
		}
		bin = resolved
	}
	runner := e.Runner
	if runner == nil {
		runner = command.Default
	}

	args := BuildArgs(sourcePath, destPath, e.Options)
	if _, err := runner.Run(ctx, bin, args...); err != nil {
		return fmt.Errorf("ffmpeg extraction failed: %w", err)
	}

	if info, err := os.Stat(destPath); err != nil || info.Size() == 0 {
		return fmt.Errorf("ffmpeg completed but produced no audio at %s", destPath)
	}
	return nil
}

// BuildArgs returns the ffmpeg arguments for one extraction.
func BuildArgs(sourcePath, destPath string, opts ExtractAudioOptions) []string {
	kwargs := ffmpeg.KwArgs{
		"vn": "", // No video
		"ar": opts.SampleRate,
		"ac": opts.Channels,
	}

	switch opts.Format {
	case "mp3":
		kwargs["acodec"] = "libmp3lame"
		if opts.Bitrate != "" {
			kwargs["b:a"] = opts.Bitrate
		}
	case "aac":
		kwargs["acodec"] = "aac"
		if opts.Bitrate != "" {
			kwargs["b:a"] = opts.Bitrate
		}
	case "flac":
		kwargs["acodec"] = "flac"
	default:
		kwargs["acodec"] = "pcm_s16le"
	}

	return ffmpeg.Input(sourcePath).
		Output(destPath, kwargs).
		OverWriteOutput().
		GetArgs()
}
