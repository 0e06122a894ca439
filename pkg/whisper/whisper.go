// Package whisper transcribes Telegram voice notes with ffmpeg and a
// local whisper.cpp binary.
package whisper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	convertTimeout    = 10 * time.Second
	transcribeTimeout = 60 * time.Second
)

type Whisper struct{}

func New() *Whisper {
	return &Whisper{}
}

// Transcribe converts the OGG voice file to mono 16 kHz WAV and runs
// whisper-cli over it, returning the recognized text.
func (w *Whisper) Transcribe(ctx context.Context, audioFilePath string) (string, error) {
	wav, err := convertToWav(ctx, audioFilePath)
	if err != nil {
		return "", err
	}
	defer os.Remove(wav)

	output, err := execWithTimeout(ctx, transcribeTimeout,
		"whisper-cli",
		"-f", wav,
		"-otxt",
		"-of", "-",
	)
	if err != nil {
		return "", fmt.Errorf("whisper-cli error: %w, output: %s", err, string(output))
	}

	return strings.TrimSpace(string(output)), nil
}

func convertToWav(ctx context.Context, oggFilePath string) (string, error) {
	base := filepath.Base(oggFilePath)
	wav := filepath.Join(os.TempDir(), strings.TrimSuffix(base, filepath.Ext(base))+".wav")

	output, err := execWithTimeout(ctx, convertTimeout, "ffmpeg",
		"-y", // overwrite output file without asking
		"-i", oggFilePath,
		"-ac", "1", // 1 channel
		"-ar", "16000", // 16 kHz
		"-acodec", "pcm_s16le", // 16-bit little-endian PCM
		wav)
	if err != nil {
		return "", fmt.Errorf("ffmpeg error: %w, output: %s", err, string(output))
	}

	return wav, nil
}

func execWithTimeout(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}
