package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// transcribeLocal shells out to a local whisper executable. Requires ffmpeg
// on PATH, which whisper uses for audio decoding.
func (s *Service) transcribeLocal(ctx context.Context, audioPath string) (string, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return "", fmt.Errorf("локальный Whisper требует установленный ffmpeg (не найден в PATH)")
	}
	whisperBin, err := exec.LookPath("whisper")
	if err != nil {
		return "", fmt.Errorf("whisper executable is required for WHISPER_PROVIDER=local (not found in PATH)")
	}

	outDir, err := os.MkdirTemp("", "whisper")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	args := []string{
		audioPath,
		"--model", s.cfg.LocalModel,
		"--output_format", "txt",
		"--output_dir", outDir,
	}
	if s.cfg.Language != "" {
		args = append(args, "--language", s.cfg.Language)
	}

	cmd := exec.CommandContext(ctx, whisperBin, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("local whisper transcription failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	data, err := os.ReadFile(filepath.Join(outDir, base+".txt"))
	if err != nil {
		return "", fmt.Errorf("failed to read whisper output: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("empty transcription result")
	}
	return text, nil
}
