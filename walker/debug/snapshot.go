package debug

import (
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/valerio/go-pokewalker/walker/video"
)

// snapshotScale enlarges the 96x64 LCD so snapshots are readable.
const snapshotScale = 4

// TakeSnapshot handles the snapshot action for backends.
func TakeSnapshot(frame *video.Frame, contrastDelta int) {
	if frame == nil {
		slog.Warn("No frame data available for snapshot")
		return
	}

	if _, err := SaveFramePNGToDir(frame, contrastDelta, "pokewalker_snapshot", ""); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
	}
}

// SaveFramePNGToDir saves a frame as PNG with a timestamp to directory, or
// to the working directory when it is empty. It returns the file path.
func SaveFramePNGToDir(frame *video.Frame, contrastDelta int, baseName, directory string) (string, error) {
	img := frame.Image(contrastDelta, snapshotScale)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.png", baseName, timestamp)

	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		outputDir = cwd
	}

	filePath := filepath.Join(outputDir, filename)
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}

	b := img.Bounds()
	slog.Info("Snapshot saved", "path", filePath, "size", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()), "format", "PNG")
	return filePath, nil
}
