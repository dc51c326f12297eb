package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/valerio/go-pokewalker/walker/memory"
	"github.com/valerio/go-pokewalker/walker/peripheral"
)

const (
	defaultROMPath    = "rom.bin"
	defaultEEPROMPath = "eeprom.bin"
)

// loadROM reads the firmware image. It must exist and fit the address space.
func loadROM(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM: %w", err)
	}
	if len(data) > memory.Size {
		return nil, fmt.Errorf("ROM %s is %d bytes, expected at most %d", path, len(data), memory.Size)
	}
	return data, nil
}

// loadEEPROM reads the EEPROM image into a buffer of the chip's size. A
// missing file yields a blank chip.
func loadEEPROM(path string) ([]byte, error) {
	image := make([]byte, peripheral.EepromSize)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("No EEPROM file, starting blank", "path", path)
		return image, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read EEPROM: %w", err)
	}

	if len(data) != peripheral.EepromSize {
		slog.Warn("EEPROM size mismatch", "path", path, "size", len(data), "expected", peripheral.EepromSize)
	}
	copy(image, data)
	return image, nil
}

func saveEEPROM(path string, image []byte) error {
	if err := os.WriteFile(path, image, 0644); err != nil {
		return fmt.Errorf("failed to save EEPROM: %w", err)
	}
	slog.Info("EEPROM saved", "path", path)
	return nil
}
