package playlist

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/sha3"
)

// Load reads the playlist into lines. Splitting on "\n" keeps any "\r"
// bytes inside the lines, so Save reproduces the original file exactly for
// untouched content.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read playlist: %w", err)
	}
	return strings.Split(string(data), "\n"), nil
}

// Save writes the playlist atomically: the content is staged in a temp file,
// fsynced and renamed over the target, so a crash mid-write never leaves a
// truncated playlist behind.
func Save(path string, lines []string) error {
	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending playlist file: %w", err)
	}
	defer func() {
		_ = pending.Cleanup()
	}()

	if _, err := pending.Write([]byte(strings.Join(lines, "\n"))); err != nil {
		return fmt.Errorf("write playlist data: %w", err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace playlist: %w", err)
	}

	return nil
}

// Backup stores a zstd-compressed copy of the playlist next to the original
// before it is rewritten.
func Backup(path string, lines []string) error {
	out, err := os.Create(path + ".bak.zst")
	if err != nil {
		return fmt.Errorf("create playlist backup: %w", err)
	}

	encoder, err := zstd.NewWriter(out)
	if err != nil {
		out.Close()
		return fmt.Errorf("create zstd encoder: %w", err)
	}

	if _, err := encoder.Write([]byte(strings.Join(lines, "\n"))); err != nil {
		encoder.Close()
		out.Close()
		return fmt.Errorf("compress playlist backup: %w", err)
	}

	if err := encoder.Close(); err != nil {
		out.Close()
		return fmt.Errorf("flush playlist backup: %w", err)
	}

	return out.Close()
}

// Checksum fingerprints playlist content for change logging.
func Checksum(lines []string) string {
	h := sha3.Sum224([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(h[:])
}
