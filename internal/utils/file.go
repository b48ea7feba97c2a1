package utils

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// FileHash returns the MD5 digest of a file as a hex string.
func FileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// CopyFile copies src to dst, truncating any existing content at dst and
// carrying over the source's modification time. Missing parent directories
// are created. Returns the number of bytes written.
func CopyFile(src, dst string) (int64, error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer srcFile.Close()

	info, err := srcFile.Stat()
	if err != nil {
		return 0, err
	}

	if err := EnsureParent(dst); err != nil {
		return 0, err
	}

	dstFile, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(dstFile, srcFile)
	if closeErr := dstFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return written, err
	}

	// Not every platform lets us set timestamps, so this is best effort.
	if err := os.Chtimes(dst, time.Now(), info.ModTime()); err != nil {
		slog.Debug("failed to set modification time", "path", dst, "error", err)
	}

	return written, nil
}
