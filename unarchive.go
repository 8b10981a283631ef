package main

import (
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4"
)

// unpackArchive unwraps a .zip/.gz/.lz4 upload and returns the path of the
// extracted file. Non-archives return "" so the caller keeps the original
// path. The archive itself is removed after extraction.
func unpackArchive(filePath string) (string, error) {
	switch filepath.Ext(filePath) {
	case ".zip":
		return unpackZipArchive(filePath)
	case ".gz":
		return unpackStream(filePath, ".gz", func(f *os.File) (io.Reader, error) {
			return gzip.NewReader(f)
		})
	case ".lz4":
		return unpackStream(filePath, ".lz4", func(f *os.File) (io.Reader, error) {
			return lz4.NewReader(f), nil
		})
	}
	return "", nil
}

// unpackZipArchive extracts the largest file in the archive; ERP exports
// wrapped in zip carry one spreadsheet plus occasional junk entries.
func unpackZipArchive(filePath string) (string, error) {
	r, err := zip.OpenReader(filePath)
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var largest *zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if largest == nil || f.UncompressedSize64 > largest.UncompressedSize64 {
			largest = f
		}
	}
	if largest == nil {
		return "", nil
	}

	destPath := filepath.Join(filepath.Dir(filePath), filepath.Base(largest.Name))
	outFile, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", destPath, err)
	}
	defer outFile.Close()

	rc, err := largest.Open()
	if err != nil {
		return "", fmt.Errorf("open zip entry: %w", err)
	}
	defer rc.Close()

	if _, err = io.Copy(outFile, rc); err != nil {
		return "", fmt.Errorf("extract %s: %w", largest.Name, err)
	}
	if err = os.Remove(filePath); err != nil {
		return "", err
	}
	return destPath, nil
}

func unpackStream(filePath, ext string, open func(*os.File) (io.Reader, error)) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	reader, err := open(file)
	if err != nil {
		return "", fmt.Errorf("open %s stream: %w", ext, err)
	}

	destPath := strings.TrimSuffix(filePath, ext)
	outFile, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", destPath, err)
	}
	defer outFile.Close()

	if _, err = io.Copy(outFile, reader); err != nil {
		return "", fmt.Errorf("decompress %s: %w", filePath, err)
	}
	if err = os.Remove(filePath); err != nil {
		return "", err
	}
	return destPath, nil
}
