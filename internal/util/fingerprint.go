package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// fingerprintTail is how much of the end of a file is hashed. Funscripts
// grow and change at the tail when actions are appended.
const fingerprintTail = 2048

// CalculateFileFingerprint calculates the CRC32 of the last 2KB of a file
func CalculateFileFingerprint(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", err
	}

	readSize := int64(fingerprintTail)
	if stat.Size() < readSize {
		readSize = stat.Size()
	}

	if _, err := file.Seek(-readSize, io.SeekEnd); err != nil {
		return "", err
	}

	data := make([]byte, readSize)
	if _, err := io.ReadFull(file, data); err != nil {
		return "", err
	}

	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(data)), nil
}

// CalculateBytesFingerprint applies the same tail hash to an in-memory
// buffer, so a just-written document can be compared with the file on disk.
func CalculateBytesFingerprint(data []byte) string {
	if len(data) > fingerprintTail {
		data = data[len(data)-fingerprintTail:]
	}
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(data))
}
