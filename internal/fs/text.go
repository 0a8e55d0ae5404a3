package fs

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// SniffSize is how many leading bytes are inspected to classify a file.
const SniffSize = 4096

// Files whose sample has this share (percent) of control bytes are binary.
const controlByteLimit = 30

type bom int

const (
	bomNone bom = iota
	bomUTF8
	bomUTF16LE
	bomUTF16BE
)

var binaryExt = map[string]bool{
	".7z": true, ".a": true, ".apk": true, ".avi": true, ".bin": true,
	".bz2": true, ".class": true, ".db": true, ".dll": true, ".doc": true,
	".docx": true, ".dylib": true, ".exe": true, ".flac": true, ".gz": true,
	".iso": true, ".jar": true, ".mkv": true, ".mov": true, ".mp3": true,
	".mp4": true, ".o": true, ".ogg": true, ".otf": true, ".pdf": true,
	".ppt": true, ".pptx": true, ".pyc": true, ".so": true, ".sqlite": true,
	".tar": true, ".tgz": true, ".ttf": true, ".wav": true, ".wasm": true,
	".woff": true, ".woff2": true, ".xls": true, ".xlsx": true, ".xz": true,
	".zip": true, ".zst": true,
}

// IsTextFile classifies sample (the head of the file at path) as text.
// Known binary extensions short-circuit without looking at the bytes.
func IsTextFile(path string, sample []byte) bool {
	if path != "" && binaryExt[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	if len(sample) > SniffSize {
		sample = sample[:SniffSize]
	}
	if len(sample) == 0 || detectBOM(sample) != bomNone {
		return true
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return false
	}
	if utf8.Valid(sample) {
		return true
	}
	control := 0
	for _, b := range sample {
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' && b != 0x1b {
			control++
		}
	}
	return control*100/len(sample) < controlByteLimit
}

// ReadHead returns at most limit bytes from the start of path.
func ReadHead(path string, limit int64) ([]byte, error) {
	if limit <= 0 {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(io.LimitReader(f, limit))
}

func detectBOM(b []byte) bom {
	switch {
	case bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}):
		return bomUTF8
	case bytes.HasPrefix(b, []byte{0xFF, 0xFE}):
		return bomUTF16LE
	case bytes.HasPrefix(b, []byte{0xFE, 0xFF}):
		return bomUTF16BE
	}
	return bomNone
}

// DecodeText converts raw file bytes to a UTF-8 string, honouring UTF-8 and
// UTF-16 byte order marks. ok is false when the result is not valid UTF-8.
func DecodeText(raw []byte) (text string, ok bool) {
	switch detectBOM(raw) {
	case bomUTF8:
		raw = raw[3:]
	case bomUTF16LE:
		return decodeUTF16(raw, unicode.LittleEndian)
	case bomUTF16BE:
		return decodeUTF16(raw, unicode.BigEndian)
	}
	if !utf8.Valid(raw) {
		return strings.ToValidUTF8(string(raw), "�"), false
	}
	return string(raw), true
}

func decodeUTF16(raw []byte, order unicode.Endianness) (string, bool) {
	out, err := unicode.UTF16(order, unicode.ExpectBOM).NewDecoder().Bytes(raw)
	if err != nil {
		return "", false
	}
	return string(out), true
}
