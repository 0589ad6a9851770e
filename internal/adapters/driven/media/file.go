package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

// sniffLen is how many leading bytes are used for type detection.
const sniffLen = 3072

// DetectType returns the media type of data without parameters.
func DetectType(data []byte) string {
	mt, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return strings.TrimSpace(mt)
}

// LoadFile reads a local file into a RawInput. Files larger than
// domain.MaxContentSize are not read in full: only the leading bytes are
// kept and Size carries the real length, so validation can reject them.
func LoadFile(path, text string) (domain.RawInput, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.RawInput{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return domain.RawInput{}, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}

	var data []byte
	if info.Size() > domain.MaxContentSize {
		data, err = readHead(path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.RawInput{}, fmt.Errorf("read %s: %w", path, err)
	}

	input := domain.NewFileInput(filepath.Clean(path), "", data, text)
	input.Size = info.Size()
	if len(data) > 0 {
		input.MediaType = DetectType(data)
	}
	return input, nil
}

// Resolve builds input for ref, which is either an http(s) image URL or a
// local path. An empty ref yields an empty file input so validation can
// report the missing image.
func Resolve(ref, text string) (domain.RawInput, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return domain.RawInput{Kind: domain.SourceFile, Text: text}, nil
	case IsRemote(ref):
		return domain.NewURLInput(ref, text), nil
	default:
		return LoadFile(ref, text)
	}
}

// IsRemote reports whether ref is an http(s) URL.
func IsRemote(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func readHead(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return buf[:n], nil
}
