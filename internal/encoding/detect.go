// Package encoding normalises captured text to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NewReader decodes r from the named charset, typically the charset
// parameter of a Content-Type header. An empty or unknown name falls back to
// NewUTF8Reader.
func NewReader(r io.Reader, charset string) (io.Reader, error) {
	name := strings.ToLower(strings.TrimSpace(charset))
	if name == "" || name == "utf-8" || name == "utf8" {
		return NewUTF8Reader(r)
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		slog.Debug("unknown charset, detecting", "charset", charset)
		return NewUTF8Reader(r)
	}

	return transform.NewReader(r, enc.NewDecoder()), nil
}

// NewUTF8Reader detects the encoding of the input and returns a reader
// that decodes the content to UTF-8.
//
// Detection order:
//  1. BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. Valid UTF-8 is returned as-is
//  3. chardet heuristics, covering the Chinese encodings payment apps export
//  4. Windows-1252
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if bytes.HasPrefix(buf, bomUTF8) {
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	}

	if bytes.HasPrefix(buf, bomUTF16LE) {
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, decoder), nil
	}

	if bytes.HasPrefix(buf, bomUTF16BE) {
		decoder := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, decoder), nil
	}

	if utf8.Valid(buf) {
		return br, nil
	}

	result, detectErr := chardet.NewTextDetector().DetectBest(buf)
	if detectErr == nil {
		switch result.Charset {
		case "UTF-8":
			return br, nil
		case "GB-18030":
			return transform.NewReader(br, simplifiedchinese.GB18030.NewDecoder()), nil
		case "Big5":
			return transform.NewReader(br, traditionalchinese.Big5.NewDecoder()), nil
		case "ISO-8859-1", "windows-1252":
			return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}

// ReadString reads at most limit bytes of r, decoded from charset, as a
// UTF-8 string.
func ReadString(r io.Reader, charset string, limit int64) (string, error) {
	dr, err := NewReader(io.LimitReader(r, limit), charset)
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(dr)
	if err != nil {
		return "", fmt.Errorf("reading text: %w", err)
	}

	return string(data), nil
}
