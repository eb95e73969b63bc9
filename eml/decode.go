package eml

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/emersion/go-message/charset"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/machinefabric/exteditor-go/compose"
)

func init() {
	charset.RegisterEncoding("windows-1252", charmap.Windows1252)
	charset.RegisterEncoding("cp1252", charmap.Windows1252)
	charset.RegisterEncoding("iso-8859-1", charmap.ISO8859_1)
	charset.RegisterEncoding("iso-8859-15", charmap.ISO8859_15)
}

const encodingWarningTitle = "Invalid UTF-8"

// decodeText returns data as UTF-8. Files that are not valid UTF-8 are
// decoded with the fallback charset when one is configured, otherwise
// invalid sequences become U+FFFD. Either way a warning is returned.
func decodeText(data []byte, fallback string) (string, *compose.Warning) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	if fallback != "" {
		if text, err := decodeCharset(data, fallback); err == nil {
			return text, &compose.Warning{
				Title:   encodingWarningTitle,
				Message: fmt.Sprintf("The edited file is not valid UTF-8 and was decoded as %s.", fallback),
			}
		}
	}

	out, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), data)
	if err != nil || !utf8.Valid(out) {
		out = bytes.ToValidUTF8(data, []byte("�"))
	}
	return string(out), &compose.Warning{
		Title:   encodingWarningTitle,
		Message: "The edited file is not valid UTF-8. Invalid byte sequences were replaced with U+FFFD.",
	}
}

func decodeCharset(data []byte, label string) (string, error) {
	r, err := charset.Reader(label, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(out) {
		return "", fmt.Errorf("charset %s produced invalid UTF-8", label)
	}
	return string(out), nil
}
