package radio

import (
	"encoding/base64"
	"strings"
)

// CoverChunkSize is the number of bytes handed to the encoder at a time.
const CoverChunkSize = 0x8000

// DefaultCoverFormat is used when an embedded picture has no format label.
const DefaultCoverFormat = "image/jpeg"

// EncodeCover returns a data URI holding data labelled with format.
// Data is fed to the encoder CoverChunkSize bytes at a time.
func EncodeCover(format string, data []byte) string {
	if format == "" {
		format = DefaultCoverFormat
	}

	var sb strings.Builder
	sb.Grow(len("data:;base64,") + len(format) + base64.StdEncoding.EncodedLen(len(data)))
	sb.WriteString("data:")
	sb.WriteString(format)
	sb.WriteString(";base64,")

	enc := base64.NewEncoder(base64.StdEncoding, &sb)
	for i := 0; i < len(data); i += CoverChunkSize {
		end := i + CoverChunkSize
		if end > len(data) {
			end = len(data)
		}
		enc.Write(data[i:end]) // strings.Builder never fails
	}
	enc.Close()

	return sb.String()
}
