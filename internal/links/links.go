// Package links implements the deep-link payload grammar (file_<ref>,
// batch_<id>) and message-reference parsing from public channel URLs.
package links

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	filePrefix  = "file_"
	batchPrefix = "batch_"
)

// Kind classifies a decoded start payload.
type Kind int

const (
	// KindFile references a single archived file.
	KindFile Kind = iota + 1
	// KindBatch references an ordered batch of archived files.
	KindBatch
)

// Payload is a decoded deep-link start argument.
type Payload struct {
	Kind    Kind
	FileRef int
	BatchID string
}

// FileLink builds the shareable deep link for a single archived file.
func FileLink(base, botUsername string, fileRef int) string {
	return fmt.Sprintf("%s/%s?start=%s%d", base, botUsername, filePrefix, fileRef)
}

// BatchLink builds the shareable deep link for a batch.
func BatchLink(base, botUsername, batchID string) string {
	return fmt.Sprintf("%s/%s?start=%s%s", base, botUsername, batchPrefix, batchID)
}

// ParseStartPayload classifies a start argument by prefix. Anything that
// does not match either prefix is reported as no payload.
func ParseStartPayload(arg string) (Payload, bool) {
	switch {
	case strings.HasPrefix(arg, filePrefix):
		ref, err := strconv.Atoi(strings.TrimPrefix(arg, filePrefix))
		if err != nil || ref <= 0 {
			return Payload{}, false
		}
		return Payload{Kind: KindFile, FileRef: ref}, true
	case strings.HasPrefix(arg, batchPrefix):
		id := strings.TrimPrefix(arg, batchPrefix)
		if id == "" {
			return Payload{}, false
		}
		return Payload{Kind: KindBatch, BatchID: id}, true
	default:
		return Payload{}, false
	}
}

var messageURLRe = regexp.MustCompile(`^https?://t\.me/([^/]+)/(\d+)$`)

// ParseMessageURL extracts the channel username and message id from a
// public message URL of the form https://t.me/<channel>/<id>.
func ParseMessageURL(text string) (channel string, messageID int, ok bool) {
	m := messageURLRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", 0, false
	}
	id, err := strconv.Atoi(m[2])
	if err != nil || id <= 0 {
		return "", 0, false
	}
	return m[1], id, true
}
