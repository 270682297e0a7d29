// Package attachment decides which local files may be sent to the backend
// and describes them for the chat input.
package attachment

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/docker/go-units"

	pErrors "github.com/zhubert/agentdeck/internal/errors"
)

// Attachment is a file picked by the user and waiting to be sent.
type Attachment struct {
	Name     string // Base name sent as the multipart filename
	Path     string // Local path, empty for in-memory attachments
	Size     int64
	MimeType string // Empty when unknown
}

// Rejection explains why a candidate file was not accepted.
type Rejection struct {
	Attachment Attachment
	Reason     string // Warning shown to the user
}

var mimeTypes = map[string]string{
	".txt":  "text/plain",
	".csv":  "text/csv",
	".md":   "text/markdown",
	".html": "text/html",
	".json": "application/json",
	".js":   "application/javascript",
	".py":   "application/python",
	".xml":  "application/xml",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

var supportedTypes = map[string]bool{
	"text/plain":             true,
	"text/csv":               true,
	"text/markdown":          true,
	"text/html":              true,
	"application/json":       true,
	"application/javascript": true,
	"application/python":     true,
	"application/xml":        true,
	"image/jpeg":             true,
	"image/png":              true,
	"image/gif":              true,
	"image/webp":             true,
}

// Extensions returns the accepted file extensions, for help text.
func Extensions() []string {
	return []string{".txt", ".csv", ".md", ".html", ".json", ".js", ".py", ".xml", ".jpg", ".jpeg", ".png", ".gif", ".webp"}
}

// DetectMimeType maps a file name to a MIME type by extension. The match is
// case-insensitive; unknown extensions return "".
func DetectMimeType(name string) string {
	return mimeTypes[strings.ToLower(filepath.Ext(name))]
}

// IsSupported reports whether a may be attached. A reported MIME type is
// checked directly; without one the extension decides.
func IsSupported(a Attachment) bool {
	mimeType := a.MimeType
	if mimeType == "" {
		mimeType = DetectMimeType(a.Name)
	}
	return supportedTypes[mimeType]
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatSize renders a byte count in the largest 1024-based unit whose value
// is at least 1, rounded to two decimals: 1536 is "1.5 KB".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i := 0
	for div := int64(1024); i < len(sizeUnits)-1 && bytes >= div; div *= 1024 {
		i++
	}
	value := float64(bytes) / math.Pow(1024, float64(i))
	value = math.Floor(value*100+0.5) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + sizeUnits[i]
}

// Limit is a maximum attachment size in bytes. Zero means no limit.
type Limit int64

// ParseLimit parses human sizes such as "10MB" or "512k". An empty string
// is no limit.
func ParseLimit(s string) (Limit, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	n, err := units.RAMInBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size limit %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid size limit %q", s)
	}
	return Limit(n), nil
}

// Allows reports whether size fits within the limit.
func (l Limit) Allows(size int64) bool {
	return l <= 0 || size <= int64(l)
}

func (l Limit) String() string {
	if l <= 0 {
		return "unlimited"
	}
	return FormatSize(int64(l))
}

// Filter splits candidates into accepted and rejected files. Order is kept
// and duplicates are not removed. Each rejected file gets its own warning.
func Filter(candidates []Attachment, limit Limit) (accepted []Attachment, rejected []Rejection) {
	for _, a := range candidates {
		switch {
		case !IsSupported(a):
			rejected = append(rejected, Rejection{
				Attachment: a,
				Reason:     fmt.Sprintf("File type not supported: %s", a.Name),
			})
		case !limit.Allows(a.Size):
			rejected = append(rejected, Rejection{
				Attachment: a,
				Reason:     fmt.Sprintf("File too large: %s (%s, limit %s)", a.Name, FormatSize(a.Size), limit),
			})
		default:
			accepted = append(accepted, a)
		}
	}
	return accepted, rejected
}

// FromPath describes the local file at path. Directories are rejected. The
// MIME type comes from the extension, since a terminal pick reports none.
func FromPath(path string) (Attachment, error) {
	expanded, err := expandHome(path)
	if err != nil {
		return Attachment{}, pErrors.AttachmentInvalid(path, err.Error())
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return Attachment{}, pErrors.AttachmentNotFound(path, err)
		}
		return Attachment{}, pErrors.E(pErrors.Op("attachment.FromPath"), pErrors.KindIO, err)
	}
	if info.IsDir() {
		return Attachment{}, pErrors.AttachmentInvalid(path, "is a directory")
	}
	return Attachment{
		Name:     info.Name(),
		Path:     expanded,
		Size:     info.Size(),
		MimeType: DetectMimeType(info.Name()),
	}, nil
}

// Open opens the attachment's file for reading.
func Open(a Attachment) (io.ReadCloser, error) {
	if a.Path == "" {
		return nil, pErrors.AttachmentInvalid(a.Name, "no local path")
	}
	f, err := os.Open(a.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pErrors.AttachmentNotFound(a.Path, err)
		}
		return nil, pErrors.E(pErrors.Op("attachment.Open"), pErrors.KindIO, err)
	}
	return f, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
