// Package clipboard copies replies to the system clipboard and turns a
// clipboard image into a file that can be attached to a message.
package clipboard

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.design/x/clipboard"

	"github.com/zhubert/agentdeck/internal/logger"
)

// MaxImageDimension is the largest width or height accepted from the
// clipboard.
const MaxImageDimension = 8000

// ImageData is a clipboard image re-encoded as PNG.
type ImageData struct {
	Data   []byte
	Width  int
	Height int
}

// Validate checks the image dimensions.
func (img *ImageData) Validate() error {
	if img.Width > MaxImageDimension || img.Height > MaxImageDimension {
		return fmt.Errorf("image dimensions too large: %dx%d (max %dx%d)",
			img.Width, img.Height, MaxImageDimension, MaxImageDimension)
	}
	return nil
}

// backend is the system clipboard; tests swap it out.
type backend interface {
	Init() error
	Read(format clipboard.Format) []byte
	Write(format clipboard.Format, data []byte)
}

type systemBackend struct{}

func (systemBackend) Init() error { return clipboard.Init() }

func (systemBackend) Read(format clipboard.Format) []byte { return clipboard.Read(format) }

func (systemBackend) Write(format clipboard.Format, data []byte) {
	<-clipboard.Write(format, data)
}

var (
	mu          sync.Mutex
	sys         backend = systemBackend{}
	initialized bool
)

func ensureInit() error {
	if initialized {
		return nil
	}
	if err := sys.Init(); err != nil {
		logger.WithComponent("Clipboard").Warn("failed to initialize", "error", err)
		return fmt.Errorf("failed to initialize clipboard: %w", err)
	}
	initialized = true
	return nil
}

// WriteText replaces the clipboard contents with text.
func WriteText(text string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := ensureInit(); err != nil {
		return err
	}
	sys.Write(clipboard.FmtText, []byte(text))
	logger.WithComponent("Clipboard").Debug("wrote text", "bytes", len(text))
	return nil
}

// ReadImage returns the clipboard image, or nil when the clipboard holds
// no image.
func ReadImage() (*ImageData, error) {
	mu.Lock()
	defer mu.Unlock()

	if err := ensureInit(); err != nil {
		return nil, err
	}

	raw := sys.Read(clipboard.FmtImage)
	if len(raw) == 0 {
		return nil, nil
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode clipboard image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image as PNG: %w", err)
	}

	b := img.Bounds()
	logger.WithComponent("Clipboard").Debug("read image", "format", format, "width", b.Dx(), "height", b.Dy())
	return &ImageData{Data: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}

// SaveImage writes img as a PNG file under dir and returns its path.
func SaveImage(img *ImageData, dir string) (string, error) {
	if err := img.Validate(); err != nil {
		return "", err
	}
	if dir == "" {
		dir = os.TempDir()
	}
	name := fmt.Sprintf("clipboard-%s.png", time.Now().Format("20060102-150405.000"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, img.Data, 0o600); err != nil {
		return "", fmt.Errorf("failed to save clipboard image: %w", err)
	}
	return path, nil
}
