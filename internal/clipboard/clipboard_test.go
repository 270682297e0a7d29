package clipboard

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.design/x/clipboard"
)

type fakeBackend struct {
	initErr error
	data    map[clipboard.Format][]byte
}

func (f *fakeBackend) Init() error { return f.initErr }

func (f *fakeBackend) Read(format clipboard.Format) []byte { return f.data[format] }

func (f *fakeBackend) Write(format clipboard.Format, data []byte) {
	if f.data == nil {
		f.data = map[clipboard.Format][]byte{}
	}
	f.data[format] = data
}

func useBackend(t *testing.T, b backend) {
	t.Helper()
	prev := sys
	sys = b
	initialized = false
	t.Cleanup(func() {
		sys = prev
		initialized = false
	})
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestWriteText(t *testing.T) {
	fake := &fakeBackend{}
	useBackend(t, fake)

	if err := WriteText(`{"mode":"respond"}`); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	if got := string(fake.data[clipboard.FmtText]); got != `{"mode":"respond"}` {
		t.Errorf("clipboard text = %q", got)
	}
}

func TestWriteText_InitFailure(t *testing.T) {
	useBackend(t, &fakeBackend{initErr: errors.New("no display")})

	err := WriteText("x")
	if err == nil || !strings.Contains(err.Error(), "no display") {
		t.Errorf("WriteText() error = %v, want init failure", err)
	}
}

func TestReadImage(t *testing.T) {
	t.Run("empty clipboard", func(t *testing.T) {
		useBackend(t, &fakeBackend{})
		img, err := ReadImage()
		if err != nil || img != nil {
			t.Errorf("ReadImage() = %v, %v; want nil, nil", img, err)
		}
	})

	t.Run("png", func(t *testing.T) {
		useBackend(t, &fakeBackend{data: map[clipboard.Format][]byte{clipboard.FmtImage: pngBytes(t, 3, 2)}})
		img, err := ReadImage()
		if err != nil {
			t.Fatalf("ReadImage() error = %v", err)
		}
		if img.Width != 3 || img.Height != 2 || len(img.Data) == 0 {
			t.Errorf("image = %dx%d (%d bytes)", img.Width, img.Height, len(img.Data))
		}
	})

	t.Run("garbage", func(t *testing.T) {
		useBackend(t, &fakeBackend{data: map[clipboard.Format][]byte{clipboard.FmtImage: []byte("not an image")}})
		if _, err := ReadImage(); err == nil {
			t.Error("ReadImage() error = nil, want decode error")
		}
	})
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	data := pngBytes(t, 1, 1)

	path, err := SaveImage(&ImageData{Data: data, Width: 1, Height: 1}, dir)
	if err != nil {
		t.Fatalf("SaveImage() error = %v", err)
	}
	if filepath.Dir(path) != dir || filepath.Ext(path) != ".png" {
		t.Errorf("path = %q", path)
	}
	saved, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(saved, data) {
		t.Errorf("saved file differs: %v", err)
	}

	if _, err := SaveImage(&ImageData{Width: MaxImageDimension + 1, Height: 1}, dir); err == nil {
		t.Error("SaveImage() accepted an oversized image")
	}
}
