package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Report describes one keyword file in an asset directory.
type Report struct {
	Keyword string
	File    string
	Size    int64
	Format  string // from the file signature
	Width   int
	Height  int
	Err     error
}

func (r Report) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%-16s %-20s FAIL %v", r.Keyword, r.File, r.Err)
	}
	return fmt.Sprintf("%-16s %-20s ok   %s %dx%d %d bytes", r.Keyword, r.File, r.Format, r.Width, r.Height, r.Size)
}

// Sniff names the image format suggested by the first bytes of a file.
func Sniff(head []byte) string {
	switch {
	case bytes.HasPrefix(head, []byte{0x89, 'P', 'N', 'G'}):
		return "png"
	case bytes.HasPrefix(head, []byte{0xFF, 0xD8}):
		return "jpeg"
	case bytes.HasPrefix(head, []byte("BM")):
		return "bmp"
	case bytes.HasPrefix(head, []byte("GIF")):
		return "gif"
	case len(head) >= 12 && string(head[:4]) == "RIFF" && string(head[8:12]) == "WEBP":
		return "webp"
	}
	return "unknown"
}

// Check inspects the file of every keyword in fsys.
func Check(fsys fs.FS) []Report {
	out := make([]Report, 0, len(Keywords))
	for _, kw := range Keywords {
		out = append(out, checkOne(fsys, kw))
	}
	return out
}

func checkOne(fsys fs.FS, kw string) Report {
	r := Report{Keyword: kw, File: FileName(kw)}
	b, err := fs.ReadFile(fsys, r.File)
	if err != nil {
		r.Err = err
		return r
	}
	r.Size = int64(len(b))
	r.Format = Sniff(b[:min(len(b), 16)])
	cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		r.Err = fmt.Errorf("%s signature, decode: %w", r.Format, err)
		return r
	}
	r.Width, r.Height = cfg.Width, cfg.Height
	return r
}

// Normalize decodes path with any registered decoder and rewrites it as a
// plain PNG next to the original, named <base>_fixed.png. Files saved
// under a .png name in another format load after this.
func Normalize(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("assets: decode %s: %w", path, err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(filepath.Dir(path), base+"_fixed.png")
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	if err := encodePNG(out, img); err != nil {
		out.Close()
		return "", fmt.Errorf("assets: encode %s: %w", outPath, err)
	}
	return outPath, out.Close()
}

func encodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, img)
}
