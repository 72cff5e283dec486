// Package assets holds the bitmaps referenced by Image shapes.
package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// Keywords lists every image keyword the server may reference.
var Keywords = []string{
	"monocle",
	"microscope",
	"binoculars",
	"telescope",
	"heatwave",
	"blizzard",
	"univeye",
	"dragonfirerune",
	"hourglass",
	"orbit",
	"blackhole",
	"push",
	"speedup",
	"puddle",
	"heart",
	"candytop",
}

// FileName maps a keyword to the file it is fetched from.
func FileName(keyword string) string { return keyword + ".png" }

// Source opens an asset by file name.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// FS reads assets from a file system, e.g. os.DirFS(dir).
type FS struct{ FS fs.FS }

func (s FS) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return s.FS.Open(name)
}

// HTTP fetches assets from Base + "/" + name.
type HTTP struct {
	Base   string
	Client *http.Client
}

func (s HTTP) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	url := strings.TrimRight(s.Base, "/") + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}

// Cache maps keywords to decoded images. Load fills it once, publishing
// each image as soon as it decodes; it is read-only afterwards.
type Cache struct {
	Log *zap.SugaredLogger

	once   sync.Once
	mu     sync.Mutex // serialises publish
	images atomic.Pointer[map[string]image.Image]
	done   atomic.Bool
}

const loadWorkers = 4

// Load fetches every keyword from src concurrently. Keywords that fail are
// left absent and reported in the returned error; the rest stay usable.
// Only the first call does any work.
func (c *Cache) Load(ctx context.Context, src Source) error {
	var err error
	c.once.Do(func() { err = c.load(ctx, src) })
	return err
}

func (c *Cache) load(ctx context.Context, src Source) error {
	log := c.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	errs := make([]error, len(Keywords))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadWorkers)
	for i, kw := range Keywords {
		g.Go(func() error {
			img, err := fetch(gctx, src, FileName(kw))
			if err != nil {
				errs[i] = fmt.Errorf("assets: %s: %w", kw, err)
				return nil
			}
			c.publish(kw, img)
			return nil
		})
	}
	_ = g.Wait()
	c.done.Store(true)

	ok := 0
	if m := c.images.Load(); m != nil {
		ok = len(*m)
	}
	err := errors.Join(errs...)
	log.Infow("assets loaded", "ok", ok, "missing", len(Keywords)-ok)
	if err != nil {
		log.Warnw("some assets missing", "err", err)
	}
	return err
}

// publish makes img visible to Lookup. Readers never lock; each publish
// swaps in a copy of the map.
func (c *Cache) publish(keyword string, img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := map[string]image.Image{}
	if cur := c.images.Load(); cur != nil {
		for k, v := range *cur {
			next[k] = v
		}
	}
	next[keyword] = img
	c.images.Store(&next)
}

func fetch(ctx context.Context, src Source, name string) (image.Image, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

// Lookup returns the image for keyword, or nil when it is unknown or not
// loaded yet.
func (c *Cache) Lookup(keyword string) image.Image {
	m := c.images.Load()
	if m == nil {
		return nil
	}
	return (*m)[keyword]
}

// Loaded reports whether Load has completed.
func (c *Cache) Loaded() bool { return c.done.Load() }
