package layer

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/dieshot/dienet/pkg/cache"
	"github.com/dieshot/dienet/pkg/errors"
	"github.com/dieshot/dienet/pkg/geom"
	"github.com/dieshot/dienet/pkg/observability"
)

// cacheKeyType labels layer entries in cache metrics.
const cacheKeyType = "layer"

// Loader reads layer files through a parse cache.
type Loader struct {
	reader *Reader
	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger
}

// NewLoader creates a loader. A nil cache disables caching, a nil keyer uses
// cache.DefaultKeyer and a nil logger discards output.
func NewLoader(c cache.Cache, keyer cache.Keyer, logger *log.Logger) (*Loader, error) {
	r, err := NewReader()
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{reader: r, cache: c, keyer: keyer, logger: logger}, nil
}

// cachedShapes is the cache payload for one parsed file.
type cachedShapes struct {
	Polygons [][]int `json:"polygons"`
	Dangling int     `json:"dangling"`
}

// Load reads the layer file at path. A cache hit skips parsing; cache
// failures are logged and never fail the load.
func (l *Loader) Load(ctx context.Context, path string, opts Options) (*Shapes, bool, error) {
	opts = opts.WithDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, false, errors.Wrap(errors.ErrCodeMalformedLayer, err, "read %s", path)
	}

	key := l.keyer.LayerKey(cache.Hash(data), cache.LayerKeyOpts{
		Scale:      opts.Scale,
		ChipHeight: opts.ChipHeight,
		Kind:       int(opts.Kind),
	})

	if raw, hit, err := l.cache.Get(ctx, key); err != nil {
		l.logger.Warn("layer cache read failed", "file", path, "err", err)
	} else if hit {
		if shapes, ok := decodeShapes(path, raw); ok {
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			l.logger.Debug("layer cache hit", "file", path, "polygons", shapes.Len())
			return shapes, true, nil
		}
		l.logger.Debug("discarding undecodable cache entry", "file", path)
	}

	observability.Cache().OnCacheMiss(ctx, cacheKeyType)

	shapes, err := l.reader.ReadBytes(path, data, opts)
	if err != nil {
		return nil, false, err
	}

	if raw, err := encodeShapes(shapes); err == nil {
		if err := l.cache.Set(ctx, key, raw, cache.DefaultTTL); err != nil {
			l.logger.Warn("layer cache write failed", "file", path, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, cacheKeyType, len(raw))
		}
	}
	return shapes, false, nil
}

func encodeShapes(s *Shapes) ([]byte, error) {
	out := cachedShapes{Polygons: make([][]int, len(s.Polygons)), Dangling: s.Dangling}
	for i, p := range s.Polygons {
		vs := p.Vertices()
		// The closing vertex is implied.
		flat := make([]int, 0, 2*(len(vs)-1))
		for _, v := range vs[:len(vs)-1] {
			flat = append(flat, v.X, v.Y)
		}
		out.Polygons[i] = flat
	}
	return json.Marshal(out)
}

func decodeShapes(name string, raw []byte) (*Shapes, bool) {
	var in cachedShapes
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, false
	}
	s := &Shapes{Name: name, Polygons: make([]geom.Polygon, len(in.Polygons)), Dangling: in.Dangling}
	for i, flat := range in.Polygons {
		if len(flat) < 6 || len(flat)%2 != 0 {
			return nil, false
		}
		vs := make([]geom.Vertex, len(flat)/2)
		for j := range vs {
			vs[j] = geom.Vertex{X: flat[2*j], Y: flat[2*j+1]}
		}
		s.Polygons[i] = geom.NewPolygon(vs...)
	}
	return s, true
}
