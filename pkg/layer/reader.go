package layer

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"

	"github.com/dieshot/dienet/pkg/errors"
	"github.com/dieshot/dienet/pkg/geom"
)

// Shapes is the content of one layer file after transformation.
type Shapes struct {
	// Name identifies the source, usually the file path.
	Name string `json:"name"`
	// Polygons are the closed polygons in file order.
	Polygons []geom.Polygon `json:"-"`
	// Dangling counts vertices after the last sentinel that were discarded.
	Dangling int `json:"dangling"`
}

// Len returns the number of polygons.
func (s *Shapes) Len() int { return len(s.Polygons) }

// Reader parses vertex-list files.
type Reader struct {
	parser *participle.Parser[vertexFile]
}

// NewReader creates a reader with the vertex-list grammar.
func NewReader() (*Reader, error) {
	p, err := buildParser()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build vertex-list parser")
	}
	return &Reader{parser: p}, nil
}

// ReadBytes parses data as a vertex-list file named name.
func (r *Reader) ReadBytes(name string, data []byte, opts Options) (*Shapes, error) {
	opts = opts.WithDefaults()

	// The grammar ends every entry with a line break.
	if n := len(data); n > 0 && data[n-1] != '\n' {
		data = append(data[:n:n], '\n')
	}

	file, err := r.parser.ParseBytes(name, data)
	if err != nil {
		return nil, malformed(name, err)
	}

	shapes := &Shapes{Name: name}
	var ring []geom.Vertex
	for _, e := range file.Entries {
		if !e.sentinel() {
			ring = append(ring, opts.Transform(e.X, e.Y))
			continue
		}
		p := geom.NewPolygon(ring...)
		if p.Distinct() < 3 {
			return nil, errors.New(errors.ErrCodeMalformedLayer,
				"%s line %d: polygon %d has %d distinct vertices, need at least 3",
				name, e.Pos.Line, len(shapes.Polygons), p.Distinct())
		}
		shapes.Polygons = append(shapes.Polygons, p)
		ring = nil
	}
	shapes.Dangling = len(ring)
	return shapes, nil
}

// Read parses a vertex-list file from rd.
func (r *Reader) Read(name string, rd io.Reader, opts Options) (*Shapes, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedLayer, err, "read %s", name)
	}
	return r.ReadBytes(name, data, opts)
}

// ReadFile parses the vertex-list file at path.
func (r *Reader) ReadFile(path string, opts Options) (*Shapes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeMalformedLayer, err, "read %s", path)
	}
	return r.ReadBytes(path, data, opts)
}

// malformed converts a participle error into a MALFORMED_LAYER error that
// names the line.
func malformed(name string, err error) error {
	var perr participle.Error
	if stderrors.As(err, &perr) {
		return errors.New(errors.ErrCodeMalformedLayer, "%s line %d: %s",
			name, perr.Position().Line, perr.Message())
	}
	return errors.Wrap(errors.ErrCodeMalformedLayer, err, "%s", name)
}

// String describes the shapes for log output.
func (s *Shapes) String() string {
	return fmt.Sprintf("%s (%d polygons)", s.Name, len(s.Polygons))
}
