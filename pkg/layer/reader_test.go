package layer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dieshot/dienet/pkg/cache"
	"github.com/dieshot/dienet/pkg/errors"
	"github.com/dieshot/dienet/pkg/geom"
)

func newReader(t *testing.T) *Reader {
	t.Helper()
	r, err := NewReader()
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	return r
}

const twoSquares = `0,0
10,0
10,10
0,10
-1,-1
20,20
30,20
30,30
-1,-1
`

func TestReadTransform(t *testing.T) {
	r := newReader(t)
	shapes, err := r.ReadBytes("metal.dat", []byte(twoSquares), Options{Scale: 2, ChipHeight: 100})
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if shapes.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", shapes.Len())
	}

	vs := shapes.Polygons[0].Vertices()
	want := []geom.Vertex{{X: 0, Y: 200}, {X: 20, Y: 200}, {X: 20, Y: 180}, {X: 0, Y: 180}, {X: 0, Y: 200}}
	if len(vs) != len(want) {
		t.Fatalf("vertices = %v", vs)
	}
	for i := range want {
		if vs[i] != want[i] {
			t.Errorf("vertex %d = %v, want %v", i, vs[i], want[i])
		}
	}
	if shapes.Dangling != 0 {
		t.Errorf("Dangling = %d", shapes.Dangling)
	}
}

func TestReadConnectorOffset(t *testing.T) {
	r := newReader(t)
	shapes, err := r.ReadBytes("vias.dat", []byte("1,1\n2,1\n2,2\n-1,-1\n"), Options{Scale: 2, ChipHeight: 10, Kind: Connector})
	if err != nil {
		t.Fatal(err)
	}
	if got := shapes.Polygons[0].Vertices()[0]; got != (geom.Vertex{X: 3, Y: 19}) {
		t.Errorf("first vertex = %v, want {3 19}", got)
	}
}

func TestReadDefaults(t *testing.T) {
	r := newReader(t)
	shapes, err := r.ReadBytes("d", []byte("0,0\n1,0\n1,1\n-1,-1"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	// 12512 - 2*y, as produced by the standard 6256-pixel die images.
	if got := shapes.Polygons[0].Vertices()[0]; got != (geom.Vertex{X: 0, Y: 12512}) {
		t.Errorf("first vertex = %v", got)
	}
}

func TestReadTolerances(t *testing.T) {
	r := newReader(t)
	input := "\n0,0\r\n 4, 0\n\n4,4\n-1,-1\n7,7\n8,8\n"
	shapes, err := r.ReadBytes("poly.dat", []byte(input), Options{})
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if shapes.Len() != 1 {
		t.Errorf("Len() = %d, want 1", shapes.Len())
	}
	if shapes.Dangling != 2 {
		t.Errorf("Dangling = %d, want 2", shapes.Dangling)
	}
}

func TestReadMalformed(t *testing.T) {
	r := newReader(t)
	tests := []struct {
		name  string
		input string
		line  string
	}{
		{"letters", "0,0\n1,0\nx,y\n", "line 3"},
		{"missing y", "0,0\n1,\n", "line 2"},
		{"two pairs on a line", "0,0 1,1\n", "line 1"},
		{"float", "0,0\n1.5,2\n", "line 2"},
		{"degenerate polygon", "0,0\n1,1\n-1,-1\n", "line 3"},
		{"empty polygon", "-1,-1\n", "line 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.ReadBytes("diffusion.dat", []byte(tt.input), Options{})
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeMalformedLayer) {
				t.Errorf("code = %v, want MALFORMED_LAYER", errors.GetCode(err))
			}
			msg := err.Error()
			if !strings.Contains(msg, "diffusion.dat") || !strings.Contains(msg, tt.line) {
				t.Errorf("error %q should name file and %s", msg, tt.line)
			}
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	r := newReader(t)
	_, err := r.ReadFile(filepath.Join(t.TempDir(), "nope.dat"), Options{})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoaderCaches(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "metal.dat")
	if err := os.WriteFile(path, []byte(twoSquares), 0644); err != nil {
		t.Fatal(err)
	}
	fc, err := cache.NewFileCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	l, err := NewLoader(fc, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	first, hit, err := l.Load(ctx, path, Options{})
	if err != nil || hit {
		t.Fatalf("first Load: hit=%v err=%v", hit, err)
	}
	second, hit, err := l.Load(ctx, path, Options{})
	if err != nil || !hit {
		t.Fatalf("second Load: hit=%v err=%v", hit, err)
	}
	if first.Len() != second.Len() {
		t.Fatalf("cached Len() = %d, want %d", second.Len(), first.Len())
	}
	for i := range first.Polygons {
		if first.Polygons[i].String() != second.Polygons[i].String() {
			t.Errorf("polygon %d differs after cache round trip", i)
		}
	}

	// Different options must not reuse the entry.
	_, hit, err = l.Load(ctx, path, Options{Kind: Connector})
	if err != nil || hit {
		t.Errorf("connector Load: hit=%v err=%v, want fresh parse", hit, err)
	}
}
