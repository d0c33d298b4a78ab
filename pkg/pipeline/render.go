package pipeline

import (
	"bytes"
	"context"

	"github.com/dieshot/dienet/pkg/emit"
	"github.com/dieshot/dienet/pkg/errors"
	dio "github.com/dieshot/dienet/pkg/io"
	"github.com/dieshot/dienet/pkg/netlist"
	"github.com/dieshot/dienet/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats, keyed by file
// name. The js format yields both tables.
func Render(ctx context.Context, nl *netlist.Netlist, meta dio.Meta, opts Options) (map[string][]byte, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte)
	var dot string

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch format {
		case FormatJS:
			tables, err := emit.Tables(nl)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeOutput, err, "render tables")
			}
			for name, data := range tables {
				artifacts[name] = data
			}
		case FormatJSON:
			var buf bytes.Buffer
			if err := dio.WriteJSON(nl, meta, &buf); err != nil {
				return nil, err
			}
			artifacts[JSONFile] = buf.Bytes()
		case FormatDOT, FormatSVG:
			if dot == "" {
				dot = nodelink.ToDOT(nl, nodelink.Options{Detailed: true, Rails: opts.GraphRails})
			}
			if format == FormatDOT {
				artifacts[DOTFile] = []byte(dot)
				continue
			}
			svg, err := nodelink.RenderSVG(ctx, dot)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeOutput, err, "render %s", format)
			}
			artifacts[SVGFile] = svg
		default:
			return nil, errors.New(errors.ErrCodeInternal, "unhandled format %q", format)
		}
	}

	return artifacts, nil
}
