package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/intuitionamiga/vgm"
)

type options struct {
	commands bool
	indent   bool
	jobs     int
	filter   *luaFilter
}

// streamStats is the command stream bookkeeping of one file.
type streamStats struct {
	Commands        int    `json:"commands"`
	ByteLength      int    `json:"byteLength"`
	TotalSamples    int    `json:"totalSamples"`
	LoopSamples     int    `json:"loopSamples"`
	LoopIndexOffset int    `json:"loopIndexOffset"`
	LoopByteOffset  int    `json:"loopByteOffset"`
	Duration        string `json:"duration"`
	LoopDuration    string `json:"loopDuration"`
}

type fileDump struct {
	Path     string              `json:"path"`
	VGM      *vgm.Document       `json:"vgm"`
	Metadata vgm.MusicMetadata   `json:"metadata"`
	Stream   streamStats         `json:"stream"`
	Commands []vgm.CommandObject `json:"commands,omitempty"`
}

func dumpFile(path string, opts options) (*fileDump, error) {
	doc, err := vgm.ParseFile(path)
	if err != nil {
		return nil, err
	}
	s, err := doc.DataStream()
	if err != nil {
		return nil, errors.Wrapf(err, "%s: command stream", path)
	}
	d := &fileDump{
		Path:     path,
		VGM:      doc,
		Metadata: doc.Metadata(),
		Stream: streamStats{
			Commands:        s.Len(),
			ByteLength:      s.ByteLength(),
			TotalSamples:    s.TotalSamples(),
			LoopSamples:     s.LoopSamples(),
			LoopIndexOffset: s.LoopIndexOffset(),
			LoopByteOffset:  s.LoopByteOffset(),
			Duration:        vgm.FormatMinSec(s.TotalSamples(), vgm.SampleRate),
			LoopDuration:    vgm.FormatMinSec(s.LoopSamples(), vgm.SampleRate),
		},
	}
	if !opts.commands {
		return d, nil
	}
	var keep func(vgm.CommandObject) (bool, error)
	if opts.filter != nil {
		fs, err := opts.filter.newSession()
		if err != nil {
			return nil, err
		}
		defer fs.close()
		keep = fs.keep
	}
	d.Commands = []vgm.CommandObject{}
	for _, c := range s.Commands() {
		o := vgm.ToObject(c)
		if keep != nil {
			ok, err := keep(o)
			if err != nil {
				return nil, errors.Wrapf(err, "%s: filter", path)
			}
			if !ok {
				continue
			}
		}
		d.Commands = append(d.Commands, o)
	}
	return d, nil
}

// run decodes paths with up to opts.jobs workers and writes one JSON
// document per file to w, in argument order. The first failure cancels the
// remaining work.
func run(ctx context.Context, paths []string, opts options, w io.Writer) error {
	dumps := make([]*fileDump, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.jobs, 1))
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := dumpFile(p, opts)
			if err != nil {
				return err
			}
			dumps[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	if opts.indent {
		enc.SetIndent("", "  ")
	}
	for _, d := range dumps {
		if err := enc.Encode(d); err != nil {
			return errors.Wrapf(err, "%s: encode", d.Path)
		}
	}
	return nil
}
