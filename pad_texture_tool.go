package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/mogaika/pad_texture_tool/config"
	"github.com/mogaika/pad_texture_tool/export"
	"github.com/mogaika/pad_texture_tool/extractor"
	"github.com/mogaika/pad_texture_tool/tex"
	"github.com/mogaika/pad_texture_tool/utils"
	"github.com/mogaika/pad_texture_tool/vfs"
	"github.com/mogaika/pad_texture_tool/web"
)

func collect(cfg *config.Config, paths []string) ([]vfs.Input, error) {
	var inputs []vfs.Input
	for _, p := range paths {
		in, err := vfs.Collect(p, cfg.Members)
		if err != nil {
			return nil, errors.Wrapf(err, "%q", p)
		}
		inputs = append(inputs, in...)
	}
	return inputs, nil
}

type batch struct {
	cfg    *config.Config
	writer *export.Writer
	check  bool
	failed atomic.Int32
}

func (b *batch) process(ctx context.Context, in vfs.Input) (*extractor.Report, error) {
	log.Printf("Reading %s...", in.Name())
	data, err := in.Read()
	if err != nil {
		return nil, err
	}

	res, err := extractor.Extract(ctx, in.Name(), data, tex.WithNameEncoding(b.cfg.Encoding()))
	if err != nil {
		return nil, err
	}
	if len(res.Table.Records)+len(res.Table.Problems) == 0 {
		log.Printf("no textures found in %s (starts with %q)", in.Name(), utils.Preview(data, 16))
	} else {
		log.Printf("%d textures found.", len(res.Images))
	}
	if b.cfg.Dump {
		utils.LogDump(res.Table)
	}
	if b.check {
		checkNames(in.Name(), res)
		return res.Report, nil
	}

	dir := b.cfg.OutDir
	if dir == "" {
		dir = in.Dir()
	}
	for _, img := range res.Images {
		if _, err := b.writer.WriteImage(dir, img.Name, img.Buffer); err != nil {
			if errors.Is(err, export.ErrEmptyImage) {
				log.Printf("  Skipping empty %s", img.Name)
				continue
			}
			return res.Report, err
		}
	}
	return res.Report, nil
}

// run processes inputs on cfg.Jobs workers. Failure of one input does not stop others.
func (b *batch) run(ctx context.Context, inputs []vfs.Input) []*extractor.Report {
	reports := make([]*extractor.Report, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Jobs)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			r, err := b.process(ctx, in)
			if err != nil {
				log.Printf("[main] %s: %v", in.Name(), err)
				b.failed.Add(1)
			}
			reports[i] = r
			return nil
		})
	}
	g.Wait()
	return reports
}

func main() {
	o, err := parseArgs(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	} else if err != nil {
		log.Fatal(err)
	}
	if o.listEn {
		listEncodings()
		return
	}

	inputs, err := collect(o.cfg, o.paths)
	if err != nil {
		log.Fatal(err)
	}

	if o.cfg.Serve != "" {
		if err := web.StartServer(o.cfg.Serve, inputs, tex.WithNameEncoding(o.cfg.Encoding())); err != nil {
			log.Fatal(err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	b := &batch{
		cfg:    o.cfg,
		writer: export.NewWriter(export.Options{Trim: !o.cfg.NoTrim, Blacken: !o.cfg.NoBlacken}),
		check:  o.check,
	}
	for _, r := range b.run(ctx, inputs) {
		if r != nil {
			log.Print(r)
		}
	}
	if n := b.failed.Load(); n != 0 {
		log.Fatalf("%d of %d inputs failed", n, len(inputs))
	}
}
