package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/mogaika/pad_texture_tool/config"
)

type options struct {
	cfg    *config.Config
	paths  []string
	check  bool
	listEn bool
}

var usageOutput io.Writer = os.Stderr

func parseArgs(args []string) (*options, error) {
	fs := pflag.NewFlagSet("pad_texture_tool", pflag.ContinueOnError)
	fs.SetOutput(usageOutput)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: pad_texture_tool [options] <file or directory>...\n")
		fmt.Fprintf(fs.Output(), "Every texture is written as png, embedded jpeg/png records included.\n")
		fmt.Fprintf(fs.Output(), "Embedded records the image decoders can not read are skipped.\n")
		fs.PrintDefaults()
	}

	var cfgPath string
	flagCfg := config.Default()
	o := &options{}

	fs.StringVar(&cfgPath, "config", "", "yaml file with default settings")
	fs.StringVarP(&flagCfg.OutDir, "outdir", "o", "", "output directory (default: directory of each input)")
	fs.BoolVar(&flagCfg.NoTrim, "notrim", false, "keep fully transparent edges")
	fs.BoolVar(&flagCfg.NoBlacken, "noblacken", false, "keep colour of fully transparent pixels")
	fs.IntVarP(&flagCfg.Jobs, "jobs", "j", flagCfg.Jobs, "inputs processed in parallel")
	fs.StringSliceVar(&flagCfg.Members, "member", flagCfg.Members, "archive member holding textures, repeatable")
	fs.StringVar(&flagCfg.NameEncoding, "encoding", flagCfg.NameEncoding, "text encoding of texture names")
	fs.StringVarP(&flagCfg.Serve, "serve", "i", "", "browse inputs over http on this address instead of writing files")
	fs.BoolVar(&flagCfg.Dump, "dump", false, "log scanned record tables")
	fs.BoolVar(&o.check, "check", false, "only report problems, write nothing")
	fs.BoolVar(&o.listEn, "encodings", false, "list known texture name encodings")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return nil, err
		}
	}

	// flags given explicitly win over config file
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "outdir":
			cfg.OutDir = flagCfg.OutDir
		case "notrim":
			cfg.NoTrim = flagCfg.NoTrim
		case "noblacken":
			cfg.NoBlacken = flagCfg.NoBlacken
		case "jobs":
			cfg.Jobs = flagCfg.Jobs
		case "member":
			cfg.Members = flagCfg.Members
		case "encoding":
			cfg.NameEncoding = flagCfg.NameEncoding
		case "serve":
			cfg.Serve = flagCfg.Serve
		case "dump":
			cfg.Dump = flagCfg.Dump
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o.cfg = cfg
	o.paths = fs.Args()
	if len(o.paths) == 0 && !o.listEn {
		fs.Usage()
		return nil, errors.Errorf("no input given")
	}
	return o, nil
}

func listEncodings() {
	fmt.Println(strings.Join(config.ListEncodings(), "\n"))
}
