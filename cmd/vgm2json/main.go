package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"golang.design/x/clipboard"
	"golang.org/x/term"
)

func main() {
	commands := flag.Bool("commands", false, "Include the decoded command list")
	filterPath := flag.String("filter", "", "Lua script defining keep(cmd); only commands it accepts are listed (implies -commands)")
	indent := flag.String("indent", "auto", "Indent output: auto (when stdout is a terminal), on or off")
	copyOut := flag.Bool("copy", false, "Also copy the output to the clipboard")
	jobs := flag.Int("j", runtime.NumCPU(), "Number of files decoded in parallel")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vgm2json [options] file.vgm|file.vgz ...\n\nPrints the header, GD3 tag and stream statistics of VGM files as JSON.\n\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  vgm2json music/stage1.vgz\n")
		fmt.Fprintf(os.Stderr, "  vgm2json -commands -indent on music/stage1.vgm\n")
		fmt.Fprintf(os.Stderr, "  vgm2json -filter ym2612_only.lua -copy music/stage1.vgz\n")
		fmt.Fprintf(os.Stderr, "  vgm2json -j 8 music/*.vgz\n")
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	opts := options{commands: *commands || *filterPath != "", jobs: *jobs}
	switch *indent {
	case "auto":
		opts.indent = term.IsTerminal(int(os.Stdout.Fd()))
	case "on":
		opts.indent = true
	case "off":
	default:
		fmt.Fprintf(os.Stderr, "error: -indent must be auto, on or off\n")
		os.Exit(1)
	}
	if *jobs < 1 {
		fmt.Fprintf(os.Stderr, "error: -j must be at least 1\n")
		os.Exit(1)
	}

	if *filterPath != "" {
		f, err := loadLuaFilter(*filterPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		opts.filter = f
	}

	var out bytes.Buffer
	if err := run(context.Background(), flag.Args(), opts, &out); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(out.Bytes())

	if *copyOut {
		if err := clipboard.Init(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: clipboard unavailable: %v\n", err)
			return
		}
		clipboard.Write(clipboard.FmtText, out.Bytes())
	}
}
