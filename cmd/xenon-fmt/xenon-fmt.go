package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/lestrrat-go/xenon"
	"github.com/lestrrat-go/xenon/internal/cliutil"
)

type cmdopts struct {
	Compact         bool   `long:"compact"`
	Encoding        string `long:"encoding"`
	Indent          bool   `long:"indent"`
	NoDeclaration   bool   `long:"no-declaration"`
	StripWhitespace bool   `long:"strip-whitespace"`
	Trace           bool   `long:"trace"`
	Version         bool   `long:"version"`
}

func main() {
	os.Exit(_main())
}

func showVersion() {
	fmt.Printf("xenon-fmt: using xenon version %s\n", xenon.ReleaseVersion)
}

func showUsage() {
	fmt.Printf(`Usage : xenon-fmt [options] XMLfiles ...
	Reformat the XML files and print the result to stdout
	--indent           : pretty-print the output
	--compact          : drop whitespace-only text between markup
	--strip-whitespace : drop whitespace-only text without reindenting
	--encoding=NAME    : transcode the output to NAME
	--no-declaration   : omit the XML declaration
	--trace            : log every event to stderr
	--version          : display the version of the XML library used
`)
}

func _main() int {
	opts := cmdopts{}
	args, err := flags.ParseArgs(&opts, os.Args[1:])
	if err != nil {
		showUsage()
		return 1
	}

	if opts.Version {
		showVersion()
		return 0
	}

	if opts.Indent && opts.Compact {
		showUsage()
		return 1
	}

	var options []xenon.Option
	if opts.Indent {
		// fresh indentation only makes sense once the input's own
		// inter-markup whitespace is gone
		options = append(options, xenon.WithIndent(true), xenon.WithStripWhitespace(true))
	}
	if opts.Compact || opts.StripWhitespace {
		options = append(options, xenon.WithStripWhitespace(true))
	}
	if opts.Encoding != "" {
		options = append(options, xenon.WithEncoding(opts.Encoding))
	}
	if opts.NoDeclaration {
		options = append(options, xenon.WithDocumentDeclaration(false))
	}

	ctx := context.Background()
	if opts.Trace {
		tlog := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		ctx = xenon.WithTraceLogger(ctx, tlog)
	}

	inputCh := make(chan *os.File)
	// buffered so the producer can report an open failure and exit
	// while the main loop is still draining inputCh
	errCh := make(chan error, 1)
	switch {
	case len(args) > 0: // filename present
		go func() {
			defer close(inputCh)
			for _, f := range args {
				fh, err := os.Open(f)
				if err != nil {
					errCh <- err
					return
				}
				inputCh <- fh
			}
		}()
	case !cliutil.IsTty(os.Stdin.Fd()):
		go func() {
			defer close(inputCh)
			inputCh <- os.Stdin
		}()
	default:
		showUsage()
		return 1
	}

	for in := range inputCh {
		buf, err := io.ReadAll(in)
		name := in.Name()
		in.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			return 1
		}

		if err := xenon.Reformat(ctx, os.Stdout, buf, options...); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", name, err)
			return 1
		}
		fmt.Fprintln(os.Stdout)
	}

	select {
	case err := <-errCh:
		fmt.Fprintf(os.Stderr, "%s", err)
		return 1
	default:
	}

	return 0
}
