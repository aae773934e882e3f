// Command clipweave is a dev-loop CLI around the clipweave engine: render a
// single template field against a page-context fixture, batch-render a
// directory of template fields, or watch a fixture/template directory and
// re-render on change.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mattn/go-isatty"

	clipweave "github.com/clipweave/engine"
)

func usage() {
	fmt.Fprintln(os.Stderr, `clipweave <command> [flags]

Commands:
  render   render one template string against a page-context fixture
  batch    render every template field file in a directory against one fixture
  watch    like batch, but re-render whenever the template dir changes
  help     show this message`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "render":
		err = runRender(os.Args[2:])
	case "batch":
		err = runBatch(os.Args[2:])
	case "watch":
		err = runWatch(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "clipweave:", err)
		os.Exit(1)
	}
}

func colorEnabled() bool {
	return isatty.IsTerminal(os.Stderr.Fd())
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	tplPath := fs.String("template", "", "path to a template field file")
	fixturePath := fs.String("fixture", "", "path to a page-context JSON fixture")
	verbose := fs.Bool("v", false, "verbose diagnostics")
	if err := fs.Parse(args); err != nil {
		return err
	}
	clipweave.SetDiagColor(colorEnabled())
	clipweave.SetDiagVerbose(*verbose)

	if *tplPath == "" || *fixturePath == "" {
		return fmt.Errorf("-template and -fixture are required")
	}
	raw, err := os.ReadFile(*tplPath)
	if err != nil {
		return err
	}
	fixture, err := clipweave.LoadPageContextFixture(*fixturePath)
	if err != nil {
		return err
	}
	pc := fixture.ToPageContext(time.Now())

	engine, err := clipweave.Configure(clipweave.Options{})
	if err != nil {
		return err
	}
	rendered, prompts := engine.Compile(string(raw), pc)
	if prompts.Len() > 0 {
		fmt.Fprintf(os.Stderr, "clipweave: %d prompt(s) pending interpreter resolution\n", prompts.Len())
		for _, p := range prompts.Prompts() {
			fmt.Fprintln(os.Stderr, "  -", p)
		}
	}
	fmt.Println(rendered)
	return nil
}

func runBatch(args []string) error {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	srcDir := fs.String("src", "", "directory of template field files")
	outDir := fs.String("out", "", "output directory")
	fixturePath := fs.String("fixture", "", "path to a page-context JSON fixture")
	cacheSize := fs.Int("cache-size", 0, "compile cache size (0 = default)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *srcDir == "" || *outDir == "" || *fixturePath == "" {
		return fmt.Errorf("-src, -out and -fixture are required")
	}
	fixture, err := clipweave.LoadPageContextFixture(*fixturePath)
	if err != nil {
		return err
	}
	pc := fixture.ToPageContext(time.Now())
	engine, err := clipweave.Configure(clipweave.Options{CacheSize: *cacheSize})
	if err != nil {
		return err
	}
	if err := engine.RenderDir(*srcDir, *outDir, pc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "clipweave: rendered %s -> %s\n", *srcDir, *outDir)
	return nil
}

// runWatch is the dev-loop ergonomic the teacher's static precompile
// lacked: fsnotify watches srcDir and the fixture file, re-running batch on
// every write.
func runWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	srcDir := fs.String("src", "", "directory of template field files")
	outDir := fs.String("out", "", "output directory")
	fixturePath := fs.String("fixture", "", "path to a page-context JSON fixture")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *srcDir == "" || *outDir == "" || *fixturePath == "" {
		return fmt.Errorf("-src, -out and -fixture are required")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(*srcDir); err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(*fixturePath)); err != nil {
		return err
	}

	engine, err := clipweave.Configure(clipweave.Options{})
	if err != nil {
		return err
	}

	render := func() {
		fixture, err := clipweave.LoadPageContextFixture(*fixturePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "clipweave watch:", err)
			return
		}
		pc := fixture.ToPageContext(time.Now())
		if err := engine.RenderDir(*srcDir, *outDir, pc); err != nil {
			fmt.Fprintln(os.Stderr, "clipweave watch:", err)
			return
		}
		fmt.Fprintln(os.Stderr, "clipweave watch: re-rendered")
	}

	render()
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				render()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, "clipweave watch:", err)
		}
	}
}
