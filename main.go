package main

import (
	"context"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"muse/config"
	"muse/logging"
	"muse/mangle"
	"muse/palette"
	"muse/parallel"
	"muse/swatch"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

type CLI struct {
	LogLevel   string   `help:"Log level: debug, info, warn or error" default:"${log_level}" env:"MUSE_LOG_LEVEL"`
	NoColor    bool     `help:"Disable colored log output" env:"MUSE_NO_COLOR"`
	Workers    int      `short:"j" help:"Files converted in parallel, 0 for one per CPU" default:"${workers}" env:"MUSE_WORKERS"`
	Config     string   `help:"YAML file with default settings" default:"${config}" type:"path"`
	PaletteDir []string `name:"palette-dir" help:"Extra folders searched for palette files" env:"MUSE_PALETTE_DIRS"`

	Convert mangle.CLICmd `cmd:"" help:"Map images onto a palette, with optional dithering"`
	Palette swatch.CLICmd `cmd:"" help:"Inspect, extract and export palettes"`
}

func main() {
	_ = godotenv.Load()

	confPath := config.PathFromArgs(os.Args[1:])
	if confPath == "" {
		confPath = config.DefaultPath()
	}
	conf, confErr := config.Load(confPath)

	vars := conf.Vars()
	vars["config"] = confPath

	var cli CLI
	parser := kong.Must(&cli,
		kong.Name("muse"),
		kong.Description("Palette quantization and dithering for images."),
		kong.UsageOnError(),
		vars,
	)
	parser.FatalIfErrorf(confErr)

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	level, err := logging.ParseLevel(cli.LogLevel)
	kctx.FatalIfErrorf(err)
	logging.Setup(os.Stderr, level, cli.NoColor || os.Getenv("NO_COLOR") != "")
	logging.WithComponent(logging.ComponentConfig).Debug("configuration loaded",
		"file", confPath, "palette", conf.Palette, "dither", conf.Dither, "palette_dirs", conf.PaletteDirs)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	pool := parallel.Start(cli.Workers)
	logging.WithComponent(logging.ComponentStartup).Debug("worker pool started", "workers", pool.Workers())
	dirs := palette.SearchDirs(slices.Concat(cli.PaletteDir, conf.PaletteDirs))

	kctx.BindTo(ctx, (*context.Context)(nil))
	err = kctx.Run(pool, dirs)

	pool.Wait()
	stop()
	kctx.FatalIfErrorf(err)
}
