package main

import (
	"os"

	"github.com/ytget/yt-remote/internal/cli"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	os.Exit(cli.Main(os.Args[1:], version))
}
