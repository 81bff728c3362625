package main

import (
	"os"

	"github.com/ytget/yt-remote/internal/cli"
)

var version = "dev"

func main() {
	os.Exit(cli.Main(os.Args[1:], version))
}
