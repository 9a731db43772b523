package main

import "github.com/veranemoloko/media-downloader/internal/cli"

func main() {
	cli.Execute()
}
