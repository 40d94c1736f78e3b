package main

import "github.com/ytget/yt-web-downloader/cmd/yt-web-downloader/cmd"

func main() {
	cmd.Execute()
}
