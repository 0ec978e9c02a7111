package main

import "github.com/mkarani499/video-platform-2/cmd"

func main() {
	cmd.Execute()
}
