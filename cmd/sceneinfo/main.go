package main

import "github.com/PiotrWeppo/Scenes-Information-Recorder/cmd/sceneinfo/cmd"

func main() {
	cmd.Execute()
}
