package main

import "github.com/kmattheis/scenebridge/cmd"

func main() {
	cmd.Execute()
}
