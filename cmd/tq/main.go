package main

import "github.com/m4l0n6/task-quest-gamify/cmd/tq/root"

func main() {
	root.Execute()
}
