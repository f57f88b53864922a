package main

import "surface-renderer/cmd"

func main() {
	cmd.Execute()
}
