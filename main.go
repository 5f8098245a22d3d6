package main

import "voice-notes/cmd"

func main() {
	cmd.Execute()
}
