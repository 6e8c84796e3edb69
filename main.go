package main

import "shortform-studio/cmd"

func main() {
	cmd.Execute()
}
