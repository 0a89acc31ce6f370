package main

import "yatube/internal/cmd"

func main() {
	cmd.Execute()
}
