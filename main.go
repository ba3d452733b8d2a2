package main

import "github.com/simple-icons/release-action/cmd"

func main() {
	cmd.Execute()
}
