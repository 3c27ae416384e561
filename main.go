package main

import "github.com/blogforge/blogd/cmd"

func main() {
	cmd.Execute()
}
