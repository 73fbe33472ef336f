package main

import "docindex/internal/cli"

func main() {
	cli.Execute()
}
