package main

import "github.com/andrescamacho/oni-calculator/internal/adapters/cli"

func main() {
	cli.Execute()
}
