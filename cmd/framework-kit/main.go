package main

import "framework-kit/internal/cli"

func main() {
	cli.Execute()
}
