package main

import "artist-portfolio/internal/cli"

func main() {
	cli.Execute()
}
