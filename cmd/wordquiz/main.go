package main

import "github.com/mcoot/wordquiz/internal/cli"

func main() {
	cli.Execute()
}
