package main

import (
	"github.com/ctfe/ctfe/internal/cli"
)

func main() {
	cli.Execute()
}
