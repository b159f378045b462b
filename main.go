package main

import (
	"os"

	"minipy/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
