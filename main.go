package main

import (
	"os"

	"github.com/meysamhadeli/aboutwriter/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
