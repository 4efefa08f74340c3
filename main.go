package main

import (
	"os"

	"github.com/Gino-Tonic/LogPeek/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
