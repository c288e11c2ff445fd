package main

import (
	"os"

	"github.com/muhammadolammi/resumatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
