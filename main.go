package main

import (
	"os"

	"github.com/Nrich-sunny/moviecrawler/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
