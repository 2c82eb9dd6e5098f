package main

import (
	"github.com/chasedut/crystaline/internal/cmd"
)

func main() {
	cmd.Execute()
}
