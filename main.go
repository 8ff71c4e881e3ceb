package main

import (
	"context"

	"github.com/Marcelo-Rosas/container-storage/cmd"
)

func main() {
	cmd.Execute(context.Background())
}
