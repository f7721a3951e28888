package main

import (
	"os"

	"github.com/htol/libshelf/app"
)

func main() {
	os.Exit(app.CLI(os.Args[1:]))
}
