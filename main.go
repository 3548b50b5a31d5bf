package main

import (
	"os"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
