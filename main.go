package main

import (
	"os"

	"github.com/klemjul/dobbychat/cmd"
	"github.com/klemjul/dobbychat/internal/app"
)

func main() {
	app := app.NewDefaultApp()
	if err := cmd.RootCommand(app).Execute(); err != nil {
		os.Exit(1)
	}
}
