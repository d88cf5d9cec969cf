// cmd/grna/main.go
package main

import (
	"grna/internal/app"
	"grna/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
