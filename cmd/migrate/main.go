package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/yigit/enrollment/internal/cli"
)

func main() {
	cli.Execute()
}
