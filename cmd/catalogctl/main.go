package main

import (
	"github.com/joho/godotenv"
	"github.com/user/decideflix/internal/cli"
)

func main() {
	_ = godotenv.Load()
	cli.Execute()
}
