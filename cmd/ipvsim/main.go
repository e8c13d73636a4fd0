package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// A .env file can predefine the IPVSIM_* defaults. Missing files are
	// fine.
	_ = godotenv.Load()

	Execute()
}
