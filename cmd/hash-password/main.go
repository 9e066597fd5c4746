// Prints a bcrypt hash for the ADMIN_PASSWORD_HASH environment variable.
// cmd/hash-password/main.go
package main

import (
	"fmt"
	"log"
	"os"

	"cv-portal-api/utils"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <password>", os.Args[0])
	}

	hash, err := utils.HashPassword(os.Args[1])
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	fmt.Println(hash)
}
