package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	apcrypto "serveradmin/crypto"
)

func main() {
	usage := "Please run with the kind of key you wish to generate, e.g.\n"
	usage += "    keygen session\n"
	usage += "    keygen token [-length 24]"

	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	switch os.Args[1] {
	case "session":
		generateSession()
	case "token":
		generateToken()
	default:
		log.Fatal(usage)
	}
}

// Cookie keys: 64 bytes to sign, 32 bytes for AES-256.
func generateSession() {
	authKey, err := apcrypto.RandomToken(64)
	if err != nil {
		log.Fatal(err)
	}
	encryptionKey, err := apcrypto.RandomToken(32)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("[web]")
	fmt.Printf("authKey = '%s'\n", authKey)
	fmt.Printf("encryptionKey = '%s'\n", encryptionKey)
}

func generateToken() {
	flags := flag.NewFlagSet("token", flag.ExitOnError)
	length := flags.Int("length", 24, "Length of the application auth token")
	flags.Parse(os.Args[2:])

	token, err := apcrypto.RandomToken(*length)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("auth_token: %s\n", token)
	fmt.Printf("app_id:     %s\n", apcrypto.ApplicationID(token))
}
