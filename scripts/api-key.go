package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/userdir/userdir/internal/auth"
)

type output struct {
	Key         string `json:"key,omitempty"`
	Hash        string `json:"hash"`
	Fingerprint string `json:"fingerprint"`
}

// Generates an API key (or hashes -key) and prints the value for AUTH_API_KEY_HASH.
func main() {
	var (
		key    = flag.String("key", "", "Existing key to hash instead of generating one")
		format = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	var out output
	if *key != "" {
		hash, err := auth.HashKey(*key)
		if err != nil {
			fmt.Fprintln(os.Stderr, "hash api key:", err)
			os.Exit(1)
		}
		out = output{Hash: hash, Fingerprint: auth.Fingerprint(*key)}
	} else {
		generated, err := auth.GenerateKey()
		if err != nil {
			fmt.Fprintln(os.Stderr, "generate api key:", err)
			os.Exit(1)
		}
		out = output{
			Key:         generated.Plaintext,
			Hash:        generated.Hash,
			Fingerprint: auth.Fingerprint(generated.Plaintext),
		}
	}

	switch strings.ToLower(*format) {
	case "plain":
		if out.Key != "" {
			fmt.Println("key: ", out.Key)
		}
		fmt.Println("AUTH_API_KEY_HASH=" + out.Hash)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}
