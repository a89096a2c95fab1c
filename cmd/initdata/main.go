package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// ----------------------------------------------------------------------------
// Config ---------------------------------------------------------------------
var (
	baseURL = flag.String("url", env("API_BASE_URL", "http://localhost:5000"), "Server base URL")
	nUsers  = flag.Int("n", envInt("COUNT", 25), "How many accounts to register")
	pass    = flag.String("pass", env("PASSWORD", "Password123"), "Password for every seeded account")
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return def
}

// ----------------------------------------------------------------------------
// HTTP helpers ---------------------------------------------------------------
func postJSON(path string, body any) (*http.Response, error) {
	b, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, *baseURL+path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return http.DefaultClient.Do(req)
}

func must(body io.ReadCloser) []byte {
	defer body.Close()
	data, _ := io.ReadAll(body)
	return data
}

// ----------------------------------------------------------------------------
// Main -----------------------------------------------------------------------
func main() {
	flag.Parse()
	gofakeit.Seed(time.Now().UnixNano())

	fmt.Printf("Seeding %d accounts on %s\n", *nUsers, *baseURL)

	firstEmail := ""
	for i := 0; i < *nUsers; i++ {
		email := gofakeit.Email()
		if firstEmail == "" {
			firstEmail = email
		}

		resp, err := postJSON("/register", map[string]string{
			"email":       email,
			"password":    *pass,
			"UserName":    gofakeit.Name(),
			"phoneNumber": gofakeit.Phone(),
			"address":     gofakeit.Address().Address,
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "FATAL:", err)
			os.Exit(1)
		}
		if resp.StatusCode != http.StatusCreated {
			fmt.Fprintf(os.Stderr, "register %s: %s\n", email, must(resp.Body))
			continue
		}
		_ = resp.Body.Close()
	}

	// Sanity check: the first seeded account can sign in.
	resp, err := postJSON("/login", map[string]string{
		"email":    firstEmail,
		"password": *pass,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "FATAL: login failed: %s\n", must(resp.Body))
		os.Exit(1)
	}

	var login struct {
		ID    string `json:"id"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(must(resp.Body), &login); err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}

	fmt.Printf("Done. First account %s (id=%s) token: %s\n", firstEmail, login.ID, login.Token)
}
