package main

import (
	"fmt"
	"net/http"
	"os"
	"time"
)

// Polls the info page of the phonebook service on localhost every five seconds until it answers
// 200, so that scripts can wait for a freshly started server.
//
// Usage example on the command line:
// > PORT=3002 go run ./cmd/wait-until-available
func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3002"
	}
	url := fmt.Sprintf("http://localhost:%s/info", port)

	totalWaitTime := 0
	for {
		res, err := http.Get(url)
		if err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				fmt.Println(res.Status)
				break
			}
			fmt.Println(res.Status)
		} else {
			fmt.Println(err)
		}
		totalWaitTime += 5
		fmt.Printf("Waiting %d seconds\n", totalWaitTime)
		time.Sleep(5 * time.Second)
	}
}
