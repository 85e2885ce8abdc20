package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"time"

	"gitlab.com/dirk.krummacker/phonebook-service/pkg/model"
)

// Usage example on the command line:
// > PORT=3002 go run ./cmd/client
func main() {
	baseURL := fmt.Sprintf("http://localhost:%s/api/persons", port())
	fmt.Println()
	fmt.Println("  Elements      POST       PUT       GET    DELETE ")
	fmt.Println("---------------------------------------------------")
	sizes := []int{100, 500, 1000, 5000}
	for _, loops := range sizes {
		fmt.Printf("%10d", loops)
		ids := make([]string, 0, loops)
		{
			// POST requests; names must be unique for the in-memory store
			var duration int64
			for i := 0; i < loops; i++ {
				entry, d := sendPostRequest(baseURL, personBody(fmt.Sprintf("Marcus Antonius %d-%d", loops, i)))
				ids = append(ids, entry.Id)
				duration += d
			}
			fmt.Printf("%10d", duration/int64(loops*1000))
		}
		{
			// PUT requests
			f := func(id string) int64 {
				return sendRequestForID(baseURL, id, http.MethodPut, personBody("Marcus Antonius "+id))
			}
			callInLoop(ids, f)
		}
		{
			// GET requests
			f := func(id string) int64 {
				return sendRequestForID(baseURL, id, http.MethodGet, nil)
			}
			callInLoop(ids, f)
		}
		{
			// DELETE requests
			f := func(id string) int64 {
				return sendRequestForID(baseURL, id, http.MethodDelete, nil)
			}
			callInLoop(ids, f)
		}
		fmt.Println()
	}
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "3002"
}

func personBody(name string) io.Reader {
	body, _ := json.Marshal(model.Person{Name: name, Number: "39-99-7775555"})
	return bytes.NewReader(body)
}

// callInLoop calls f for all ids in random order and prints the mean duration in microseconds.
func callInLoop(ids []string, f func(id string) int64) {
	shuffled := append([]string(nil), ids...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	var duration int64
	for _, id := range shuffled {
		duration += f(id)
	}
	fmt.Printf("%10d", duration/int64(len(ids)*1000))
}

func sendPostRequest(baseURL string, bodyReader io.Reader) (model.Entry, int64) {
	resBody, duration := sendRequest(http.MethodPost, baseURL, bodyReader)
	var entry model.Entry
	err := json.Unmarshal(resBody, &entry)
	if err != nil {
		fmt.Println("could not unmarshal JSON", err)
		panic(err)
	}
	return entry, duration
}

func sendRequestForID(baseURL string, id string, method string, bodyReader io.Reader) int64 {
	_, duration := sendRequest(method, baseURL+"/"+id, bodyReader)
	return duration
}

func sendRequest(method string, requestURL string, bodyReader io.Reader) ([]byte, int64) {
	req, err := http.NewRequest(method, requestURL, bodyReader)
	if err != nil {
		fmt.Println("could not create request", err)
		panic(err)
	}
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	before := time.Now().UnixNano()
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		panic(err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Println("could not read response body", err)
		panic(err)
	}
	after := time.Now().UnixNano()
	return resBody, after - before
}
