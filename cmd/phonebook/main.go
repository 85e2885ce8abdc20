package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gitlab.com/dirk.krummacker/phonebook-service/internal/store"
	"gitlab.com/dirk.krummacker/phonebook-service/internal/store/mongo"
)

// defaultURITemplate is used when MONGODB_URI_TEMPLATE is not set. The %s is replaced by the
// password given on the command line.
const defaultURITemplate = "mongodb+srv://phonebook:%s@cluster0.mongodb.net/?appName=Phonebook"

const (
	database = "phonebookApp"
	timeout  = 10 * time.Second
)

// opener connects to the store for the given connection string. The returned function releases
// the connection.
type opener func(ctx context.Context, uri string) (store.Store, func(), error)

// Usage example on the command line:
// > go run ./cmd/phonebook secret
// > go run ./cmd/phonebook secret "Mary Jane" 111-2222
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, openMongo))
}

// run lists all entries when only the password is given and adds an entry when name and number
// follow. It returns the exit code.
func run(ctx context.Context, args []string, out io.Writer, open opener) int {
	if len(args) != 1 && len(args) != 3 {
		printUsage(out)
		return 1
	}

	entries, closeStore, err := open(ctx, connectionString(args[0]))
	if err != nil {
		fmt.Fprintln(out, "could not connect to MongoDB:", err)
		return 1
	}
	defer closeStore()

	if len(args) == 1 {
		list, err := entries.List(ctx)
		if err != nil {
			fmt.Fprintln(out, "could not read phonebook:", err)
			return 1
		}
		fmt.Fprintln(out, "phonebook:")
		for _, entry := range list {
			fmt.Fprintf(out, "%s %s\n", entry.Name, entry.Number)
		}
		return 0
	}

	name, number := args[1], args[2]
	if name == "" || number == "" {
		fmt.Fprintln(out, "name or number is missing")
		return 1
	}
	if _, err := entries.Create(ctx, name, number); err != nil {
		fmt.Fprintln(out, "could not add person:", err)
		return 1
	}
	fmt.Fprintf(out, "added %s number %s to phonebook\n", name, number)
	return 0
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, "wrong number of arguments")
	fmt.Fprintln(out, "usage to list:  phonebook <password>")
	fmt.Fprintln(out, "usage to add:   phonebook <password> <name> <number>")
}

// connectionString puts the password into MONGODB_URI_TEMPLATE or the default template.
func connectionString(password string) string {
	template := strings.TrimSpace(os.Getenv("MONGODB_URI_TEMPLATE"))
	if template == "" {
		template = defaultURITemplate
	}
	return fmt.Sprintf(template, password)
}

func openMongo(ctx context.Context, uri string) (store.Store, func(), error) {
	s, err := mongo.Connect(uri, database)
	if err != nil {
		return nil, nil, err
	}
	return s, func() { _ = s.Close(ctx) }, nil
}
