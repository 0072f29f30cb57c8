// Package main provides a read-only inspection tool for a BookHive database.
//
// Usage:
//
//	DB_PATH=~/BookHive/data/db go run ./cmd/dbinspect
package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookhiveapp/bookhive-server/internal/domain"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/BookHive/data/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	counts := map[string]int{}
	pagesByUser := map[string]int{}
	titlesByUser := map[string]map[string]struct{}{}

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())

			prefix, rest, ok := strings.Cut(key, ":")
			if !ok {
				continue
			}
			// Index keys have a second colon ("book:user:..."); skip them.
			if strings.Contains(rest, ":") {
				continue
			}
			counts[prefix]++

			if prefix != "log" {
				continue
			}
			if err := item.Value(func(val []byte) error {
				var l domain.ReadingLog
				if err := json.Unmarshal(val, &l); err != nil {
					return nil
				}
				pagesByUser[l.UserID] += l.PagesRead
				if titlesByUser[l.UserID] == nil {
					titlesByUser[l.UserID] = map[string]struct{}{}
				}
				titlesByUser[l.UserID][l.BookTitle] = struct{}{}
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Inspection failed: %v", err)
	}

	fmt.Printf("Books:       %d\n", counts["book"])
	fmt.Printf("Logs:        %d\n", counts["log"])
	fmt.Printf("Profiles:    %d\n", counts["profile"])
	fmt.Printf("Credentials: %d\n", counts["cred"])
	fmt.Printf("Sessions:    %d\n", counts["session"])
	fmt.Println()

	for userID, pages := range pagesByUser {
		fmt.Printf("user %s: %d pages logged across %d titles\n",
			userID, pages, len(titlesByUser[userID]))
	}
}
