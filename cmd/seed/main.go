// Package main provides a tool to seed the database with test reading data.
//
// It creates a handful of accounts, a small library per account, and a
// spread of reading logs so stats and search have something to chew on.
// After seeding, each reader's shelf is read back through the view
// models, so this doubles as a smoke check of the presentation adapters.
//
// Usage:
//
//	DB_PATH=~/BookHive/data/db go run ./cmd/seed
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/bookhiveapp/bookhive-server/internal/account"
	"github.com/bookhiveapp/bookhive-server/internal/auth"
	"github.com/bookhiveapp/bookhive-server/internal/domain"
	"github.com/bookhiveapp/bookhive-server/internal/id"
	"github.com/bookhiveapp/bookhive-server/internal/repo"
	"github.com/bookhiveapp/bookhive-server/internal/store"
	"github.com/bookhiveapp/bookhive-server/internal/viewmodel"
)

var password = flag.String("password", "ReadMoreBooks1!", "Password assigned to seeded accounts")

type seedBook struct {
	title  string
	author string
	genre  string
	pages  int
}

var library = []seedBook{
	{"A Wizard of Earthsea", "Ursula K. Le Guin", "Fantasy", 183},
	{"Dune", "Frank Herbert", "Science Fiction", 412},
	{"Hyperion", "Dan Simmons", "Science Fiction", 482},
	{"The Name of the Rose", "Umberto Eco", "Mystery", 512},
	{"Piranesi", "Susanna Clarke", "Fantasy", 245},
	{"Project Hail Mary", "Andy Weir", "Science Fiction", 476},
}

var readers = []struct {
	email string
	name  string
}{
	{"ada@example.com", "Ada"},
	{"grace@example.com", "Grace"},
	{"linus@example.com", "Linus"},
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/BookHive/data/db")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := store.New(dbPath, logger, store.NewNoopEmitter())
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	for _, r := range readers {
		userID, err := seedAccount(ctx, st, r.email, r.name, hash)
		if err != nil {
			log.Fatalf("Failed to seed %s: %v", r.email, err)
		}

		books := rand.Perm(len(library))[:3+rand.Intn(3)]
		for _, idx := range books {
			if err := seedBookWithLogs(ctx, st, userID, library[idx]); err != nil {
				log.Fatalf("Failed to seed books for %s: %v", r.email, err)
			}
		}
		fmt.Printf("seeded %s (%s) with %d books\n", r.name, userID, len(books))

		if err := readBackShelf(ctx, st, userID, r.name); err != nil {
			log.Fatalf("Failed to read back shelf for %s: %v", r.email, err)
		}
	}
}

// readBackShelf loads the freshly seeded data through the view models a
// client would bind to, logs a page of reading for the newest book, and
// prints the resulting shelf and statistics.
func readBackShelf(ctx context.Context, st *store.Store, userID, name string) error {
	identity := account.StaticIdentity(userID)
	books := viewmodel.NewBookViewModel(repo.NewBookRepository(st, identity, nil))
	logs := viewmodel.NewReadingLogViewModel(repo.NewReadingLogRepository(st, identity, nil))

	books.Refresh(ctx)
	if out := books.Outcome.Get(); !out.Success && out.Message != "" {
		return fmt.Errorf("load library: %s", out.Message)
	}

	shelf := books.Books.Get()
	if len(shelf) > 0 {
		logs.AddLog(ctx, domain.ReadingLog{
			BookID:    shelf[0].ID,
			BookTitle: shelf[0].Title,
			Date:      "Today",
			PagesRead: 5 + rand.Intn(30),
		})
		if out := logs.Outcome.Get(); !out.Success {
			return fmt.Errorf("log today's reading: %s", out.Message)
		}
	} else {
		logs.Refresh(ctx)
	}

	fmt.Printf("  %s's shelf: %d books, %d logs, %d pages today, %d books this month\n",
		name, len(shelf), len(logs.Logs.Get()), logs.PagesReadToday.Get(), logs.BooksReadThisMonth.Get())
	return nil
}

func seedAccount(ctx context.Context, st *store.Store, email, name, passwordHash string) (string, error) {
	if existing, err := st.GetCredentialByEmail(ctx, email); err == nil {
		return existing.ID, nil
	}

	userID, err := id.Generate("usr")
	if err != nil {
		return "", err
	}

	now := time.Now()
	cred := &domain.Credential{
		ID:           userID,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := st.CreateCredential(ctx, cred); err != nil {
		return "", err
	}

	profile := &domain.UserProfile{
		ID:       userID,
		UserName: name,
		Email:    email,
	}
	if err := st.CreateProfile(ctx, profile); err != nil {
		return "", err
	}
	return userID, nil
}

func seedBookWithLogs(ctx context.Context, st *store.Store, userID string, sb seedBook) error {
	bookID, err := id.Generate("book")
	if err != nil {
		return err
	}

	book := &domain.Book{
		ID:         bookID,
		UserID:     userID,
		Title:      sb.title,
		Author:     sb.author,
		Genre:      sb.genre,
		TotalPages: sb.pages,
		AddedAt:    time.Now().AddDate(0, 0, -rand.Intn(60)),
	}
	if err := st.CreateBook(ctx, book); err != nil {
		return err
	}

	sessions := 1 + rand.Intn(5)
	for range sessions {
		logID, err := id.Generate("log")
		if err != nil {
			return err
		}

		when := time.Now().AddDate(0, 0, -rand.Intn(14))
		entry := &domain.ReadingLog{
			ID:        logID,
			UserID:    userID,
			BookTitle: sb.title,
			BookID:    bookID,
			Date:      domain.FormatDateLabel(when),
			PagesRead: 10 + rand.Intn(60),
			Timestamp: when,
		}
		if err := st.CreateLog(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}
