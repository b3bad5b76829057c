// Seed tool: fills a postgres database with demo data for local development.
// The tables must exist already, start the app once to migrate them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"gopkg.in/yaml.v3"

	"yatube/auth"
)

// Fixtures is the content of the fixtures file.
type Fixtures struct {
	Groups []GroupFixture `yaml:"groups"`
}

type GroupFixture struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

func main() {
	var dsn, fixtures, author, hmacKey string
	var numPosts int
	flag.StringVar(&dsn, "dsn", "postgres://postgres@localhost:5432/yatube?sslmode=disable", "postgres connection string")
	flag.StringVar(&fixtures, "fixtures", "cmd/seed/groups.yaml", "yaml file with the groups to create")
	flag.StringVar(&author, "author", "demo", "username of the author of all seeded posts")
	flag.StringVar(&hmacKey, "hmac-key", "secret-hmac-key", "hmac key of the app, used to hash the author's remember token")
	flag.IntVar(&numPosts, "posts", 1000, "number of posts to insert")
	flag.Parse()

	ctx := context.Background()
	start := time.Now()
	if err := seed(ctx, dsn, fixtures, author, hmacKey, numPosts); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	log.Printf("done in %s", time.Since(start).Truncate(time.Millisecond))
}

func seed(ctx context.Context, dsn, fixturesPath, author, hmacKey string, numPosts int) error {
	fixtures, err := loadFixtures(fixturesPath)
	if err != nil {
		return err
	}

	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	groupIDs, err := upsertGroups(ctx, tx, fixtures.Groups)
	if err != nil {
		return err
	}
	authorID, err := ensureAuthor(ctx, tx, author, auth.NewHMAC(hmacKey))
	if err != nil {
		return err
	}
	log.Printf("seeding posts: author=%s groups=%d posts=%d", author, len(groupIDs), numPosts)

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"posts"},
		[]string{"text", "author_id", "group_id", "image", "created_at", "updated_at"},
		pgx.CopyFromRows(postRows(authorID, groupIDs, numPosts, time.Now())),
	)
	if err != nil {
		return fmt.Errorf("copy posts: %w", err)
	}
	log.Printf("copied %d posts", n)
	return tx.Commit(ctx)
}

func loadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, g := range f.Groups {
		if g.Slug == "" || g.Title == "" {
			return nil, fmt.Errorf("parse %s: group %d needs a title and a slug", path, i)
		}
	}
	return &f, nil
}

// upsertGroups creates the groups, or updates them if their slug exists already.
// It returns their ids in fixture order.
func upsertGroups(ctx context.Context, tx pgx.Tx, groups []GroupFixture) ([]int, error) {
	ids := make([]int, 0, len(groups))
	for _, g := range groups {
		var id int
		err := tx.QueryRow(ctx, `
			INSERT INTO "groups" (title, slug, description, created_at, updated_at)
			VALUES ($1, $2, $3, now(), now())
			ON CONFLICT (slug) DO UPDATE SET title = EXCLUDED.title, description = EXCLUDED.description, updated_at = now()
			RETURNING id`, g.Title, g.Slug, g.Description).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("upsert group %s: %w", g.Slug, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ensureAuthor returns the id of the user named username, creating the user first if needed.
// Created users have no password, so nobody can log in as them.
func ensureAuthor(ctx context.Context, tx pgx.Tx, username string, hmac auth.HMAC) (int, error) {
	var id int
	err := tx.QueryRow(ctx, `SELECT id FROM users WHERE username = $1`, username).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}
	token, err := auth.MakeRememberToken()
	if err != nil {
		return 0, err
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, remember_hash, created_at, updated_at)
		VALUES ($1, '', '', $2, now(), now())
		RETURNING id`, username, hmac.Hash(token)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create author %s: %w", username, err)
	}
	return id, nil
}

// postRows builds n posts, one minute apart and ending at now, spread round-robin over the groups.
// Without groups, the posts have none.
func postRows(authorID int, groupIDs []int, n int, now time.Time) [][]interface{} {
	rows := make([][]interface{}, 0, n)
	for i := 0; i < n; i++ {
		var groupID *int
		if len(groupIDs) > 0 {
			groupID = &groupIDs[i%len(groupIDs)]
		}
		createdAt := now.Add(-time.Duration(n-1-i) * time.Minute)
		rows = append(rows, []interface{}{
			fmt.Sprintf("Demo post number %d.", i+1),
			authorID,
			groupID,
			"",
			createdAt,
			createdAt,
		})
	}
	return rows
}
