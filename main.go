package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"yatube/cache"
	"yatube/crud"
	"yatube/http"
)

// main is the app's entry point.
func main() {
	// Check if the flag "-prod" has been provided. It means that we're running in production.
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a .config.json file is provided before the application starts.")
	resetBool := flag.Bool("reset", false, "Drop and recreate all tables before starting. All data is lost.")
	flag.Parse()

	// Load configuration from a .config.json file if present, otherwise use the default dev setup.
	// If *productionBool evaluates to true, the .config.json file is required and the app will
	// panic if no file is found.
	config := LoadConfig(*productionBool)

	// Open a database connection.
	dbConfig := config.Database
	db := NewDB(dbConfig.Dialect, dbConfig.ConnectionInfo())
	err := Open(db, config.IsProd())
	must(err)
	defer Close(db)

	// Start the crud services and execute migrations.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(config.Pepper, config.HMACKey),
		crud.WithOAuth(),
		crud.WithGroup(),
		crud.WithPost(config.PageSize),
		crud.WithComment(),
		crud.WithFollow(),
		crud.WithImage(config.MediaRoot),
	)
	must(err)
	if *resetBool {
		must(services.DestructiveReset())
	} else {
		must(services.AutoMigrate())
	}

	// Create an oauth config object for doing oauth with Github, if credentials are configured.
	var githubOAuth *oauth2.Config
	if config.Github.ID != "" {
		githubOAuth = &oauth2.Config{
			ClientID:     config.Github.ID,
			ClientSecret: config.Github.Secret,
			RedirectURL:  config.Github.RedirectURL,
			Endpoint:     github.Endpoint,
		}
	}

	// Set up a webserver.
	server, err := http.NewServer(http.ServerConfig{
		IsProd:    config.IsProd(),
		CSRFKey:   config.CSRFKey,
		StateKey:  config.HMACKey,
		CacheTTL:  time.Duration(config.CacheTTLSeconds) * time.Second,
		MediaRoot: config.MediaRoot,
	}, githubOAuth, services, pageCache(config.Redis))
	must(err)

	// Serve the app.
	server.Run(config.Port)
}

// pageCache returns the Redis cache if one is configured and reachable,
// and the in-memory cache otherwise.
func pageCache(rc RedisConfig) cache.Store {
	if rc.Addr == "" {
		return cache.NewMemory(nil)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	store, err := cache.NewRedis(ctx, &redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	}, "yatube:")
	if err != nil {
		log.Printf("Redis unavailable, falling back to the in-memory page cache: %v", err)
		return cache.NewMemory(nil)
	}
	return store
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
