// Package cli implements the vacationblog subcommands. The CLI stands in
// for the site's pages: it drives the same client the pages would use, so
// the endpoint resolution and fallback behavior can be exercised from a
// terminal.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"vacationblog/app/client"
	"vacationblog/app/config"
	"vacationblog/app/fixtures"
	"vacationblog/app/mockapi"
	"vacationblog/app/models"
	"vacationblog/app/tokens"
)

const Version = "1.0.0"

// tokenDBPath is a var so tests can point it at a temp directory.
var tokenDBPath = "data/tokens"

// Run dispatches a subcommand and returns the process exit code.
func Run(args []string) int {
	if len(args) < 1 {
		printHelp()
		return 1
	}

	switch args[0] {
	case "probe":
		return probe(args[1:])
	case "posts":
		return posts(args[1:])
	case "comment":
		return comment(args[1:])
	case "mockserve":
		return mockserve(args[1:])
	case "login":
		return login(args[1:])
	case "logout":
		return logout()
	case "version":
		fmt.Printf("vacationblog version %s\n", Version)
		return 0
	case "help":
		printHelp()
		return 0
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printHelp()
		return 1
	}
}

func printHelp() {
	helpText := `Usage: vacationblog <command> [options]

Commands:
  probe [--local] [--production]        Check backend connectivity end to end
  posts list [--title --category --page --limit]
                                        List blog posts
  posts get <slug>                      Fetch one post by slug
  comment <post-id> --name --email --content
                                        Submit a comment
  mockserve [--addr :8000] [--db path]  Run the local mock API server
  login --username --password           Authenticate and store tokens
  logout                                Drop stored tokens
  version                               Show version information
  help                                  Display this help message
`
	fmt.Println(helpText)
}

func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

// newClient builds a client the way a page would: config from the
// environment, base URL resolved once from the simulated location.
func newClient(local, production bool) *client.Client {
	cfg := config.Load()
	if production {
		cfg.ForceProduction = true
	}

	env := config.Environment{Hostname: "localhost", Port: "3000"}
	if local {
		env.Port = "3001"
	}

	log := newLogger()
	store, err := tokens.OpenBadgerStore(tokenDBPath)
	if err != nil {
		log.Warn().Err(err).Msg("token store unavailable, continuing without stored tokens")
		return client.New(cfg, env, client.Options{Logger: &log})
	}
	return client.New(cfg, env, client.Options{Logger: &log, Tokens: store})
}

// probe mirrors the backend smoke check: list posts, fetch the first one by
// slug, then list its comments, reporting each step.
func probe(args []string) int {
	fs := flag.NewFlagSet("probe", flag.ExitOnError)
	local := fs.Bool("local", false, "target the alternate local port")
	production := fs.Bool("production", false, "force the production backend")
	fs.Parse(args)

	c := newClient(*local, *production)
	ctx := context.Background()
	fmt.Printf("Probing %s\n\n", c.BaseURL())

	failed := 0
	step := func(name string, err error, detail string) {
		if err != nil {
			failed++
			fmt.Printf("FAIL  %s: %v\n", name, err)
			return
		}
		fmt.Printf("ok    %s: %s\n", name, detail)
	}

	page, err := c.ListPosts(ctx, client.ListOptions{Limit: 5})
	detail := ""
	if err == nil {
		detail = fmt.Sprintf("%d posts (count %d)", len(page.Results), page.Count)
		if page.Degraded {
			detail += " [degraded]"
		}
	}
	step("list posts", err, detail)

	if err == nil && len(page.Results) > 0 {
		slug := page.Results[0].Slug
		res, err := c.GetPostBySlug(ctx, slug)
		detail = ""
		if err == nil {
			detail = fmt.Sprintf("%q", res.Post.Title)
			if res.Degraded {
				detail += " [degraded]"
			}
		}
		step("get post "+slug, err, detail)

		if err == nil {
			comments, cerr := c.ListComments(ctx, res.Post.ID)
			detail = ""
			if cerr == nil {
				detail = fmt.Sprintf("%d comments", comments.Count)
				if comments.Degraded {
					detail += " [degraded]"
				}
			}
			step("list comments", cerr, detail)
		}
	}

	if failed > 0 {
		fmt.Printf("\n%d check(s) failed\n", failed)
		return 1
	}
	fmt.Println("\nAll checks passed")
	return 0
}

func posts(args []string) int {
	if len(args) < 1 {
		fmt.Println("Error: posts requires a subcommand (list, get)")
		return 1
	}

	switch args[0] {
	case "list":
		return listPosts(args[1:])
	case "get":
		if len(args) < 2 {
			fmt.Println("Error: posts get requires a slug")
			return 1
		}
		return getPost(args[1])
	default:
		fmt.Printf("Unknown posts subcommand: %s\n", args[0])
		return 1
	}
}

func listPosts(args []string) int {
	fs := flag.NewFlagSet("posts list", flag.ExitOnError)
	title := fs.String("title", "", "filter by title substring")
	category := fs.String("category", "", "filter by category")
	page := fs.Int("page", 0, "page number")
	limit := fs.Int("limit", 0, "page size")
	fs.Parse(args)

	c := newClient(false, false)
	result, err := c.ListPosts(context.Background(), client.ListOptions{
		Title:    *title,
		Category: *category,
		Page:     *page,
		Limit:    *limit,
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	if result.Degraded {
		fmt.Println("(backend unreachable, showing built-in articles)")
	}
	for _, post := range result.Results {
		fmt.Printf("%4d  %-60s  %s\n", post.ID, post.Slug, post.Title)
	}
	fmt.Printf("\n%d of %d post(s)\n", len(result.Results), result.Count)
	return 0
}

func getPost(slug string) int {
	c := newClient(false, false)
	res, err := c.GetPostBySlug(context.Background(), slug)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	if res.Degraded {
		fmt.Println("(backend unreachable, showing built-in article)")
	}
	post := res.Post
	fmt.Printf("# %s\n\n", post.Title)
	if post.Author != "" {
		fmt.Printf("by %s", post.Author)
		if post.Category != "" {
			fmt.Printf(" in %s", post.Category)
		}
		fmt.Println()
	}
	fmt.Printf("%s\n\n%s\n", post.CreatedAt.Format("2006-01-02"), post.Content)
	return 0
}

func comment(args []string) int {
	if len(args) < 1 {
		fmt.Println("Error: comment requires a post id")
		return 1
	}
	postID, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Printf("Error: invalid post id %q\n", args[0])
		return 1
	}

	fs := flag.NewFlagSet("comment", flag.ExitOnError)
	name := fs.String("name", "", "commenter name")
	email := fs.String("email", "", "commenter email")
	content := fs.String("content", "", "comment text")
	fs.Parse(args[1:])

	c := newClient(false, false)
	res, err := c.SubmitComment(context.Background(), models.CommentSubmission{
		PostID:  postID,
		Name:    *name,
		Email:   *email,
		Content: *content,
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	if res.Degraded {
		fmt.Printf("Backend unreachable; comment #%d kept locally for this session.\n", res.Comment.ID)
		return 0
	}
	fmt.Printf("Comment #%d submitted, awaiting moderation.\n", res.Comment.ID)
	return 0
}

// mockserve runs the mock backend on an in-memory store, or a persistent
// badger store when --db is given.
func mockserve(args []string) int {
	fs := flag.NewFlagSet("mockserve", flag.ExitOnError)
	addr := fs.String("addr", ":8000", "listen address")
	dbPath := fs.String("db", "", "badger database directory (default: in-memory)")
	fs.Parse(args)

	log := newLogger()

	var store fixtures.Store
	if *dbPath != "" {
		badgerStore, err := fixtures.OpenBadgerStore(*dbPath)
		if err != nil {
			log.Error().Err(err).Str("path", *dbPath).Msg("failed to open store")
			return 1
		}
		defer badgerStore.Close()
		if err := badgerStore.Seed(); err != nil {
			log.Error().Err(err).Msg("failed to seed store")
			return 1
		}
		store = badgerStore
	} else {
		store = fixtures.NewSeededStore()
	}

	server := mockapi.New(store, &log)
	log.Info().Str("addr", *addr).Msg("mock API listening")
	if err := mockapi.Start(*addr, server); err != nil {
		log.Error().Err(err).Msg("server stopped")
		return 1
	}
	return 0
}

func login(args []string) int {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("username", "", "account username")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	if *username == "" || *password == "" {
		fmt.Println("Error: --username and --password are required")
		return 1
	}

	c := newClient(false, false)
	if err := c.Login(context.Background(), client.Credentials{Username: *username, Password: *password}); err != nil {
		fmt.Printf("Login failed: %v\n", err)
		return 1
	}
	fmt.Printf("Logged in as %s\n", *username)
	return 0
}

func logout() int {
	c := newClient(false, false)
	if err := c.Logout(); err != nil {
		fmt.Printf("Logout failed: %v\n", err)
		return 1
	}
	fmt.Println("Logged out")
	return 0
}
