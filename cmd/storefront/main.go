package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/nrstore/storefront/internal/admin"
	"github.com/nrstore/storefront/internal/catalog"
	"github.com/nrstore/storefront/internal/catalog/local"
	"github.com/nrstore/storefront/internal/catalog/rest"
	"github.com/nrstore/storefront/internal/comments"
	"github.com/nrstore/storefront/internal/config"
	"github.com/nrstore/storefront/internal/db"
	"github.com/nrstore/storefront/internal/model"
	"github.com/nrstore/storefront/internal/order"
	"github.com/nrstore/storefront/internal/session"
	"github.com/nrstore/storefront/internal/store"
)

const usage = `Usage: storefront <command> [args]

Commands:
  browse                          list the catalog
  show <id>                       show a product and its comments
  order <id> <qty>                place an order and print the handoff link
  comment <id> <name> <text>      post a comment
  comments <id>                   show a product's comment thread
  admin login <user> <password>   authenticate and persist the session
  admin logout                    clear the persisted session
  admin add [flags]               create a product
  admin edit <id> [flags]         update a product
  admin delete <id> [-yes]        delete a product (asks for confirmation)
  admin settings [-instagram x]   show or change the Instagram handle
  init                            bootstrap a local-mode database

Configuration comes from the environment (or a .env file):
  STOREFRONT_MODE             rest | local (default: rest)
  STOREFRONT_BACKEND_URL      REST backend base URL
  STOREFRONT_DB               sqlite path for local mode
  STOREFRONT_TOKEN_FILE       session token file
  STOREFRONT_TIMEOUT_SECONDS  HTTP timeout (default: 30)
  STOREFRONT_LOG              optional log file
`

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR
// goes to stderr. If logPath is non-empty, all levels are also written to
// that file. Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fatal("invalid configuration", err)
	}

	closeLog, err := setupLogger(cfg.LogPath)
	if err != nil {
		fatal("setting up logging", err)
	}
	if closeLog != nil {
		defer closeLog()
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "init":
		cmdInit(ctx, cfg)
		return
	case "help", "-h", "-help", "--help":
		fmt.Fprint(os.Stdout, usage)
		return
	}

	tokens, err := openSession(cfg)
	if err != nil {
		fatal("opening session", err)
	}

	client, cleanup, err := newClient(ctx, cfg, tokens)
	if err != nil {
		fatal("setting up catalog client", err)
	}
	defer cleanup()

	switch os.Args[1] {
	case "browse":
		cmdBrowse(ctx, client)
	case "show":
		cmdShow(ctx, client, os.Args[2:])
	case "order":
		cmdOrder(ctx, client, os.Args[2:])
	case "comment":
		cmdComment(ctx, client, os.Args[2:])
	case "comments":
		cmdComments(ctx, client, os.Args[2:])
	case "admin":
		cmdAdmin(ctx, client, tokens, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n%s", os.Args[1], usage)
		os.Exit(1)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

// openSession loads the persisted session token.
func openSession(cfg *config.Config) (*session.Store, error) {
	path := cfg.TokenPath
	if path == "" {
		var err error
		path, err = session.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return session.NewStore(path)
}

// newClient builds the configured catalog backing. The two modes are
// mutually exclusive; a deployment picks one.
func newClient(ctx context.Context, cfg *config.Config, tokens catalog.TokenSource) (catalog.Client, func(), error) {
	switch cfg.Mode {
	case config.ModeLocal:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		if err := db.EnsureSchema(database); err != nil {
			database.Close()
			return nil, nil, err
		}
		client, err := local.New(ctx, database, tokens)
		if err != nil {
			database.Close()
			return nil, nil, err
		}
		return client, func() { database.Close() }, nil
	default:
		client := rest.New(cfg.BackendURL, tokens, cfg.HTTPTimeout)
		return client, func() {}, nil
	}
}

func cmdBrowse(ctx context.Context, client catalog.Client) {
	products, err := client.ListProducts(ctx)
	if err != nil {
		fatal("listing products", err)
	}
	if len(products) == 0 {
		fmt.Println("The catalog is empty.")
		return
	}
	for _, p := range products {
		availability := fmt.Sprintf("stock: %d", p.Stock)
		if !p.Available() {
			availability = "out of stock"
		}
		fmt.Printf("%4d  %-30s %8s€  %s\n", p.ID, p.Name, formatAmount(p.Price), availability)
	}
}

func cmdShow(ctx context.Context, client catalog.Client, args []string) {
	id := parseID(args, "show <id>")

	p, err := client.GetProduct(ctx, id)
	if err != nil {
		fatal("loading product", err)
	}

	fmt.Printf("%s\n", p.Name)
	if p.Description != "" {
		fmt.Printf("%s\n", p.Description)
	}
	fmt.Printf("Price: %s€\n", formatAmount(p.Price))
	if p.Available() {
		fmt.Printf("Stock: %d\n", p.Stock)
	} else {
		fmt.Println("Out of stock")
	}
	if p.Image != "" {
		fmt.Printf("Image: %s\n", p.Image)
	}

	printThread(ctx, client, id)
}

func cmdOrder(ctx context.Context, client catalog.Client, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: storefront order <id> <qty>")
		os.Exit(1)
	}
	id := parseID(args, "order <id> <qty>")

	p, err := client.GetProduct(ctx, id)
	if err != nil {
		fatal("loading product", err)
	}

	settings, err := client.Settings(ctx)
	if err != nil {
		fatal("loading settings", err)
	}

	flow := order.NewFlow(client, *p, settings.InstagramUsername)
	flow.SetQuantity(order.ParseQuantity(args[1]))

	fmt.Println(flow.ButtonLabel())
	if flow.Disabled() {
		os.Exit(1)
	}

	url, err := flow.Commit(ctx)
	if err != nil {
		if errors.Is(err, catalog.ErrConfigurationMissing) {
			fmt.Fprintln(os.Stderr, "Ordering is not available: no Instagram account is configured.")
			os.Exit(1)
		}
		fatal("placing order", err)
	}

	updated := flow.Product()
	slog.Info("order committed", "product", updated.Name, "qty", flow.Quantity(), "stock_left", updated.Stock)
	fmt.Printf("Order placed! Finish it on Instagram: %s\n", url)
	if updated.Stock == 0 {
		fmt.Println("That was the last of the stock.")
	}
}

func cmdComment(ctx context.Context, client catalog.Client, args []string) {
	if len(args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: storefront comment <id> <name> <text>")
		os.Exit(1)
	}
	id := parseID(args, "comment <id> <name> <text>")

	thread := comments.NewThread(client, id)
	if err := thread.Post(ctx, args[1], strings.Join(args[2:], " ")); err != nil {
		if errors.Is(err, catalog.ErrValidationFailed) {
			fmt.Fprintln(os.Stderr, "Both a name and a comment are required.")
			os.Exit(1)
		}
		fatal("posting comment", err)
	}

	fmt.Println("Comment posted.")
	printComments(thread)
}

func cmdComments(ctx context.Context, client catalog.Client, args []string) {
	id := parseID(args, "comments <id>")
	printThread(ctx, client, id)
}

func printThread(ctx context.Context, client catalog.Client, id int64) {
	thread := comments.NewThread(client, id)
	if err := thread.Load(ctx); err != nil {
		fatal("loading comments", err)
	}
	printComments(thread)
}

func printComments(thread *comments.Thread) {
	if thread.Empty() {
		fmt.Println("No comments yet.")
		return
	}
	for _, c := range thread.Comments() {
		fmt.Printf("%s (%s)\n  %s\n", c.Username, c.Date, c.Text)
	}
}

func cmdAdmin(ctx context.Context, client catalog.Client, tokens *session.Store, args []string) {
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	editor := admin.NewEditor(client)

	switch args[0] {
	case "login":
		adminLogin(ctx, client, tokens, args[1:])
	case "logout":
		if err := tokens.Clear(); err != nil {
			fatal("clearing session", err)
		}
		fmt.Println("Logged out.")
	case "add":
		adminAdd(ctx, editor, args[1:])
	case "edit":
		adminEdit(ctx, editor, args[1:])
	case "delete":
		adminDelete(ctx, editor, args[1:])
	case "settings":
		adminSettings(ctx, editor, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown admin command: %s\n%s", args[0], usage)
		os.Exit(1)
	}
}

func adminLogin(ctx context.Context, client catalog.Client, tokens *session.Store, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: storefront admin login <user> <password>")
		os.Exit(1)
	}

	token, err := client.Login(ctx, args[0], args[1])
	if err != nil {
		if errors.Is(err, catalog.ErrUnauthorized) {
			fmt.Fprintln(os.Stderr, "Invalid credentials.")
			os.Exit(1)
		}
		fatal("logging in", err)
	}

	if err := tokens.Save(token); err != nil {
		fatal("persisting session", err)
	}
	slog.Info("admin logged in", "user", args[0])
	fmt.Println("Logged in.")
}

// productFlags registers the shared add/edit form flags on fs.
func productFlags(fs *flag.FlagSet) (name, desc *string, price *float64, stock *int, imageURL, imageFile *string) {
	name = fs.String("name", "", "product name")
	desc = fs.String("desc", "", "product description")
	price = fs.Float64("price", 0, "price in EUR")
	stock = fs.Int("stock", 0, "units in stock")
	imageURL = fs.String("image", "", "image URL")
	imageFile = fs.String("file", "", "image file to upload (overrides -image)")
	return
}

// attachFileIfSet stages -file for upload.
func attachFileIfSet(editor *admin.Editor, path string) {
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fatal("reading image file", err)
	}
	editor.AttachFile(filepath.Base(path), data)
}

func adminAdd(ctx context.Context, editor *admin.Editor, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name, desc, price, stock, imageURL, imageFile := productFlags(fs)
	fs.Parse(args)

	editor.SetForm(admin.Form{
		Name:        *name,
		Description: *desc,
		Price:       *price,
		Stock:       *stock,
		ImageURL:    *imageURL,
	})
	attachFileIfSet(editor, *imageFile)

	submitAndReport(ctx, editor, "Product created.")
}

func adminEdit(ctx context.Context, editor *admin.Editor, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: storefront admin edit <id> [flags]")
		os.Exit(1)
	}
	id := parseID(args, "admin edit <id> [flags]")

	if err := editor.EnterEdit(ctx, id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			fmt.Fprintln(os.Stderr, "That product no longer exists.")
			os.Exit(1)
		}
		fatal("loading product", err)
	}

	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	name, desc, price, stock, imageURL, imageFile := productFlags(fs)
	fs.Parse(args[1:])

	// Only explicitly passed flags override the loaded fields.
	form := editor.Form()
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			form.Name = *name
		case "desc":
			form.Description = *desc
		case "price":
			form.Price = *price
		case "stock":
			form.Stock = *stock
		case "image":
			form.ImageURL = *imageURL
		}
	})
	editor.SetForm(form)
	attachFileIfSet(editor, *imageFile)

	submitAndReport(ctx, editor, "Product updated.")
}

func submitAndReport(ctx context.Context, editor *admin.Editor, success string) {
	if err := editor.Submit(ctx); err != nil {
		switch {
		case errors.Is(err, catalog.ErrValidationFailed):
			fmt.Fprintf(os.Stderr, "Invalid input: %v\n", err)
		case errors.Is(err, catalog.ErrUnauthorized):
			fmt.Fprintln(os.Stderr, "Session expired or missing. Run: storefront admin login")
		default:
			slog.Error("saving product failed", "error", err)
		}
		os.Exit(1)
	}
	fmt.Println(success)
	fmt.Printf("The catalog now has %d products.\n", len(editor.Products()))
}

func adminDelete(ctx context.Context, editor *admin.Editor, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: storefront admin delete <id> [-yes]")
		os.Exit(1)
	}
	id := parseID(args, "admin delete <id> [-yes]")

	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	fs.Parse(args[1:])

	confirm := func() bool {
		if *yes {
			return true
		}
		fmt.Printf("Really delete product %d? [y/N] ", id)
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}

	if err := editor.Delete(ctx, id, confirm); err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			fmt.Fprintln(os.Stderr, "That product was already gone; the list has been refreshed.")
		case errors.Is(err, catalog.ErrUnauthorized):
			fmt.Fprintln(os.Stderr, "Session expired or missing. Run: storefront admin login")
		default:
			slog.Error("deleting product failed", "error", err)
		}
		os.Exit(1)
	}
	fmt.Println("Done.")
}

func adminSettings(ctx context.Context, editor *admin.Editor, args []string) {
	fs := flag.NewFlagSet("settings", flag.ExitOnError)
	instagram := fs.String("instagram", "", "Instagram username orders are handed off to")
	fs.Parse(args)

	if *instagram == "" {
		handle, err := editor.LoadInstagram(ctx)
		if err != nil {
			fatal("loading settings", err)
		}
		if handle == "" {
			fmt.Println("No Instagram account configured; ordering is blocked.")
		} else {
			fmt.Printf("Orders are handed off to https://instagram.com/%s\n", handle)
		}
		return
	}

	if err := editor.SaveInstagram(ctx, *instagram); err != nil {
		if errors.Is(err, catalog.ErrUnauthorized) {
			fmt.Fprintln(os.Stderr, "Session expired or missing. Run: storefront admin login")
			os.Exit(1)
		}
		fatal("saving settings", err)
	}
	fmt.Println("Settings saved.")
}

// cmdInit bootstraps a local-mode database with an admin account.
func cmdInit(ctx context.Context, cfg *config.Config) {
	if cfg.Mode != config.ModeLocal {
		fmt.Fprintln(os.Stderr, "init only applies to local mode (set STOREFRONT_MODE=local)")
		os.Exit(1)
	}
	if _, err := os.Stat(cfg.DBPath); err == nil {
		fmt.Fprintf(os.Stderr, "Error: database file %s already exists\n", cfg.DBPath)
		os.Exit(1)
	}

	database, password, err := initDatabase(ctx, cfg.DBPath)
	if err != nil {
		fatal("initializing database", err)
	}
	database.Close()

	fmt.Printf("Database created: %s\n", cfg.DBPath)
	fmt.Println("Schema initialized.")
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: admin\n")
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password — it cannot be recovered.")
}

// initDatabase creates a new database, ensures the schema, and creates the
// admin user.
func initDatabase(ctx context.Context, path string) (*sql.DB, string, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}

	if err := db.EnsureSchema(database); err != nil {
		database.Close()
		os.Remove(path)
		return nil, "", fmt.Errorf("ensuring schema: %w", err)
	}

	password, err := generatePassword(16)
	if err != nil {
		database.Close()
		os.Remove(path)
		return nil, "", fmt.Errorf("generating password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		database.Close()
		os.Remove(path)
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	_, err = store.CreateUser(ctx, database, "admin", string(hash), model.RoleAdmin)
	if err != nil {
		database.Close()
		os.Remove(path)
		return nil, "", fmt.Errorf("creating admin user: %w", err)
	}

	return database, password, nil
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}

func parseID(args []string, usageHint string) int64 {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: storefront %s\n", usageHint)
		os.Exit(1)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid product id: %s\n", args[0])
		os.Exit(1)
	}
	return id
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
