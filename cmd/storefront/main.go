package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/superdupermart/storefront/internal/api"
	"github.com/superdupermart/storefront/internal/application/checkout"
	"github.com/superdupermart/storefront/internal/domain/catalog"
	"github.com/superdupermart/storefront/internal/domain/identity"
	"github.com/superdupermart/storefront/internal/domain/profile"
	"github.com/superdupermart/storefront/internal/domain/trade"
	"github.com/superdupermart/storefront/internal/infrastructure/config"
	"github.com/superdupermart/storefront/internal/infrastructure/logger"
	"github.com/superdupermart/storefront/internal/infrastructure/storage"
	"github.com/superdupermart/storefront/internal/infrastructure/telemetry"
	"github.com/superdupermart/storefront/internal/store"
	"go.uber.org/zap"
)

func main() {
	var (
		logLevel  string
		ephemeral bool
		yes       bool
	)

	flag.StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	flag.BoolVar(&ephemeral, "ephemeral", false, "Use in-memory storage (nothing persists)")
	flag.BoolVar(&yes, "yes", false, "Skip confirmation prompts for destructive actions")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if ephemeral {
		cfg.Storage.Driver = "memory"
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		_ = tp.Shutdown(ctx)
	}()

	st, err := storage.Open(cfg, log)
	if err != nil {
		log.Fatal("Failed to open storage", zap.Error(err))
	}
	defer func() {
		_ = st.Close()
	}()

	app := newApp(ctx, cfg, st, log, yes)
	if err := app.run(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is the root composition point: it owns the single store instances
// and passes them to whichever command needs them.
type app struct {
	client  *api.Client
	session *store.SessionStore
	cart    *store.CartStore
	chat    *store.ChatStore
	orders  *checkout.Service
	logger  *zap.Logger
	yes     bool
}

func newApp(ctx context.Context, cfg *config.Config, st storage.Store, log *zap.Logger, yes bool) *app {
	a := &app{logger: log, yes: yes}

	opts := []api.Option{
		api.WithLogger(log),
		api.WithTokenProvider(api.TokenFunc(func() string {
			if a.session == nil {
				return ""
			}
			return a.session.Token()
		})),
	}
	if cfg.Telemetry.Enabled {
		opts = append(opts, api.WithTracing())
	}
	a.client = api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, opts...)

	a.session = store.NewSessionStore(st, a.client.Auth(), log)
	a.cart = store.NewCartStore(st, log)
	a.chat = store.NewChatStore(ctx, st, a.client.Chat(), log)
	a.orders = checkout.NewService(a.session, a.cart, a.client.Orders(), log)

	// Logout resets the session-scoped caches: the chat conversation
	// and the cart.
	a.session.OnLogout(a.chat.Reset)
	a.session.OnLogout(a.cart.Clear)

	return a
}

func (a *app) run(ctx context.Context, args []string) error {
	command := args[0]
	rest := args[1:]

	switch command {
	case "login":
		return a.cmdLogin(ctx, rest)
	case "logout":
		a.session.Logout(ctx)
		fmt.Println("Logged out.")
		return nil
	case "register":
		return a.cmdRegister(ctx, rest)
	case "whoami":
		return a.cmdWhoami()
	case "products":
		return a.cmdProducts(ctx, rest)
	case "product":
		return a.cmdProduct(ctx, rest)
	case "cart":
		return a.cmdCart(rest)
	case "checkout":
		return a.cmdCheckout(ctx, rest)
	case "orders":
		return a.cmdOrders(ctx, rest)
	case "order":
		return a.cmdOrder(ctx, rest)
	case "watchlist":
		return a.cmdWatchlist(ctx, rest)
	case "chat":
		return a.cmdChat(ctx, rest)
	case "profile":
		return a.cmdProfile(ctx, rest)
	case "stats":
		return a.cmdStats(ctx, rest)
	case "admin":
		return a.cmdAdmin(ctx, rest)
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: storefront login <username> <password>")
	}
	session, err := a.session.Login(ctx, identity.LoginRequest{
		Username: args[0],
		Password: args[1],
	})
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s).\n", session.Username, session.Role)
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: storefront register <username> <email> <password>")
	}
	err := a.client.Auth().Register(ctx, identity.RegisterRequest{
		Username: args[0],
		Email:    args[1],
		Password: args[2],
	})
	if err != nil {
		return err
	}
	fmt.Println("Account created. You can now log in.")
	return nil
}

func (a *app) cmdWhoami() error {
	session := a.session.Current()
	if session == nil {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("%s (%s)\n", session.Username, session.Role)
	if exp := session.TokenExpiresAt(); !exp.IsZero() {
		fmt.Printf("Token expires %s\n", exp.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func (a *app) cmdProducts(ctx context.Context, args []string) error {
	var (
		products []catalog.Product
		err      error
	)
	if len(args) > 0 {
		products, err = a.client.Catalog().Search(ctx, catalog.SearchQuery{Query: strings.Join(args, " ")})
	} else {
		products, err = a.client.Catalog().List(ctx)
	}
	if err != nil {
		return err
	}
	for _, p := range products {
		fmt.Printf("%6d  %-40s %10s\n", p.ID, p.Name, p.RetailPrice.StringFixed(2))
	}
	return nil
}

func (a *app) cmdProduct(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: storefront product <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	p, err := a.client.Catalog().Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s\nPrice: %s\n", p.Name, p.Description, p.RetailPrice.StringFixed(2))
	return nil
}

func (a *app) cmdCart(args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}
	switch args[0] {
	case "show":
		items := a.cart.Items()
		if len(items) == 0 {
			fmt.Println("Cart is empty.")
			return nil
		}
		for _, item := range items {
			line := item.Product.RetailPrice.Mul(decimal.NewFromInt(item.Quantity))
			fmt.Printf("%6d  %-40s x%-4d %10s\n", item.Product.ID, item.Product.Name, item.Quantity, line.StringFixed(2))
		}
		fmt.Printf("%d items, total %s\n", a.cart.Count(), a.cart.Total().StringFixed(2))
		return nil
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: storefront cart add <productId> [quantity]")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		qty := int64(1)
		if len(args) > 2 {
			if qty, err = parseID(args[2]); err != nil {
				return err
			}
		}
		product, err := a.client.Catalog().Get(context.Background(), id)
		if err != nil {
			return err
		}
		a.cart.Add(product, qty)
		fmt.Printf("Added %s x%d.\n", product.Name, qty)
		return nil
	case "set":
		if len(args) != 3 {
			return fmt.Errorf("usage: storefront cart set <productId> <quantity>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		qty, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[2])
		}
		a.cart.SetQuantity(id, qty)
		return nil
	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: storefront cart rm <productId>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		a.cart.Remove(id)
		return nil
	case "clear":
		a.cart.Clear()
		fmt.Println("Cart cleared.")
		return nil
	default:
		return fmt.Errorf("unknown cart subcommand %q", args[0])
	}
}

func (a *app) cmdCheckout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	pickup := fs.Bool("pickup", false, "Pick up in store instead of shipping")
	addressID := fs.Int64("address", 0, "Saved address id to ship to")
	paymentID := fs.Int64("payment", 0, "Saved payment method id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var shipping *trade.Shipping
	if *pickup {
		shipping = &trade.Shipping{Pickup: true}
	} else if *addressID != 0 {
		shipping = &trade.Shipping{AddressID: *addressID}
	}
	var payment *trade.Payment
	if *paymentID != 0 {
		payment = &trade.Payment{PaymentMethodID: *paymentID}
	}

	order, err := a.orders.PlaceOrder(ctx, shipping, payment)
	if err != nil {
		return err
	}
	fmt.Printf("Order %d placed, status %s, total %s.\n", order.OrderID, order.Status, order.Total().StringFixed(2))
	return nil
}

func (a *app) cmdOrders(ctx context.Context, args []string) error {
	page := 1
	if len(args) > 0 {
		p, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid page %q", args[0])
		}
		page = p
	}
	orders, err := a.client.Orders().List(ctx, page)
	if err != nil {
		return err
	}
	for _, o := range orders {
		fmt.Printf("%6d  %s  %-10s %10s\n", o.OrderID, o.DatePlaced.Format("2006-01-02"), o.Status, o.Total().StringFixed(2))
	}
	return nil
}

func (a *app) cmdOrder(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: storefront order <cancel|complete> <orderId>")
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	switch args[0] {
	case "cancel":
		if !a.confirm(fmt.Sprintf("Cancel order %d?", id)) {
			return nil
		}
		msg, err := a.client.Orders().Cancel(ctx, id)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	case "complete":
		msg, err := a.client.Orders().Complete(ctx, id)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	default:
		return fmt.Errorf("unknown order subcommand %q", args[0])
	}
}

func (a *app) cmdWatchlist(ctx context.Context, args []string) error {
	if len(args) == 0 {
		items, err := a.client.Watchlist().Get(ctx)
		if err != nil {
			return err
		}
		for _, item := range items {
			fmt.Printf("%6d  %-40s %10s\n", item.ProductID, item.ProductName, item.RetailPrice.StringFixed(2))
		}
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("usage: storefront watchlist [add|rm <productId>]")
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	switch args[0] {
	case "add":
		msg, err := a.client.Watchlist().Add(ctx, id)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	case "rm":
		msg, err := a.client.Watchlist().Remove(ctx, id)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	default:
		return fmt.Errorf("unknown watchlist subcommand %q", args[0])
	}
}

func (a *app) cmdChat(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: storefront chat <send <text>|history|clear>")
	}
	switch args[0] {
	case "send":
		reply, err := a.chat.Send(ctx, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Printf("assistant: %s\n", reply.Text)
		return nil
	case "history":
		for _, msg := range a.chat.Messages() {
			fmt.Printf("%s %-9s %s\n", msg.Timestamp.Format("15:04"), msg.Role, msg.Text)
		}
		return nil
	case "clear":
		a.chat.Clear(ctx)
		fmt.Println("Conversation cleared.")
		return nil
	default:
		return fmt.Errorf("unknown chat subcommand %q", args[0])
	}
}

func (a *app) cmdProfile(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "show" {
		p, err := a.client.Profile().Get(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s> role=%s\n", p.Username, p.Email, p.Role)
		return nil
	}
	if args[0] == "update" {
		fs := flag.NewFlagSet("profile update", flag.ContinueOnError)
		email := fs.String("email", "", "New email address")
		password := fs.String("password", "", "New password")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		msg, err := a.client.Profile().Update(ctx, profile.UpdateRequest{Email: *email, Password: *password})
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	}
	return fmt.Errorf("unknown profile subcommand %q", args[0])
}

func (a *app) cmdStats(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "admin" {
		stats, err := a.client.Catalog().AdminStats(ctx, 3)
		if err != nil {
			return err
		}
		fmt.Println("Most popular:")
		for _, s := range stats.MostPopular {
			fmt.Printf("  %-40s %s\n", s.Name, s.Value)
		}
		fmt.Println("Most profitable:")
		for _, s := range stats.MostProfitable {
			fmt.Printf("  %-40s %s\n", s.Name, s.Value)
		}
		return nil
	}

	stats, err := a.client.Catalog().UserStats(ctx, 3)
	if err != nil {
		return err
	}
	fmt.Printf("Most recent: %s\n", strings.Join(stats.MostRecent, ", "))
	fmt.Printf("Most frequent: %s\n", strings.Join(stats.MostFrequent, ", "))
	return nil
}

func (a *app) cmdAdmin(ctx context.Context, args []string) error {
	if len(args) < 2 || args[0] != "product" {
		return fmt.Errorf("usage: storefront admin product <create|update|delete> ...")
	}
	switch args[1] {
	case "create", "update":
		return a.cmdAdminProductUpsert(ctx, args[1], args[2:])
	case "delete":
		if len(args) != 3 {
			return fmt.Errorf("usage: storefront admin product delete <id>")
		}
		id, err := parseID(args[2])
		if err != nil {
			return err
		}
		if !a.confirm(fmt.Sprintf("Delete product %d? This cannot be undone.", id)) {
			return nil
		}
		if err := a.client.Catalog().Delete(ctx, id); err != nil {
			return err
		}
		fmt.Println("Product deleted.")
		return nil
	default:
		return fmt.Errorf("unknown admin product subcommand %q", args[1])
	}
}

func (a *app) cmdAdminProductUpsert(ctx context.Context, verb string, args []string) error {
	fs := flag.NewFlagSet("admin product "+verb, flag.ContinueOnError)
	name := fs.String("name", "", "Product name")
	description := fs.String("description", "", "Product description")
	wholesale := fs.String("wholesale", "0", "Wholesale price")
	retail := fs.String("retail", "0", "Retail price")
	quantity := fs.Int64("quantity", 0, "Stock quantity")
	id := fs.Int64("id", 0, "Product id (update only)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	wholesalePrice, err := decimal.NewFromString(*wholesale)
	if err != nil {
		return fmt.Errorf("invalid wholesale price %q", *wholesale)
	}
	retailPrice, err := decimal.NewFromString(*retail)
	if err != nil {
		return fmt.Errorf("invalid retail price %q", *retail)
	}

	req := catalog.ProductRequest{
		Name:           *name,
		Description:    *description,
		WholesalePrice: wholesalePrice,
		RetailPrice:    retailPrice,
		Quantity:       *quantity,
	}

	var product catalog.Product
	if verb == "create" {
		product, err = a.client.Catalog().Create(ctx, req)
	} else {
		if *id == 0 {
			return fmt.Errorf("update requires -id")
		}
		product, err = a.client.Catalog().Update(ctx, *id, req)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Product %d saved.\n", product.ID)
	return nil
}

// confirm prompts before a destructive action unless -yes was given
func (a *app) confirm(prompt string) bool {
	if a.yes {
		return true
	}
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func printUsage() {
	fmt.Println(`Usage: storefront [flags] <command>

Commands:
  login <username> <password>   Log in and persist the session
  logout                        Log out and clear session-scoped state
  register <user> <email> <pw>  Create an account
  whoami                        Show the current session
  products [query]              List or search the catalog
  product <id>                  Show one product
  cart [show|add|set|rm|clear]  Manage the local cart
  checkout [-pickup|-address N] [-payment N]
  orders [page]                 Show order history
  order <cancel|complete> <id>  Request an order state transition
  watchlist [add|rm <id>]       Manage the watchlist
  chat <send|history|clear>     Talk to the support assistant
  profile [show|update]         View or update the profile
  stats [admin]                 Purchase statistics
  admin product <create|update|delete>

Flags:
  -log-level <level>   Override the configured log level
  -ephemeral           Keep all state in memory
  -yes                 Skip confirmation prompts`)
}
