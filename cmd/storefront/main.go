// Command storefront is the customer side of the shop: it keeps the cart in
// a local directory, places orders through the API and remembers the
// confirmations of each user.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"groundnut_back_end/internal/apperrors"
	"groundnut_back_end/internal/cart"
	"groundnut_back_end/internal/catalog"
	"groundnut_back_end/internal/checkout"
	"groundnut_back_end/internal/client"
	"groundnut_back_end/internal/logging"
	"groundnut_back_end/internal/models"
	"groundnut_back_end/internal/validation"
)

const usage = `usage: storefront [flags] <command> [args]

commands:
  products [-category c] [-q term]   list the catalog
  add <productId>                    add one unit to the cart
  remove <productId>                 remove a product from the cart
  qty <productId> <n>                set the quantity (0 removes)
  cart                               show the cart
  clear                              empty the cart
  checkout -name -address -phone -email
                                     place a cash-on-delivery order
  history                            list the confirmations of -user
  contact -name -email -message      send a message to the shop

flags:
`

func main() {
	// Command output owns stdout.
	logging.SetupWriter(envOr("LOG_LEVEL", "warn"), true, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type app struct {
	out     io.Writer
	api     *client.Client
	storage cart.Storage
	userID  string
}

func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".groundnut"
	}
	return filepath.Join(home, ".groundnut")
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(out)
	apiURL := fs.String("api", envOr("GROUNDNUT_API", "http://localhost:5001"), "API base URL")
	dir := fs.String("dir", defaultDir(), "local storage directory")
	user := fs.String("user", os.Getenv("GROUNDNUT_USER"), "user id for the order history")
	fs.Usage = func() {
		fmt.Fprint(out, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	storage, err := cart.NewFileStorage(*dir)
	if err != nil {
		return err
	}
	a := &app{out: out, api: client.New(*apiURL), storage: storage, userID: *user}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "products":
		return a.products(ctx, rest)
	case "add":
		return a.add(ctx, rest)
	case "remove":
		return a.remove(ctx, rest)
	case "qty":
		return a.quantity(ctx, rest)
	case "cart":
		return a.showCart(ctx)
	case "clear":
		return a.clear(ctx)
	case "checkout":
		return a.checkout(ctx, rest)
	case "history":
		return a.history(ctx)
	case "contact":
		return a.contact(ctx, rest)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func money(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}

func (a *app) openCart(ctx context.Context) *cart.Store {
	return cart.Open(ctx, a.storage, cart.DefaultKey)
}

func (a *app) products(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	fs.SetOutput(a.out)
	category := fs.String("category", "", "category filter")
	query := fs.String("q", "", "search term")
	if err := fs.Parse(args); err != nil {
		return err
	}

	products, err := a.api.Products(ctx, *category, *query)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ API unreachable, showing the bundled catalog")
		products = catalog.Default().Find(*category, *query)
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range products {
		stock := "in stock"
		if !p.InStock {
			stock = "out of stock"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, money(p.Price), stock)
	}
	return w.Flush()
}

// product resolves id through the API, then the bundled catalog.
func (a *app) product(ctx context.Context, id string) (models.Product, error) {
	p, err := a.api.Product(ctx, id)
	if err == nil {
		return p, nil
	}
	if local, ok := catalog.Default().ByID(id); ok {
		log.Warn().Err(err).Msg("⚠️ API unreachable, using the bundled catalog")
		return local, nil
	}
	return models.Product{}, fmt.Errorf("product %s: %w", id, err)
}

func (a *app) add(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: add <productId>")
	}
	p, err := a.product(ctx, args[0])
	if err != nil {
		return err
	}
	if !p.InStock {
		return fmt.Errorf("%s is out of stock", p.Name)
	}
	c := a.openCart(ctx)
	if err := c.Add(ctx, p.CartItem()); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s to the cart (%d items, %s)\n", p.Name, c.Count(), money(c.Total()))
	return nil
}

func (a *app) remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: remove <productId>")
	}
	c := a.openCart(ctx)
	if err := c.Remove(ctx, args[0]); err != nil {
		return err
	}
	return a.printCart(c)
}

func (a *app) quantity(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: qty <productId> <n>")
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("quantity %q is not a number", args[1])
	}
	c := a.openCart(ctx)
	if err := c.SetQuantity(ctx, args[0], n); err != nil {
		return err
	}
	return a.printCart(c)
}

func (a *app) showCart(ctx context.Context) error {
	return a.printCart(a.openCart(ctx))
}

func (a *app) clear(ctx context.Context) error {
	if err := a.openCart(ctx).Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Cart cleared")
	return nil
}

func (a *app) printCart(c *cart.Store) error {
	if c.Empty() {
		fmt.Fprintln(a.out, "Your cart is empty")
		return nil
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tQTY\tPRICE\tSUBTOTAL")
	for _, item := range c.Items() {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", item.ProductID, item.Name, item.Quantity, money(item.UnitPrice), money(item.Subtotal()))
	}
	fmt.Fprintf(w, "\t\t%d\t\t%s\n", c.Count(), money(c.Total()))
	return w.Flush()
}

func (a *app) checkout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.SetOutput(a.out)
	var form validation.CheckoutForm
	fs.StringVar(&form.FullName, "name", "", "full name")
	fs.StringVar(&form.Address, "address", "", "delivery address")
	fs.StringVar(&form.Phone, "phone", "", "10-digit phone number")
	fs.StringVar(&form.Email, "email", "", "e-mail address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var opts []checkout.Option
	if a.userID != "" {
		opts = append(opts, checkout.WithHistory(checkout.NewHistory(a.storage), a.userID))
	}
	submitter := checkout.NewSubmitter(a.api, a.api, opts...)

	conf, err := submitter.SubmitOrder(ctx, form, a.openCart(ctx))
	var ve *apperrors.ValidationError
	switch {
	case errors.As(err, &ve):
		for _, fe := range ve.Errors {
			fmt.Fprintf(a.out, "  %s: %s\n", fe.Field, fe.Message)
		}
		return errors.New("please correct the delivery details")
	case errors.Is(err, apperrors.ErrEmptyCart):
		return errors.New("your cart is empty")
	case err != nil:
		return fmt.Errorf("order not placed, your cart was kept: %w", err)
	}

	fmt.Fprintf(a.out, "Order placed! Order number: %s\n", conf.OrderNumber)
	fmt.Fprintf(a.out, "Total: %s, payment: cash on delivery\n", money(conf.Order.TotalAmount))
	if !conf.NotificationSent {
		fmt.Fprintln(a.out, "The shop could not be notified right away; your order is saved.")
	}
	return nil
}

func (a *app) history(ctx context.Context) error {
	if a.userID == "" {
		return errors.New("history needs -user")
	}
	confs := checkout.NewHistory(a.storage).Orders(ctx, a.userID)
	if len(confs) == 0 {
		fmt.Fprintln(a.out, "No orders yet")
		return nil
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tDATE\tITEMS\tTOTAL\tSTATUS")
	for _, c := range confs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			c.OrderNumber, c.Order.CreatedAt.Local().Format("2006-01-02 15:04"),
			len(c.Order.Items), money(c.Order.TotalAmount), c.Order.Status)
	}
	return w.Flush()
}

func (a *app) contact(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("contact", flag.ContinueOnError)
	fs.SetOutput(a.out)
	var in models.ContactInput
	fs.StringVar(&in.Name, "name", "", "your name")
	fs.StringVar(&in.Email, "email", "", "your e-mail")
	fs.StringVar(&in.Message, "message", "", "message")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := a.api.SendContact(ctx, in); err != nil {
		var ve *apperrors.ValidationError
		if errors.As(err, &ve) {
			for _, msg := range ve.Messages() {
				fmt.Fprintln(a.out, "  "+msg)
			}
		}
		return err
	}
	fmt.Fprintln(a.out, "Message sent successfully!")
	return nil
}
