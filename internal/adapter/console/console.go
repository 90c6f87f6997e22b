// Package console is a line-oriented shell over the storefront services.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
)

const prompt = "> "

var errQuit = errors.New("quit")

type checkouter interface {
	Begin() (*service.CheckoutFlow, error)
}

type Deps struct {
	Catalog  port.CatalogReader
	Search   port.Searcher
	Cart     port.CartManager
	Checkout checkouter
	Currency string
}

type Shell struct {
	deps Deps
	in   *bufio.Scanner
	out  io.Writer

	category    string
	subcategory string
	listFilter  service.ListFilter
	sortKey    service.SortKey
}

func NewShell(deps Deps, in io.Reader, out io.Writer) *Shell {
	if deps.Currency == "" {
		deps.Currency = domain.DefaultCurrency
	}
	return &Shell{
		deps:        deps,
		in:          bufio.NewScanner(in),
		out:         out,
		category:    domain.AllCategories,
		subcategory: domain.AllCategories,
		listFilter:  service.ListAll,
		sortKey:     service.SortName,
	}
}

type handler func(ctx context.Context, args []string) error

func (s *Shell) commands() map[string]handler {
	return map[string]handler{
		"help":       s.help,
		"list":       s.list,
		"filter":     s.setFilter,
		"sort":       s.setSort,
		"category":      s.setCategory,
		"subcategory":   s.setSubcategory,
		"categories":    s.categories,
		"subcategories": s.subcategories,
		"show":       s.show,
		"search":     s.search,
		"recent":     s.recent,
		"add":        s.add,
		"qty":        s.quantity,
		"rm":         s.remove,
		"clear":      s.clear,
		"pay":        s.pay,
		"cart":       s.cart,
		"checkout":   s.checkout,
		"refresh":    s.refresh,
		"stats":      s.stats,
		"quit":       s.quit,
		"exit":       s.quit,
	}
}

// Run reads commands until EOF, quit or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	const op = "Shell.Run"
	log := slog.With("op", op)

	cmds := s.commands()
	s.printf("Type \"help\" for commands.\n")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.printf(prompt)

		line, ok := s.readLine()
		if !ok {
			s.printf("\n")
			return s.in.Err()
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		cmd, ok := cmds[strings.ToLower(fields[0])]
		if !ok {
			s.printf("unknown command %q, type \"help\"\n", fields[0])
			continue
		}

		err := cmd(ctx, fields[1:])
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			log.Debug("command failed", "cmd", fields[0], "err", err)
			s.printf("error: %s\n", userMessage(err))
		}
	}
}

func (s *Shell) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// confirm asks a yes/no question. Anything but an explicit yes declines.
func (s *Shell) confirm(question string) bool {
	s.printf("%s [y/N] ", question)
	answer, ok := s.readLine()
	if !ok {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "s", "si", "sí":
		return true
	default:
		return false
	}
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) help(context.Context, []string) error {
	s.printf(`Commands:
  list                      products matching the search, category, filter and sort
  filter <name>             all, available, featured, offers, bestsellers, recommended, house-specials, high-rated
  sort <key>                name, price-asc, price-desc, category, rating, popular, offers
  category <name|all>       limit the list to a category
  subcategory <name|all>    limit the list to a subcategory
  categories                categories with product counts
  subcategories [category]  subcategories of a category, the current one by default
  show <id>                 product details
  search [term]             search the catalog, no term clears the search
  recent                    recent searches
  add <id> [qty]            add a product to the cart
  qty <id> <n>              set the quantity, 0 removes
  rm <id>                   remove a product from the cart
  clear                     empty the cart
  pay <cash|card>           choose the payment method
  cart                      cart summary
  checkout                  review and confirm the purchase
  refresh                   reload the catalog
  stats                     catalog statistics
  quit                      leave
`)
	return nil
}

func (s *Shell) quit(context.Context, []string) error {
	return errQuit
}

func (s *Shell) list(context.Context, []string) error {
	res := s.deps.Search.Results()
	ps := s.view(res.Products)
	if len(ps) == 0 {
		if err := s.deps.Catalog.Err(); err != nil {
			s.printf("%s. Type \"refresh\" to retry.\n", userMessage(err))
			return nil
		}
		s.printf("No products found.\n")
		return nil
	}
	if res.Term != "" {
		s.printf("%d results for %q:\n", len(ps), res.Term)
	}
	s.printProducts(ps)
	return nil
}

// view narrows products by the current category and subcategory, then
// applies the quick filter and the sort order.
func (s *Shell) view(ps []domain.Product) []domain.Product {
	ps = service.FilterByCategory(ps, s.category)
	ps = service.FilterBySubcategory(ps, s.subcategory)
	return service.Pipeline(ps, s.listFilter, s.sortKey)
}

func (s *Shell) printProducts(ps []domain.Product) {
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for _, p := range ps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			p.ID, p.Name, s.productPrice(p), strings.Join(badges(p), " "),
		)
	}
	_ = w.Flush()
}

func (s *Shell) productPrice(p domain.Product) string {
	price := domain.FormatPrice(p.EffectivePrice(), s.deps.Currency)
	if p.HasDiscount() {
		price += fmt.Sprintf(" (was %s)", domain.FormatPrice(p.Price, s.deps.Currency))
	}
	return price
}

func badges(p domain.Product) []string {
	var out []string
	if p.OutOfStock {
		out = append(out, "[out of stock]")
	}
	if p.HasDiscount() {
		out = append(out, "[-"+p.DiscountPercent.String()+"%]")
	}
	if p.OnOffer {
		out = append(out, "[offer]")
	}
	if p.BestSeller {
		out = append(out, "[best seller]")
	}
	if p.HouseSpecial {
		out = append(out, "[house special]")
	}
	if p.Recommended {
		out = append(out, "[recommended]")
	}
	return out
}

func (s *Shell) setFilter(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: filter <name>")
	}
	s.listFilter = service.ListFilter(strings.ToLower(args[0]))
	s.printf("Filter: %s\n", s.listFilter)
	return nil
}

func (s *Shell) setSort(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: sort <key>")
	}
	s.sortKey = service.SortKey(strings.ToLower(args[0]))
	s.printf("Sort: %s\n", s.sortKey)
	return nil
}

func (s *Shell) setCategory(_ context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: category <name|all>")
	}
	s.category = strings.Join(args, " ")
	s.printf("Category: %s\n", s.category)
	return nil
}

func (s *Shell) setSubcategory(_ context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: subcategory <name|all>")
	}
	s.subcategory = strings.Join(args, " ")
	s.printf("Subcategory: %s\n", s.subcategory)
	return nil
}

func (s *Shell) categories(context.Context, []string) error {
	counts := s.deps.Catalog.CategoriesWithCounts()
	if len(counts) == 0 {
		s.printf("No categories.\n")
		return nil
	}
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for _, c := range counts {
		fmt.Fprintf(w, "%s\t%d products\t%d available\n", c.Name, c.Count, c.Available)
	}
	return w.Flush()
}

func (s *Shell) subcategories(_ context.Context, args []string) error {
	category := strings.Join(args, " ")
	if category == "" {
		category = s.category
	}
	if strings.EqualFold(category, domain.AllCategories) {
		category = ""
	}

	subs := s.deps.Catalog.Subcategories(category)
	if len(subs) == 0 {
		s.printf("No subcategories.\n")
		return nil
	}
	for _, sub := range subs {
		s.printf("%s\n", sub)
	}
	return nil
}

func (s *Shell) show(_ context.Context, args []string) error {
	p, err := s.product(args)
	if err != nil {
		return err
	}
	s.printf("%s\n%s\n", p.Name, p.Description)
	s.printf("Price: %s\n", s.productPrice(p))
	if p.HasDiscount() {
		s.printf("You save: %s\n", domain.FormatPrice(p.UnitSavings(), s.deps.Currency))
	}
	s.printf("Rating: %s\n", strings.Repeat("*", min(p.Rating, 5)))
	if p.QuantityLabel != "" {
		s.printf("Quantity: %s\n", p.QuantityLabel)
	}
	if p.TaxLabel != "" {
		s.printf("Tax: %s\n", p.TaxLabel)
	}
	if b := badges(p); len(b) > 0 {
		s.printf("%s\n", strings.Join(b, " "))
	}
	return nil
}

func (s *Shell) product(args []string) (domain.Product, error) {
	if len(args) == 0 {
		return domain.Product{}, errors.New("product id is required")
	}
	p, ok := s.deps.Catalog.FindByID(args[0])
	if !ok {
		return domain.Product{}, fmt.Errorf("product %q not found", args[0])
	}
	return p, nil
}

func (s *Shell) search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		s.deps.Search.Clear()
		s.printf("Search cleared.\n")
		return nil
	}

	s.deps.Search.SetTerm(strings.Join(args, " "))
	res, err := s.deps.Search.Await(ctx)
	if err != nil {
		return err
	}

	ps := s.view(res.Products)
	if len(ps) == 0 {
		s.printf("No results for %q.\n", res.Term)
		if res.Suggestion != nil {
			s.printf("Did you mean %q?\n", res.Suggestion.Name)
		}
		return nil
	}
	s.printf("%d results for %q:\n", len(ps), res.Term)
	s.printProducts(ps)
	return nil
}

func (s *Shell) recent(context.Context, []string) error {
	terms := s.deps.Search.Recent()
	if len(terms) == 0 {
		s.printf("No recent searches.\n")
		return nil
	}
	for i, t := range terms {
		s.printf("%d. %s\n", i+1, t)
	}
	return nil
}

func (s *Shell) add(_ context.Context, args []string) error {
	p, err := s.product(args)
	if err != nil {
		return err
	}
	if p.OutOfStock {
		return fmt.Errorf("%s is out of stock", p.Name)
	}

	qty := 1
	if len(args) > 1 {
		if qty, err = strconv.Atoi(args[1]); err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
	}
	s.deps.Cart.AddToCart(p, qty)
	s.printf("Added %s to the cart.\n", p.Name)
	return nil
}

func (s *Shell) quantity(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: qty <id> <n>")
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[1])
	}
	s.deps.Cart.UpdateQuantity(args[0], qty)
	return s.cart(ctx, nil)
}

func (s *Shell) remove(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: rm <id>")
	}
	entry, ok := s.entry(args[0])
	if !ok {
		return fmt.Errorf("product %q is not in the cart", args[0])
	}

	confirmed := s.confirm(fmt.Sprintf("Remove %s from the cart?", entry.Product.Name))
	if s.deps.Cart.RemoveItem(args[0], confirmed) {
		s.printf("Removed %s.\n", entry.Product.Name)
	}
	return nil
}

func (s *Shell) entry(id string) (domain.CartEntry, bool) {
	for _, e := range s.deps.Cart.Summary().Items {
		if domain.SameID(e.Product.ID, id) {
			return e, true
		}
	}
	return domain.CartEntry{}, false
}

func (s *Shell) clear(context.Context, []string) error {
	if s.deps.Cart.Summary().IsEmpty {
		s.printf("The cart is already empty.\n")
		return nil
	}
	if s.deps.Cart.Clear(s.confirm("Remove every product from the cart?")) {
		s.printf("Cart cleared.\n")
	}
	return nil
}

func (s *Shell) pay(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: pay <cash|card>")
	}
	if err := s.deps.Cart.SetPaymentMethod(domain.PaymentMethod(strings.ToLower(args[0]))); err != nil {
		return err
	}
	s.printf("Payment method: %s\n", s.deps.Cart.PaymentMethod().Label())
	return nil
}

func (s *Shell) cart(context.Context, []string) error {
	sum := s.deps.Cart.Summary()
	if sum.IsEmpty {
		s.printf("The cart is empty.\n")
		return nil
	}

	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for _, e := range sum.Items {
		fmt.Fprintf(w, "%s\t%s\tx%d\t%s\n",
			e.Product.ID, e.Product.Name, e.Quantity,
			domain.FormatPrice(e.Subtotal(), s.deps.Currency),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	s.printf("Items: %d (%d products)\n", sum.TotalItems, sum.UniqueProductCount)
	if sum.HasDiscounts {
		s.printf("Subtotal: %s\n", domain.FormatPrice(sum.OriginalTotal, s.deps.Currency))
		s.printf("Savings: -%s\n", domain.FormatPrice(sum.TotalSavings, s.deps.Currency))
	}
	s.printf("Total: %s\n", domain.FormatPrice(sum.TotalCost, s.deps.Currency))
	s.printf("Payment: %s\n", s.deps.Cart.PaymentMethod().Label())
	return nil
}

func (s *Shell) checkout(ctx context.Context, _ []string) error {
	flow, err := s.deps.Checkout.Begin()
	if err != nil {
		return err
	}

	if err := s.cart(ctx, nil); err != nil {
		return err
	}
	if !s.confirm(flow.Prompt(s.deps.Currency)) {
		_ = flow.ConfirmPurchase(false)
		s.printf("Purchase cancelled.\n")
		return nil
	}

	if err := flow.ConfirmPurchase(true); err != nil {
		return err
	}
	s.printf("Processing payment...\n")

	order, err := flow.Wait(ctx)
	if err != nil {
		return err
	}
	s.printf("Order %s completed. Total paid: %s\n",
		order.Number, domain.FormatPrice(order.TotalCost, s.deps.Currency),
	)
	return nil
}

func (s *Shell) refresh(ctx context.Context, _ []string) error {
	if err := s.deps.Catalog.Refetch(ctx); err != nil {
		return err
	}
	s.printf("Loaded %d products.\n", len(s.deps.Catalog.Products()))
	return nil
}

func (s *Shell) stats(context.Context, []string) error {
	st := s.deps.Catalog.Stats()
	s.printf("Products: %d (%d available, %d out of stock)\n", st.Total, st.Available, st.OutOfStock)
	s.printf("On offer: %d  Recommended: %d  Best sellers: %d  House specials: %d\n",
		st.OnOffer, st.Recommended, st.BestSellers, st.HouseSpecials)
	s.printf("Categories: %d  Subcategories: %d\n", st.Categories, st.Subcategories)
	s.printf("Average rating: %.1f  Average price: %s%.2f\n", st.AvgRating, s.deps.Currency, st.AvgPrice)

	if last := s.deps.Catalog.LastFetch(); last.IsZero() {
		s.printf("Last update: never\n")
	} else {
		s.printf("Last update: %s\n", last.Format(time.DateTime))
	}
	return nil
}

// userMessage turns known errors into text for the user.
func userMessage(err error) string {
	var fe *domain.FetchError
	switch {
	case errors.As(err, &fe):
		return "Could not load products: " + fe.Reason
	case errors.Is(err, domain.ErrEmptyCart):
		return "The cart is empty"
	case errors.Is(err, domain.ErrInvalidPaymentMethod):
		return "Unknown payment method, use cash or card"
	case errors.Is(err, domain.ErrInvalidCheckoutState):
		return "The purchase is already being processed"
	default:
		return err.Error()
	}
}
