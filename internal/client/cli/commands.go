package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/watchstore/internal/client/client"
	"github.com/dmitrijs2005/watchstore/internal/client/models"
	"github.com/dmitrijs2005/watchstore/internal/common"
	"github.com/dmitrijs2005/watchstore/internal/timex"
)

// getSimpleText and getPassword are test seams.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

const pageSize = 10

func (a *App) commands() map[string]command {
	return map[string]command{
		"register": {usage: "register", guestOnly: true, run: a.Register},
		"login":    {usage: "login", guestOnly: true, run: a.Login},
		"logout":   {usage: "logout", auth: true, run: a.Logout},
		"whoami":   {usage: "whoami", auth: true, run: a.WhoAmI},

		"products": {usage: "products [search words]", run: a.Products},
		"brand":    {usage: "brand <name>", run: a.ProductsByBrand},
		"brands":   {usage: "brands", run: a.Brands},
		"product":  {usage: "product <id>", run: a.Product},
		"reviews":  {usage: "reviews <product id> [page]", run: a.Reviews},
		"review":   {usage: "review <product id>", auth: true, run: a.Review},

		"cart":   {usage: "cart", run: a.Cart},
		"add":    {usage: "add <product id> [qty]", run: a.Add},
		"update": {usage: "update <product id> <qty>", run: a.Update},
		"remove": {usage: "remove <product id>", run: a.Remove},
		"clear":  {usage: "clear", run: a.Clear},

		"checkout": {usage: "checkout", auth: true, run: a.Checkout},
		"orders":   {usage: "orders [page]", auth: true, run: a.Orders},
		"order":    {usage: "order <id>", auth: true, run: a.Order},
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// handleError reports a failed command. A 401 that survived the silent
// refresh means the session is gone: local credentials are dropped.
func (a *App) handleError(ctx context.Context, err error) {
	a.log.Debug(ctx, "command failed", "error", err)

	switch {
	case client.IsUnauthorized(err) && a.isLoggedIn(ctx):
		if ferr := a.sessions.ForceLogout(ctx); ferr != nil {
			a.log.Error(ctx, "dropping expired session", "error", ferr)
		}
		a.userName = ""
		a.printf("Your session has expired, please log in again.\n")
	case client.IsUnauthorized(err):
		a.printf("Not authorized.\n")
	case errors.Is(err, client.ErrUnavailable):
		a.printf("Service unavailable, try again later.\n")
	case errors.Is(err, common.ErrorNotFound):
		a.printf("Not found.\n")
	default:
		a.printf("Error: %v\n", err)
	}
}

/*************
 * session
 *************/

func (a *App) Register(ctx context.Context, _ []string) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	if _, err := a.sessions.Register(ctx, models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: string(password),
	}); err != nil {
		return err
	}
	a.printf("Account created, you can log in now.\n")
	return nil
}

func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	u, err := a.sessions.Login(ctx, email, string(password))
	if err != nil {
		if client.IsUnauthorized(err) {
			return errors.New("wrong email or password")
		}
		return err
	}
	a.userName = displayName(u)
	a.printf("Welcome, %s!\n", a.userName)
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.sessions.Logout(ctx); err != nil {
		return err
	}
	a.userName = ""
	a.printf("Signed out.\n")
	return nil
}

func (a *App) WhoAmI(ctx context.Context, _ []string) error {
	u, err := a.sessions.Me(ctx)
	if err != nil {
		return err
	}
	a.userName = displayName(u)
	a.printf("%s <%s>\n", a.userName, u.Email)
	if len(u.Roles) > 0 {
		a.printf("roles: %s\n", strings.Join(u.Roles, ", "))
	}
	return nil
}

/*************
 * catalog
 *************/

func (a *App) Products(ctx context.Context, args []string) error {
	return a.listProducts(ctx, models.ProductFilter{Size: pageSize, Query: strings.Join(args, " ")})
}

func (a *App) ProductsByBrand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: brand <name>")
	}
	return a.listProducts(ctx, models.ProductFilter{Size: pageSize, Brand: strings.Join(args, " ")})
}

func (a *App) listProducts(ctx context.Context, f models.ProductFilter) error {
	page, err := a.catalog.ListProducts(ctx, f)
	if err != nil {
		return err
	}
	if len(page.Content) == 0 {
		a.printf("No products found.\n")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBRAND\tNAME\tPRICE")
	for _, p := range page.Content {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Brand, p.Name, p.Price.StringFixed(2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	a.printf("%d of %d products\n", len(page.Content), page.TotalElements)
	return nil
}

func (a *App) Brands(ctx context.Context, _ []string) error {
	brands, err := a.catalog.ListBrands(ctx)
	if err != nil {
		return err
	}
	for _, b := range brands {
		if b.Country != "" {
			a.printf("%s (%s)\n", b.Name, b.Country)
		} else {
			a.printf("%s\n", b.Name)
		}
	}
	return nil
}

func (a *App) Product(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: product <id>")
	}
	p, err := a.catalog.GetProduct(ctx, args[0])
	if err != nil {
		return err
	}

	a.printf("%s %s\n", p.Brand, p.Name)
	a.printf("price: %s\n", p.Price.StringFixed(2))
	if p.Description != "" {
		a.printf("%s\n", p.Description)
	}
	a.printf("listed: %s\n", timex.FormatDate(p.CreatedAt))

	inv, err := a.inventory.Get(ctx, p.ID)
	if err != nil {
		a.log.Warn(ctx, "stock lookup failed", "product_id", p.ID, "error", err)
		a.printf("stock: %s\n", timex.NotAvailable)
		return nil
	}
	a.printf("stock: %d\n", inv.Available())
	return nil
}

func (a *App) Reviews(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: reviews <product id> [page]")
	}
	n, err := argInt(args, 1, 1)
	if err != nil {
		return err
	}
	page, err := a.reviews.ListByProduct(ctx, args[0], max(n-1, 0), pageSize)
	if err != nil {
		return err
	}
	if len(page.Content) == 0 {
		a.printf("No reviews yet.\n")
		return nil
	}
	for _, r := range page.Content {
		a.printf("%s  %s  %s\n", strings.Repeat("*", r.Rating), r.Username, timex.FormatDate(r.CreatedAt))
		if r.Comment != "" {
			a.printf("  %s\n", r.Comment)
		}
	}
	return nil
}

func (a *App) Review(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: review <product id>")
	}
	rating, err := getSimpleText(a.reader, "Rating (1-5)", a.out)
	if err != nil {
		return err
	}
	n, err := argInt([]string{rating}, 0, 0)
	if err != nil {
		return err
	}
	comment, err := GetMultiline(a.reader, "Comment", a.out)
	if err != nil {
		return err
	}
	if _, err := a.reviews.Create(ctx, models.CreateReviewRequest{ProductID: args[0], Rating: n, Comment: comment}); err != nil {
		return err
	}
	a.printf("Thanks for the review!\n")
	return nil
}

/*************
 * cart
 *************/

func (a *App) Cart(ctx context.Context, _ []string) error {
	a.printCart(a.cart.GetCart(ctx, a.isLoggedIn(ctx)))
	return nil
}

func (a *App) Add(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: add <product id> [qty]")
	}
	qty, err := argInt(args, 1, 1)
	if err != nil {
		return err
	}

	loggedIn := a.isLoggedIn(ctx)
	product := models.Product{ID: args[0]}
	if !loggedIn {
		// The guest cart keeps product details for offline display.
		if p, err := a.catalog.GetProduct(ctx, args[0]); err == nil {
			product = *p
		} else {
			a.log.Warn(ctx, "product details unavailable", "product_id", args[0], "error", err)
		}
	}

	items, err := a.cart.AddToCart(ctx, loggedIn, product, qty)
	if err != nil {
		return err
	}
	a.printCart(items)
	return nil
}

func (a *App) Update(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: update <product id> <qty>")
	}
	qty, err := argInt(args, 1, 0)
	if err != nil {
		return err
	}
	items, err := a.cart.UpdateCartItemQuantity(ctx, a.isLoggedIn(ctx), args[0], qty)
	if err != nil {
		return err
	}
	a.printCart(items)
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: remove <product id>")
	}
	items, err := a.cart.RemoveFromCart(ctx, a.isLoggedIn(ctx), args[0])
	if err != nil {
		return err
	}
	a.printCart(items)
	return nil
}

func (a *App) Clear(ctx context.Context, _ []string) error {
	if _, err := a.cart.ClearCart(ctx, a.isLoggedIn(ctx)); err != nil {
		return err
	}
	a.printf("Cart cleared.\n")
	return nil
}

func (a *App) printCart(items []models.CartItem) {
	if len(items) == 0 {
		a.printf("Your cart is empty.\n")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tNAME\tQTY\tSUBTOTAL")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", it.ProductID, it.Name, it.Quantity, it.Subtotal().StringFixed(2))
	}
	_ = tw.Flush()
	a.printf("total: %s\n", models.CartTotal(items).StringFixed(2))
}

/*************
 * orders
 *************/

func (a *App) Checkout(ctx context.Context, _ []string) error {
	var addr models.Address
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Full name", &addr.FullName},
		{"Phone", &addr.Phone},
		{"Street", &addr.Street},
		{"City", &addr.City},
		{"Postal code", &addr.PostalCode},
		{"Country", &addr.Country},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	payment, err := GetTextOrDefault(a.reader, "Payment method (COD, CARD, BANK_TRANSFER)", "COD", a.out)
	if err != nil {
		return err
	}

	o, err := a.orders.Checkout(ctx, models.CheckoutRequest{ShippingAddress: addr, PaymentMethod: strings.ToUpper(payment)})
	if err != nil {
		return err
	}
	a.printf("Order %s placed, total %s, status %s.\n", o.ID, o.TotalAmount.StringFixed(2), o.Status)
	return nil
}

func (a *App) Orders(ctx context.Context, args []string) error {
	n, err := argInt(args, 0, 1)
	if err != nil {
		return err
	}
	page, err := a.orders.ListOrders(ctx, max(n-1, 0), pageSize)
	if err != nil {
		return err
	}
	if len(page.Content) == 0 {
		a.printf("No orders yet.\n")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tSTATUS\tTOTAL")
	for _, o := range page.Content {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.ID, timex.FormatDateTime(o.CreatedAt), o.Status, o.TotalAmount.StringFixed(2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if !page.Last() {
		a.printf("more: orders %d\n", page.Page+2)
	}
	return nil
}

func (a *App) Order(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: order <id>")
	}
	o, err := a.orders.GetOrder(ctx, args[0])
	if err != nil {
		return err
	}

	a.printf("order %s  %s\n", o.ID, o.Status)
	a.printf("placed:  %s\n", timex.FormatDateTime(o.CreatedAt))
	a.printf("updated: %s\n", timex.FormatDateTime(o.UpdatedAt))
	for _, it := range o.Items {
		a.printf("  %d x %s  %s\n", it.Quantity, it.ProductName, it.Price.StringFixed(2))
	}
	a.printf("total: %s\n", o.TotalAmount.StringFixed(2))
	ad := o.ShippingAddress
	if ad.Street != "" {
		a.printf("ship to: %s, %s, %s %s, %s\n", ad.FullName, ad.Street, ad.City, ad.PostalCode, ad.Country)
	}
	return nil
}
