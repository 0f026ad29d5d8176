package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"

	"github.com/dmitrijs2005/watchstore/internal/client/api"
	"github.com/dmitrijs2005/watchstore/internal/client/client"
	"github.com/dmitrijs2005/watchstore/internal/client/config"
	"github.com/dmitrijs2005/watchstore/internal/client/models"
	"github.com/dmitrijs2005/watchstore/internal/client/repositories/guestcart"
	"github.com/dmitrijs2005/watchstore/internal/client/repositories/kv"
	"github.com/dmitrijs2005/watchstore/internal/client/services"
	"github.com/dmitrijs2005/watchstore/internal/client/session"
	"github.com/dmitrijs2005/watchstore/internal/logging"
)

// Catalog is the read side of the catalog backend.
type Catalog interface {
	ListProducts(ctx context.Context, f models.ProductFilter) (*models.Page[models.Product], error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)
}

type Inventory interface {
	Get(ctx context.Context, productID string) (*models.Inventory, error)
}

type Reviews interface {
	ListByProduct(ctx context.Context, productID string, page, size int) (*models.Page[models.Review], error)
	Create(ctx context.Context, req models.CreateReviewRequest) (*models.Review, error)
}

type App struct {
	sessions  services.SessionService
	cart      services.CartService
	orders    services.OrderService
	catalog   Catalog
	inventory Inventory
	reviews   Reviews

	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer
	db     *sql.DB

	// userName is shown in the prompt; empty while signed out.
	userName string
}

// NewApp opens the local store and builds one HTTP client per backend. All
// clients share the session store and one Refresher, so a burst of 401s
// across backends costs a single refresh.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, cfg.DBPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", cfg.DBPath, "error", err)
		return nil, err
	}

	store := session.NewStore(db)
	refresher := client.NewRefresher()
	newClient := func(base string) *client.HTTPClient {
		return client.New(base, store, refresher,
			client.WithTimeout(cfg.RequestTimeout),
			client.WithLogger(log),
			client.WithRefreshURL(cfg.RefreshURL()),
		)
	}

	users := newClient(cfg.UsersURL)
	orders := newClient(cfg.OrdersURL)

	cartAPI := api.NewCartAPI(orders)
	guest := guestcart.NewKVRepository(kv.NewSQLiteRepository(db), log)
	cart := services.NewCartService(cartAPI, guest, log)

	return &App{
		sessions:  services.NewSessionService(api.NewAuthAPI(users), store, guest, cart, log),
		cart:      cart,
		orders:    services.NewOrderService(api.NewOrderAPI(orders), cartAPI, log),
		catalog:   api.NewCatalogAPI(newClient(cfg.CatalogURL)),
		inventory: api.NewInventoryAPI(newClient(cfg.InventoryURL)),
		reviews:   api.NewReviewAPI(newClient(cfg.ReviewsURL)),
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		db:        db,
	}, nil
}

// Run restores a saved session, then serves the prompt until exit or EOF.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.printf("Welcome to the watch store (type 'help' for commands)\n")
	if a.isLoggedIn(ctx) {
		if u, err := a.sessions.Me(ctx); err == nil {
			a.userName = displayName(u)
		} else {
			a.handleError(ctx, err)
		}
	}
	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.sessions.IsAuthenticated(ctx)
}

func (a *App) status(ctx context.Context) string {
	if !a.isLoggedIn(ctx) {
		return "guest"
	}
	if a.userName == "" {
		return "signed in"
	}
	return a.userName
}

func displayName(u *models.User) string {
	switch {
	case u == nil:
		return ""
	case u.FullName != "":
		return u.FullName
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}
