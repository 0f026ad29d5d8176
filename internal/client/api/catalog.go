package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/watchstore/internal/client/client"
	"github.com/dmitrijs2005/watchstore/internal/client/models"
)

type CatalogAPI struct {
	c client.Client
}

func NewCatalogAPI(c client.Client) *CatalogAPI {
	return &CatalogAPI{c: c}
}

func (a *CatalogAPI) ListProducts(ctx context.Context, f models.ProductFilter) (*models.Page[models.Product], error) {
	var out models.Page[models.Product]
	p, err := a.c.Get(ctx, "/products", productQuery(f), &out)
	if err := check(p, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *CatalogAPI) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var out models.Product
	p, err := a.c.Get(ctx, "/products/"+url.PathEscape(id), nil, &out)
	if err := check(p, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *CatalogAPI) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var out []models.Brand
	p, err := a.c.Get(ctx, "/brands", nil, &out)
	if err := check(p, err); err != nil {
		return nil, err
	}
	return out, nil
}

func productQuery(f models.ProductFilter) url.Values {
	q := pageQuery(f.Page, f.Size)
	if f.Brand != "" {
		q.Set("brand", f.Brand)
	}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.MinPrice.Valid {
		q.Set("minPrice", f.MinPrice.Decimal.String())
	}
	if f.MaxPrice.Valid {
		q.Set("maxPrice", f.MaxPrice.Decimal.String())
	}
	if f.Sort != "" {
		q.Set("sort", f.Sort)
	}
	return q
}

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}
	return q
}
