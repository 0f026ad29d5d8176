// Package models holds the JSON shapes exchanged with the storefront
// backends: catalog products and brands, cart items, orders, users,
// reviews and the paged list envelope.
package models
