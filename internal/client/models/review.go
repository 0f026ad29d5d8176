package models

import "github.com/dmitrijs2005/watchstore/internal/timex"

type Review struct {
	ID        string         `json:"id"`
	ProductID string         `json:"productId"`
	UserID    string         `json:"userId,omitempty"`
	Username  string         `json:"username,omitempty"`
	Rating    int            `json:"rating"`
	Comment   string         `json:"comment,omitempty"`
	CreatedAt timex.DateLike `json:"createdAt"`
}

type CreateReviewRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Rating    int    `json:"rating" validate:"gte=1,lte=5"`
	Comment   string `json:"comment,omitempty" validate:"max=2000"`
}
