package handlers

import (
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/units"
)

type ProductResponse struct {
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	PackSize     int    `json:"packSize"`
	Stock        int    `json:"stock"`
	Boxes        int    `json:"boxes"`
	Pieces       int    `json:"pieces"`
	InitialStock *int   `json:"initialStock,omitempty"`
}

func toProductResponse(p models.Product) ProductResponse {
	sp := units.SplitPieces(p.Stock, p.PackSize)
	return ProductResponse{
		SKU:          p.SKU,
		Name:         p.Name,
		PackSize:     p.PackSize,
		Stock:        p.Stock,
		Boxes:        sp.Boxes,
		Pieces:       sp.Pieces,
		InitialStock: p.InitialStock,
	}
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

type TransactionsSearchResult struct {
	Data []models.Transaction `json:"data"`
	Meta Meta                 `json:"meta,omitempty"`
}

// TransactionRequest is a manual entry. Date is YYYY-MM-DD in the ledger
// time zone and defaults to today.
type TransactionRequest struct {
	Type     string `json:"type" validate:"required,oneof=import sale new"`
	SKU      string `json:"sku" validate:"required,max=64"`
	Name     string `json:"name" validate:"max=200"`
	Boxes    int    `json:"boxes" validate:"gte=0"`
	Pieces   int    `json:"pieces" validate:"gte=0"`
	PackSize int    `json:"packSize" validate:"gte=0"`
	Date     string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type TransactionResult struct {
	Product     ProductResponse     `json:"product"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
	Created     bool                `json:"created"`
}

type UndoResult struct {
	Reason    string `json:"reason"`
	Remaining int    `json:"remaining"`
}

type UserLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token string `json:"token"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin operator viewer"`
}
