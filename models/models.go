package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// --- Custom JSON Type for database/sql ---

// JSONB allows storing JSON data in a PostgreSQL jsonb column.
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, &j)
}

// --- Auth ---

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse mirrors the upstream login payload; only the nested access
// token is consumed.
type LoginResponse struct {
	Token struct {
		AccessToken string `json:"accessToken"`
	} `json:"token"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// --- Core Models ---

// RemoteImage is an uploaded asset as the backend reports it.
type RemoteImage struct {
	SecureURL string `json:"secure_url"`
}

// Category groups products. ProductNum is computed by the backend and is never
// written by this client; it moves as a side effect of product mutations.
type Category struct {
	ID         string      `json:"_id"`
	Name       string      `json:"name"`
	Logo       RemoteImage `json:"logo"`
	ProductNum int         `json:"productNum"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// CategoryRef is the embedded category reference carried on a product.
type CategoryRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Product is a catalog entry. The pricing fields are a tagged union keyed on
// OnSale: a flat Price when false, OriginalPrice/FinalPrice/DiscountPercent
// when true. pricing.Normalize enforces that shape before any write.
type Product struct {
	ID              string      `json:"_id"`
	EnglishName     string      `json:"productEnglishName"`
	ArabicName      string      `json:"productArabicName,omitempty"`
	CompanyName     string      `json:"companyName,omitempty"`
	Category        CategoryRef `json:"categoryId"`
	Image           RemoteImage `json:"image"`
	Stock           int         `json:"stock"`
	OnSale          bool        `json:"onSale"`
	Price           float64     `json:"price,omitempty"`
	OriginalPrice   float64     `json:"originalPrice,omitempty"`
	FinalPrice      float64     `json:"finalPrice,omitempty"`
	DiscountPercent int         `json:"discountPercent,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// OrderProduct is a single line item on an order.
type OrderProduct struct {
	Name       string  `json:"name"`
	ProductID  string  `json:"productId"`
	UnitPrice  float64 `json:"unitPrice"`
	Quantity   int     `json:"quantity"`
	FinalPrice float64 `json:"finalPrice"`
}

// Order is created by the storefront and only ever status-mutated here.
type Order struct {
	ID            string         `json:"_id"`
	OrderID       string         `json:"orderId"`
	ShippingName  string         `json:"shippingName"`
	Phone         string         `json:"phone"`
	Address       string         `json:"address"`
	Note          string         `json:"note,omitempty"`
	Products      []OrderProduct `json:"products"`
	FinalPrice    float64        `json:"finalPrice"`
	Status        OrderStatus    `json:"status"`
	PaymentMethod string         `json:"paymentMethod"`
	UserRating    *int           `json:"userRating,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// StatusCount is one row of the backend's per-status order aggregate.
type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int         `json:"count"`
}

// CategoryCompany lists the company names seen under one category.
type CategoryCompany struct {
	CategoryName string   `json:"categoryName"`
	Companies    []string `json:"companies"`
}

// --- Reports ---

// MonthlyReport aggregates one calendar month of closed orders.
type MonthlyReport struct {
	Month       string              `json:"month"` // YYYY-MM
	GeneratedAt time.Time           `json:"generatedAt"`
	Counts      map[OrderStatus]int `json:"counts"`
	Revenue     float64             `json:"revenue"` // delivered orders only
	Orders      []Order             `json:"orders"`
	AiSummary   string              `json:"aiSummary,omitempty"`
}
