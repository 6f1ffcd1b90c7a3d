package domain

import "time"

type OrderLine struct {
	SwagID   int `json:"swagId"`
	Quantity int `json:"quantity"`
}

type Delivery struct {
	Address     string `json:"deliveryAddress"`
	Date        string `json:"date"`
	PhoneNumber string `json:"phoneNumber"`
}

// OrderRecord is appended to a user's history on commit and never changed afterwards.
type OrderRecord struct {
	OrderID  string      `json:"orderId"`
	Items    []OrderLine `json:"items"`
	Delivery Delivery    `json:"delivery"`
	PlacedAt time.Time   `json:"placedAt"`
}
