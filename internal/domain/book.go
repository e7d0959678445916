package domain

import "time"

type BookType struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Book struct {
	ID          string    `json:"id"`
	BookName    string    `json:"bookName"`
	Description string    `json:"description,omitempty"`
	MRP         float64   `json:"mrp"`
	Discount    float64   `json:"discount"`
	BookTypeID  string    `json:"bookTypeId"`
	TypeName    string    `json:"type,omitempty"`
	Count       int       `json:"count"`
	AuthorName  string    `json:"authorName,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
