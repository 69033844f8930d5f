package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfillment state of an Order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

// orderFlow lists the statuses an order may move to from each status.
// Delivered and Cancelled are terminal.
var orderFlow = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderDelivered, OrderCancelled},
	OrderShipped:    {OrderDelivered, OrderCancelled},
}

// Terminal reports whether no further status change is possible.
func (s OrderStatus) Terminal() bool {
	return len(orderFlow[s]) == 0
}

// CanMoveTo reports whether an order in s may move to next. Only forward
// moves along the fulfillment flow, or a cancellation, are allowed.
func (s OrderStatus) CanMoveTo(next OrderStatus) bool {
	return slices.Contains(orderFlow[s], next)
}

// Order is a fulfillable order. Orders created from a design request carry
// its id in DesignID; the unique index guarantees at most one such order.
type Order struct {
	ID             string          `json:"id"              gorm:"type:char(36);primaryKey"`
	CustomerID     string          `json:"customer_id"     gorm:"type:varchar(64);not null;index:idx_order_customer"`
	Items          []OrderItem     `json:"items"           gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Amount         decimal.Decimal `json:"amount"          gorm:"type:varchar(32);not null"`
	AddressID      string          `json:"address_id"      gorm:"type:char(36);not null"`
	PaymentMethod  string          `json:"payment_method"  gorm:"type:varchar(64);not null"`
	PaymentStatus  PaymentStatus   `json:"payment_status"  gorm:"type:varchar(16);not null"`
	PaymentDetails string          `json:"payment_details,omitempty" gorm:"type:text"`
	Status         OrderStatus     `json:"status"          gorm:"type:varchar(16);not null"`
	DesignID       *string         `json:"design_id,omitempty" gorm:"type:char(36);uniqueIndex:ux_order_design"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName returns the database table name for Order.
func (Order) TableName() string { return "orders" }

// OrderItem is a single line of an Order.
type OrderItem struct {
	ID             string          `json:"id"               gorm:"type:char(36);primaryKey"`
	OrderID        string          `json:"order_id"         gorm:"type:char(36);not null;index"`
	Name           string          `json:"name"             gorm:"type:varchar(255);not null"`
	Quantity       int             `json:"quantity"         gorm:"not null"`
	Size           Size            `json:"size"             gorm:"type:varchar(8)"`
	Color          string          `json:"color,omitempty"  gorm:"type:varchar(64)"`
	Price          decimal.Decimal `json:"price"            gorm:"type:varchar(32);not null"`
	IsCustomDesign bool            `json:"is_custom_design" gorm:"not null;default:false"`
	DesignID       *string         `json:"design_id,omitempty" gorm:"type:char(36)"`
	DesignImage    string          `json:"design_image,omitempty" gorm:"type:text"`
}

// TableName returns the database table name for OrderItem.
func (OrderItem) TableName() string { return "order_items" }

// Address is a customer shipping address. Placeholder addresses are
// synthesized when a seller converts a design for a customer that has none.
type Address struct {
	ID            string    `json:"id"             gorm:"type:char(36);primaryKey"`
	CustomerID    string    `json:"customer_id"    gorm:"type:varchar(64);not null;index:idx_address_customer"`
	Name          string    `json:"name"           gorm:"type:varchar(128);not null"`
	Line1         string    `json:"line1"          gorm:"type:varchar(255);not null"`
	Line2         string    `json:"line2,omitempty" gorm:"type:varchar(255)"`
	City          string    `json:"city"           gorm:"type:varchar(128);not null"`
	State         string    `json:"state"          gorm:"type:varchar(128)"`
	PostalCode    string    `json:"postal_code"    gorm:"type:varchar(32)"`
	Country       string    `json:"country"        gorm:"type:varchar(64);not null"`
	Phone         string    `json:"phone,omitempty" gorm:"type:varchar(32)"`
	IsDefault     bool      `json:"is_default"     gorm:"not null;default:false"`
	IsPlaceholder bool      `json:"is_placeholder" gorm:"not null;default:false"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName returns the database table name for Address.
func (Address) TableName() string { return "addresses" }
