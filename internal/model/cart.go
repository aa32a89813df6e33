package model

// Cart is looked up by its client-generated code; it only gains a user
// once it is paid for by an authenticated customer.
type Cart struct {
	BaseModel
	CartCode string     `gorm:"size:100;uniqueIndex;not null" json:"cart_code"`
	UserID   *uint      `gorm:"index" json:"user_id,omitempty"`
	User     *User      `json:"-"`
	Paid     bool       `gorm:"default:false" json:"paid"`
	Items    []CartItem `gorm:"foreignKey:CartID" json:"items"`
}

func (Cart) TableName() string {
	return "carts"
}

type CartItem struct {
	BaseModel
	CartID    uint    `gorm:"index;not null" json:"cart_id"`
	ProductID uint    `gorm:"index;not null" json:"product_id"`
	Product   Product `json:"product"`
	Quantity  int     `gorm:"default:1" json:"quantity"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
