package model

type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
	TxExpired   TransactionStatus = "expired"
)

type Transaction struct {
	BaseModel
	Ref      string            `gorm:"size:100;uniqueIndex;not null" json:"ref"`
	CartID   uint              `gorm:"index;not null" json:"cart_id"`
	Cart     Cart              `json:"-"`
	UserID   *uint             `gorm:"index" json:"user_id,omitempty"`
	User     *User             `json:"-"`
	Amount   float64           `gorm:"not null" json:"amount"`
	Currency string            `gorm:"size:10;not null" json:"currency"`
	Status   TransactionStatus `gorm:"type:enum('pending','completed','failed','expired');default:'pending'" json:"status"`
}

func (Transaction) TableName() string {
	return "transactions"
}
