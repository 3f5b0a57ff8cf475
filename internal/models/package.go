package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CreditPackage is a purchasable credit bundle. Deleting a package does not
// touch past transactions; purchases snapshot name/credits/price.
type CreditPackage struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Price       float64        `db:"price" json:"price"`
	Credits     int64          `db:"credits" json:"credits"`
	Description string         `db:"description" json:"description"`
	Features    pq.StringArray `db:"features" json:"features"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}
