package sync

import (
	"time"

	"github.com/eberechi/shopsync-backend/internal/app/model"
)

// Wire payloads exchanged with the central server. Kept separate from the
// gorm models so the transport format can carry things the models hide
// (password hashes) and omit things the remote never sees (local ids,
// soft-delete columns).

type BusinessPayload struct {
	BusinessID string `json:"business_id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Location   string `json:"location"`
	Contact    string `json:"contact"`
	Email      string `json:"email"`
	Type       string `json:"type"`
	Active     *bool  `json:"active,omitempty"`
	Message    string `json:"message,omitempty"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Location string `json:"location"`
	Contact  string `json:"contact"`
	Email    string `json:"email"`
	Type     string `json:"type"`
}

type RegisterResponse struct {
	BusinessID string `json:"business_id"`
	Message    string `json:"message,omitempty"`
}

type UserPayload struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	Role         string `json:"role"`
	Active       bool   `json:"active"`
	CreatedAt    string `json:"created_at,omitempty"`
}

type InventoryItemPayload struct {
	ProductName    string  `json:"product_name"`
	Category       string  `json:"category"`
	PurchasePrice  float64 `json:"purchase_price"`
	SalePrice      float64 `json:"sale_price"`
	Stock          float64 `json:"stock"`
	BatchNumber    string  `json:"batch_number"`
	UnitsPerPack   int     `json:"units_per_pack"`
	UnitPrice      float64 `json:"unit_price"`
	ItemType       string  `json:"item_type"`
	ExpiryDate     string  `json:"expiry_date,omitempty"`
	FixedPrice     bool    `json:"fixed_price"`
	FixedSalePrice float64 `json:"fixed_sale_price"`
	Active         bool    `json:"active"`
	Barcode        *string `json:"barcode,omitempty"`
	MarkupPercent  float64 `json:"markup_percent"`
}

type SoldItemPayload struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	UnitType    string  `json:"unit_type"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

type SalesRecordPayload struct {
	ID              uint              `json:"id"`
	ReceiptNumber   string            `json:"receipt_number"`
	SoldAt          time.Time         `json:"sold_at"`
	CustomerPhone   *string           `json:"customer_phone,omitempty"`
	SalesPerson     string            `json:"sales_person"`
	GrandTotal      float64           `json:"grand_total"`
	PaymentMethod   string            `json:"payment_method"`
	ReferenceNumber *string           `json:"reference_number,omitempty"`
	Items           []SoldItemPayload `json:"items"`
}

type SalesPushRequest struct {
	BusinessID string               `json:"business_id"`
	Sales      []SalesRecordPayload `json:"sales"`
}

// SalesPushError reports one record the server could not accept. Code
// "duplicate" means the record already exists remotely and counts as
// delivered; "validation" means the record was rejected and stays unsynced.
type SalesPushError struct {
	ID            uint   `json:"id"`
	ReceiptNumber string `json:"receipt_number"`
	Code          string `json:"code"`
	Message       string `json:"message"`
}

const (
	PushErrorDuplicate  = "duplicate"
	PushErrorValidation = "validation"
)

type SalesPushResponse struct {
	Recorded int              `json:"recorded"`
	Errors   []SalesPushError `json:"errors,omitempty"`
}

// --- conversions ---

func userFromPayload(p UserPayload) model.User {
	return model.User{
		Username:     p.Username,
		PasswordHash: p.PasswordHash,
		Role:         model.UserRole(p.Role),
		Active:       p.Active,
	}
}

// UserToPayload serializes a user for the sync API. Only the hash travels,
// never a plaintext password.
func UserToPayload(u model.User) UserPayload {
	return UserPayload{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Active:       u.Active,
		CreatedAt:    u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func itemFromPayload(p InventoryItemPayload) model.InventoryItem {
	return model.InventoryItem{
		ProductName:    p.ProductName,
		Category:       p.Category,
		PurchasePrice:  p.PurchasePrice,
		SalePrice:      p.SalePrice,
		Stock:          p.Stock,
		BatchNumber:    p.BatchNumber,
		UnitsPerPack:   p.UnitsPerPack,
		UnitPrice:      p.UnitPrice,
		ItemType:       model.ItemType(p.ItemType),
		ExpiryDate:     parseExpiry(p.ExpiryDate),
		FixedPrice:     p.FixedPrice,
		FixedSalePrice: p.FixedSalePrice,
		Active:         p.Active,
		Barcode:        p.Barcode,
		MarkupPercent:  p.MarkupPercent,
	}
}

// ItemToPayload serializes an inventory item for the sync API.
func ItemToPayload(it model.InventoryItem) InventoryItemPayload {
	p := InventoryItemPayload{
		ProductName:    it.ProductName,
		Category:       it.Category,
		PurchasePrice:  it.PurchasePrice,
		SalePrice:      it.SalePrice,
		Stock:          it.Stock,
		BatchNumber:    it.BatchNumber,
		UnitsPerPack:   it.UnitsPerPack,
		UnitPrice:      it.UnitPrice,
		ItemType:       string(it.ItemType),
		FixedPrice:     it.FixedPrice,
		FixedSalePrice: it.FixedSalePrice,
		Active:         it.Active,
		Barcode:        it.Barcode,
		MarkupPercent:  it.MarkupPercent,
	}
	if it.ExpiryDate != nil {
		p.ExpiryDate = it.ExpiryDate.UTC().Format("2006-01-02")
	}
	return p
}

// SaleToPayload serializes a sales record, preserving line order.
func SaleToPayload(s model.SalesRecord) SalesRecordPayload {
	items := make([]SoldItemPayload, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SoldItemPayload{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitType:    it.UnitType,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	return SalesRecordPayload{
		ID:              s.ID,
		ReceiptNumber:   s.ReceiptNumber,
		SoldAt:          s.SoldAt,
		CustomerPhone:   s.CustomerPhone,
		SalesPerson:     s.SalesPerson,
		GrandTotal:      s.GrandTotal,
		PaymentMethod:   s.PaymentMethod,
		ReferenceNumber: s.ReferenceNumber,
		Items:           items,
	}
}

// parseExpiry is deliberately forgiving: a missing or unparsable expiry
// becomes nil rather than failing the whole pull.
func parseExpiry(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
