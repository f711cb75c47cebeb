package models

// Order référence un Customer qui doit exister avant l'insertion.
type Order struct {
	OrderID               string   `json:"order_id" db:"order_id"`
	CustomerID            *string  `json:"customer_id" db:"customer_id"`
	Status                *string  `json:"order_status" db:"order_status"`
	PurchaseTimestamp     NullTime `json:"order_purchase_timestamp" db:"order_purchase_timestamp"`
	ApprovedAt            NullTime `json:"order_approved_at" db:"order_approved_at"`
	DeliveredCarrierDate  NullTime `json:"order_delivered_carrier_date" db:"order_delivered_carrier_date"`
	DeliveredCustomerDate NullTime `json:"order_delivered_customer_date" db:"order_delivered_customer_date"`
	EstimatedDeliveryDate NullTime `json:"order_estimated_delivery_date" db:"order_estimated_delivery_date"`
}

// OrderItem : l'identifiant est généré par la base (SERIAL), jamais lu depuis le CSV.
// ProductID n'est validé contre rien, même dans la variante relationnelle.
type OrderItem struct {
	OrderItemID       int32    `json:"order_item_id" db:"order_item_id"`
	OrderID           *string  `json:"order_id" db:"order_id"`
	ProductID         *string  `json:"product_id" db:"product_id"`
	SellerID          *string  `json:"seller_id" db:"seller_id"`
	ShippingLimitDate NullTime `json:"shipping_limit_date" db:"shipping_limit_date"`
	Price             Price    `json:"price" db:"price"`
	FreightValue      Price    `json:"freight_value" db:"freight_value"`
}
