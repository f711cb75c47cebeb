package models

// Customer correspond à une ligne de la table customers.
// Tous les champs hors clé primaire peuvent être absents dans la source.
type Customer struct {
	CustomerID       string  `json:"customer_id" db:"customer_id"`
	CustomerUniqueID *string `json:"customer_unique_id" db:"customer_unique_id"`
	ZipCodePrefix    *string `json:"customer_zip_code_prefix" db:"customer_zip_code_prefix"`
	City             *string `json:"customer_city" db:"customer_city"`
	State            *string `json:"customer_state" db:"customer_state"`
}
