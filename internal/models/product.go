package models

// UnknownTag remplace la catégorie quand elle est absente.
const UnknownTag = "unknown"

// Product est un document dénormalisé de la collection products (variante hybride).
type Product struct {
	ProductID         string       `json:"product_id" bson:"product_id"`
	CategoryName      *string      `json:"product_category_name" bson:"product_category_name"`
	NameLength        *int64       `json:"product_name_length" bson:"product_name_length"`
	DescriptionLength *int64       `json:"product_description_length" bson:"product_description_length"`
	PhotosQty         *int64       `json:"product_photos_qty" bson:"product_photos_qty"`
	WeightG           *float64     `json:"product_weight_g" bson:"product_weight_g"`
	LengthCM          *float64     `json:"product_length_cm" bson:"product_length_cm"`
	HeightCM          *float64     `json:"product_height_cm" bson:"product_height_cm"`
	WidthCM           *float64     `json:"product_width_cm" bson:"product_width_cm"`
	Specs             ProductSpecs `json:"specs" bson:"specs"`
	Tags              []string     `json:"tags" bson:"tags"`
}

type ProductSpecs struct {
	WeightG    *float64   `json:"weight_g" bson:"weight_g"`
	Dimensions Dimensions `json:"dimensions_cm" bson:"dimensions_cm"`
}

type Dimensions struct {
	Length *float64 `json:"length" bson:"length"`
	Height *float64 `json:"height" bson:"height"`
	Width  *float64 `json:"width" bson:"width"`
}

// Denormalize recopie poids et dimensions dans specs et calcule les tags.
func (p Product) Denormalize() Product {
	p.Specs = ProductSpecs{
		WeightG: p.WeightG,
		Dimensions: Dimensions{
			Length: p.LengthCM,
			Height: p.HeightCM,
			Width:  p.WidthCM,
		},
	}
	if p.CategoryName != nil && *p.CategoryName != "" {
		p.Tags = []string{*p.CategoryName}
	} else {
		p.Tags = []string{UnknownTag}
	}
	return p
}
