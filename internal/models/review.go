package models

// Les avis sont stockés tels quels (une clé par colonne CSV) ; seules ces colonnes
// sont converties.
const (
	ReviewScoreColumn = "review_score"
)

var ReviewDateColumns = []string{"review_creation_date", "review_answer_timestamp"}
